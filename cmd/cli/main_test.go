package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"io"
	"os"
	"testing"

	u "github.com/gofrs/uuid/v5"
)

func Test_cliNav_TracksPath(t *testing.T) {
	t.Parallel()

	n := &cliNav{current: "/"}
	if n.Current() != "/" {
		t.Fatalf("initial path: %q", n.Current())
	}
	n.Navigate("/dashboard")
	if n.Current() != "/dashboard" {
		t.Fatalf("after navigate: %q", n.Current())
	}
}

func Test_toast_WritesToStdoutAndStderr(t *testing.T) {
	oldOut, oldErr := os.Stdout, os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout, os.Stderr = wOut, wErr
	defer func() { os.Stdout, os.Stderr = oldOut, oldErr }()

	toast{}.Success("готово")
	toast{}.Error("ошибка")
	_ = wOut.Close()
	_ = wErr.Close()

	out, _ := io.ReadAll(rOut)
	errOut, _ := io.ReadAll(rErr)
	if !bytes.Contains(out, []byte("готово")) {
		t.Fatalf("stdout missing success message: %s", out)
	}
	if !bytes.Contains(errOut, []byte("ошибка")) {
		t.Fatalf("stderr missing error message: %s", errOut)
	}
}

func Test_printJSON_WritesPretty(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	defer func() { os.Stdout = old }()

	printJSON(map[string]any{"a": 1})
	_ = w.Close()
	out, _ := io.ReadAll(r)

	var m map[string]any
	if json.Unmarshal(out, &m) != nil || m["a"] != float64(1) {
		t.Fatalf("printJSON produced invalid json: %s", string(out))
	}
	if !bytes.Contains(out, []byte("\n")) {
		t.Fatalf("printJSON should indent")
	}
}

func Test_flagProvided_ZeroCounts(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("climate", flag.ContinueOnError)
	temp := fs.Int("t", 0, "")
	if err := fs.Parse([]string{"-t", "0"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !flagProvided(fs, "t") {
		t.Fatalf("-t 0 must count as provided")
	}
	if *temp != 0 {
		t.Fatalf("parsed value: %d", *temp)
	}

	fs = flag.NewFlagSet("climate", flag.ContinueOnError)
	fs.Int("t", 0, "")
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if flagProvided(fs, "t") {
		t.Fatalf("unset flag reported as provided")
	}
}

func Test_parseID_Valid(t *testing.T) {
	t.Parallel()

	id := u.Must(u.NewV4())
	if got := parseID(id.String()); got != id {
		t.Fatalf("parseID round trip: %s != %s", got, id)
	}
}
