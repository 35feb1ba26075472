// Command ak is a CLI client for the АвтоКонтроль service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	u "github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/client"
	"github.com/avtokontrol/avtokontrol/internal/model"
)

// ---- navigation / notifications ----

// cliNav tracks the virtual screen path the session provider and route
// guard reason about. The CLI has no real router, so redirects just move
// this marker.
type cliNav struct{ current string }

func (n *cliNav) Current() string      { return n.current }
func (n *cliNav) Navigate(path string) { n.current = path }

// toast prints notifications the way screens would show them.
type toast struct{}

func (toast) Success(msg string) { fmt.Println(msg) }
func (toast) Error(msg string)   { fmt.Fprintln(os.Stderr, msg) }

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func parseID(s string) u.UUID {
	id, err := u.FromString(s)
	if err != nil {
		fail(fmt.Errorf("bad id %q: %w", s, err))
	}
	return id
}

// flagProvided reports whether the flag was set on the command line, so
// zero and negative values stay usable as inputs.
func flagProvided(fs *flag.FlagSet, name string) bool {
	seen := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			seen = true
		}
	})
	return seen
}

func usage() {
	fmt.Fprintf(os.Stderr, `ak CLI
Usage:
  ak -addr http://HOST:PORT <cmd> [args]

Commands:
  version
  register   -email <email> -p <password> [-name <name>]
  login      -email <email> -p <password>          (saves session)
  logout
  dashboard                                        (fleet summary + alerts)
  vehicles
  vehicle    -id <uuid>
  add        -name <name> -model <model> -year <n> [-color -plate -location]
  rm         -id <uuid>
  control    -id <uuid> lock|engine|lights
  climate    -id <uuid> -t <celsius>
  trips      -id <uuid>
  map
  profile    [-name <name> -username <u> -avatar <url>]
  settings   [-theme light|dark|system] [-lang ru|en]
`)
	os.Exit(2)
}

// ---- session bootstrap ----

// restore performs the load-time session restore and returns the provider
// plus the route guard over it.
func restore(ctx context.Context, api *client.API, nav *cliNav) (*client.Provider, *client.Guard) {
	store := client.NewFileSessionStore("")
	p := client.NewProvider(api, store, nav)
	p.Restore(ctx)
	if sess := p.Session(); sess != nil {
		api.SetToken(sess.AccessToken)
	}
	return p, client.NewGuard(p)
}

// requireScreen resolves the path through the guard; a redirect to login
// means there is no session to act under.
func requireScreen(g *client.Guard, nav *cliNav, path string) {
	target, redirected := g.Resolve(path)
	nav.Navigate(target)
	if redirected {
		fail(errors.New("login required (ak login -email ... -p ...)"))
	}
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the HTTP API.
func main() {
	// global flags
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api := client.NewAPI(*addr)
	nav := &cliNav{current: "/"}

	switch cmd {

	case "version":
		fmt.Printf("ak %s (%s)\n", version, buildDate)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		name := fs.String("name", "", "display name")
		_ = fs.Parse(flag.Args()[1:])
		if *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -email and -p")
			os.Exit(1)
		}

		nav.Navigate(client.PathRegister)
		provider, _ := restore(ctx, api, nav)
		res, err := provider.SignUp(ctx, *email, *p, *name)
		if err != nil {
			fail(err)
		}
		fmt.Println(res.UserID)
		if res.Session == nil {
			fmt.Println("registered; run `ak login` to sign in")
		}

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(flag.Args()[1:])
		if *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -email and -p")
			os.Exit(1)
		}

		nav.Navigate(client.PathLogin)
		provider, _ := restore(ctx, api, nav)
		sess, err := provider.SignIn(ctx, *email, *p)
		if err != nil {
			fail(err)
		}
		fmt.Printf("ok (session until %s)\n", sess.ExpiresAt.Local().Format(time.RFC3339))

	case "logout":
		provider, _ := restore(ctx, api, nav)
		provider.SignOut(ctx)
		fmt.Println("ok")

	case "dashboard":
		_, guard := restore(ctx, api, nav)
		requireScreen(guard, nav, client.PathDashboard)

		screen := client.NewFleetScreen(api)
		defer screen.Unmount()
		vehicles, err := screen.Load(ctx)
		if err != nil {
			fail(err)
		}
		if len(vehicles) == 0 {
			fmt.Println("Нет автомобилей. Добавьте первый: ak add -name ... -model ... -year ...")
			return
		}
		for _, v := range vehicles {
			fmt.Printf("%-20s %-12s %s\n", v.Name, v.Status, v.LicensePlate)
		}
		for _, a := range client.MockAlerts(vehicles) {
			fmt.Printf("[%s] %s\n", a.Kind, a.Message)
		}

	case "vehicles":
		_, guard := restore(ctx, api, nav)
		requireScreen(guard, nav, "/vehicles")

		screen := client.NewFleetScreen(api)
		defer screen.Unmount()
		vehicles, err := screen.Load(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(vehicles)

	case "vehicle":
		fs := flag.NewFlagSet("vehicle", flag.ExitOnError)
		id := fs.String("id", "", "vehicle id (uuid)")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		_, guard := restore(ctx, api, nav)
		requireScreen(guard, nav, "/vehicles/"+*id)

		v, err := api.Vehicle(ctx, parseID(*id))
		if err != nil {
			fail(err)
		}
		printJSON(v)

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		mdl := fs.String("model", "", "model")
		year := fs.Int("year", 0, "year")
		color := fs.String("color", "", "color")
		plate := fs.String("plate", "", "license plate")
		location := fs.String("location", "", "lat,lon")
		_ = fs.Parse(flag.Args()[1:])
		if *name == "" || *mdl == "" || *year == 0 {
			fmt.Fprintln(os.Stderr, "need -name -model -year")
			os.Exit(1)
		}

		_, guard := restore(ctx, api, nav)
		requireScreen(guard, nav, "/vehicles")

		created, err := api.AddVehicle(ctx, model.Vehicle{
			Name: *name, Model: *mdl, Year: *year,
			Color: *color, LicensePlate: *plate, Location: *location,
		})
		if err != nil {
			fail(err)
		}
		printJSON(created)

	case "rm":
		fs := flag.NewFlagSet("rm", flag.ExitOnError)
		id := fs.String("id", "", "vehicle id (uuid)")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		_, guard := restore(ctx, api, nav)
		requireScreen(guard, nav, "/vehicles")

		if err := api.RemoveVehicle(ctx, parseID(*id)); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "control":
		fs := flag.NewFlagSet("control", flag.ExitOnError)
		id := fs.String("id", "", "vehicle id (uuid)")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" || fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "need -id and an action: lock|engine|lights")
			os.Exit(1)
		}

		_, guard := restore(ctx, api, nav)
		requireScreen(guard, nav, "/control/"+*id)

		screen, err := client.OpenControlScreen(ctx, api, toast{}, parseID(*id))
		if err != nil {
			fail(err)
		}
		switch fs.Arg(0) {
		case "lock":
			screen.ToggleLock(ctx)
		case "engine":
			if _, err := screen.ToggleEngine(ctx); err != nil {
				screen.Flush()
				fail(err)
			}
		case "lights":
			screen.ToggleLights()
		default:
			fmt.Fprintln(os.Stderr, "unknown action (lock|engine|lights)")
			os.Exit(1)
		}
		screen.Flush()

	case "climate":
		fs := flag.NewFlagSet("climate", flag.ExitOnError)
		id := fs.String("id", "", "vehicle id (uuid)")
		temp := fs.Int("t", 0, "target temperature, °C")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" || !flagProvided(fs, "t") {
			fmt.Fprintln(os.Stderr, "need -id and -t")
			os.Exit(1)
		}

		_, guard := restore(ctx, api, nav)
		requireScreen(guard, nav, "/control/"+*id)

		screen, err := client.OpenControlScreen(ctx, api, toast{}, parseID(*id))
		if err != nil {
			fail(err)
		}
		st := screen.SetClimateTemperature(*temp)
		fmt.Printf("климат: %d°C\n", st.Climate.TemperatureC)
		screen.Flush()

	case "trips":
		fs := flag.NewFlagSet("trips", flag.ExitOnError)
		id := fs.String("id", "", "vehicle id (uuid)")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		_, guard := restore(ctx, api, nav)
		requireScreen(guard, nav, "/vehicles/"+*id)

		trips, err := api.Trips(ctx, parseID(*id))
		if err != nil {
			fail(err)
		}
		printJSON(trips)

	case "map":
		provider, guard := restore(ctx, api, nav)
		requireScreen(guard, nav, "/map")

		// A failed read surfaces as a toast and the map degrades to
		// mocked positions.
		screen := client.NewFleetScreen(api)
		defer screen.Unmount()
		sess := provider.Session()
		vehicles := screen.LoadOrFallback(ctx, sess.UserID, toast{})
		for _, v := range vehicles {
			loc := v.Location
			if loc == "" {
				loc = "—"
			}
			fmt.Printf("%-20s %s\n", v.Name, loc)
		}

	case "profile":
		fs := flag.NewFlagSet("profile", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		username := fs.String("username", "", "username")
		avatar := fs.String("avatar", "", "avatar URL")
		_ = fs.Parse(flag.Args()[1:])

		_, guard := restore(ctx, api, nav)
		requireScreen(guard, nav, "/profile")

		if *name == "" && *username == "" && *avatar == "" {
			prof, err := api.Profile(ctx)
			if err != nil {
				fail(err)
			}
			printJSON(prof)
			return
		}

		cur, err := api.Profile(ctx)
		if err != nil {
			fail(err)
		}
		if *name == "" {
			*name = cur.Name
		}
		if *username == "" {
			*username = cur.Username
		}
		if *avatar == "" {
			*avatar = cur.AvatarURL
		}
		prof, err := api.UpdateProfile(ctx, *name, *username, *avatar)
		if err != nil {
			fail(err)
		}
		printJSON(prof)

	case "settings":
		fs := flag.NewFlagSet("settings", flag.ExitOnError)
		theme := fs.String("theme", "", "theme: light|dark|system")
		lang := fs.String("lang", "", "language: ru|en")
		_ = fs.Parse(flag.Args()[1:])

		_, guard := restore(ctx, api, nav)
		requireScreen(guard, nav, "/settings")

		prefs := client.NewPrefsStore("")
		if *theme == "" && *lang == "" {
			t, l, err := api.Settings(ctx)
			if err != nil {
				fail(err)
			}
			printJSON(client.Prefs{Theme: t, Language: l})
			return
		}

		cur, curLang, err := api.Settings(ctx)
		if err != nil {
			fail(err)
		}
		if *theme == "" {
			*theme = cur
		}
		if *lang == "" {
			*lang = curLang
		}
		if err := api.UpdateSettings(ctx, *theme, *lang); err != nil {
			fail(err)
		}
		// Mirror into local prefs so the choice applies before the next
		// server round trip.
		if err := prefs.Save(client.Prefs{Theme: *theme, Language: *lang}); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	default:
		usage()
	}
}
