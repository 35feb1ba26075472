package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/model"
)

// ConfigDir resolves the per-user config directory, honoring XDG_CONFIG_HOME.
func ConfigDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "avtokontrol")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "avtokontrol")
}

// --- session store ---

type sessionFile struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FileSessionStore persists the session as a token file under the config dir.
type FileSessionStore struct{ dir string }

// NewFileSessionStore constructs a store rooted at dir (ConfigDir() by default).
func NewFileSessionStore(dir string) *FileSessionStore {
	if dir == "" {
		dir = ConfigDir()
	}
	return &FileSessionStore{dir: dir}
}

func (s *FileSessionStore) path() string { return filepath.Join(s.dir, "session.json") }

// Load reads the persisted session; a missing file is (nil, nil).
func (s *FileSessionStore) Load() (*model.Session, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var f sessionFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if f.AccessToken == "" {
		return nil, nil
	}
	sess := &model.Session{
		Email:       f.Email,
		AccessToken: f.AccessToken,
		IssuedAt:    f.IssuedAt,
		ExpiresAt:   f.ExpiresAt,
	}
	// UserID is revalidated against the server on restore; a stale or
	// malformed one here is not fatal.
	if id, err := uuid.FromString(f.UserID); err == nil {
		sess.UserID = id
	}
	return sess, nil
}

// Save writes the session with owner-only permissions.
func (s *FileSessionStore) Save(sess model.Session) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(sessionFile{
		UserID:      sess.UserID.String(),
		Email:       sess.Email,
		AccessToken: sess.AccessToken,
		IssuedAt:    sess.IssuedAt,
		ExpiresAt:   sess.ExpiresAt,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), b, 0o600)
}

// Clear removes the persisted session.
func (s *FileSessionStore) Clear() error {
	err := os.Remove(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// --- local preferences ---

// Prefs are the small string preferences kept on this machine only (the
// localStorage analogue): read once at startup, written on change.
type Prefs struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// PrefsStore persists Prefs as a JSON file under the config dir.
type PrefsStore struct{ dir string }

// NewPrefsStore constructs a store rooted at dir (ConfigDir() by default).
func NewPrefsStore(dir string) *PrefsStore {
	if dir == "" {
		dir = ConfigDir()
	}
	return &PrefsStore{dir: dir}
}

func (s *PrefsStore) path() string { return filepath.Join(s.dir, "prefs.json") }

// Load reads preferences, falling back to defaults on a missing file.
func (s *PrefsStore) Load() Prefs {
	p := Prefs{Theme: "system", Language: "ru"}
	b, err := os.ReadFile(s.path())
	if err != nil {
		return p
	}
	_ = json.Unmarshal(b, &p)
	return p
}

// Save writes preferences.
func (s *PrefsStore) Save(p Prefs) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), b, 0o600)
}
