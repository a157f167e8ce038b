package keyring

import (
	"os"
	"path/filepath"

	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/core"
)

// Store keeps the copied session cookie in a single-line file,
// `<cookieName>=<cookieValue>`.
type Store struct {
	Path string
}

// DefaultStore places the session file under the user config dir.
func DefaultStore() (Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Path: filepath.Join(configDir, "psbrute", "session")}, nil
}

func (s Store) Load() (core.Credential, error) {
	line, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return core.Credential{}, core.AuthError{
			Reason: "no session credential stored, run `psbrute login` first",
		}
	}
	if err != nil {
		return core.Credential{}, err
	}
	return core.ParseCredential(string(line))
}

func (s Store) Save(cred core.Credential) error {
	err := os.MkdirAll(filepath.Dir(s.Path), 0o700)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(cred.String()+"\n"), 0o600)
}
