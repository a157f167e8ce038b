package keyring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/core"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store := Store{Path: filepath.Join(t.TempDir(), "psbrute", "session")}
	cred := core.Credential{Name: "_shibsession_64", Value: "deadbeef"}

	require.NoError(t, store.Save(cred))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, cred, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	store := Store{Path: filepath.Join(t.TempDir(), "session")}
	_, err := store.Load()
	require.ErrorAs(t, err, &core.AuthError{})
}

func TestLoadMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(path, []byte("garbage\n"), 0o600))

	store := Store{Path: path}
	_, err := store.Load()
	require.ErrorAs(t, err, &core.AuthError{})
}
