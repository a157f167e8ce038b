package cmd

import (
	"fmt"
	"os"

	"github.com/jdupak/FEL-PSBrute/lib/keyring"
	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/core"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "psbrute",
	Short: "psbrute automates grading chores on the BRUTE upload system.",
}

var colorMode string

func init() {
	rootCmd.PersistentFlags().StringVar(
		&colorMode, "color", "auto",
		"colorize output: auto, always or never",
	)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func baseUrl() string {
	if v, ok := os.LookupEnv("PSBRUTE_URL"); ok {
		return v
	}
	return core.PortalUrl
}

// loadClient wires the stored session cookie into a portal client. No
// retry or reprompt here, an expired session surfaces as the AuthError
// message telling the user to log in again.
func loadClient() (*core.Client, error) {
	store, err := keyring.DefaultStore()
	if err != nil {
		return nil, err
	}
	cred, err := store.Load()
	if err != nil {
		return nil, err
	}
	return core.NewClient(core.ClientOptions{
		BaseUrl:    baseUrl(),
		Credential: cred,
	})
}
