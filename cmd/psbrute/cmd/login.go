package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jdupak/FEL-PSBrute/lib/keyring"
	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/core"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login [cookie]",
	Short: "Stores a session cookie copied from the browser, `name=value`.",
	Long: "Stores a session cookie copied from the browser as a single " +
		"`name=value` line. Copy the " + core.CookiePrefix + "... cookie from " +
		"the developer tools of a logged-in portal tab. With no argument the " +
		"cookie is read from stdin so it stays out of the shell history.",
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var line string
		if len(args) == 1 {
			line = args[0]
		} else {
			fmt.Print("paste session cookie: ")
			reader := bufio.NewReader(os.Stdin)
			input, err := reader.ReadString('\n')
			if err != nil {
				log.Fatal(err)
			}
			line = strings.TrimSpace(input)
		}

		cred, err := core.ParseCredential(line)
		if err != nil {
			log.Fatal(err)
		}

		store, err := keyring.DefaultStore()
		if err != nil {
			log.Fatal(err)
		}
		err = store.Save(cred)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("session cookie stored in %s\n", store.Path)
	},
}
