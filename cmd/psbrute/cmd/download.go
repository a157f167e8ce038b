package cmd

import (
	"bytes"
	"fmt"
	"log"

	"github.com/jdupak/FEL-PSBrute/lib/archive"
	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/core"
	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/review"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(downloadCmd)
}

var downloadCmd = &cobra.Command{
	Use:   "download <upload-url> <dest-dir>",
	Short: "Downloads and extracts a submission archive.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := loadClient()
		if err != nil {
			log.Fatal(err)
		}

		archiveUrl, err := review.ArchiveUrl(args[0])
		if err != nil {
			log.Fatal(err)
		}

		body, err := client.Download(cmd.Context(), archiveUrl)
		if err != nil {
			log.Fatal(err)
		}

		err = archive.ExtractTgz(bytes.NewReader(body), args[1])
		if err != nil {
			log.Fatal(core.IOError{Op: "extract " + archiveUrl, Err: err})
		}
		fmt.Printf("extracted %s into %s\n", archiveUrl, args[1])
	},
}
