package cmd

import (
	"fmt"
	"log"

	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/overview"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(courseCmd)
}

var courseCmd = &cobra.Command{
	Use:   "course <course-id> [parallel-tab-id]",
	Short: "Prints the submission table of a course, per parallel.",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := loadClient()
		if err != nil {
			log.Fatal(err)
		}

		table, err := overview.FetchCourse(cmd.Context(), client, args[0])
		if err != nil {
			log.Fatal(err)
		}

		parallels := table.Parallels()
		if len(args) == 2 {
			parallel, err := table.Parallel(args[1])
			if err != nil {
				log.Fatal(err)
			}
			parallels = []*overview.Parallel{parallel}
		}

		theme := themeForMode(colorMode)
		for _, parallel := range parallels {
			rendered, err := renderParallel(parallel, theme)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Println(rendered)
		}
	},
}
