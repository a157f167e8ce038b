package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/review"

	"github.com/spf13/cobra"
)

var (
	gradeScore    float64
	gradePenalty  float64
	gradeClear    bool
	gradeEvalFile string
	gradeNote     string
)

func init() {
	gradeCmd.Flags().Float64Var(&gradeScore, "score", 0, "manual score to record")
	gradeCmd.Flags().Float64Var(&gradePenalty, "penalty", 0, "signed score delta, negative for a deduction")
	gradeCmd.Flags().BoolVar(&gradeClear, "clear", false, "clear the manual score, rejecting the submission")
	gradeCmd.Flags().StringVar(&gradeEvalFile, "evaluation-file", "", "markdown file with the evaluation text")
	gradeCmd.Flags().StringVar(&gradeNote, "note", "", "grader note, not shown to the student")
	rootCmd.AddCommand(gradeCmd)
}

var gradeCmd = &cobra.Command{
	Use:   "grade <upload-url>",
	Short: "Records score, evaluation text and note for a submission.",
	Long: "Records score, evaluation text and note for a submission by " +
		"replaying its review form. The upload-url is the review page path, " +
		"`.../teacher/upload/<upload>/<submission>`. Untouched fields keep " +
		"their current values.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := loadClient()
		if err != nil {
			log.Fatal(err)
		}

		record, err := review.Scrape(cmd.Context(), client, args[0])
		if err != nil {
			log.Fatal(err)
		}

		if gradeClear {
			record.SetScore(nil, nil)
		} else if cmd.Flags().Changed("score") {
			var penalty *float64
			if cmd.Flags().Changed("penalty") {
				penalty = &gradePenalty
			}
			record.SetScore(&gradeScore, penalty)
		} else if cmd.Flags().Changed("penalty") {
			// keeps an already recorded manual score intact
			record.SetPenalty(gradePenalty)
		}

		if gradeEvalFile != "" {
			source, err := os.ReadFile(gradeEvalFile)
			if err != nil {
				log.Fatal(err)
			}
			record.SetEvaluation(string(source))
		}
		if cmd.Flags().Changed("note") {
			err := record.SetNote(gradeNote)
			if err != nil {
				log.Fatal(err)
			}
		}

		err = review.Submit(cmd.Context(), client, record)
		if err != nil {
			log.Fatal(err)
		}

		status := "rejected"
		if record.Accepted() {
			status = "accepted"
		}
		fmt.Printf(
			"recorded %s/%s for %s: score %q, %s\n",
			record.AssignmentId, record.SubmissionId, record.StudentId,
			record.Score, status,
		)
	},
}
