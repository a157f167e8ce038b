package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jdupak/FEL-PSBrute/lib/scrapers/brute/overview"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Theme holds all presentation state, the scraped data model carries
// none. An empty theme renders plain text.
type Theme struct {
	Graded  text.Colors
	Pending text.Colors
	Missing text.Colors
}

func themeForMode(mode string) Theme {
	colorized := Theme{
		Graded:  text.Colors{text.FgGreen},
		Pending: text.Colors{text.FgYellow},
		Missing: text.Colors{text.FgHiBlack},
	}
	switch mode {
	case "always":
		return colorized
	case "never":
		return Theme{}
	default:
		if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
			return Theme{}
		}
		return colorized
	}
}

func formatCell(info overview.SubmissionInfo, theme Theme) string {
	if !info.Submitted {
		return theme.Missing.Sprint("—")
	}

	var parts []string
	if info.AEScore.Present {
		parts = append(parts, fmt.Sprintf("ae %g", info.AEScore.Value))
	}
	if info.ManualScore.Present {
		parts = append(parts, fmt.Sprintf("m %g", info.ManualScore.Value))
	}
	if info.Penalty.Present {
		parts = append(parts, fmt.Sprintf("p %g", info.Penalty.Value))
	}
	cell := strings.Join(parts, " ")

	if info.ManualScore.Present {
		return theme.Graded.Sprint(cell)
	}
	return theme.Pending.Sprint(cell)
}

// renderParallel lays one teaching group out as a student x assignment
// grid.
func renderParallel(parallel *overview.Parallel, theme Theme) (string, error) {
	students, err := parallel.Students()
	if err != nil {
		return "", err
	}
	assignments := parallel.Assignments()

	t := table.NewWriter()
	t.SetTitle(parallel.Label)

	header := table.Row{"Student"}
	for _, a := range assignments {
		header = append(header, a)
	}
	t.AppendHeader(header)

	for _, student := range students {
		row := table.Row{fmt.Sprintf("%s (%s)", student.Name, student.Username)}
		for _, assignment := range assignments {
			info, err := parallel.SubmissionInfo(student, assignment)
			if err != nil {
				return "", err
			}
			row = append(row, formatCell(info, theme))
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	return t.Render(), nil
}
