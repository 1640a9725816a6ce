package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/matches"
)

const summaryTimeLayout = "2006-01-02 15:04:05"

func writeSummary(w io.Writer, summary []matches.Match) error {
	if len(summary) == 0 {
		_, err := fmt.Fprintln(w, "No finished matches")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tHOME\tSCORE\tVISITOR\tTOTAL\tSTARTED")
	for i, m := range summary {
		fmt.Fprintf(tw, "%d\t%s\t%d - %d\t%s\t%d\t%s\n",
			i+1,
			m.HomeTeam.Name,
			m.Score.Home, m.Score.Visitor,
			m.VisitorTeam.Name,
			m.TotalScore(),
			m.StartTime.UTC().Format(summaryTimeLayout),
		)
	}
	return tw.Flush()
}

func writeSummaryJSON(w io.Writer, summary []matches.Match) error {
	if summary == nil {
		summary = []matches.Match{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
