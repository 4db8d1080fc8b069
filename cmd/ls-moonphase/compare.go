package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-moonphase/internal/ephem"
	"github.com/litescript/ls-moonphase/internal/lunar"
	"github.com/litescript/ls-moonphase/internal/moon"
	"github.com/litescript/ls-moonphase/internal/ui"
)

var monthFlag string

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the resolver and the estimator for every day of a month",
	Long: `Prints one line per day: the date, the glyph from the ephemeris resolver,
the glyph from the local estimator and the estimator's lunation position.
Days where the two disagree by more than one phase are flagged.`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&monthFlag, "month", "", "month as YYYY-MM (default this month)")
}

func runCompare(cmd *cobra.Command, args []string) error {
	month, err := parseMonth(monthFlag, time.Now())
	if err != nil {
		return err
	}

	provider := ephem.New(cfg.EphemerisMode())
	rows := moon.CompareMonth(lunar.NewResolver(lunar.NewLocator(provider)), month)
	for _, row := range rows {
		if row.Err != nil {
			log.Warn("%s: %v", row.Date.Format(time.DateOnly), row.Err)
		}
	}

	out := cmd.OutOrStdout()
	if isTTY(out) {
		writeCompareTable(out, rows)
		return nil
	}
	writeCompare(out, rows)
	return nil
}

// writeCompare prints the plain "date resolved estimated position" lines.
func writeCompare(w io.Writer, rows []moon.Row) {
	for _, row := range rows {
		resolved := "?"
		if row.Resolvable() {
			resolved = row.Resolved.Glyph()
		}
		fmt.Fprintf(w, "%s %s %s %.3f\n", row.Date.Format("2006/01/02"), resolved, row.Estimated.Glyph(), row.Position)
	}
}

func writeCompareTable(w io.Writer, rows []moon.Row) {
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		resolved := "unresolved"
		if row.Resolvable() {
			resolved = row.Resolved.Glyph() + " " + row.Resolved.String()
		}
		flag := ""
		if !row.Agree() {
			flag = "!"
		}
		data = append(data, []string{
			row.Date.Format("Mon Jan 02"),
			resolved,
			row.Estimated.Glyph() + " " + row.Estimated.String(),
			ui.PositionBar(row.Position, 16) + fmt.Sprintf(" %.3f", row.Position),
			flag,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(ui.MutedStyle).
		Headers("DATE", "RESOLVER", "ESTIMATOR", "POSITION", "").
		Rows(data...)
	fmt.Fprintln(w, t)
}

// parseMonth reads a YYYY-MM flag in the local zone. Empty means the month
// containing now.
func parseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --month %q, want YYYY-MM", s)
	}
	return t, nil
}
