package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-tailor/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List or show persisted tailoring results",
	Long:  "Without arguments, list the newest persisted results. With an ID, print that result as JSON.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of results to list")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}

	if len(args) == 1 {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid result ID: %w", err)
		}
		rec, err := s.GetResult(cmd.Context(), id)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), rec)
	}

	records, err := s.ListResults(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	return printHistory(cmd, records)
}

func printHistory(cmd *cobra.Command, records []store.Record) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSTATUS\tBEFORE\tAFTER\tCHANGES")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.1f\t%d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Status,
			r.ATSScoreBefore, r.ATSScoreAfter, len(r.ChangeSummary))
	}
	return w.Flush()
}
