package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/EeswaraReddy/L1agent/internal/database"
	"github.com/EeswaraReddy/L1agent/internal/report"
)

var reportLimit int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect stored RCA reports",
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports, newest first",
	RunE:  runReportList,
}

var reportShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Show one report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportShow,
}

func init() {
	reportListCmd.Flags().IntVar(&reportLimit, "limit", 20, "Maximum number of reports to list")

	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
}

func openStore(cmd *cobra.Command) (*report.DBStore, func() error, error) {
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(cmd.Context()); err != nil {
		db.Close()
		return nil, nil, err
	}
	return report.NewDBStore(db), db.Close, nil
}

func runReportList(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	summaries, err := store.List(cmd.Context(), reportLimit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		cmd.Println("No reports found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REPORT\tINCIDENT\tINTENT\tDECISION\tSCORE\tCREATED")
	fmt.Fprintln(w, "------\t--------\t------\t--------\t-----\t-------")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
			s.ID,
			s.IncidentID,
			s.Intent,
			s.Decision,
			s.Score,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}

func runReportShow(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	rca, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(rca, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
