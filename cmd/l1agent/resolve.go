package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/EeswaraReddy/L1agent/internal/database"
	"github.com/EeswaraReddy/L1agent/internal/incident"
	"github.com/EeswaraReddy/L1agent/internal/orchestrator"
	"github.com/EeswaraReddy/L1agent/internal/report"
	"github.com/EeswaraReddy/L1agent/internal/schema"
	"github.com/EeswaraReddy/L1agent/internal/ticket"
	"github.com/EeswaraReddy/L1agent/internal/workflow"
)

var (
	resolveStore  bool
	resolveTicket string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [incident.json]",
	Short: "Triage an incident and print the decision outcome",
	Long: `Reads an incident document from the given file (or stdin when
omitted), runs the full triage pipeline, and prints the outcome as JSON.

The incident document carries incident_id, summary, details, and an
optional context object with per-service structured data.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveStore, "store", false, "Persist the RCA report to the report database")
	resolveCmd.Flags().StringVar(&resolveTicket, "ticket", "", "Ticket sys_id to update with the decision")
}

func readIncident(args []string) (incident.Incident, error) {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return incident.Incident{}, fmt.Errorf("read incident: %w", err)
	}

	var inc incident.Incident
	if err := json.Unmarshal(data, &inc); err != nil {
		return incident.Incident{}, fmt.Errorf("parse incident: %w", err)
	}
	return inc, nil
}

// buildCatalog returns the builtin catalog, merged with the configured
// overlay file when one is set.
func buildCatalog() (*workflow.Catalog, error) {
	catalog := workflow.Builtin()
	if cfg.Catalog.OverlayPath == "" {
		return catalog, nil
	}
	overlay, err := workflow.LoadOverlay(cfg.Catalog.OverlayPath)
	if err != nil {
		return nil, err
	}
	return catalog.WithOverlay(overlay)
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	inc, err := readIncident(args)
	if err != nil {
		return err
	}

	catalog, err := buildCatalog()
	if err != nil {
		return err
	}
	validator, err := schema.NewValidator()
	if err != nil {
		return err
	}

	engine := orchestrator.NewEngine(catalog, validator, cfg.Governance.EnforcerConfig()).
		WithLogger(slog.Default())

	outcome := engine.Handle(ctx, orchestrator.Input{Incident: inc})

	if resolveStore {
		if err := storeReport(cmd, outcome.Report); err != nil {
			return err
		}
	}
	if resolveTicket != "" {
		if err := updateTicket(cmd, outcome); err != nil {
			return err
		}
	}

	encoded, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

func storeReport(cmd *cobra.Command, rca report.Report) error {
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(cmd.Context()); err != nil {
		return err
	}
	if err := report.NewDBStore(db).Save(cmd.Context(), rca); err != nil {
		return err
	}
	cmd.PrintErrf("Stored report %s for incident %s\n", rca.ID, rca.IncidentID)
	return nil
}

func updateTicket(cmd *cobra.Command, outcome orchestrator.Outcome) error {
	if !cfg.Ticket.Enabled {
		return fmt.Errorf("ticket updates are disabled in configuration")
	}

	client := ticket.NewClient(cfg.Ticket.BaseURL, cfg.Ticket.Username, cfg.Ticket.Password)
	notes := ticket.TriageNotes(outcome.Policy, outcome.Workflow.WorkflowID)
	result, err := client.Update(cmd.Context(), resolveTicket, outcome.Policy.Decision, notes)
	if err != nil {
		return err
	}
	cmd.PrintErrf("Updated ticket %s to state %q\n", result.TicketSysID, result.State)
	return nil
}
