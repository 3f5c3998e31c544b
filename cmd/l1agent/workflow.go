package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/EeswaraReddy/L1agent/internal/workflow"
)

var workflowCmd = &cobra.Command{
	Use:   "workflow",
	Short: "Inspect the remediation workflow catalog",
}

var workflowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the workflows in resolution order",
	RunE:  runWorkflowList,
}

var workflowShowCmd = &cobra.Command{
	Use:   "show <workflow-id>",
	Short: "Show one workflow definition as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkflowShow,
}

func init() {
	workflowCmd.AddCommand(workflowListCmd)
	workflowCmd.AddCommand(workflowShowCmd)
}

// tierColor renders the risk tier with the severity palette used across
// the CLI.
func tierColor(tier workflow.RiskTier) string {
	switch tier {
	case workflow.RiskTierHigh:
		return color.RedString(string(tier))
	case workflow.RiskTierMedium:
		return color.YellowString(string(tier))
	default:
		return color.GreenString(string(tier))
	}
}

func runWorkflowList(cmd *cobra.Command, args []string) error {
	catalog, err := buildCatalog()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSERVICE\tRISK\tMIN CONF\tAUTO RETRY\tINTENTS")
	fmt.Fprintln(w, "--\t-------\t----\t--------\t----------\t-------")

	for _, spec := range catalog.All() {
		retry := "no"
		if spec.AutoRetryAllowed {
			retry = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%v\n",
			spec.ID,
			spec.Service,
			tierColor(spec.RiskTier),
			spec.MinConfidence,
			retry,
			spec.Intents,
		)
	}

	return w.Flush()
}

func runWorkflowShow(cmd *cobra.Command, args []string) error {
	catalog, err := buildCatalog()
	if err != nil {
		return err
	}

	spec, ok := catalog.Lookup(args[0])
	if !ok {
		return fmt.Errorf("workflow %q not found", args[0])
	}

	encoded, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
