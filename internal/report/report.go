// Package report defines the root-cause-analysis report assembled for
// each triaged incident and its SQLite-backed store.
package report

import (
	"github.com/EeswaraReddy/L1agent/internal/policy"
)

// Report is the root-cause-analysis document for one incident.
type Report struct {
	ID           string           `json:"report_id"`
	IncidentID   string           `json:"incident_id"`
	Intent       string           `json:"intent"`
	Summary      string           `json:"summary"`
	RootCause    string           `json:"root_cause"`
	Evidence     map[string]any   `json:"evidence"`
	ActionsTaken []map[string]any `json:"actions_taken"`
	NextSteps    []string         `json:"next_steps"`
	Decision     *policy.Decision `json:"decision,omitempty"`
}
