// Package incident defines the data model shared by the triage engine:
// the incident itself plus the structured results handed over by the
// classification, investigation, and action collaborators.
package incident

import "strings"

// Incident is one operational incident as received from the caller.
// Immutable for the duration of a single resolution.
type Incident struct {
	ID        string         `json:"incident_id"`
	Summary   string         `json:"summary"`
	Details   string         `json:"details,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

// Text returns the lowercased summary and details joined with a space.
// All keyword routing in the engine matches against this form.
func (in Incident) Text() string {
	return strings.ToLower(in.Summary + " " + in.Details)
}

// ContextMap returns the structured context value under key if it is a map.
func (in Incident) ContextMap(key string) map[string]any {
	if in.Context == nil {
		return nil
	}
	m, _ := in.Context[key].(map[string]any)
	return m
}

// IntentResult is the classified intent for an incident, produced by an
// external classifier and consumed read-only.
type IntentResult struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// InvestigationResult carries the evidence collected for an incident,
// keyed by the workflow's declared evidence keys.
type InvestigationResult struct {
	Intent   string         `json:"intent"`
	Evidence map[string]any `json:"evidence"`
}

// ActionResult carries the remediation actions attempted for an incident.
// Each action record is a single-key map from action key to tool output.
type ActionResult struct {
	Intent  string           `json:"intent"`
	Actions []map[string]any `json:"actions"`
	Status  string           `json:"status"`
}

// ActionStatus values reported by the action collaborator.
const (
	ActionStatusCompleted = "completed"
	ActionStatusBlocked   = "blocked"
	ActionStatusSkipped   = "skipped"
)
