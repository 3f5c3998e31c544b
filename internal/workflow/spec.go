// Package workflow defines the static remediation workflow catalog and
// the resolver that maps a classified intent plus raw incident content to
// exactly one workflow definition.
package workflow

import "fmt"

// RiskTier classifies how dangerous automated remediation is for a workflow.
type RiskTier string

const (
	RiskTierLow    RiskTier = "low"
	RiskTierMedium RiskTier = "medium"
	RiskTierHigh   RiskTier = "high"
)

// IsValid checks whether the tier is a known value.
func (t RiskTier) IsValid() bool {
	switch t {
	case RiskTierLow, RiskTierMedium, RiskTierHigh:
		return true
	default:
		return false
	}
}

// InvestigationStep describes one evidence-gathering step of a workflow.
type InvestigationStep struct {
	Tool        string `json:"tool" yaml:"tool"`
	ContextKey  string `json:"context_key,omitempty" yaml:"context_key,omitempty"`
	EvidenceKey string `json:"evidence_key" yaml:"evidence_key"`
	Query       string `json:"query,omitempty" yaml:"query,omitempty"`
	Optional    bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// ActionStep describes one remediation step of a workflow.
type ActionStep struct {
	Tool       string `json:"tool" yaml:"tool"`
	ContextKey string `json:"context_key,omitempty" yaml:"context_key,omitempty"`
	ActionKey  string `json:"action_key" yaml:"action_key"`
	Optional   bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// Spec is one immutable workflow definition. Specs are declared at process
// start, looked up by ID, and never mutated at runtime.
type Spec struct {
	ID                   string              `json:"workflow_id" yaml:"workflow_id"`
	Service              string              `json:"service" yaml:"service"`
	Intents              []string            `json:"intents" yaml:"intents"`
	RiskTier             RiskTier            `json:"risk_tier" yaml:"risk_tier"`
	MinConfidence        float64             `json:"min_confidence" yaml:"min_confidence"`
	AutoRetryAllowed     bool                `json:"auto_retry_allowed" yaml:"auto_retry_allowed"`
	InvestigationSteps   []InvestigationStep `json:"investigation_steps,omitempty" yaml:"investigation_steps,omitempty"`
	ActionSteps          []ActionStep        `json:"action_steps,omitempty" yaml:"action_steps,omitempty"`
	RequiredEvidenceKeys []string            `json:"required_evidence_keys,omitempty" yaml:"required_evidence_keys,omitempty"`
	RequiredActionKeys   []string            `json:"required_action_keys,omitempty" yaml:"required_action_keys,omitempty"`
}

// Profile is the subset of a workflow spec the policy scorer consumes.
type Profile struct {
	WorkflowID           string   `json:"workflow_id"`
	Service              string   `json:"service"`
	RiskTier             RiskTier `json:"risk_tier"`
	MinConfidence        float64  `json:"min_confidence"`
	AutoRetryAllowed     bool     `json:"auto_retry_allowed"`
	RequiredEvidenceKeys []string `json:"required_evidence_keys"`
	RequiredActionKeys   []string `json:"required_action_keys"`
}

// Profile returns the scoring view of the spec. Key slices are copied so
// callers cannot alias catalog state.
func (s Spec) Profile() Profile {
	return Profile{
		WorkflowID:           s.ID,
		Service:              s.Service,
		RiskTier:             s.RiskTier,
		MinConfidence:        s.MinConfidence,
		AutoRetryAllowed:     s.AutoRetryAllowed,
		RequiredEvidenceKeys: append([]string(nil), s.RequiredEvidenceKeys...),
		RequiredActionKeys:   append([]string(nil), s.RequiredActionKeys...),
	}
}

// producibleEvidenceKeys returns the evidence keys the step list can emit.
func (s Spec) producibleEvidenceKeys() map[string]bool {
	keys := make(map[string]bool, len(s.InvestigationSteps))
	for _, step := range s.InvestigationSteps {
		keys[step.EvidenceKey] = true
	}
	return keys
}

// producibleActionKeys returns the action keys the step list can emit.
func (s Spec) producibleActionKeys() map[string]bool {
	keys := make(map[string]bool, len(s.ActionSteps))
	for _, step := range s.ActionSteps {
		keys[step.ActionKey] = true
	}
	return keys
}

// Validate checks the structural invariants of a spec: non-empty identity
// fields, a known risk tier, a sane confidence threshold, and required key
// sets that are subsets of what the step lists can actually produce.
func (s Spec) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("workflow spec missing workflow_id")
	}
	if s.Service == "" {
		return fmt.Errorf("workflow %s: missing service", s.ID)
	}
	if !s.RiskTier.IsValid() {
		return fmt.Errorf("workflow %s: invalid risk tier %q", s.ID, s.RiskTier)
	}
	if s.MinConfidence < 0 || s.MinConfidence > 1 {
		return fmt.Errorf("workflow %s: min_confidence %v outside [0,1]", s.ID, s.MinConfidence)
	}
	evidence := s.producibleEvidenceKeys()
	for _, key := range s.RequiredEvidenceKeys {
		if !evidence[key] {
			return fmt.Errorf("workflow %s: required evidence key %q not produced by any investigation step", s.ID, key)
		}
	}
	actions := s.producibleActionKeys()
	for _, key := range s.RequiredActionKeys {
		if !actions[key] {
			return fmt.Errorf("workflow %s: required action key %q not produced by any action step", s.ID, key)
		}
	}
	return nil
}
