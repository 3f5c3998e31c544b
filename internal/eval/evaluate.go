// Package eval measures how much of a resolved workflow's required
// evidence and actions were actually produced, and derives a bounded
// recommendation plus a hard-stop flag from coverage and confidence.
package eval

import (
	"fmt"
	"math"
	"strings"

	"github.com/EeswaraReddy/L1agent/internal/decision"
	"github.com/EeswaraReddy/L1agent/internal/incident"
	"github.com/EeswaraReddy/L1agent/internal/workflow"
)

// Result is the evaluator's verdict for one incident. Created once,
// consumed by the policy scorer, never mutated afterward.
type Result struct {
	WorkflowID          string            `json:"workflow_id"`
	Service             string            `json:"service"`
	RiskTier            workflow.RiskTier `json:"risk_tier"`
	Confidence          float64           `json:"intent_confidence"`
	EvidenceCoverage    float64           `json:"evidence_coverage"`
	ActionCoverage      float64           `json:"action_coverage"`
	HardStop            bool              `json:"hard_stop"`
	RecommendedDecision decision.Decision `json:"recommended_decision"`
	Issues              []string          `json:"issues"`
}

// hardStopConfidenceSlack is how far below the workflow's minimum
// confidence the classifier may land before evaluation becomes a hard stop.
const hardStopConfidenceSlack = 0.25

// Coverage returns the fraction of required keys present in actual.
// An empty required set is fully covered. Presence is keyed by name only;
// the value under a key is not inspected, even if it is an error payload.
func Coverage(required []string, actual map[string]bool) float64 {
	if len(required) == 0 {
		return 1.0
	}
	matched := 0
	for _, key := range required {
		if actual[key] {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}

// recommend derives the baseline recommendation from workflow risk and
// coverage. First match wins.
func recommend(tier workflow.RiskTier, autoRetryAllowed bool, evidenceCoverage, actionCoverage, confidence float64) decision.Decision {
	switch {
	case evidenceCoverage < 0.5:
		return decision.HumanReview
	case tier == workflow.RiskTierHigh && confidence < 0.8:
		return decision.Escalate
	case !autoRetryAllowed:
		return decision.Escalate
	case actionCoverage < 0.5:
		return decision.Escalate
	default:
		return decision.AutoRetry
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Evaluate compares the produced evidence and action keys against the
// workflow's required key sets and builds the evaluation result. Total:
// malformed or missing entries degrade coverage and add issues, they never
// abort evaluation.
//
// Issue ordering is deterministic: the required-key lists are walked in
// their declared order, never in map iteration order.
func Evaluate(
	inc incident.Incident,
	intent incident.IntentResult,
	evidence map[string]any,
	actions []map[string]any,
	wf workflow.Spec,
	validationErrors map[string][]string,
) Result {
	confidence := intent.Confidence

	evidenceKeys := make(map[string]bool, len(evidence))
	for key := range evidence {
		evidenceKeys[key] = true
	}
	actionKeys := make(map[string]bool)
	for _, action := range actions {
		for key := range action {
			actionKeys[key] = true
		}
	}

	evidenceCoverage := Coverage(wf.RequiredEvidenceKeys, evidenceKeys)
	actionCoverage := Coverage(wf.RequiredActionKeys, actionKeys)

	var issues []string
	if confidence < wf.MinConfidence {
		issues = append(issues, fmt.Sprintf(
			"intent confidence %.2f below workflow threshold %.2f", confidence, wf.MinConfidence))
	}
	for _, key := range wf.RequiredEvidenceKeys {
		if !evidenceKeys[key] {
			issues = append(issues, "missing required evidence: "+key)
		}
	}
	for _, key := range wf.RequiredActionKeys {
		if !actionKeys[key] {
			issues = append(issues, "missing required action: "+key)
		}
	}

	text := inc.Text()
	if wf.ID == "emr_spinup_failed" {
		emrCtx := inc.ContextMap("emr")
		if v, ok := emrCtx["cluster_id"]; !ok || v == nil || v == "" {
			issues = append(issues, "emr spin-up missing context.emr.cluster_id")
		}
	}

	accessDenied := strings.Contains(text, "access denied")
	if accessDenied && wf.AutoRetryAllowed {
		issues = append(issues, "access-denied pattern detected; avoid automatic retries")
	}

	hardStop := hasValidationErrors(validationErrors) || confidence < wf.MinConfidence-hardStopConfidenceSlack

	recommended := recommend(wf.RiskTier, wf.AutoRetryAllowed, evidenceCoverage, actionCoverage, confidence)
	if accessDenied {
		// An access-denied pattern in the incident text overrides every
		// other recommendation signal for this field.
		recommended = decision.Escalate
	}

	return Result{
		WorkflowID:          wf.ID,
		Service:             wf.Service,
		RiskTier:            wf.RiskTier,
		Confidence:          confidence,
		EvidenceCoverage:    round2(evidenceCoverage),
		ActionCoverage:      round2(actionCoverage),
		HardStop:            hardStop,
		RecommendedDecision: recommended,
		Issues:              issues,
	}
}

func hasValidationErrors(validationErrors map[string][]string) bool {
	for _, errs := range validationErrors {
		if len(errs) > 0 {
			return true
		}
	}
	return false
}
