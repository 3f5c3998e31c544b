// Package policy converts confidence, evidence, and coverage signals into
// a numeric policy score and a final remediation decision, layering intent,
// workflow, evaluation, and service-pack overrides through the
// restrictiveness lattice. Every rule that fires appends a reason string;
// the trail is the audit record and is never reordered or deduplicated.
package policy

import (
	"fmt"

	"github.com/EeswaraReddy/L1agent/internal/decision"
	"github.com/EeswaraReddy/L1agent/internal/eval"
	"github.com/EeswaraReddy/L1agent/internal/workflow"
)

// Decision is the scorer's output for one incident.
type Decision struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Score      float64           `json:"policy_score"`
	Decision   decision.Decision `json:"decision"`
	Reasons    []string          `json:"reasons"`
}

// intentOverrides are fixed floors for intents that can never be handled
// below a given restrictiveness, regardless of score.
var intentOverrides = map[string]decision.Decision{
	"access_denied":       decision.Escalate,
	"kafka_events_failed": decision.HumanReview,
}

// primaryDiagnosticKeys are the evidence keys that carry job logs or query
// status and earn the diagnostic bonus.
var primaryDiagnosticKeys = []string{"emr_logs", "glue_logs", "airflow_logs", "athena_query"}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func baseline(score float64) decision.Decision {
	switch {
	case score >= 0.8:
		return decision.AutoClose
	case score >= 0.6:
		return decision.AutoRetry
	case score >= 0.4:
		return decision.Escalate
	default:
		return decision.HumanReview
	}
}

// Score computes the policy score and final decision for an incident.
// profile and evaluation are optional; when absent, the corresponding
// override layers are skipped. Total over its input domain.
func Score(
	intent string,
	evidence map[string]any,
	confidence float64,
	profile *workflow.Profile,
	evaluation *eval.Result,
) Decision {
	var reasons []string
	score := 0.0

	switch {
	case confidence >= 0.8:
		score += 0.35
		reasons = append(reasons, "high intent confidence")
	case confidence >= 0.6:
		score += 0.2
		reasons = append(reasons, "medium intent confidence")
	default:
		reasons = append(reasons, "low intent confidence")
	}

	if len(evidence) > 0 {
		score += 0.25
		reasons = append(reasons, "evidence collected")
	}

	if status := sourceCheckStatus(evidence); status == "zero_data" || status == "missing_data" {
		score += 0.2
		reasons = append(reasons, "source data status: "+status)
	}

	for _, key := range primaryDiagnosticKeys {
		if _, ok := evidence[key]; ok {
			score += 0.1
			reasons = append(reasons, "diagnostic logs available")
			break
		}
	}

	if evaluation != nil {
		score += 0.15*evaluation.EvidenceCoverage + 0.1*evaluation.ActionCoverage
		reasons = append(reasons, fmt.Sprintf(
			"workflow coverage: evidence %.2f, actions %.2f",
			evaluation.EvidenceCoverage, evaluation.ActionCoverage))
	}

	score = clamp01(score)
	current := baseline(score)

	if override, ok := intentOverrides[intent]; ok {
		current = decision.MoreRestrictive(current, override)
		reasons = append(reasons, "policy override for intent: "+intent)
	}

	if profile != nil {
		// Tier adjustments tune the reported score only; the baseline
		// decision derived above stays fixed.
		switch profile.RiskTier {
		case workflow.RiskTierHigh:
			score = clamp01(score - 0.1)
			reasons = append(reasons, "high risk tier penalty applied")
		case workflow.RiskTierLow:
			score = clamp01(score + 0.05)
			reasons = append(reasons, "low risk tier bonus applied")
		}
		if !profile.AutoRetryAllowed && current == decision.AutoRetry {
			current = decision.Escalate
			reasons = append(reasons, "workflow disallows automatic retry")
		}
	}

	if evaluation != nil {
		if evaluation.HardStop {
			current = decision.HumanReview
			reasons = append(reasons, "evaluation hard stop: human review required")
		} else if evaluation.RecommendedDecision.IsValid() {
			current = decision.MoreRestrictive(current, evaluation.RecommendedDecision)
			reasons = append(reasons, "evaluation recommends: "+evaluation.RecommendedDecision.String())
		}
	}

	if profile != nil {
		packDecision, packReasons := EnforceServicePolicy(current, confidence, evidence, *profile, evaluation)
		current = packDecision
		reasons = append(reasons, packReasons...)
	}

	return Decision{
		Intent:     intent,
		Confidence: confidence,
		Score:      score,
		Decision:   current,
		Reasons:    reasons,
	}
}

// sourceCheckStatus extracts the status field of a source-data-check
// evidence entry, if present.
func sourceCheckStatus(evidence map[string]any) string {
	check, ok := evidence["source_check"].(map[string]any)
	if !ok {
		return ""
	}
	status, _ := check["status"].(string)
	return status
}
