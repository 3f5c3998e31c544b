// Package governance merges external policy-health and quality-evaluation
// signals into the final remediation decision. The checks run outside the
// engine; only their structured outcomes arrive here. All forcing goes
// through the restrictiveness lattice, so a degraded check can make the
// decision stricter but never looser.
package governance

import (
	"fmt"
	"strings"

	"github.com/EeswaraReddy/L1agent/internal/decision"
)

// engineStatusActive is the only policy-engine status considered healthy.
const engineStatusActive = "ACTIVE"

// PolicyHealth is the outcome of the external policy-engine check.
type PolicyHealth struct {
	OK           bool   `json:"ok"`
	EngineStatus string `json:"engine_status,omitempty"`
	Error        string `json:"error,omitempty"`
}

// EvaluationHealth is the outcome of the external quality-evaluation check.
type EvaluationHealth struct {
	OK       bool     `json:"ok"`
	MinScore *float64 `json:"min_score,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Config carries the enabled/strict flags and the quality floor. Supplied
// by configuration, never by the incident.
type Config struct {
	PolicyEnabled      bool    `json:"policy_enabled"`
	PolicyStrict       bool    `json:"policy_strict"`
	EvaluationEnabled  bool    `json:"evaluation_enabled"`
	EvaluationStrict   bool    `json:"evaluation_strict"`
	MinEvaluationScore float64 `json:"min_evaluation_score"`
}

// Enforce merges the governance contexts into the decision. Returns the
// possibly-raised decision and the reasons for every rule that fired, in
// firing order.
func Enforce(current decision.Decision, cfg Config, policy PolicyHealth, evaluation EvaluationHealth) (decision.Decision, []string) {
	var reasons []string

	if cfg.PolicyEnabled {
		switch {
		case !policy.OK:
			reasons = append(reasons, "policy health check unavailable")
			if cfg.PolicyStrict {
				current = decision.MoreRestrictive(decision.HumanReview, current)
				reasons = append(reasons, "policy strict mode enforced")
			}
		case strings.ToUpper(policy.EngineStatus) != engineStatusActive:
			status := policy.EngineStatus
			if status == "" {
				status = "UNKNOWN"
			}
			reasons = append(reasons, "policy engine status: "+status)
			if cfg.PolicyStrict {
				current = decision.MoreRestrictive(decision.HumanReview, current)
				reasons = append(reasons, "policy strict mode enforced")
			}
		}
	}

	if cfg.EvaluationEnabled {
		if !evaluation.OK {
			reasons = append(reasons, "quality evaluation unavailable")
			if cfg.EvaluationStrict {
				current = decision.MoreRestrictive(decision.HumanReview, current)
				reasons = append(reasons, "evaluation strict mode enforced")
			}
		} else if evaluation.MinScore != nil && *evaluation.MinScore < cfg.MinEvaluationScore {
			// A below-floor quality score is never advisory, strict
			// mode or not.
			current = decision.MoreRestrictive(decision.HumanReview, current)
			reasons = append(reasons, fmt.Sprintf(
				"evaluation score %.2f below threshold %.2f",
				*evaluation.MinScore, cfg.MinEvaluationScore))
		}
	}

	return current, reasons
}
