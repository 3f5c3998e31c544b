package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/EeswaraReddy/L1agent/internal/decision"
	"github.com/EeswaraReddy/L1agent/internal/eval"
	"github.com/EeswaraReddy/L1agent/internal/workflow"
)

// retryableQueryStates are the terminal query states for which an
// automatic re-execution is safe.
var retryableQueryStates = map[string]bool{
	"FAILED":    true,
	"CANCELLED": true,
	"TIMEOUT":   true,
	"EXPIRED":   true,
}

// EnforceServicePolicy applies the per-service override rules on top of
// the decision computed so far. Rules only move the decision upward in
// restrictiveness, never downward.
func EnforceServicePolicy(
	current decision.Decision,
	confidence float64,
	evidence map[string]any,
	profile workflow.Profile,
	evaluation *eval.Result,
) (decision.Decision, []string) {
	var reasons []string

	evidenceCoverage, actionCoverage := 0.0, 0.0
	var issues []string
	if evaluation != nil {
		evidenceCoverage = evaluation.EvidenceCoverage
		actionCoverage = evaluation.ActionCoverage
		for _, issue := range evaluation.Issues {
			issues = append(issues, strings.ToLower(issue))
		}
	}

	switch profile.Service {
	case workflow.ServiceKafka:
		current = decision.MoreRestrictive(decision.HumanReview, current)
		reasons = append(reasons, "kafka policy: always require human review for data-loss safety")

	case workflow.ServiceEMR:
		if profile.WorkflowID == "emr_spinup_failed" {
			current = decision.MoreRestrictive(decision.Escalate, current)
			reasons = append(reasons, "emr spin-up policy: require escalation before remediation")
			if confidence < 0.85 || evidenceCoverage < 1.0 || actionCoverage < 1.0 {
				current = decision.MoreRestrictive(decision.HumanReview, current)
				reasons = append(reasons, "emr spin-up policy: confidence/coverage gate failed")
			}
		}
		for _, issue := range issues {
			if strings.Contains(issue, "cluster_id") {
				current = decision.MoreRestrictive(decision.HumanReview, current)
				reasons = append(reasons, "emr policy: cluster identifier required")
				break
			}
		}

	case workflow.ServiceGlue:
		accessDenied := profile.WorkflowID == "glue_access_denied"
		if !accessDenied {
			for _, issue := range issues {
				if strings.Contains(issue, "access denied") || strings.Contains(issue, "access-denied") {
					accessDenied = true
					break
				}
			}
		}
		if !accessDenied {
			accessDenied = containsAccessDenied(evidence["glue_logs"])
		}
		if accessDenied {
			current = decision.MoreRestrictive(decision.Escalate, current)
			reasons = append(reasons, "glue policy: access-denied incidents cannot auto-retry")
		}
		if current == decision.AutoClose {
			current = decision.AutoRetry
			reasons = append(reasons, "glue policy: disable auto-close for etl failures")
		}

	case workflow.ServiceAirflow:
		if evidenceCoverage < 1.0 || actionCoverage < 1.0 {
			current = decision.MoreRestrictive(decision.Escalate, current)
			reasons = append(reasons, "mwaa policy: require full log and retry coverage")
		}
		if confidence < 0.7 {
			current = decision.MoreRestrictive(decision.HumanReview, current)
			reasons = append(reasons, "mwaa policy: low confidence requires human review")
		}

	case workflow.ServiceAthena:
		status := extractStatus(evidence["athena_query"])
		if (current == decision.AutoRetry || current == decision.AutoClose) && status != "" && !retryableQueryStates[status] {
			current = decision.MoreRestrictive(decision.HumanReview, current)
			reasons = append(reasons, fmt.Sprintf("athena policy: non-retryable query state %s", status))
		}
		if (current == decision.AutoRetry || current == decision.AutoClose) && actionCoverage < 1.0 {
			current = decision.MoreRestrictive(decision.Escalate, current)
			reasons = append(reasons, "athena policy: retry path incomplete")
		}
	}

	return current, reasons
}

// extractStatus finds the first status-like field in a nested evidence
// value. Search order is bounded and documented: at each map level the
// keys status, state, query_state are checked first, then nested map
// values are visited in sorted key order. Non-map values yield "".
func extractStatus(value any) string {
	m, ok := value.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"status", "state", "query_state"} {
		if v, present := m[key]; present && v != nil {
			return strings.ToUpper(fmt.Sprint(v))
		}
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if status := extractStatus(m[key]); status != "" {
			return status
		}
	}
	return ""
}

// containsAccessDenied scans a nested evidence value for access-denied
// phrasing in any string leaf.
func containsAccessDenied(value any) bool {
	switch v := value.(type) {
	case map[string]any:
		for _, nested := range v {
			if containsAccessDenied(nested) {
				return true
			}
		}
	case []any:
		for _, nested := range v {
			if containsAccessDenied(nested) {
				return true
			}
		}
	case string:
		text := strings.ToLower(v)
		return strings.Contains(text, "access denied") ||
			strings.Contains(text, "not authorized") ||
			strings.Contains(text, "permission")
	}
	return false
}
