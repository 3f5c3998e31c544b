package eval

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EeswaraReddy/L1agent/internal/decision"
	"github.com/EeswaraReddy/L1agent/internal/incident"
	"github.com/EeswaraReddy/L1agent/internal/workflow"
)

func mustLookup(t *testing.T, id string) workflow.Spec {
	t.Helper()
	spec, ok := workflow.Builtin().Lookup(id)
	require.True(t, ok, "workflow %s", id)
	return spec
}

func TestCoverage_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		actual   map[string]bool
		want     float64
	}{
		{"empty required", nil, map[string]bool{"a": true}, 1.0},
		{"full", []string{"a", "b"}, map[string]bool{"a": true, "b": true}, 1.0},
		{"half", []string{"a", "b"}, map[string]bool{"a": true}, 0.5},
		{"none", []string{"a", "b"}, nil, 0.0},
		{"extra keys ignored", []string{"a"}, map[string]bool{"a": true, "z": true}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coverage(tt.required, tt.actual)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestEvaluate_FullCoverageRecommendsAutoRetry(t *testing.T) {
	wf := mustLookup(t, "emr_failure")
	result := Evaluate(
		incident.Incident{ID: "i-1", Summary: "EMR step failed"},
		incident.IntentResult{Intent: "emr_failure", Confidence: 0.9},
		map[string]any{"emr_logs": map[string]any{"lines": 120}},
		[]map[string]any{{"retry_emr": map[string]any{"status": "submitted"}}},
		wf,
		nil,
	)

	assert.Equal(t, 1.0, result.EvidenceCoverage)
	assert.Equal(t, 1.0, result.ActionCoverage)
	assert.False(t, result.HardStop)
	assert.Equal(t, decision.AutoRetry, result.RecommendedDecision)
	assert.Empty(t, result.Issues)
}

func TestEvaluate_LowEvidenceCoverageRecommendsHumanReview(t *testing.T) {
	wf := mustLookup(t, "emr_failure")
	result := Evaluate(
		incident.Incident{ID: "i-1", Summary: "EMR step failed"},
		incident.IntentResult{Intent: "emr_failure", Confidence: 0.9},
		nil,
		nil,
		wf,
		nil,
	)

	assert.Equal(t, 0.0, result.EvidenceCoverage)
	assert.Equal(t, decision.HumanReview, result.RecommendedDecision)
	assert.Contains(t, result.Issues, "missing required evidence: emr_logs")
	assert.Contains(t, result.Issues, "missing required action: retry_emr")
}

func TestEvaluate_HighRiskLowConfidenceEscalates(t *testing.T) {
	wf := mustLookup(t, "emr_spinup_failed")
	result := Evaluate(
		incident.Incident{
			ID:      "i-1",
			Summary: "cluster bootstrap failed",
			Context: map[string]any{"emr": map[string]any{"cluster_id": "j-ABC123"}},
		},
		incident.IntentResult{Intent: "emr_failure", Confidence: 0.75},
		map[string]any{"emr_logs": map[string]any{}},
		[]map[string]any{{"retry_emr": map[string]any{}}},
		wf,
		nil,
	)

	assert.Equal(t, decision.Escalate, result.RecommendedDecision)
}

func TestEvaluate_AutoRetryDisallowedEscalates(t *testing.T) {
	wf := mustLookup(t, "kafka_failure")
	result := Evaluate(
		incident.Incident{ID: "i-1", Summary: "kafka consumer down"},
		incident.IntentResult{Intent: "kafka_events_failed", Confidence: 0.95},
		map[string]any{"kafka_status": map[string]any{"state": "DEGRADED"}},
		nil,
		wf,
		nil,
	)

	assert.Equal(t, decision.Escalate, result.RecommendedDecision)
}

func TestEvaluate_LowActionCoverageEscalates(t *testing.T) {
	wf := mustLookup(t, "emr_failure")
	result := Evaluate(
		incident.Incident{ID: "i-1", Summary: "EMR step failed"},
		incident.IntentResult{Intent: "emr_failure", Confidence: 0.9},
		map[string]any{"emr_logs": map[string]any{}},
		nil,
		wf,
		nil,
	)

	assert.Equal(t, decision.Escalate, result.RecommendedDecision)
}

func TestEvaluate_ConfidenceBelowThresholdIssue(t *testing.T) {
	wf := mustLookup(t, "emr_failure")
	result := Evaluate(
		incident.Incident{ID: "i-1", Summary: "EMR step failed"},
		incident.IntentResult{Intent: "emr_failure", Confidence: 0.5},
		map[string]any{"emr_logs": map[string]any{}},
		[]map[string]any{{"retry_emr": map[string]any{}}},
		wf,
		nil,
	)

	assert.Contains(t, result.Issues, "intent confidence 0.50 below workflow threshold 0.60")
	assert.False(t, result.HardStop, "0.10 below threshold is within the hard-stop slack")
}

func TestEvaluate_HardStopOnConfidenceGap(t *testing.T) {
	// Scenario: confidence 0.3 against a 0.6 threshold, gap 0.3 > 0.25.
	wf := mustLookup(t, "emr_failure")
	result := Evaluate(
		incident.Incident{ID: "i-1", Summary: "EMR step failed"},
		incident.IntentResult{Intent: "emr_failure", Confidence: 0.3},
		map[string]any{"emr_logs": map[string]any{}},
		[]map[string]any{{"retry_emr": map[string]any{}}},
		wf,
		nil,
	)

	assert.True(t, result.HardStop)
}

func TestEvaluate_HardStopOnValidationErrors(t *testing.T) {
	wf := mustLookup(t, "emr_failure")
	result := Evaluate(
		incident.Incident{ID: "i-1", Summary: "EMR step failed"},
		incident.IntentResult{Intent: "emr_failure", Confidence: 0.9},
		map[string]any{"emr_logs": map[string]any{}},
		[]map[string]any{{"retry_emr": map[string]any{}}},
		wf,
		map[string][]string{"intent": {"confidence is required"}},
	)

	assert.True(t, result.HardStop)
}

func TestEvaluate_EmptyValidationListsAreNotErrors(t *testing.T) {
	wf := mustLookup(t, "emr_failure")
	result := Evaluate(
		incident.Incident{ID: "i-1", Summary: "EMR step failed"},
		incident.IntentResult{Intent: "emr_failure", Confidence: 0.9},
		map[string]any{"emr_logs": map[string]any{}},
		[]map[string]any{{"retry_emr": map[string]any{}}},
		wf,
		map[string][]string{"intent": {}, "investigation": nil},
	)

	assert.False(t, result.HardStop)
}

func TestEvaluate_SpinupMissingClusterID(t *testing.T) {
	wf := mustLookup(t, "emr_spinup_failed")
	result := Evaluate(
		incident.Incident{ID: "i-1", Summary: "cluster bootstrap failed"},
		incident.IntentResult{Intent: "emr_failure", Confidence: 0.9},
		map[string]any{"emr_logs": map[string]any{}},
		[]map[string]any{{"retry_emr": map[string]any{}}},
		wf,
		nil,
	)

	found := false
	for _, issue := range result.Issues {
		if issue == "emr spin-up missing context.emr.cluster_id" {
			found = true
		}
	}
	assert.True(t, found, "issues: %v", result.Issues)
}

func TestEvaluate_AccessDeniedTextForcesEscalate(t *testing.T) {
	wf := mustLookup(t, "emr_failure")
	result := Evaluate(
		incident.Incident{ID: "i-1", Summary: "EMR step failed: Access Denied on s3 path"},
		incident.IntentResult{Intent: "emr_failure", Confidence: 0.95},
		map[string]any{"emr_logs": map[string]any{}},
		[]map[string]any{{"retry_emr": map[string]any{}}},
		wf,
		nil,
	)

	assert.Equal(t, decision.Escalate, result.RecommendedDecision)
	assert.Contains(t, result.Issues, "access-denied pattern detected; avoid automatic retries")
}

func TestEvaluate_AccessDeniedOverridesHumanReviewRecommendation(t *testing.T) {
	// Even with zero evidence coverage, which alone would recommend
	// human_review, the access-denied pattern pins the field to escalate.
	wf := mustLookup(t, "emr_failure")
	result := Evaluate(
		incident.Incident{ID: "i-1", Summary: "access denied reading logs"},
		incident.IntentResult{Intent: "emr_failure", Confidence: 0.9},
		nil,
		nil,
		wf,
		nil,
	)

	assert.Equal(t, decision.Escalate, result.RecommendedDecision)
}

func TestEvaluate_ErrorPayloadStillCountsAsCoverage(t *testing.T) {
	// Presence is keyed by name only; an error payload under a required
	// key satisfies the requirement.
	wf := mustLookup(t, "emr_failure")
	result := Evaluate(
		incident.Incident{ID: "i-1", Summary: "EMR step failed"},
		incident.IntentResult{Intent: "emr_failure", Confidence: 0.9},
		map[string]any{"emr_logs": map[string]any{"error": "timeout fetching logs"}},
		[]map[string]any{{"retry_emr": map[string]any{}}},
		wf,
		nil,
	)

	assert.Equal(t, 1.0, result.EvidenceCoverage)
}

func TestEvaluate_CoverageRounding(t *testing.T) {
	wf := workflow.Spec{
		ID:            "three_keys",
		Service:       "svc",
		RiskTier:      workflow.RiskTierLow,
		MinConfidence: 0.5,
		InvestigationSteps: []workflow.InvestigationStep{
			{Tool: "t", EvidenceKey: "a"},
			{Tool: "t", EvidenceKey: "b"},
			{Tool: "t", EvidenceKey: "c"},
		},
		RequiredEvidenceKeys: []string{"a", "b", "c"},
	}
	result := Evaluate(
		incident.Incident{ID: "i-1", Summary: "x"},
		incident.IntentResult{Confidence: 0.9},
		map[string]any{"a": 1},
		nil,
		wf,
		nil,
	)

	assert.Equal(t, 0.33, result.EvidenceCoverage)
}

func TestEvaluate_IssueOrderIsDeterministic(t *testing.T) {
	wf := workflow.Spec{
		ID:            "ordered",
		Service:       "svc",
		RiskTier:      workflow.RiskTierLow,
		MinConfidence: 0.5,
		InvestigationSteps: []workflow.InvestigationStep{
			{Tool: "t", EvidenceKey: "first"},
			{Tool: "t", EvidenceKey: "second"},
		},
		ActionSteps: []workflow.ActionStep{
			{Tool: "t", ActionKey: "third"},
		},
		RequiredEvidenceKeys: []string{"first", "second"},
		RequiredActionKeys:   []string{"third"},
	}

	for i := 0; i < 20; i++ {
		result := Evaluate(
			incident.Incident{ID: fmt.Sprintf("i-%d", i), Summary: "x"},
			incident.IntentResult{Confidence: 0.9},
			nil,
			nil,
			wf,
			nil,
		)
		require.Equal(t, []string{
			"missing required evidence: first",
			"missing required evidence: second",
			"missing required action: third",
		}, result.Issues)
	}
}
