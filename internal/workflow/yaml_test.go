package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overlayYAML = `
workflows:
  - workflow_id: redshift_failure
    service: redshift
    intents: [redshift_failure]
    risk_tier: medium
    min_confidence: 0.6
    auto_retry_allowed: true
    investigation_steps:
      - tool: get_redshift_logs
        context_key: redshift
        evidence_key: redshift_logs
        query: redshift query logs
    action_steps:
      - tool: retry_redshift_query
        context_key: redshift_retry
        action_key: retry_redshift_query
    required_evidence_keys: [redshift_logs]
    required_action_keys: [retry_redshift_query]
  - workflow_id: kafka_failure
    service: kafka
    intents: [kafka_events_failed]
    risk_tier: high
    min_confidence: 0.8
    auto_retry_allowed: false
    investigation_steps:
      - tool: get_kafka_status
        context_key: kafka
        evidence_key: kafka_status
        query: kafka msk status
    required_evidence_keys: [kafka_status]
`

func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverlay(t *testing.T) {
	specs, err := LoadOverlay(writeOverlay(t, overlayYAML))
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "redshift_failure", specs[0].ID)
	assert.Equal(t, RiskTierMedium, specs[0].RiskTier)
	assert.Equal(t, 0.8, specs[1].MinConfidence)
}

func TestLoadOverlay_InvalidSpec(t *testing.T) {
	bad := `
workflows:
  - workflow_id: broken
    service: svc
    risk_tier: medium
    min_confidence: 0.5
    required_evidence_keys: [never_produced]
`
	_, err := LoadOverlay(writeOverlay(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never_produced")
}

func TestLoadOverlay_MissingFile(t *testing.T) {
	_, err := LoadOverlay(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWithOverlay_ReplaceKeepsPositionAppendExtends(t *testing.T) {
	specs, err := LoadOverlay(writeOverlay(t, overlayYAML))
	require.NoError(t, err)

	base := Builtin()
	merged, err := base.WithOverlay(specs)
	require.NoError(t, err)

	// Overridden kafka entry keeps its slot but carries the new threshold.
	kafka, ok := merged.Lookup("kafka_failure")
	require.True(t, ok)
	assert.Equal(t, 0.8, kafka.MinConfidence)

	all := merged.All()
	assert.Equal(t, "redshift_failure", all[len(all)-1].ID, "new entries append after builtin order")
	assert.Equal(t, base.Len()+1, merged.Len())

	// The base catalog is untouched.
	orig, _ := base.Lookup("kafka_failure")
	assert.Equal(t, 0.7, orig.MinConfidence)
}
