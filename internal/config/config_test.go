package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EeswaraReddy/L1agent/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
database:
  path: /tmp/reports.db
catalog:
  overlay_path: /etc/l1agent/catalog.yaml
governance:
  policy_enabled: true
  policy_strict: true
  evaluation_enabled: true
  min_evaluation_score: 0.8
ticket:
  enabled: true
  base_url: https://example.service-now.com
  username: svc
  password: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/reports.db", cfg.Database.Path)
	assert.Equal(t, "/etc/l1agent/catalog.yaml", cfg.Catalog.OverlayPath)
	assert.True(t, cfg.Governance.PolicyEnabled)
	assert.True(t, cfg.Governance.PolicyStrict)
	assert.False(t, cfg.Governance.EvaluationStrict)
	assert.Equal(t, 0.8, cfg.Governance.MinEvaluationScore)
	assert.Equal(t, "https://example.service-now.com", cfg.Ticket.BaseURL)
}

func TestLoad_DefaultsFillGaps(t *testing.T) {
	path := writeConfig(t, `
governance:
  policy_enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "l1agent.db", cfg.Database.Path)
	assert.Equal(t, 0.7, cfg.Governance.MinEvaluationScore)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.CONFIG_LOAD_FAILED))
}

func TestLoadWithDefaults_NoFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithDefaults_EnvOverride(t *testing.T) {
	t.Setenv("L1AGENT_GOVERNANCE_POLICY_STRICT", "true")
	t.Setenv("L1AGENT_DATABASE_PATH", "/var/lib/l1agent/reports.db")

	cfg, err := LoadWithDefaults("")
	require.NoError(t, err)
	assert.True(t, cfg.Governance.PolicyStrict)
	assert.Equal(t, "/var/lib/l1agent/reports.db", cfg.Database.Path)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(cfg))

	cfg.Logging.Level = "loud"
	err := Validate(cfg)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.CONFIG_VALIDATION_FAILED))
}

func TestValidate_ScoreBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Governance.MinEvaluationScore = 1.5
	assert.Error(t, Validate(cfg))
}

func TestValidate_TicketRequiresBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ticket.Enabled = true
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestEnforcerConfig(t *testing.T) {
	g := GovernanceConfig{
		PolicyEnabled:      true,
		PolicyStrict:       true,
		EvaluationEnabled:  true,
		EvaluationStrict:   false,
		MinEvaluationScore: 0.65,
	}
	ec := g.EnforcerConfig()
	assert.True(t, ec.PolicyEnabled)
	assert.True(t, ec.PolicyStrict)
	assert.True(t, ec.EvaluationEnabled)
	assert.False(t, ec.EvaluationStrict)
	assert.Equal(t, 0.65, ec.MinEvaluationScore)
}
