// Package config loads the agent configuration: logging, the report
// database, the workflow catalog overlay, governance flags, and the
// ticket-system endpoint. Governance thresholds are configuration, never
// incident data.
package config

import (
	"github.com/EeswaraReddy/L1agent/internal/governance"
)

// Config is the root configuration for the triage agent.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Catalog    CatalogConfig    `mapstructure:"catalog" yaml:"catalog"`
	Governance GovernanceConfig `mapstructure:"governance" yaml:"governance"`
	Ticket     TicketConfig     `mapstructure:"ticket" yaml:"ticket"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DatabaseConfig contains the report store configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// CatalogConfig points at an optional workflow catalog overlay file.
type CatalogConfig struct {
	OverlayPath string `mapstructure:"overlay_path" yaml:"overlay_path"`
}

// GovernanceConfig carries the external-check flags and the quality floor.
type GovernanceConfig struct {
	PolicyEnabled      bool    `mapstructure:"policy_enabled" yaml:"policy_enabled"`
	PolicyStrict       bool    `mapstructure:"policy_strict" yaml:"policy_strict"`
	EvaluationEnabled  bool    `mapstructure:"evaluation_enabled" yaml:"evaluation_enabled"`
	EvaluationStrict   bool    `mapstructure:"evaluation_strict" yaml:"evaluation_strict"`
	MinEvaluationScore float64 `mapstructure:"min_evaluation_score" yaml:"min_evaluation_score"`
}

// EnforcerConfig converts the configuration into the governance
// enforcer's runtime form.
func (g GovernanceConfig) EnforcerConfig() governance.Config {
	return governance.Config{
		PolicyEnabled:      g.PolicyEnabled,
		PolicyStrict:       g.PolicyStrict,
		EvaluationEnabled:  g.EvaluationEnabled,
		EvaluationStrict:   g.EvaluationStrict,
		MinEvaluationScore: g.MinEvaluationScore,
	}
}

// TicketConfig contains the ticket-system endpoint.
type TicketConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
}
