package config

// DefaultConfig returns the configuration used when no config file is
// present.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Database: DatabaseConfig{
			Path: "l1agent.db",
		},
		Governance: GovernanceConfig{
			MinEvaluationScore: 0.7,
		},
	}
}
