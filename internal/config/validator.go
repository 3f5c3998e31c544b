package config

import (
	"fmt"

	"github.com/EeswaraReddy/L1agent/internal/types"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

// Validate checks the configuration for internally consistent values.
func Validate(cfg *Config) error {
	if !validLogLevels[cfg.Logging.Level] {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("invalid logging level %q", cfg.Logging.Level))
	}
	if !validLogFormats[cfg.Logging.Format] {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("invalid logging format %q", cfg.Logging.Format))
	}
	if cfg.Governance.MinEvaluationScore < 0 || cfg.Governance.MinEvaluationScore > 1 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("governance min_evaluation_score %v outside [0,1]", cfg.Governance.MinEvaluationScore))
	}
	if cfg.Ticket.Enabled && cfg.Ticket.BaseURL == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			"ticket.base_url is required when ticket updates are enabled")
	}
	return nil
}
