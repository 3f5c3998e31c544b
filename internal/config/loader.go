package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/EeswaraReddy/L1agent/internal/types"
)

// envPrefix namespaces the environment variable overrides, e.g.
// L1AGENT_GOVERNANCE_POLICY_STRICT overrides governance.policy_strict.
const envPrefix = "L1AGENT"

// Load reads configuration from the given YAML file. Environment
// variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "read config file", err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "unmarshal config", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithDefaults loads configuration from path if it exists, otherwise
// returns the defaults with environment overrides applied.
func LoadWithDefaults(path string) (*Config, error) {
	if path == "" {
		return fromEnv()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fromEnv()
	}
	return Load(path)
}

func fromEnv() (*Config, error) {
	v := viper.New()
	bindEnv(v)

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "unmarshal config", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so
	// declare the full key set explicitly.
	for _, key := range []string{
		"logging.level",
		"logging.format",
		"database.path",
		"catalog.overlay_path",
		"governance.policy_enabled",
		"governance.policy_strict",
		"governance.evaluation_enabled",
		"governance.evaluation_strict",
		"governance.min_evaluation_score",
		"ticket.enabled",
		"ticket.base_url",
		"ticket.username",
		"ticket.password",
	} {
		_ = v.BindEnv(key)
	}
}
