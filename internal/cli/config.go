package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/lineage/internal/paths"
	"github.com/mesh-intelligence/lineage/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// Config keys, matching the yaml tags of types.Config.
	cfgKeyEnvironment = "environment"
	cfgKeyLogLevel    = "log_level"
	cfgKeyMetrics     = "metrics"

	envPrefix = "LINEAGE"
)

// loadConfig reads config.yaml from configDir using Viper. A missing file is
// not an error; defaults apply. LINEAGE_ENVIRONMENT, LINEAGE_LOG_LEVEL, and
// LINEAGE_METRICS override file values.
func loadConfig(configDir string) (types.Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyEnvironment, types.DefaultEnvironment)
	v.SetDefault(cfgKeyLogLevel, types.DefaultLogLevel)
	v.SetDefault(cfgKeyMetrics, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read %s: %w", paths.ConfigFile(configDir), err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadResolvedConfig resolves the config directory and loads it.
func loadResolvedConfig() (types.Config, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return types.Config{}, sysError("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(dir)
	if err != nil {
		return types.Config{}, userError("%w", err)
	}
	return cfg, nil
}
