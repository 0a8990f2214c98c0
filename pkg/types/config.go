package types

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config holds the ambient settings of a lineage process: which logger to
// build and whether to collect metrics.
type Config struct {
	Environment string `json:"environment" yaml:"environment" mapstructure:"environment" validate:"required,oneof=development production"`
	LogLevel    string `json:"log_level" yaml:"log_level" mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Metrics     bool   `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// Supported environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Defaults applied by WithDefaults.
const (
	DefaultEnvironment = EnvDevelopment
	DefaultLogLevel    = "info"
)

// Config validation errors.
var (
	ErrEnvironmentEmpty   = errors.New("environment must not be empty")
	ErrEnvironmentUnknown = errors.New("unknown environment")
	ErrLogLevelEmpty      = errors.New("log level must not be empty")
	ErrLogLevelUnknown    = errors.New("unknown log level")
)

var validate = validator.New()

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c Config) WithDefaults() Config {
	if c.Environment == "" {
		c.Environment = DefaultEnvironment
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	return c
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	// Report the first offending field, in declaration order.
	fe := verrs[0]
	switch fe.Field() {
	case "Environment":
		if fe.Tag() == "required" {
			return ErrEnvironmentEmpty
		}
		return fmt.Errorf("%w %q", ErrEnvironmentUnknown, c.Environment)
	case "LogLevel":
		if fe.Tag() == "required" {
			return ErrLogLevelEmpty
		}
		return fmt.Errorf("%w %q", ErrLogLevelUnknown, c.LogLevel)
	}
	return err
}
