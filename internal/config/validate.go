package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks field values the schema cannot express.
func Validate(cfg *Config) error {
	if _, err := parseTimeout("compiler_timeout", cfg.CompilerTimeout); err != nil {
		return err
	}
	if _, err := parseTimeout("filecheck_timeout", cfg.FileCheckTimeout); err != nil {
		return err
	}
	if !strings.HasPrefix(cfg.Suffix, ".") {
		return &ValidationError{Field: "suffix", Message: "must start with a dot"}
	}
	for i, m := range cfg.Markers {
		if strings.TrimSpace(m) == "" {
			return &ValidationError{Field: fmt.Sprintf("markers[%d]", i), Message: "must not be blank"}
		}
	}
	return nil
}

// CompilerTimeoutDuration returns the parsed compiler timeout.
func (c *Config) CompilerTimeoutDuration() time.Duration {
	d, _ := parseTimeout("compiler_timeout", c.CompilerTimeout)
	return d
}

// FileCheckTimeoutDuration returns the parsed FileCheck timeout.
func (c *Config) FileCheckTimeoutDuration() time.Duration {
	d, _ := parseTimeout("filecheck_timeout", c.FileCheckTimeout)
	return d
}

func parseTimeout(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, &ValidationError{Field: field, Message: fmt.Sprintf("invalid duration %q", value)}
	}
	if d <= 0 {
		return 0, &ValidationError{Field: field, Message: "must be positive"}
	}
	return d, nil
}
