package config

import (
	"github.com/AndreyAkinshin/checkrun/internal/discover"
	"github.com/AndreyAkinshin/checkrun/internal/testcase"
)

// Default configuration values.
const (
	DefaultFile             = ".checkrun.yaml"
	DefaultCompiler         = "./build/bin/compiler"
	DefaultFileCheck        = "/usr/lib/llvm-17/bin/FileCheck"
	DefaultTestDir          = "tests"
	DefaultSuffix           = discover.DefaultSuffix
	DefaultCompilerTimeout  = "30s"
	DefaultFileCheckTimeout = "10s"
)

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Compiler == "" {
		cfg.Compiler = DefaultCompiler
	}
	if cfg.FileCheck == "" {
		cfg.FileCheck = DefaultFileCheck
	}
	if cfg.TestDir == "" {
		cfg.TestDir = DefaultTestDir
	}
	if cfg.Suffix == "" {
		cfg.Suffix = DefaultSuffix
	}
	if len(cfg.Markers) == 0 {
		cfg.Markers = append([]string(nil), testcase.DefaultMarkers...)
	}
	if cfg.CompilerTimeout == "" {
		cfg.CompilerTimeout = DefaultCompilerTimeout
	}
	if cfg.FileCheckTimeout == "" {
		cfg.FileCheckTimeout = DefaultFileCheckTimeout
	}
}
