// Package schema provides JSON schema validation for checkrun configuration
// files and run reports.
package schema

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/AndreyAkinshin/checkrun/schema"
)

var (
	configSchema *jsonschema.Schema
	reportSchema *jsonschema.Schema
	compileOnce  sync.Once
	compileErr   error
)

// compileSchemas compiles all embedded schemas once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		for _, name := range []string{"config.schema.json", "report.schema.json"} {
			data, err := schemafs.FS.ReadFile(name)
			if err != nil {
				compileErr = fmt.Errorf("read %s: %w", name, err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
			if err != nil {
				compileErr = fmt.Errorf("unmarshal %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(name, doc); err != nil {
				compileErr = fmt.Errorf("add %s resource: %w", name, err)
				return
			}
		}

		var err error
		configSchema, err = compiler.Compile("config.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile config schema: %w", err)
			return
		}

		reportSchema, err = compiler.Compile("report.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile report schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateConfig validates JSON data against the config schema.
// YAML configs are converted to JSON by the caller first.
func ValidateConfig(data []byte) error {
	return validate(data, func() *jsonschema.Schema { return configSchema }, "config")
}

// ValidateReport validates JSON data against the run report schema.
func ValidateReport(data []byte) error {
	return validate(data, func() *jsonschema.Schema { return reportSchema }, "report")
}

func validate(data []byte, pick func() *jsonschema.Schema, what string) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := pick().Validate(v); err != nil {
		return fmt.Errorf("%s validation failed: %w", what, err)
	}

	return nil
}
