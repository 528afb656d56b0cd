package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaVersion tags the JSON report contract emitted by this build.
// Bump it together with the bundled schema when the payload shape
// changes.
const SchemaVersion = "v1"

//go:embed schema/axiomiq_report.schema.v1.json
var schemaV1 []byte

// ValidateJSON runs strict validation over a serialized report:
// the top level must be an object with the four required sections of
// the expected shapes, and the whole document must satisfy the report
// schema (the bundled v1 schema when schemaDoc is nil). The structural
// checks run first so the common failures get a direct message instead
// of a schema trace.
func ValidateJSON(data []byte, schemaDoc []byte) error {
	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("parse report: %w", err)
	}

	root, ok := obj.(map[string]any)
	if !ok {
		return fmt.Errorf("top-level JSON must be an object")
	}
	for _, key := range []string{"meta", "fleet", "focus", "notes"} {
		if _, ok := root[key]; !ok {
			return fmt.Errorf("missing required top-level key %q", key)
		}
	}
	for _, key := range []string{"meta", "fleet", "focus"} {
		if _, ok := root[key].(map[string]any); !ok {
			return fmt.Errorf("%s must be an object", key)
		}
	}
	if _, ok := root["notes"].([]any); !ok {
		return fmt.Errorf("notes must be an array")
	}

	if schemaDoc == nil {
		schemaDoc = schemaV1
	}
	schema, err := jsonschema.CompileString("axiomiq_report.schema.v1.json", string(schemaDoc))
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(obj); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

// ValidateJSONFile validates a report file against the bundled schema,
// or against an override schema file when schemaPath is non-empty.
func ValidateJSONFile(path, schemaPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	var schemaDoc []byte
	if schemaPath != "" {
		schemaDoc, err = os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("read schema: %w", err)
		}
	}
	return ValidateJSON(data, schemaDoc)
}
