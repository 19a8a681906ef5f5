/*
schema.go - JSON Schema validation for leave request bodies

PURPOSE:
  Leave request payloads are validated against a JSON Schema BEFORE
  decoding, so type and shape errors surface as one structured 400
  instead of a scatter of decode errors. The schema enforces shape only
  (required fields, formats, enums, halfDayPeriod iff isHalfDay);
  everything semantic - date ordering, policy rules - belongs to the
  handler and the compliance engine.
*/
package api

import (
	"fmt"

	"github.com/kaptinlin/jsonschema"
)

// draftSchemaJSON is the shape contract for check/submit bodies.
const draftSchemaJSON = `{
	"type": "object",
	"required": ["leaveType", "startDate", "endDate"],
	"properties": {
		"leaveType": {
			"type": "string",
			"enum": ["annual", "sick", "casual", "emergency", "maternity", "paternity"]
		},
		"startDate": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"endDate": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
		"isHalfDay": {"type": "boolean"},
		"halfDayPeriod": {"type": "string", "enum": ["morning", "afternoon"]},
		"reason": {"type": "string", "maxLength": 2000},
		"emergencyContact": {"type": "string", "maxLength": 200},
		"workHandover": {"type": "string", "maxLength": 2000}
	},
	"additionalProperties": false
}`

func compileDraftSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(draftSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile draft schema: %w", err)
	}
	return schema, nil
}

// validateDraftBody checks a raw body against the draft schema.
func validateDraftBody(schema *jsonschema.Schema, body []byte) error {
	result := schema.ValidateJSON(body)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}
