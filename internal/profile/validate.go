package profile

import (
	"encoding/json"
	"fmt"
)

// Validator turns raw provider output into a Profile.
type Validator struct {
	schema *Schema
}

// NewValidator constructs a Validator bound to schema.
func NewValidator(schema *Schema) *Validator {
	return &Validator{schema: schema}
}

// Validate parses raw as JSON, normalizes it into a total Profile and checks the
// result against the schema. No repair is attempted: markdown fences or trailing
// prose make the output invalid. Any failure is returned as *ExtractionFailure.
func (v *Validator) Validate(raw string, sourceText string) (Profile, []string, error) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Profile{}, nil, &ExtractionFailure{Raw: raw, Err: fmt.Errorf("%w: %v", ErrNotJSON, err)}
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return Profile{}, nil, &ExtractionFailure{Raw: raw, Err: fmt.Errorf("%w: got %s", ErrNotObject, jsonKind(parsed))}
	}

	record, notes := Normalize(obj, sourceText)
	if err := v.check(record); err != nil {
		return Profile{}, notes, &ExtractionFailure{Raw: raw, Err: err}
	}
	return record, notes, nil
}

func (v *Validator) check(record Profile) error {
	if v.schema == nil {
		return nil
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrSchemaViolation, err)
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrSchemaViolation, err)
	}
	if err := v.schema.ValidateValue(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return "object"
	}
}
