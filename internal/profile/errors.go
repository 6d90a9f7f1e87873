package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrNotJSON means the provider output did not parse as JSON.
	ErrNotJSON = errors.New("output is not valid JSON")
	// ErrNotObject means the output parsed but the top-level value is not an object.
	ErrNotObject = errors.New("output is not a JSON object")
	// ErrSchemaViolation means the normalized record does not satisfy the schema.
	ErrSchemaViolation = errors.New("record does not match schema")
)

// ExtractionFailure carries the raw provider output that could not be turned into a Profile.
// Raw is for diagnostics only and must not be echoed to callers.
type ExtractionFailure struct {
	Raw string
	Err error
}

func (e *ExtractionFailure) Error() string {
	return fmt.Sprintf("extraction failure: %v", e.Err)
}

func (e *ExtractionFailure) Unwrap() error {
	return e.Err
}
