package extraction

import (
	"errors"
	"fmt"
)

// ErrNoDocument is returned when a request carries no document.
var ErrNoDocument = errors.New("no document provided")

// Stage names the pipeline step that failed.
type Stage string

const (
	StageText     Stage = "text"
	StageProvider Stage = "provider"
	StageValidate Stage = "validate"
)

// StageError wraps a failure from text acquisition or the provider call.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
