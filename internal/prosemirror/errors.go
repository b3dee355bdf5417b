package prosemirror

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange indicates a position outside the document.
	ErrOutOfRange = errors.New("position out of range")
	// ErrNotTextblock indicates an inline edit whose endpoints are not inside textblocks.
	ErrNotTextblock = errors.New("position not inside a textblock")
)

// StepError describes a step the engine refused to apply.
type StepError struct {
	Code    string
	Message string
	Err     error
}

func (e *StepError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StepError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func stepError(code, message string, err error) *StepError {
	return &StepError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
