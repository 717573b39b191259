// Package render holds what the report renderers share.
package render

import "fmt"

// RenderError is a fatal rendering failure: the document or one of its
// embedded resources could not be produced.
type RenderError struct {
	// Op names the failed step, e.g. "load font".
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Errorf wraps a formatted error in a RenderError.
func Errorf(op, format string, args ...any) *RenderError {
	return &RenderError{Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap returns err as a RenderError, or nil when err is nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RenderError{Op: op, Err: err}
}
