package codegen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a fatal per-operation build failure.
type ErrorCode string

const (
	NameCollision      ErrorCode = "name_collision"
	MissingInput       ErrorCode = "missing_input"
	MalformedResponses ErrorCode = "malformed_responses"
)

// Sentinels for errors.Is against a *BuildError of the matching code.
var (
	ErrNameCollision      = errors.New("codegen: name collision")
	ErrMissingInput       = errors.New("codegen: missing input")
	ErrMalformedResponses = errors.New("codegen: malformed responses")
)

// BuildError aborts the build of one operation. Other operations in the same
// run continue.
type BuildError struct {
	Code        ErrorCode
	OperationID string
	Message     string
	// Parameters names the conflicting source parameters of a NameCollision.
	Parameters []string
	Cause      error
}

func (e *BuildError) Error() string {
	var b strings.Builder
	b.WriteString("codegen: ")
	if e.OperationID != "" {
		fmt.Fprintf(&b, "operation %q: ", e.OperationID)
	}
	b.WriteString(e.Message)
	if len(e.Parameters) > 0 {
		fmt.Fprintf(&b, " (parameters: %s)", strings.Join(e.Parameters, ", "))
	}
	return b.String()
}

func (e *BuildError) Unwrap() error { return e.Cause }

func (e *BuildError) Is(target error) bool {
	switch e.Code {
	case NameCollision:
		return target == ErrNameCollision
	case MissingInput:
		return target == ErrMissingInput
	case MalformedResponses:
		return target == ErrMalformedResponses
	}
	return false
}

// OperationFailure records one operation that did not build.
type OperationFailure struct {
	OperationID string
	Err         error
}
