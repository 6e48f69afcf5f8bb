package errors

import (
	"errors"
	"fmt"
)

// EngineError is the error type shared by the planning engines: a stable
// code, a message, and for initial-state violations the constraint kind
// that was violated.
type EngineError struct {
	Code    string
	Message string
	// Violated names the constraint kind for initial-state violations
	// ("always" or "sometime-before"); empty otherwise.
	Violated string

	cause error
}

func (e *EngineError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *EngineError) Unwrap() error { return e.cause }

// CodeOf extracts the engine error code from err, or "" when err is not an
// EngineError.
func CodeOf(err error) string {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

func UnsupportedCompilationKind(kind string) *EngineError {
	return &EngineError{
		Code:    ErrorUnsupportedCompilationKind,
		Message: fmt.Sprintf("compilation kind %s is not supported by this engine", kind),
	}
}

func UnsupportedProblemFeature(engine string, features []string) *EngineError {
	return &EngineError{
		Code:    ErrorUnsupportedProblemFeature,
		Message: fmt.Sprintf("%s cannot handle the problem: unsupported features %v", engine, features),
	}
}

func UnsupportedConstraint(constraint string) *EngineError {
	return &EngineError{
		Code:    ErrorUnsupportedConstraint,
		Message: fmt.Sprintf("this compiler cannot handle the constraint %s", constraint),
	}
}

func UnsupportedFormula(formula string) *EngineError {
	return &EngineError{
		Code:    ErrorUnsupportedFormula,
		Message: fmt.Sprintf("this compiler cannot handle the expression %s", formula),
	}
}

func InitialStateViolation(constraintKind string) *EngineError {
	return &EngineError{
		Code:     ErrorInitialStateViolation,
		Message:  fmt.Sprintf("problem not solvable: a %s constraint is violated in the initial state", constraintKind),
		Violated: constraintKind,
	}
}

func GroundingFailed(cause error) *EngineError {
	return &EngineError{
		Code:    ErrorGroundingFailed,
		Message: "grounding failed",
		cause:   cause,
	}
}

func ParseError(path string, cause error) *EngineError {
	return &EngineError{
		Code:    ErrorParse,
		Message: fmt.Sprintf("cannot parse %s", path),
		cause:   cause,
	}
}

func PlanParseError(line string) *EngineError {
	return &EngineError{
		Code:    ErrorPlanParse,
		Message: fmt.Sprintf("cannot parse plan line %q", line),
	}
}
