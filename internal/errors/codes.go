package errors

// Error codes for the planning engines.
// These codes appear in error messages and documentation to keep error
// identification consistent across the toolchain.
//
// Error code ranges:
// E0100-E0199: Engine usage errors
// E0200-E0299: Problem definition errors
// E0300-E0399: Grounding and parsing errors

const (
	// E0101: compilation kind not handled by the engine
	ErrorUnsupportedCompilationKind = "E0101"

	// E0102: problem requires features outside the engine's supported kind
	ErrorUnsupportedProblemFeature = "E0102"

	// E0103: trajectory constraint the compiler cannot encode
	ErrorUnsupportedConstraint = "E0103"

	// E0104: formula shape the regressor cannot handle
	ErrorUnsupportedFormula = "E0104"

	// E0201: constraint already violated in the initial state
	ErrorInitialStateViolation = "E0201"

	// E0301: the grounding pre-pass failed
	ErrorGroundingFailed = "E0301"

	// E0302: malformed PDDL input
	ErrorParse = "E0302"

	// E0303: malformed plan file
	ErrorPlanParse = "E0303"
)

// Description returns a human-readable description of the error code.
func Description(code string) string {
	switch code {
	case ErrorUnsupportedCompilationKind:
		return "The engine does not implement the requested compilation kind"
	case ErrorUnsupportedProblemFeature:
		return "The problem requires a feature outside the engine's supported kind"
	case ErrorUnsupportedConstraint:
		return "A trajectory constraint cannot be encoded by this compiler"
	case ErrorUnsupportedFormula:
		return "Regression reached a formula shape outside {constant, literal, not, and, or}"
	case ErrorInitialStateViolation:
		return "A trajectory constraint is already violated in the initial state"
	case ErrorGroundingFailed:
		return "The grounding pre-pass failed"
	case ErrorParse:
		return "The PDDL input could not be parsed"
	case ErrorPlanParse:
		return "The plan file could not be parsed"
	default:
		return "Unknown error code"
	}
}

// Category returns the category of the error based on its code.
func Category(code string) string {
	switch {
	case code >= "E0100" && code < "E0200":
		return "Engine Usage"
	case code >= "E0200" && code < "E0300":
		return "Problem Definition"
	case code >= "E0300" && code < "E0400":
		return "Grounding/Parsing"
	default:
		return "Unknown"
	}
}

// IsProblemDefinition reports whether the code describes a defect in the
// input problem rather than engine misuse, so callers can surface it to
// the modeller instead of treating it as a bug.
func IsProblemDefinition(code string) bool {
	return Category(code) == "Problem Definition"
}
