package model

// Feature is one capability a problem may require from an engine.
type Feature string

const (
	ACTION_BASED Feature = "ACTION_BASED"

	FLAT_TYPING         Feature = "FLAT_TYPING"
	HIERARCHICAL_TYPING Feature = "HIERARCHICAL_TYPING"

	CONTINUOUS_NUMBERS Feature = "CONTINUOUS_NUMBERS"
	DISCRETE_NUMBERS   Feature = "DISCRETE_NUMBERS"

	NUMERIC_FLUENTS Feature = "NUMERIC_FLUENTS"
	OBJECT_FLUENTS  Feature = "OBJECT_FLUENTS"

	NEGATIVE_CONDITIONS    Feature = "NEGATIVE_CONDITIONS"
	DISJUNCTIVE_CONDITIONS Feature = "DISJUNCTIVE_CONDITIONS"
	EQUALITY               Feature = "EQUALITY"
	EXISTENTIAL_CONDITIONS Feature = "EXISTENTIAL_CONDITIONS"
	UNIVERSAL_CONDITIONS   Feature = "UNIVERSAL_CONDITIONS"

	CONDITIONAL_EFFECTS Feature = "CONDITIONAL_EFFECTS"
	INCREASE_EFFECTS    Feature = "INCREASE_EFFECTS"
	DECREASE_EFFECTS    Feature = "DECREASE_EFFECTS"

	CONTINUOUS_TIME                     Feature = "CONTINUOUS_TIME"
	DISCRETE_TIME                       Feature = "DISCRETE_TIME"
	INTERMEDIATE_CONDITIONS_AND_EFFECTS Feature = "INTERMEDIATE_CONDITIONS_AND_EFFECTS"
	TIMED_EFFECT                        Feature = "TIMED_EFFECT"
	TIMED_GOALS                         Feature = "TIMED_GOALS"
	DURATION_INEQUALITIES               Feature = "DURATION_INEQUALITIES"

	SIMULATED_EFFECTS Feature = "SIMULATED_EFFECTS"

	TRAJECTORY_CONSTRAINTS Feature = "TRAJECTORY_CONSTRAINTS"
)

// ProblemKind is the feature set a problem requires. Kinds form a lattice
// ordered by inclusion; an engine supports a problem iff the problem's
// kind is below the engine's supported kind.
type ProblemKind struct {
	features map[Feature]bool
}

func NewProblemKind(features ...Feature) ProblemKind {
	k := ProblemKind{features: make(map[Feature]bool, len(features))}
	for _, f := range features {
		k.features[f] = true
	}
	return k
}

func (k ProblemKind) Set(f Feature) {
	k.features[f] = true
}

func (k ProblemKind) Has(f Feature) bool {
	return k.features[f]
}

// LE reports whether every feature of k is also in other.
func (k ProblemKind) LE(other ProblemKind) bool {
	for f := range k.features {
		if !other.features[f] {
			return false
		}
	}
	return true
}

// Features lists the set in no particular order.
func (k ProblemKind) Features() []Feature {
	out := make([]Feature, 0, len(k.features))
	for f := range k.features {
		out = append(out, f)
	}
	return out
}
