package model

import "trajectoryc/internal/expr"

// Type is a user type in the problem's (possibly hierarchical) type system.
// A nil Parent marks a root type.
type Type struct {
	Name   string
	Parent *Type
}

// IsSubtypeOf reports whether t equals other or descends from it.
func (t *Type) IsSubtypeOf(other *Type) bool {
	for cur := t; cur != nil; cur = cur.Parent {
		if cur.Name == other.Name {
			return true
		}
	}
	return false
}

// Object is a named domain object.
type Object struct {
	Name string
	Type *Type
}

// ValueType is the value sort of a fluent.
type ValueType int

const (
	BOOL_TYPE ValueType = iota
	INT_TYPE
	REAL_TYPE
)

// Fluent declares a state variable: a name, a value sort and, when lifted,
// a parameter signature. Grounded fluents are 0-arity.
type Fluent struct {
	Name       string
	Type       ValueType
	Parameters []expr.Param
}

// Arity returns the number of parameters.
func (f *Fluent) Arity() int { return len(f.Parameters) }
