package parser

import (
	"github.com/pfnet-research/pml/internal/logic"
)

// RefinementType is {name: domain | constraint}. Free occurrences of name in
// Constraint are bound to the value being refined.
type RefinementType struct {
	Name       string
	Domain     logic.Domain
	Constraint logic.Formula
}

// DependentType is the declared signature of a user function: each argument
// carries its own refinement, and so does the return value.
type DependentType struct {
	Args []RefinementType
	Ret  RefinementType
}

// RefinementTypeEqual is structural equality, used by parser round-trip tests.
func RefinementTypeEqual(a, b RefinementType) bool {
	return a.Name == b.Name && a.Domain == b.Domain && logic.FormulaEqual(a.Constraint, b.Constraint)
}

// DependentTypeEqual is structural equality over DependentType.
func DependentTypeEqual(a, b DependentType) bool {
	if len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !RefinementTypeEqual(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return RefinementTypeEqual(a.Ret, b.Ret)
}

// unrefinedSentinel is the binder name used when a refinement-type
// abbreviation (bare domain, or "x:domain") carries no user-visible
// constraint — spec §4.1.
const unrefinedSentinel = "@blah"

// UnrefinedSentinel exposes unrefinedSentinel to other packages that need to
// recognize an unnamed refinement binder (e.g. the simple typechecker,
// choosing a synthetic argument name for an unnamed LetFun parameter).
const UnrefinedSentinel = unrefinedSentinel

// abbreviateDomain desugars a bare "int"/"bool" abbreviation to
// {@blah:domain|Top}.
func abbreviateDomain(d logic.Domain) RefinementType {
	return RefinementType{Name: unrefinedSentinel, Domain: d, Constraint: logic.TopFormula{}}
}

// abbreviateNamed desugars "x:domain" to {x:domain|Top}.
func abbreviateNamed(name string, d logic.Domain) RefinementType {
	return RefinementType{Name: name, Domain: d, Constraint: logic.TopFormula{}}
}
