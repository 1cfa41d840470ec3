package translate

import (
	"github.com/pfnet-research/pml/internal/logic"
	"github.com/pfnet-research/pml/internal/parser"
	"github.com/pfnet-research/pml/internal/pctl"
)

// TranslateToPCTL anchors ty's constraint at result's accept location,
// substituting the refinement binder for the name of result's MDP value
// (spec §4.5). An Int-domain refinement substitutes a term variable; a
// Bool-domain refinement substitutes a formula variable.
func TranslateToPCTL(ty parser.RefinementType, result Result) pctl.PCTL {
	arg := result.Value.name
	var constraint logic.Formula
	if ty.Domain == logic.DomainInt {
		constraint = logic.SubstFormulaWithTerm(ty.Constraint, ty.Name, logic.VarTerm{Name: arg})
	} else {
		constraint = logic.SubstFormulaWithFormula(ty.Constraint, ty.Name, logic.VarFormula{Name: arg})
	}
	return pctl.PCTL{FinalLocation: result.Accept, Constraint: constraint}
}
