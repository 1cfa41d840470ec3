// Package pctl renders a refinement-type constraint anchored at a compiled
// MDP's accept location into a PCTL property string for the external model
// checker (spec §4.5, §6).
package pctl

import (
	"fmt"

	"github.com/pfnet-research/pml/internal/logic"
)

// PCTL pairs the accept location a property is anchored at with the
// constraint formula to check there.
type PCTL struct {
	FinalLocation int
	Constraint    logic.Formula
}

// Render produces the PCTL property text for p (spec §4.5, §6). Polarity
// starts true (Pmin) at the top level and flips across Impl's antecedent and
// the operands of Lt/Leq/Geq/Gt that pair with a strict/negated direction,
// exactly mirroring logic::output in the source: this is contract, not
// heuristic (spec §9, "Polarity threading in PCTL output").
func Render(p PCTL) string {
	return outputFormula(p.Constraint, p.FinalLocation, true)
}

func outputTerm(t logic.Term, accept int, pos bool) string {
	switch n := t.(type) {
	case logic.VarTerm:
		return n.Name
	case logic.IntTerm:
		return fmt.Sprintf("%d", n.N)
	case logic.AddTerm:
		return "(" + outputTerm(n.Lhs, accept, pos) + "+" + outputTerm(n.Rhs, accept, pos) + ")"
	case logic.SubTerm:
		return "(" + outputTerm(n.Lhs, accept, pos) + "-" + outputTerm(n.Rhs, accept, pos) + ")"
	case logic.MulTerm:
		return "(" + outputTerm(n.Lhs, accept, pos) + "*" + outputTerm(n.Rhs, accept, pos) + ")"
	case logic.DivTerm:
		return "(" + outputTerm(n.Lhs, accept, pos) + "/" + outputTerm(n.Rhs, accept, pos) + ")"
	case logic.ProbTerm:
		inner := outputFormula(n.Inner, accept, pos)
		if pos {
			return fmt.Sprintf("Pmin=? [F location=%d & %s]", accept, inner)
		}
		return fmt.Sprintf("Pmax=? [F location=%d & %s]", accept, inner)
	default:
		return fmt.Sprintf("<unknown term %T>", t)
	}
}

func outputFormula(f logic.Formula, accept int, pos bool) string {
	switch n := f.(type) {
	case logic.VarFormula:
		return n.Name
	case logic.BotFormula:
		return "(1=2)"
	case logic.TopFormula:
		return "(1=1)"
	case logic.NegFormula:
		return "!(" + outputFormula(n.Inner, accept, pos) + ")"
	case logic.AndFormula:
		return "(" + outputFormula(n.Lhs, accept, pos) + "&" + outputFormula(n.Rhs, accept, pos) + ")"
	case logic.OrFormula:
		return "(" + outputFormula(n.Lhs, accept, pos) + "|" + outputFormula(n.Rhs, accept, pos) + ")"
	case logic.ImplFormula:
		return "(" + outputFormula(n.Lhs, accept, !pos) + "=>" + outputFormula(n.Rhs, accept, pos) + ")"
	case logic.EqFormula:
		return "(" + outputTerm(n.Lhs, accept, pos) + "=" + outputTerm(n.Rhs, accept, pos) + ")"
	case logic.LtFormula:
		return "(" + outputTerm(n.Lhs, accept, !pos) + "<" + outputTerm(n.Rhs, accept, pos) + ")"
	case logic.LeqFormula:
		return "(" + outputTerm(n.Lhs, accept, !pos) + "<=" + outputTerm(n.Rhs, accept, pos) + ")"
	case logic.GeqFormula:
		return "(" + outputTerm(n.Lhs, accept, pos) + ">=" + outputTerm(n.Rhs, accept, !pos) + ")"
	case logic.GtFormula:
		return "(" + outputTerm(n.Lhs, accept, pos) + ">" + outputTerm(n.Rhs, accept, !pos) + ")"
	default:
		return fmt.Sprintf("<unknown formula %T>", f)
	}
}
