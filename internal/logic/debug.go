package logic

import (
	"fmt"
	"strconv"
)

// DebugTerm renders t in the canonical constructor-call form used by the
// parse-print round-trip property (spec §8, property 1), e.g. "Add(1, 2)".
func DebugTerm(t Term) string {
	switch n := t.(type) {
	case VarTerm:
		return n.Name
	case IntTerm:
		return strconv.Itoa(n.N)
	case AddTerm:
		return "Add(" + DebugTerm(n.Lhs) + ", " + DebugTerm(n.Rhs) + ")"
	case SubTerm:
		return "Sub(" + DebugTerm(n.Lhs) + ", " + DebugTerm(n.Rhs) + ")"
	case MulTerm:
		return "Mul(" + DebugTerm(n.Lhs) + ", " + DebugTerm(n.Rhs) + ")"
	case DivTerm:
		return "Div(" + DebugTerm(n.Lhs) + ", " + DebugTerm(n.Rhs) + ")"
	case ProbTerm:
		return "Prob(" + DebugFormula(n.Inner) + ")"
	default:
		return fmt.Sprintf("<unknown term %T>", t)
	}
}

// DebugFormula renders f in the canonical constructor-call form.
func DebugFormula(f Formula) string {
	switch n := f.(type) {
	case VarFormula:
		return n.Name
	case TopFormula:
		return "Top"
	case BotFormula:
		return "Bot"
	case NegFormula:
		return "Not(" + DebugFormula(n.Inner) + ")"
	case AndFormula:
		return "And(" + DebugFormula(n.Lhs) + ", " + DebugFormula(n.Rhs) + ")"
	case OrFormula:
		return "Or(" + DebugFormula(n.Lhs) + ", " + DebugFormula(n.Rhs) + ")"
	case ImplFormula:
		return "Impl(" + DebugFormula(n.Lhs) + ", " + DebugFormula(n.Rhs) + ")"
	case EqFormula:
		return "Eq(" + DebugTerm(n.Lhs) + ", " + DebugTerm(n.Rhs) + ")"
	case LtFormula:
		return "Lt(" + DebugTerm(n.Lhs) + ", " + DebugTerm(n.Rhs) + ")"
	case LeqFormula:
		return "Leq(" + DebugTerm(n.Lhs) + ", " + DebugTerm(n.Rhs) + ")"
	case GeqFormula:
		return "Geq(" + DebugTerm(n.Lhs) + ", " + DebugTerm(n.Rhs) + ")"
	case GtFormula:
		return "Gt(" + DebugTerm(n.Lhs) + ", " + DebugTerm(n.Rhs) + ")"
	default:
		return fmt.Sprintf("<unknown formula %T>", f)
	}
}
