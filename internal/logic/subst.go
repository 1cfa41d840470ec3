package logic

// SubstTermWithTerm replaces every Var(x) occurring in t with s, traversing
// structurally. It is a pure function: t and s are not mutated, and unaffected
// subtrees are returned unchanged.
func SubstTermWithTerm(t Term, x string, s Term) Term {
	switch n := t.(type) {
	case VarTerm:
		if n.Name == x {
			return s
		}
		return n
	case IntTerm:
		return n
	case AddTerm:
		return AddTerm{SubstTermWithTerm(n.Lhs, x, s), SubstTermWithTerm(n.Rhs, x, s)}
	case SubTerm:
		return SubTerm{SubstTermWithTerm(n.Lhs, x, s), SubstTermWithTerm(n.Rhs, x, s)}
	case MulTerm:
		return MulTerm{SubstTermWithTerm(n.Lhs, x, s), SubstTermWithTerm(n.Rhs, x, s)}
	case DivTerm:
		return DivTerm{SubstTermWithTerm(n.Lhs, x, s), SubstTermWithTerm(n.Rhs, x, s)}
	case ProbTerm:
		return ProbTerm{SubstFormulaWithTerm(n.Inner, x, s)}
	default:
		return t
	}
}

// SubstTermWithFormula descends into Prob only; a bare term variable may not
// be substituted by a formula, so Var and Int are left untouched.
func SubstTermWithFormula(t Term, x string, phi Formula) Term {
	switch n := t.(type) {
	case AddTerm:
		return AddTerm{SubstTermWithFormula(n.Lhs, x, phi), SubstTermWithFormula(n.Rhs, x, phi)}
	case SubTerm:
		return SubTerm{SubstTermWithFormula(n.Lhs, x, phi), SubstTermWithFormula(n.Rhs, x, phi)}
	case MulTerm:
		return MulTerm{SubstTermWithFormula(n.Lhs, x, phi), SubstTermWithFormula(n.Rhs, x, phi)}
	case DivTerm:
		return DivTerm{SubstTermWithFormula(n.Lhs, x, phi), SubstTermWithFormula(n.Rhs, x, phi)}
	case ProbTerm:
		return ProbTerm{SubstFormulaWithFormula(n.Inner, x, phi)}
	default:
		// VarTerm, IntTerm: a term variable is never replaced by a formula.
		return t
	}
}

// SubstFormulaWithTerm substitutes s for every embedded occurrence of Var(x)
// in the terms of Eq/Lt/Leq/Geq/Gt, and descends into Neg/And/Or/Impl.
// Var(x) at the formula level is untouched: a formula variable is not a
// term variable.
func SubstFormulaWithTerm(f Formula, x string, s Term) Formula {
	switch n := f.(type) {
	case NegFormula:
		return NegFormula{SubstFormulaWithTerm(n.Inner, x, s)}
	case AndFormula:
		return AndFormula{SubstFormulaWithTerm(n.Lhs, x, s), SubstFormulaWithTerm(n.Rhs, x, s)}
	case OrFormula:
		return OrFormula{SubstFormulaWithTerm(n.Lhs, x, s), SubstFormulaWithTerm(n.Rhs, x, s)}
	case ImplFormula:
		return ImplFormula{SubstFormulaWithTerm(n.Lhs, x, s), SubstFormulaWithTerm(n.Rhs, x, s)}
	case EqFormula:
		return EqFormula{SubstTermWithTerm(n.Lhs, x, s), SubstTermWithTerm(n.Rhs, x, s)}
	case LtFormula:
		return LtFormula{SubstTermWithTerm(n.Lhs, x, s), SubstTermWithTerm(n.Rhs, x, s)}
	case LeqFormula:
		return LeqFormula{SubstTermWithTerm(n.Lhs, x, s), SubstTermWithTerm(n.Rhs, x, s)}
	case GeqFormula:
		return GeqFormula{SubstTermWithTerm(n.Lhs, x, s), SubstTermWithTerm(n.Rhs, x, s)}
	case GtFormula:
		return GtFormula{SubstTermWithTerm(n.Lhs, x, s), SubstTermWithTerm(n.Rhs, x, s)}
	default:
		// VarFormula, TopFormula, BotFormula.
		return f
	}
}

// SubstFormulaWithFormula replaces Var(x) at the formula level with psi, and
// descends into compound formulas and into Prob inside embedded terms via
// SubstTermWithFormula.
func SubstFormulaWithFormula(f Formula, x string, psi Formula) Formula {
	switch n := f.(type) {
	case VarFormula:
		if n.Name == x {
			return psi
		}
		return n
	case NegFormula:
		return NegFormula{SubstFormulaWithFormula(n.Inner, x, psi)}
	case AndFormula:
		return AndFormula{SubstFormulaWithFormula(n.Lhs, x, psi), SubstFormulaWithFormula(n.Rhs, x, psi)}
	case OrFormula:
		return OrFormula{SubstFormulaWithFormula(n.Lhs, x, psi), SubstFormulaWithFormula(n.Rhs, x, psi)}
	case ImplFormula:
		return ImplFormula{SubstFormulaWithFormula(n.Lhs, x, psi), SubstFormulaWithFormula(n.Rhs, x, psi)}
	case EqFormula:
		return EqFormula{SubstTermWithFormula(n.Lhs, x, psi), SubstTermWithFormula(n.Rhs, x, psi)}
	case LtFormula:
		return LtFormula{SubstTermWithFormula(n.Lhs, x, psi), SubstTermWithFormula(n.Rhs, x, psi)}
	case LeqFormula:
		return LeqFormula{SubstTermWithFormula(n.Lhs, x, psi), SubstTermWithFormula(n.Rhs, x, psi)}
	case GeqFormula:
		return GeqFormula{SubstTermWithFormula(n.Lhs, x, psi), SubstTermWithFormula(n.Rhs, x, psi)}
	case GtFormula:
		return GtFormula{SubstTermWithFormula(n.Lhs, x, psi), SubstTermWithFormula(n.Rhs, x, psi)}
	default:
		// TopFormula, BotFormula.
		return f
	}
}
