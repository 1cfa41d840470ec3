package cli

import (
	"github.com/pfnet-research/pml/internal/parser"
	"github.com/pfnet-research/pml/internal/pmlerr"
)

// FindAscription walks e looking for the single TypedExpr node that drives
// model checking (spec.md §4.6: a program checks exactly one refinement
// ascription). It descends through every construct that can wrap one
// (Let, LetFun, If, negation, binary operators, application, and a
// TypedExpr's own operand) so the ascription may sit behind an arbitrary
// prefix of lets. Zero or more than one match is
// a driver-level error: the CLI has nothing to check, or does not know
// which ascription the caller meant.
func FindAscription(e parser.Expr) (parser.TypedExpr, error) {
	var found []parser.TypedExpr
	var walk func(parser.Expr)
	walk = func(e parser.Expr) {
		switch x := e.(type) {
		case parser.TypedExpr:
			found = append(found, x)
			walk(x.Inner)
		case parser.AppExpr:
			walk(x.Fn)
			for _, a := range x.Args {
				walk(a)
			}
		case parser.LetExpr:
			walk(x.Init)
			walk(x.Body)
		case parser.LetFunExpr:
			walk(x.Body)
			walk(x.Cont)
		case parser.IfExpr:
			walk(x.Cond)
			walk(x.Then)
			walk(x.Else)
		case parser.NegExpr:
			walk(x.Inner)
		case parser.BinExpr:
			walk(x.Lhs)
			walk(x.Rhs)
		}
	}
	walk(e)

	switch len(found) {
	case 0:
		return parser.TypedExpr{}, pmlerr.Newf(pmlerr.Internal, "program contains no refinement ascription to check")
	case 1:
		return found[0], nil
	default:
		return parser.TypedExpr{}, pmlerr.Newf(pmlerr.Internal, "program contains %d refinement ascriptions, expected exactly one", len(found))
	}
}
