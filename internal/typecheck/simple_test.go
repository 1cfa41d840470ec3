package typecheck

import (
	"testing"

	"github.com/pfnet-research/pml/internal/env"
	"github.com/pfnet-research/pml/internal/logic"
	"github.com/pfnet-research/pml/internal/parser"
)

func mustCheck(t *testing.T, e parser.Expr) SimpleType {
	t.Helper()
	ty, err := Check(e, env.Env[SimpleType]{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ty
}

func TestCheckArithmetic(t *testing.T) {
	e := parser.BinExpr{Op: parser.OpAdd, Lhs: parser.IntExpr{N: 1}, Rhs: parser.IntExpr{N: 2}}
	ty := mustCheck(t, e)
	if !isInt(ty) {
		t.Fatalf("got %s, want Int", ty)
	}
}

func TestCheckComparisonIsBool(t *testing.T) {
	e := parser.BinExpr{Op: parser.OpLeq, Lhs: parser.IntExpr{N: 1}, Rhs: parser.IntExpr{N: 2}}
	ty := mustCheck(t, e)
	if !isBool(ty) {
		t.Fatalf("got %s, want Bool", ty)
	}
}

func TestCheckIfBranchMismatch(t *testing.T) {
	e := parser.IfExpr{
		Cond: parser.BoolExpr{B: true},
		Then: parser.IntExpr{N: 1},
		Else: parser.BoolExpr{B: false},
	}
	if _, err := Check(e, env.Env[SimpleType]{}); err == nil {
		t.Fatalf("expected a type error for mismatched if branches")
	}
}

func TestCheckUnboundVariable(t *testing.T) {
	if _, err := Check(parser.VarExpr{Name: "x"}, env.Env[SimpleType]{}); err == nil {
		t.Fatalf("expected an error for an unbound variable")
	}
}

func TestCheckLetBindsInitType(t *testing.T) {
	e := parser.LetExpr{
		Name: "x",
		Init: parser.IntExpr{N: 5},
		Body: parser.VarExpr{Name: "x"},
	}
	ty := mustCheck(t, e)
	if !isInt(ty) {
		t.Fatalf("got %s, want Int", ty)
	}
}

func TestCheckLetFunApplication(t *testing.T) {
	e := parser.LetFunExpr{
		Name: "f",
		Type: parser.DependentType{
			Args: []parser.RefinementType{{Name: "n", Domain: logic.DomainInt, Constraint: logic.TopFormula{}}},
			Ret:  parser.RefinementType{Name: "r", Domain: logic.DomainInt, Constraint: logic.TopFormula{}},
		},
		Body: parser.VarExpr{Name: "n"},
		Cont: parser.AppExpr{Fn: parser.VarExpr{Name: "f"}, Args: []parser.Expr{parser.IntExpr{N: 3}}},
	}
	ty := mustCheck(t, e)
	if !isInt(ty) {
		t.Fatalf("got %s, want Int", ty)
	}
}

func TestCheckAppArityMismatch(t *testing.T) {
	e := parser.LetFunExpr{
		Name: "f",
		Type: parser.DependentType{
			Args: []parser.RefinementType{{Name: "n", Domain: logic.DomainInt, Constraint: logic.TopFormula{}}},
			Ret:  parser.RefinementType{Name: "r", Domain: logic.DomainInt, Constraint: logic.TopFormula{}},
		},
		Body: parser.VarExpr{Name: "n"},
		Cont: parser.AppExpr{Fn: parser.VarExpr{Name: "f"}, Args: nil},
	}
	if _, err := Check(e, env.Env[SimpleType]{}); err == nil {
		t.Fatalf("expected an arity error")
	}
}

func TestCheckTypedAscription(t *testing.T) {
	e := parser.TypedExpr{
		Inner: parser.IntExpr{N: 4},
		Type:  parser.RefinementType{Name: "x", Domain: logic.DomainInt, Constraint: logic.TopFormula{}},
	}
	ty := mustCheck(t, e)
	if !isInt(ty) {
		t.Fatalf("got %s, want Int", ty)
	}
}
