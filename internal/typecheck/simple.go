// Package typecheck computes the simple type of a surface expression — the
// precondition checked before an ascription is handed to the MDP/PCTL
// translators (spec §4.2).
package typecheck

import (
	"fmt"

	"github.com/pfnet-research/pml/internal/env"
	"github.com/pfnet-research/pml/internal/logic"
	"github.com/pfnet-research/pml/internal/parser"
	"github.com/pfnet-research/pml/internal/pmlerr"
)

// SimpleType is either Int, Bool, or a function type erased from a
// DependentType signature.
type SimpleType interface {
	isSimpleType()
	String() string
}

type IntType struct{}
type BoolType struct{}

// FunType is the erasure of a DependentType: argument and result domains
// with their refinements forgotten.
type FunType struct {
	Args []SimpleType
	Ret  SimpleType
}

func (IntType) isSimpleType()  {}
func (BoolType) isSimpleType() {}
func (FunType) isSimpleType()  {}

func (IntType) String() string  { return "Int" }
func (BoolType) String() string { return "Bool" }
func (f FunType) String() string {
	s := "Fun("
	for i, a := range f.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + " -> " + f.Ret.String() + ")"
}

func domainType(d logic.Domain) SimpleType {
	if d == logic.DomainBool {
		return BoolType{}
	}
	return IntType{}
}

func simpleTypeEqual(a, b SimpleType) bool {
	switch x := a.(type) {
	case IntType:
		_, ok := b.(IntType)
		return ok
	case BoolType:
		_, ok := b.(BoolType)
		return ok
	case FunType:
		y, ok := b.(FunType)
		if !ok || len(x.Args) != len(y.Args) || !simpleTypeEqual(x.Ret, y.Ret) {
			return false
		}
		for i := range x.Args {
			if !simpleTypeEqual(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// erase turns a dependent-type signature into its erased FunType, per the
// spec's "erase τ to simple Fun(…)" rule.
func erase(dt parser.DependentType) FunType {
	args := make([]SimpleType, len(dt.Args))
	for i, a := range dt.Args {
		args[i] = domainType(a.Domain)
	}
	return FunType{Args: args, Ret: domainType(dt.Ret.Domain)}
}

// Check computes the simple type of e under env, or an error naming the
// offending subexpression (spec §4.2).
func Check(e parser.Expr, environment env.Env[SimpleType]) (SimpleType, error) {
	switch x := e.(type) {
	case parser.IntExpr:
		return IntType{}, nil
	case parser.BoolExpr:
		return BoolType{}, nil
	case parser.VarExpr:
		t, ok := environment.Lookup(x.Name)
		if !ok {
			return nil, pmlerr.Newf(pmlerr.SimpleType, "unbound variable %q", x.Name)
		}
		return t, nil
	case parser.RandExpr:
		return IntType{}, nil
	case parser.LetExpr:
		if _, bound := environment.Lookup(x.Name); bound {
			return nil, pmlerr.Newf(pmlerr.SimpleType, "let rebinds %q, which is already bound", x.Name)
		}
		initTy, err := Check(x.Init, environment)
		if err != nil {
			return nil, err
		}
		return Check(x.Body, environment.Append(x.Name, initTy))
	case parser.LetFunExpr:
		funTy := erase(x.Type)
		bodyEnv := environment.Append(x.Name, funTy)
		for i, a := range x.Type.Args {
			bodyEnv = bodyEnv.Append(argName(a, i), domainType(a.Domain))
		}
		if _, err := Check(x.Body, bodyEnv); err != nil {
			return nil, err
		}
		return Check(x.Cont, environment.Append(x.Name, funTy))
	case parser.IfExpr:
		condTy, err := Check(x.Cond, environment)
		if err != nil {
			return nil, err
		}
		if _, ok := condTy.(BoolType); !ok {
			return nil, pmlerr.Newf(pmlerr.SimpleType, "if condition must be Bool, found %s", condTy)
		}
		thenTy, err := Check(x.Then, environment)
		if err != nil {
			return nil, err
		}
		elseTy, err := Check(x.Else, environment)
		if err != nil {
			return nil, err
		}
		if !simpleTypeEqual(thenTy, elseTy) {
			return nil, pmlerr.Newf(pmlerr.SimpleType, "if branches disagree: %s vs %s", thenTy, elseTy)
		}
		return thenTy, nil
	case parser.AppExpr:
		fnTy, err := Check(x.Fn, environment)
		if err != nil {
			return nil, err
		}
		fun, ok := fnTy.(FunType)
		if !ok {
			return nil, pmlerr.Newf(pmlerr.SimpleType, "application target is not a function, found %s", fnTy)
		}
		if len(fun.Args) != len(x.Args) {
			return nil, pmlerr.Newf(pmlerr.SimpleType, "function expects %d arguments, found %d", len(fun.Args), len(x.Args))
		}
		for i, a := range x.Args {
			argTy, err := Check(a, environment)
			if err != nil {
				return nil, err
			}
			if !simpleTypeEqual(argTy, fun.Args[i]) {
				return nil, pmlerr.Newf(pmlerr.SimpleType, "argument %d: expected %s, found %s", i, fun.Args[i], argTy)
			}
		}
		return fun.Ret, nil
	case parser.NegExpr:
		innerTy, err := Check(x.Inner, environment)
		if err != nil {
			return nil, err
		}
		if _, ok := innerTy.(BoolType); !ok {
			return nil, pmlerr.Newf(pmlerr.SimpleType, "not expects Bool, found %s", innerTy)
		}
		return BoolType{}, nil
	case parser.TypedExpr:
		innerTy, err := Check(x.Inner, environment)
		if err != nil {
			return nil, err
		}
		want := domainType(x.Type.Domain)
		if !simpleTypeEqual(innerTy, want) {
			return nil, pmlerr.Newf(pmlerr.SimpleType, "ascription expects %s, found %s", want, innerTy)
		}
		return innerTy, nil
	case parser.BinExpr:
		return checkBinExpr(x, environment)
	case parser.FunExpr:
		panic("typecheck: Fun never appears in parsed input")
	default:
		return nil, pmlerr.Newf(pmlerr.Internal, "unhandled expression %T", e)
	}
}

func checkBinExpr(x parser.BinExpr, environment env.Env[SimpleType]) (SimpleType, error) {
	lhsTy, err := Check(x.Lhs, environment)
	if err != nil {
		return nil, err
	}
	rhsTy, err := Check(x.Rhs, environment)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case parser.OpAdd, parser.OpSub, parser.OpMul, parser.OpDiv:
		if !isInt(lhsTy) || !isInt(rhsTy) {
			return nil, pmlerr.Newf(pmlerr.SimpleType, "%s expects Int operands, found %s and %s", x.Op, lhsTy, rhsTy)
		}
		return IntType{}, nil
	case parser.OpEq, parser.OpNeq, parser.OpLeq, parser.OpGeq:
		if !isInt(lhsTy) || !isInt(rhsTy) {
			return nil, pmlerr.Newf(pmlerr.SimpleType, "%s expects Int operands, found %s and %s", x.Op, lhsTy, rhsTy)
		}
		return BoolType{}, nil
	case parser.OpAnd, parser.OpOr:
		if !isBool(lhsTy) || !isBool(rhsTy) {
			return nil, pmlerr.Newf(pmlerr.SimpleType, "%s expects Bool operands, found %s and %s", x.Op, lhsTy, rhsTy)
		}
		return BoolType{}, nil
	default:
		return nil, pmlerr.Newf(pmlerr.Internal, "unhandled operator %s", x.Op)
	}
}

func isInt(t SimpleType) bool  { _, ok := t.(IntType); return ok }
func isBool(t SimpleType) bool { _, ok := t.(BoolType); return ok }

// argName derives the environment binding name for a LetFun argument: the
// refinement's own binder, or a positional fallback when it carries the
// unrefined sentinel.
func argName(a parser.RefinementType, i int) string {
	if a.Name == "" || a.Name == parser.UnrefinedSentinel {
		return fmt.Sprintf("@arg%d", i)
	}
	return a.Name
}
