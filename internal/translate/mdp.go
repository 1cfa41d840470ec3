// Package translate compiles a surface expression to an MDP (spec §4.4) and
// a refinement type to a PCTL property anchored at that MDP (spec §4.5).
package translate

import (
	"fmt"
	"strconv"

	"github.com/pfnet-research/pml/internal/env"
	"github.com/pfnet-research/pml/internal/mdp"
	"github.com/pfnet-research/pml/internal/parser"
	"github.com/pfnet-research/pml/internal/pmlerr"
)

// valueInfo names the MDP location holding an expression's result: an
// existing variable, or — for a Binop — an inline PRISM expression string
// that is spliced verbatim into consuming guards and updates rather than
// bound to a freshly allocated variable (spec §4.4).
type valueInfo struct {
	name  string
	bound *mdp.Bound // nil for a boolean-valued result
}

// Result is the outcome of compiling one expression: the MDP fragment, its
// entry and accept locations, and the location of its result value.
type Result struct {
	MDP    mdp.MDP
	Init   int
	Accept int
	Value  valueInfo
}

// MDPTranslator compiles expressions to MDP fragments. Its fresh-name
// counters are instance fields rather than package-level globals (spec §9,
// "Mutable global counters") so independent translations — and tests that
// run in parallel — never observe each other's counter state.
type MDPTranslator struct {
	locationCount int
	varCount      int
}

func NewMDPTranslator() *MDPTranslator {
	return &MDPTranslator{}
}

func (t *MDPTranslator) freshLocation() int {
	k := t.locationCount
	t.locationCount++
	return k
}

func (t *MDPTranslator) currentLocation() int {
	return t.locationCount
}

func (t *MDPTranslator) freshVar() string {
	v := "v" + strconv.Itoa(t.varCount)
	t.varCount++
	return v
}

// TranslateToMDP compiles e to a complete MDP, resetting the translator's
// fresh-name counters first (spec §4.4, §5). The location variable's bound
// is rewritten to [0, accept] and its init to 0 once translation completes.
func (t *MDPTranslator) TranslateToMDP(e parser.Expr) (Result, error) {
	t.locationCount = 0
	t.varCount = 0

	result, err := t.trans(e, env.Env[valueInfo]{})
	if err != nil {
		return Result{}, err
	}

	for i, v := range result.MDP.Variables {
		if v.IsInt && v.Name == "location" {
			result.MDP.Variables[i] = mdp.IntVariable("location", mdp.Bound{Min: 0, Max: result.Accept}, 0)
		}
	}
	return result, nil
}

func (t *MDPTranslator) trans(e parser.Expr, varEnv env.Env[valueInfo]) (Result, error) {
	switch x := e.(type) {
	case parser.IntExpr:
		return t.transInt(x.N), nil
	case parser.BoolExpr:
		return t.transBool(x.B), nil
	case parser.VarExpr:
		return t.transVar(x.Name, varEnv)
	case parser.RandExpr:
		return t.transRand(x.Start, x.End), nil
	case parser.LetExpr:
		return t.transLet(x, varEnv)
	case parser.IfExpr:
		return t.transIf(x, varEnv)
	case parser.BinExpr:
		return t.transBinOp(x, varEnv)
	case parser.NegExpr:
		return t.transNeg(x, varEnv)
	case parser.TypedExpr:
		return t.trans(x.Inner, varEnv)
	case parser.LetFunExpr, parser.AppExpr, parser.FunExpr:
		return Result{}, pmlerr.Newf(pmlerr.Unimplemented, "MDP translation of %T is not supported", e)
	default:
		return Result{}, pmlerr.Newf(pmlerr.Internal, "unhandled expression %T", e)
	}
}

func locEq(n int) mdp.Expr {
	return mdp.BinOpExpr{Lhs: mdp.VarExpr{Name: "location"}, Rhs: mdp.IntExpr{N: n}, Kind: mdp.OpEq}
}

func primedLocEq(n int) mdp.Expr {
	return mdp.BinOpExpr{Lhs: mdp.VarExpr{Name: "location'"}, Rhs: mdp.IntExpr{N: n}, Kind: mdp.OpEq}
}

// concat builds "[] location=from -> 1 : location'=to;".
func concat(from, to int) mdp.Command {
	return mdp.Command{
		Guard:    locEq(from),
		Branches: []mdp.Branch{{Prob: mdp.IntExpr{N: 1}, Update: primedLocEq(to)}},
	}
}

// concatWithUpdate builds "[] location=from -> 1 : (location'=to)&update;".
func concatWithUpdate(from, to int, update mdp.Expr) mdp.Command {
	return mdp.Command{
		Guard: locEq(from),
		Branches: []mdp.Branch{{
			Prob:   mdp.IntExpr{N: 1},
			Update: mdp.BinOpExpr{Lhs: primedLocEq(to), Rhs: update, Kind: mdp.OpAnd},
		}},
	}
}

// concatWithCond builds "[] (location=from)&cond -> 1 : location'=to;".
func concatWithCond(from, to int, cond mdp.Expr) mdp.Command {
	return mdp.Command{
		Guard:    mdp.BinOpExpr{Lhs: locEq(from), Rhs: cond, Kind: mdp.OpAnd},
		Branches: []mdp.Branch{{Prob: mdp.IntExpr{N: 1}, Update: primedLocEq(to)}},
	}
}

func (t *MDPTranslator) transInt(n int) Result {
	name := "c" + strconv.Itoa(n)
	cur := t.currentLocation()
	b := mdp.Bound{Min: n, Max: n}
	return Result{
		MDP:    mdp.MDP{ModuleName: "default", Constants: []mdp.Constant{mdp.IntConstant(name, n)}},
		Init:   cur,
		Accept: cur,
		Value:  valueInfo{name: name, bound: &b},
	}
}

func (t *MDPTranslator) transBool(b bool) Result {
	name := "c" + strconv.FormatBool(b)
	cur := t.currentLocation()
	return Result{
		MDP:    mdp.MDP{ModuleName: "default", Constants: []mdp.Constant{mdp.BoolConstant(name, b)}},
		Init:   cur,
		Accept: cur,
		Value:  valueInfo{name: name},
	}
}

func (t *MDPTranslator) transVar(name string, varEnv env.Env[valueInfo]) (Result, error) {
	v, ok := varEnv.Lookup(name)
	if !ok {
		return Result{}, pmlerr.Newf(pmlerr.Internal, "unbound variable %q during MDP translation", name)
	}
	v.name = name
	cur := t.currentLocation()
	return Result{
		MDP:    mdp.MDP{ModuleName: "default"},
		Init:   cur,
		Accept: cur,
		Value:  v,
	}, nil
}

func (t *MDPTranslator) transRand(start, end int) Result {
	from := t.freshLocation()
	to := t.freshLocation()
	v := t.freshVar()

	prob := mdp.BinOpExpr{Lhs: mdp.IntExpr{N: 1}, Rhs: mdp.IntExpr{N: end - start + 1}, Kind: mdp.OpDiv}
	command := mdp.Command{Guard: locEq(from)}
	for i := start; i <= end; i++ {
		update := mdp.BinOpExpr{
			Lhs:  primedLocEq(to),
			Rhs:  mdp.BinOpExpr{Lhs: mdp.VarExpr{Name: v + "'"}, Rhs: mdp.IntExpr{N: i}, Kind: mdp.OpEq},
			Kind: mdp.OpAnd,
		}
		command.Branches = append(command.Branches, mdp.Branch{Prob: prob, Update: update})
	}

	bound := mdp.Bound{Min: start, Max: end}
	return Result{
		MDP: mdp.MDP{
			ModuleName: "default",
			Variables: []mdp.Variable{
				mdp.IntVariable("location", mdp.Bound{Min: from, Max: to}, from),
				mdp.IntVariable(v, bound, start),
			},
			Commands: []mdp.Command{command},
		},
		Init:   from,
		Accept: to,
		Value:  valueInfo{name: v, bound: &bound},
	}
}

func (t *MDPTranslator) transLet(x parser.LetExpr, varEnv env.Env[valueInfo]) (Result, error) {
	initR, err := t.trans(x.Init, varEnv)
	if err != nil {
		return Result{}, err
	}
	bodyEnv := varEnv.Append(x.Name, initR.Value)
	bodyR, err := t.trans(x.Body, bodyEnv)
	if err != nil {
		return Result{}, err
	}

	bridgeUpdate := mdp.BinOpExpr{
		Lhs:  mdp.VarExpr{Name: x.Name + "'"},
		Rhs:  mdp.VarExpr{Name: initR.Value.name},
		Kind: mdp.OpEq,
	}
	bridge := concatWithUpdate(initR.Accept, bodyR.Init, bridgeUpdate)

	result := mdp.Merge(initR.MDP, bodyR.MDP)
	result.Commands = append(result.Commands, bridge)

	if initR.Value.bound != nil {
		result.Variables = append(result.Variables, mdp.IntVariable(x.Name, *initR.Value.bound, 0))
	} else {
		// A let-bound boolean variable is always declared initialized to
		// true regardless of the bound value (spec §9, "Boolean variable
		// init"): it is always overwritten by the bridge command before
		// any consumer reads it.
		result.Variables = append(result.Variables, mdp.BoolVariable(x.Name, true))
	}

	return Result{MDP: result, Init: initR.Init, Accept: bodyR.Accept, Value: bodyR.Value}, nil
}

func (t *MDPTranslator) transIf(x parser.IfExpr, varEnv env.Env[valueInfo]) (Result, error) {
	condR, err := t.trans(x.Cond, varEnv)
	if err != nil {
		return Result{}, err
	}
	thenR, err := t.trans(x.Then, varEnv)
	if err != nil {
		return Result{}, err
	}
	elseR, err := t.trans(x.Else, varEnv)
	if err != nil {
		return Result{}, err
	}

	result := mdp.Merge(mdp.Merge(condR.MDP, thenR.MDP), elseR.MDP)

	toTrue := concatWithCond(condR.Accept, thenR.Init, mdp.VarExpr{Name: condR.Value.name})
	toFalse := concatWithCond(condR.Accept, elseR.Init, mdp.NegExpr{Inner: mdp.VarExpr{Name: condR.Value.name}})

	accept := t.freshLocation()
	resultVar := t.freshVar()

	joinTrue := concatWithUpdate(thenR.Accept, accept, mdp.BinOpExpr{
		Lhs: mdp.VarExpr{Name: resultVar + "'"}, Rhs: mdp.VarExpr{Name: thenR.Value.name}, Kind: mdp.OpEq,
	})
	joinFalse := concatWithUpdate(elseR.Accept, accept, mdp.BinOpExpr{
		Lhs: mdp.VarExpr{Name: resultVar + "'"}, Rhs: mdp.VarExpr{Name: elseR.Value.name}, Kind: mdp.OpEq,
	})

	result.Commands = append(result.Commands, toTrue, toFalse, joinTrue, joinFalse)

	if (thenR.Value.bound == nil) != (elseR.Value.bound == nil) {
		return Result{}, pmlerr.Newf(pmlerr.Internal, "if branches disagree on int/bool result")
	}

	var resultBound *mdp.Bound
	if thenR.Value.bound != nil {
		b := thenR.Value.bound.Union(*elseR.Value.bound)
		resultBound = &b
		result.Variables = append(result.Variables, mdp.IntVariable(resultVar, b, 0))
	} else {
		result.Variables = append(result.Variables, mdp.BoolVariable(resultVar, true))
	}

	return Result{
		MDP:    result,
		Init:   condR.Init,
		Accept: accept,
		Value:  valueInfo{name: resultVar, bound: resultBound},
	}, nil
}

// binOpString maps a BinOp to the PRISM operator text spliced into a
// Binop's symbolic result name (spec §4.4).
func binOpString(op parser.BinOp) string {
	switch op {
	case parser.OpAdd:
		return "+"
	case parser.OpSub:
		return "-"
	case parser.OpMul:
		return "*"
	case parser.OpDiv:
		return "/"
	case parser.OpEq:
		return "="
	case parser.OpNeq:
		return "!="
	case parser.OpLeq:
		return "<="
	case parser.OpGeq:
		return ">="
	case parser.OpAnd:
		return "&"
	case parser.OpOr:
		return "|"
	default:
		return "?"
	}
}

func (t *MDPTranslator) transBinOp(x parser.BinExpr, varEnv env.Env[valueInfo]) (Result, error) {
	lhsR, err := t.trans(x.Lhs, varEnv)
	if err != nil {
		return Result{}, err
	}
	rhsR, err := t.trans(x.Rhs, varEnv)
	if err != nil {
		return Result{}, err
	}
	result := mdp.Merge(lhsR.MDP, rhsR.MDP)

	var name string
	var bound *mdp.Bound
	switch x.Op {
	case parser.OpEq:
		name = fmt.Sprintf("%s=%s", lhsR.Value.name, rhsR.Value.name)
	case parser.OpAdd, parser.OpSub, parser.OpMul, parser.OpDiv:
		name = fmt.Sprintf("(%s%s%s)", lhsR.Value.name, binOpString(x.Op), rhsR.Value.name)
		b := arithBound(x.Op, *lhsR.Value.bound, *rhsR.Value.bound)
		bound = &b
	default:
		name = fmt.Sprintf("(%s%s%s)", lhsR.Value.name, binOpString(x.Op), rhsR.Value.name)
	}

	return Result{
		MDP:    result,
		Init:   lhsR.Init,
		Accept: rhsR.Accept,
		Value:  valueInfo{name: name, bound: bound},
	}, nil
}

func arithBound(op parser.BinOp, l, r mdp.Bound) mdp.Bound {
	switch op {
	case parser.OpAdd:
		return l.Add(r)
	case parser.OpSub:
		return l.Sub(r)
	case parser.OpMul:
		return l.Mul(r)
	default:
		return l.Div(r)
	}
}

func (t *MDPTranslator) transNeg(x parser.NegExpr, varEnv env.Env[valueInfo]) (Result, error) {
	innerR, err := t.trans(x.Inner, varEnv)
	if err != nil {
		return Result{}, err
	}
	accept := t.freshLocation()
	resultVar := t.freshVar()

	update := mdp.BinOpExpr{
		Lhs:  mdp.VarExpr{Name: resultVar + "'"},
		Rhs:  mdp.NegExpr{Inner: mdp.VarExpr{Name: innerR.Value.name}},
		Kind: mdp.OpEq,
	}
	bridge := concatWithUpdate(innerR.Accept, accept, update)

	result := innerR.MDP
	result.Commands = append(result.Commands, bridge)
	result.Variables = append(result.Variables, mdp.BoolVariable(resultVar, true))

	return Result{
		MDP:    result,
		Init:   innerR.Init,
		Accept: accept,
		Value:  valueInfo{name: resultVar},
	}, nil
}
