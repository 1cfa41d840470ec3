// Package mdp models the Markov Decision Process that an expression
// compiles to: a PRISM-shaped module of bounded-integer and boolean
// variables, named constants, and guarded commands with probabilistic
// branches (spec §4.4, §6).
package mdp

import "fmt"

// Bound is an inclusive integer interval [Min, Max].
type Bound struct {
	Min, Max int
}

// Union computes [min(a,c), max(b,d)] (spec §4.4 bound arithmetic).
func (b Bound) Union(o Bound) Bound {
	return Bound{Min: minInt(b.Min, o.Min), Max: maxInt(b.Max, o.Max)}
}

// Intersect computes [max(a,c), min(b,d)], or ok=false if that interval is
// empty.
func (b Bound) Intersect(o Bound) (Bound, bool) {
	r := Bound{Min: maxInt(b.Min, o.Min), Max: minInt(b.Max, o.Max)}
	return r, r.Min <= r.Max
}

// Add, Sub, Mul, and Div implement the bound arithmetic table in spec §4.4.
// Mul and Div intentionally reproduce the source's corner-case behavior
// (spec §9, "Bound arithmetic corner cases"): they assume non-negative,
// ascending intervals and do not hunt for the true min/max across all four
// corner products, and Div ignores the lower divisor entirely.
func (b Bound) Add(o Bound) Bound { return Bound{b.Min + o.Min, b.Max + o.Max} }
func (b Bound) Sub(o Bound) Bound { return Bound{b.Min - o.Max, b.Max - o.Min} }
func (b Bound) Mul(o Bound) Bound { return Bound{b.Min * o.Min, b.Max * o.Max} }
func (b Bound) Div(o Bound) Bound { return Bound{b.Min / o.Max, b.Max / o.Max} }
func (b Bound) Neg() Bound        { return Bound{-b.Max, -b.Min} }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Variable is a PRISM module variable: either a bounded (or degenerate)
// integer, or a boolean.
type Variable struct {
	Name string
	// IsInt distinguishes the two variants in place of a second sum type;
	// Bound and Init carry the integer case, BoolInit the boolean case.
	IsInt    bool
	Bound    Bound
	Init     int
	BoolInit bool
}

func IntVariable(name string, bound Bound, init int) Variable {
	return Variable{Name: name, IsInt: true, Bound: bound, Init: init}
}

func BoolVariable(name string, init bool) Variable {
	return Variable{Name: name, IsInt: false, BoolInit: init}
}

// Constant is a named literal, rendered as a degenerate bounded variable
// (int) or as a bare bool declaration (spec §6, §9).
type Constant struct {
	Name  string
	IsInt bool
	N     int
	B     bool
}

func IntConstant(name string, n int) Constant   { return Constant{Name: name, IsInt: true, N: n} }
func BoolConstant(name string, b bool) Constant { return Constant{Name: name, B: b} }

// BinOpKind identifies a guard/update expression's binary operator (spec
// §4.4/§6; mirrors the original mdp_expr binop_kind_t space, including
// operators — Iff — that this translator never emits but that the PRISM
// expression grammar supports).
type BinOpKind int

const (
	OpMul BinOpKind = iota
	OpDiv
	OpAdd
	OpSub
	OpLt
	OpLeq
	OpGeq
	OpGt
	OpEq
	OpNeq
	OpAnd
	OpOr
	OpIff
	OpImpl
)

func (k BinOpKind) String() string {
	switch k {
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpLt:
		return "<"
	case OpLeq:
		return "<="
	case OpGeq:
		return ">="
	case OpGt:
		return ">"
	case OpEq:
		return "="
	case OpNeq:
		return "!="
	case OpAnd:
		return "&"
	case OpOr:
		return "|"
	case OpIff:
		return "<=>"
	case OpImpl:
		return "=>"
	default:
		return fmt.Sprintf("BinOpKind(%d)", int(k))
	}
}

// Expr is a PRISM guard/update expression: a closed sum type matching the
// expression grammar PRISM itself accepts inside a command (spec §9,
// "Polymorphic variants over AST").
type Expr interface {
	isExpr()
}

type IntExpr struct{ N int }
type RealExpr struct{ D float64 }
type BoolExpr struct{ B bool }

// VarExpr names a variable, a primed variable ("x'"), or — since the
// translator never allocates a variable for a Binop's symbolic result —
// an already-rendered PRISM subexpression string spliced in verbatim.
type VarExpr struct{ Name string }

type NegExpr struct{ Inner Expr }

type BinOpExpr struct {
	Lhs, Rhs Expr
	Kind     BinOpKind
}

type IfExpr struct{ Cond, Then, Else Expr }
type MinExpr struct{ Elems []Expr }
type MaxExpr struct{ Elems []Expr }
type FloorExpr struct{ Inner Expr }
type CeilExpr struct{ Inner Expr }
type PowExpr struct{ X, Y Expr }
type ModExpr struct{ I, N Expr }
type LogExpr struct{ X, B Expr }

func (IntExpr) isExpr()   {}
func (RealExpr) isExpr()  {}
func (BoolExpr) isExpr()  {}
func (VarExpr) isExpr()   {}
func (NegExpr) isExpr()   {}
func (BinOpExpr) isExpr() {}
func (IfExpr) isExpr()    {}
func (MinExpr) isExpr()   {}
func (MaxExpr) isExpr()   {}
func (FloorExpr) isExpr() {}
func (CeilExpr) isExpr()  {}
func (PowExpr) isExpr()   {}
func (ModExpr) isExpr()   {}
func (LogExpr) isExpr()   {}

// Branch is one probabilistic outcome of a Command: "prob : update".
type Branch struct {
	Prob   Expr
	Update Expr
}

// Command is a guarded choice over one or more probabilistic Branches:
// "[] guard -> p1:u1 + p2:u2 + ...;".
type Command struct {
	Guard    Expr
	Branches []Branch
}

// MDP is one PRISM module: its variable and constant declarations plus its
// guarded commands.
type MDP struct {
	ModuleName string
	Variables  []Variable
	Constants  []Constant
	Commands   []Command
}

// Merge combines lhs and rhs per the discipline in spec §4.4: rhs variables
// are appended unless already bound in lhs (the rhs "location" variable is
// dropped whenever lhs already has one, and kept when lhs has none — the
// merged module has exactly one as long as either side has one), rhs
// constants are appended unless already bound, and rhs commands are appended
// unconditionally. lhs is mutated and returned; rhs is left untouched.
func Merge(lhs, rhs MDP) MDP {
	haveVar := make(map[string]bool, len(lhs.Variables))
	for _, v := range lhs.Variables {
		haveVar[v.Name] = true
	}
	for _, v := range rhs.Variables {
		if v.IsInt && v.Name == "location" && haveVar["location"] {
			continue
		}
		if haveVar[v.Name] {
			continue
		}
		lhs.Variables = append(lhs.Variables, v)
		haveVar[v.Name] = true
	}

	haveConst := make(map[string]bool, len(lhs.Constants))
	for _, c := range lhs.Constants {
		haveConst[c.Name] = true
	}
	for _, c := range rhs.Constants {
		if haveConst[c.Name] {
			continue
		}
		lhs.Constants = append(lhs.Constants, c)
		haveConst[c.Name] = true
	}

	lhs.Commands = append(lhs.Commands, rhs.Commands...)
	return lhs
}
