package mdp

import (
	"strings"
	"testing"
)

func TestBoundArithmetic(t *testing.T) {
	a := Bound{Min: 1, Max: 3}
	b := Bound{Min: 2, Max: 5}
	if got := a.Union(b); got != (Bound{1, 5}) {
		t.Errorf("Union = %+v", got)
	}
	if got, ok := a.Intersect(b); !ok || got != (Bound{2, 3}) {
		t.Errorf("Intersect = %+v, ok=%v", got, ok)
	}
	if got := a.Add(b); got != (Bound{3, 8}) {
		t.Errorf("Add = %+v", got)
	}
	if got := a.Sub(b); got != (Bound{-4, 1}) {
		t.Errorf("Sub = %+v", got)
	}
	if got := a.Neg(); got != (Bound{-3, -1}) {
		t.Errorf("Neg = %+v", got)
	}
}

func TestIntersectEmpty(t *testing.T) {
	a := Bound{Min: 1, Max: 2}
	b := Bound{Min: 5, Max: 9}
	if _, ok := a.Intersect(b); ok {
		t.Fatalf("expected an empty intersection")
	}
}

func TestMergeDropsRHSLocationAndDedupes(t *testing.T) {
	lhs := MDP{
		Variables: []Variable{IntVariable("location", Bound{0, 1}, 0), IntVariable("v0", Bound{0, 9}, 0)},
		Commands:  []Command{{Guard: BoolExpr{B: true}}},
	}
	rhs := MDP{
		Variables: []Variable{IntVariable("location", Bound{0, 2}, 0), IntVariable("v1", Bound{0, 9}, 0)},
		Constants: []Constant{IntConstant("c1", 1)},
		Commands:  []Command{{Guard: BoolExpr{B: false}}},
	}
	merged := Merge(lhs, rhs)
	if len(merged.Variables) != 3 {
		t.Fatalf("expected location, v0, v1; got %+v", merged.Variables)
	}
	if len(merged.Commands) != 2 {
		t.Fatalf("expected both commands appended, got %d", len(merged.Commands))
	}
}

func TestPrintVariableForms(t *testing.T) {
	out := Print(MDP{
		ModuleName: "default",
		Variables: []Variable{
			IntVariable("location", Bound{0, 3}, 0),
			IntVariable("c5", Bound{5, 5}, 5),
			BoolVariable("b0", true),
		},
		Constants: []Constant{
			IntConstant("c1", 1),
			BoolConstant("ctrue", true),
		},
	})
	for _, want := range []string{
		"location : [0..3] init 0;",
		"c5 : int init 5;",
		"b0 : bool init true;",
		"c1 : [1..2] init 1;",
		"ctrue bool init true;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintCommandAndEqBinop(t *testing.T) {
	cmd := Command{
		Guard: BinOpExpr{Lhs: VarExpr{Name: "location"}, Rhs: IntExpr{N: 0}, Kind: OpEq},
		Branches: []Branch{
			{Prob: IntExpr{N: 1}, Update: BinOpExpr{Lhs: VarExpr{Name: "location'"}, Rhs: IntExpr{N: 1}, Kind: OpEq}},
		},
	}
	out := Print(MDP{ModuleName: "default", Commands: []Command{cmd}})
	want := "[] (location=0) -> 1 : (location'=1);"
	if !strings.Contains(out, want) {
		t.Errorf("output missing %q:\n%s", want, out)
	}
}

func TestPrintMultiBranchCommand(t *testing.T) {
	cmd := Command{
		Guard: BoolExpr{B: true},
		Branches: []Branch{
			{Prob: IntExpr{N: 1}, Update: IntExpr{N: 1}},
			{Prob: IntExpr{N: 2}, Update: IntExpr{N: 2}},
		},
	}
	out := Print(MDP{Commands: []Command{cmd}})
	if !strings.Contains(out, "1 : 1+2 : 2;") {
		t.Errorf("output missing multi-branch join:\n%s", out)
	}
}

func TestPrintNegExpr(t *testing.T) {
	out := Print(MDP{Commands: []Command{{
		Guard:    BoolExpr{B: true},
		Branches: []Branch{{Prob: IntExpr{N: 1}, Update: NegExpr{Inner: VarExpr{Name: "x"}}}},
	}}})
	if !strings.Contains(out, "!(x)") {
		t.Errorf("output missing negation:\n%s", out)
	}
}
