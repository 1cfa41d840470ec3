package translate

import (
	"strings"
	"testing"

	"github.com/pfnet-research/pml/internal/mdp"
	"github.com/pfnet-research/pml/internal/parser"
)

// TestTranslateIntLiteral is scenario S3: 42 compiles to a single int
// constant c42, no variables or commands, init=accept=0.
func TestTranslateIntLiteral(t *testing.T) {
	tr := NewMDPTranslator()
	result, err := tr.TranslateToMDP(parser.IntExpr{N: 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.MDP.Variables) != 0 {
		t.Fatalf("expected no variables, got %+v", result.MDP.Variables)
	}
	if len(result.MDP.Commands) != 0 {
		t.Fatalf("expected no commands, got %+v", result.MDP.Commands)
	}
	if len(result.MDP.Constants) != 1 || result.MDP.Constants[0] != mdp.IntConstant("c42", 42) {
		t.Fatalf("expected a single c42=42 constant, got %+v", result.MDP.Constants)
	}
	if result.Init != 0 || result.Accept != 0 {
		t.Fatalf("expected init=accept=0, got init=%d accept=%d", result.Init, result.Accept)
	}
	if result.Value.name != "c42" || *result.Value.bound != (mdp.Bound{Min: 42, Max: 42}) {
		t.Fatalf("expected value (c42, [42,42]), got %+v", result.Value)
	}
}

// TestTranslateRand is scenario S4: rand(1,2) compiles to location:[0..1]
// init 0 (after finalisation) and v0:[1..2] init 1, with a single two-branch
// command splitting location=0 into v0=1 or v0=2 with equal probability.
func TestTranslateRand(t *testing.T) {
	tr := NewMDPTranslator()
	result, err := tr.TranslateToMDP(parser.RandExpr{Start: 1, End: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Init != 0 || result.Accept != 1 {
		t.Fatalf("expected init=0 accept=1, got init=%d accept=%d", result.Init, result.Accept)
	}
	if result.Value.name != "v0" || *result.Value.bound != (mdp.Bound{Min: 1, Max: 2}) {
		t.Fatalf("expected value (v0, [1,2]), got %+v", result.Value)
	}
	if len(result.MDP.Constants) != 0 {
		t.Fatalf("expected no constants, got %+v", result.MDP.Constants)
	}
	if len(result.MDP.Commands) != 1 {
		t.Fatalf("expected exactly one command, got %d", len(result.MDP.Commands))
	}

	wantLoc := mdp.IntVariable("location", mdp.Bound{Min: 0, Max: 1}, 0)
	wantVar := mdp.IntVariable("v0", mdp.Bound{Min: 1, Max: 2}, 1)
	foundLoc, foundVar := false, false
	for _, v := range result.MDP.Variables {
		if v == wantLoc {
			foundLoc = true
		}
		if v == wantVar {
			foundVar = true
		}
	}
	if !foundLoc {
		t.Errorf("missing finalised location variable, got %+v", result.MDP.Variables)
	}
	if !foundVar {
		t.Errorf("missing v0 variable, got %+v", result.MDP.Variables)
	}

	out := mdp.Print(result.MDP)
	want := "[] (location=0) -> 1/2 : (location'=1)&(v0'=1)+1/2 : (location'=1)&(v0'=2);"
	if !strings.Contains(out, want) {
		t.Errorf("printed MDP missing expected command:\nwant substring: %s\ngot:\n%s", want, out)
	}
}

// TestTranslateRandBranchCount is invariant 6: b-a+1 branches, each
// probability 1/(b-a+1), each with a unique v'=i.
func TestTranslateRandBranchCount(t *testing.T) {
	tr := NewMDPTranslator()
	result, err := tr.TranslateToMDP(parser.RandExpr{Start: 3, End: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.MDP.Commands) != 1 {
		t.Fatalf("expected one command, got %d", len(result.MDP.Commands))
	}
	branches := result.MDP.Commands[0].Branches
	if len(branches) != 5 {
		t.Fatalf("expected 5 branches for rand(3,7), got %d", len(branches))
	}
	seen := make(map[int]bool)
	for _, b := range branches {
		prob, ok := b.Prob.(mdp.BinOpExpr)
		if !ok || prob.Kind != mdp.OpDiv {
			t.Fatalf("expected a division probability expression, got %+v", b.Prob)
		}
		denom, ok := prob.Rhs.(mdp.IntExpr)
		if !ok || denom.N != 5 {
			t.Fatalf("expected denominator 5, got %+v", prob.Rhs)
		}
		update, ok := b.Update.(mdp.BinOpExpr)
		if !ok || update.Kind != mdp.OpAnd {
			t.Fatalf("expected an And update, got %+v", b.Update)
		}
		assign, ok := update.Rhs.(mdp.BinOpExpr)
		if !ok || assign.Kind != mdp.OpEq {
			t.Fatalf("expected a v'=i assignment, got %+v", update.Rhs)
		}
		i, ok := assign.Rhs.(mdp.IntExpr)
		if !ok {
			t.Fatalf("expected an int literal on the rhs of v'=i, got %+v", assign.Rhs)
		}
		seen[i.N] = true
	}
	for i := 3; i <= 7; i++ {
		if !seen[i] {
			t.Errorf("missing branch assigning v'=%d", i)
		}
	}
}

// TestTranslateLocationEnvelope is invariant 7: after finalisation the
// location variable's bound is [0, accept].
func TestTranslateLocationEnvelope(t *testing.T) {
	tr := NewMDPTranslator()
	e := parser.IfExpr{
		Cond: parser.BoolExpr{B: true},
		Then: parser.RandExpr{Start: 0, End: 1},
		Else: parser.RandExpr{Start: 2, End: 3},
	}
	result, err := tr.TranslateToMDP(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range result.MDP.Variables {
		if v.Name == "location" {
			if v.Bound != (mdp.Bound{Min: 0, Max: result.Accept}) {
				t.Fatalf("expected location bound [0,%d], got %+v", result.Accept, v.Bound)
			}
			if v.Init != 0 {
				t.Fatalf("expected location init 0, got %d", v.Init)
			}
		}
	}
}

// TestTranslateIsDeterministic is invariant 5: translating the same
// expression twice (with independent translators) yields byte-identical
// PRISM output.
func TestTranslateIsDeterministic(t *testing.T) {
	e := parser.LetExpr{
		Name: "x",
		Init: parser.RandExpr{Start: 0, End: 3},
		Body: parser.BinExpr{Op: parser.OpAdd, Lhs: parser.VarExpr{Name: "x"}, Rhs: parser.IntExpr{N: 1}},
	}
	r1, err := NewMDPTranslator().TranslateToMDP(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := NewMDPTranslator().TranslateToMDP(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mdp.Print(r1.MDP) != mdp.Print(r2.MDP) {
		t.Fatalf("translation is not deterministic:\n%s\nvs\n%s", mdp.Print(r1.MDP), mdp.Print(r2.MDP))
	}
}

// TestTranslateLetBool exercises the boolean-init quirk: a let-bound
// boolean value always declares its variable initialised to true.
func TestTranslateLetBool(t *testing.T) {
	tr := NewMDPTranslator()
	e := parser.LetExpr{Name: "b", Init: parser.BoolExpr{B: false}, Body: parser.VarExpr{Name: "b"}}
	result, err := tr.TranslateToMDP(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, v := range result.MDP.Variables {
		if v.Name == "b" {
			found = true
			if v.IsInt || !v.BoolInit {
				t.Fatalf("expected bool variable b always-true-init, got %+v", v)
			}
		}
	}
	if !found {
		t.Fatalf("expected a declared variable b, got %+v", result.MDP.Variables)
	}
}

// TestTranslateBinopEqHasNoParens checks the asymmetric formatting of
// transBinOp: Eq has no surrounding parens, but other comparisons do.
func TestTranslateBinopEqHasNoParens(t *testing.T) {
	tr := NewMDPTranslator()
	e := parser.BinExpr{Op: parser.OpEq, Lhs: parser.IntExpr{N: 1}, Rhs: parser.IntExpr{N: 2}}
	result, err := tr.TranslateToMDP(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Value.name != "c1=c2" {
		t.Fatalf("expected unparenthesized c1=c2, got %q", result.Value.name)
	}
	if result.Value.bound != nil {
		t.Fatalf("expected Eq to carry no bound, got %+v", result.Value.bound)
	}
}

// TestTranslateIfMixedBranchesError checks that an if with one int branch
// and one bool branch is rejected as an internal error.
func TestTranslateIfMixedBranchesError(t *testing.T) {
	tr := NewMDPTranslator()
	e := parser.IfExpr{
		Cond: parser.BoolExpr{B: true},
		Then: parser.IntExpr{N: 1},
		Else: parser.BoolExpr{B: false},
	}
	if _, err := tr.TranslateToMDP(e); err == nil {
		t.Fatalf("expected an internal error for mixed if branches")
	}
}

// TestTranslateUnimplementedConstructs checks that App surfaces an error
// rather than panicking (LetFun and Fun share the same Unimplemented arm of
// trans but are not exercised here).
func TestTranslateUnimplementedConstructs(t *testing.T) {
	tr := NewMDPTranslator()
	if _, err := tr.TranslateToMDP(parser.AppExpr{Fn: parser.VarExpr{Name: "f"}, Args: nil}); err == nil {
		t.Fatalf("expected an unimplemented error for App")
	}
}
