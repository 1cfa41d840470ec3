package mdp

import (
	"fmt"
	"strings"
)

// Writer renders an MDP to PRISM module source, in the style of a
// strings.Builder-backed IR-to-text emitter: each writeX method appends to
// a single internal buffer and Print returns the accumulated text.
type Writer struct {
	out strings.Builder
}

// Print renders m as complete PRISM module source (spec §6).
func Print(m MDP) string {
	var w Writer
	w.writeMDP(m)
	return w.out.String()
}

func (w *Writer) writeMDP(m MDP) {
	w.out.WriteString("mdp\n\n")
	fmt.Fprintf(&w.out, "module %s\n\n", m.ModuleName)

	for _, v := range m.Variables {
		w.writeVariable(v)
		w.out.WriteByte('\n')
	}
	for _, c := range m.Constants {
		w.writeConstant(c)
		w.out.WriteByte('\n')
	}

	w.out.WriteByte('\n')

	for _, cmd := range m.Commands {
		w.writeCommand(cmd)
		w.out.WriteByte('\n')
	}

	w.out.WriteByte('\n')
	w.out.WriteString("endmodule")
}

// writeVariable emits a bounded int variable, its degenerate single-value
// form, or a bool variable (spec §6).
func (w *Writer) writeVariable(v Variable) {
	if v.IsInt {
		if v.Bound.Min == v.Bound.Max {
			fmt.Fprintf(&w.out, "%s : int init %d;", v.Name, v.Bound.Min)
		} else {
			fmt.Fprintf(&w.out, "%s : [%d..%d] init %d;", v.Name, v.Bound.Min, v.Bound.Max, v.Init)
		}
		return
	}
	fmt.Fprintf(&w.out, "%s : bool init %t;", v.Name, v.BoolInit)
}

// writeConstant emits an int constant as a degenerate [n..n+1] interval —
// a PRISM v4.4 workaround (spec §9) — or a bare bool declaration with no
// colon, matching the source exactly (spec §6).
func (w *Writer) writeConstant(c Constant) {
	if c.IsInt {
		fmt.Fprintf(&w.out, "%s : [%d..%d] init %d;", c.Name, c.N, c.N+1, c.N)
		return
	}
	fmt.Fprintf(&w.out, "%s bool init %t;", c.Name, c.B)
}

// writeCommand emits "[] guard -> p1:u1 + p2:u2 + ...;". A command with no
// branches renders as nothing, matching the source.
func (w *Writer) writeCommand(cmd Command) {
	if len(cmd.Branches) == 0 {
		return
	}
	w.out.WriteString("[] ")
	w.writeExpr(cmd.Guard)
	w.out.WriteString(" -> ")
	for i, b := range cmd.Branches {
		if i > 0 {
			w.out.WriteString("+")
		}
		w.writeExpr(b.Prob)
		w.out.WriteString(" : ")
		w.writeExpr(b.Update)
	}
	w.out.WriteString(";")
}

// writeExpr renders e in PRISM's expression syntax. Eq is parenthesized;
// every other binary operator is printed infix with no extra parens,
// matching the source's printer exactly.
func (w *Writer) writeExpr(e Expr) {
	switch x := e.(type) {
	case IntExpr:
		fmt.Fprintf(&w.out, "%d", x.N)
	case RealExpr:
		fmt.Fprintf(&w.out, "%v", x.D)
	case BoolExpr:
		fmt.Fprintf(&w.out, "%t", x.B)
	case VarExpr:
		w.out.WriteString(x.Name)
	case NegExpr:
		w.out.WriteString("!(")
		w.writeExpr(x.Inner)
		w.out.WriteString(")")
	case BinOpExpr:
		if x.Kind == OpEq {
			w.out.WriteString("(")
			w.writeExpr(x.Lhs)
			w.out.WriteString(x.Kind.String())
			w.writeExpr(x.Rhs)
			w.out.WriteString(")")
		} else {
			w.writeExpr(x.Lhs)
			w.out.WriteString(x.Kind.String())
			w.writeExpr(x.Rhs)
		}
	case IfExpr:
		w.out.WriteString("(")
		w.writeExpr(x.Cond)
		w.out.WriteString("?")
		w.writeExpr(x.Then)
		w.out.WriteString(":")
		w.writeExpr(x.Else)
		w.out.WriteString(")")
	case MinExpr:
		w.writeVariadicFunc("min", x.Elems)
	case MaxExpr:
		w.writeVariadicFunc("max", x.Elems)
	case FloorExpr:
		w.out.WriteString("floor(")
		w.writeExpr(x.Inner)
		w.out.WriteString(")")
	case CeilExpr:
		w.out.WriteString("ceil(")
		w.writeExpr(x.Inner)
		w.out.WriteString(")")
	case PowExpr:
		w.out.WriteString("pow(")
		w.writeExpr(x.X)
		w.out.WriteString(", ")
		w.writeExpr(x.Y)
		w.out.WriteString(")")
	case ModExpr:
		w.out.WriteString("mod(")
		w.writeExpr(x.I)
		w.out.WriteString(", ")
		w.writeExpr(x.N)
		w.out.WriteString(")")
	case LogExpr:
		w.out.WriteString("log(")
		w.writeExpr(x.X)
		w.out.WriteString(", ")
		w.writeExpr(x.B)
		w.out.WriteString(")")
	default:
		fmt.Fprintf(&w.out, "<unknown expr %T>", e)
	}
}

func (w *Writer) writeVariadicFunc(name string, elems []Expr) {
	fmt.Fprintf(&w.out, "%s(", name)
	for i, e := range elems {
		if i > 0 {
			w.out.WriteString(", ")
		}
		w.writeExpr(e)
	}
	w.out.WriteString(")")
}
