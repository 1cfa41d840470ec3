package parser

import (
	"github.com/pfnet-research/pml/internal/lexer"
	"github.com/pfnet-research/pml/internal/logic"
	"github.com/pfnet-research/pml/internal/pmlerr"
)

// Parse parses a complete expression from input (spec §4.1).
func Parse(input string) (Expr, error) {
	p := &parser{input: input}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ParseRefinementType parses a standalone refinement type, e.g. "{x:int|x>=0}".
func ParseRefinementType(input string) (RefinementType, error) {
	p := &parser{input: input}
	return p.refinementType()
}

// ParseDependentType parses a standalone dependent type signature.
func ParseDependentType(input string) (DependentType, error) {
	p := &parser{input: input}
	return p.dependentType()
}

// ParseFormula parses a standalone formula.
func ParseFormula(input string) (logic.Formula, error) {
	p := &parser{input: input}
	return p.formula()
}

// ParseTerm parses a standalone term.
func ParseTerm(input string) (logic.Term, error) {
	p := &parser{input: input}
	return p.term()
}

// parser threads a single mutable byte offset through a recursive-descent
// grammar (spec §4.1). It holds no other state: every production either
// consumes tokens by advancing p.pos or fails leaving p.pos where the
// failing token started, so callers that need to try an alternative can
// snapshot and restore p.pos around a parse attempt.
type parser struct {
	input string
	pos   int
}

func (p *parser) errAt(offset int, category pmlerr.Category, format string, args ...interface{}) *pmlerr.Error {
	return pmlerr.New(category, lexer.Locate(p.input, offset), format, args...)
}

// peek returns the next token without consuming it.
func (p *parser) peek() (lexer.Token, error) {
	return lexer.NextToken(p.input, p.pos)
}

func (p *parser) advance(tok lexer.Token) {
	p.pos = tok.Offset + len(tok.Literal)
}

// expect consumes the next token if it has kind; otherwise it fails without
// moving p.pos.
func (p *parser) expect(kind lexer.TokenType) (lexer.Token, error) {
	tok, err := lexer.NextToken(p.input, p.pos)
	if err != nil {
		return lexer.Token{}, err
	}
	if tok.Type != kind {
		return lexer.Token{}, p.errAt(tok.Offset, pmlerr.UnexpectedToken,
			"expected %s, found %q", kind, tok.Literal)
	}
	p.advance(tok)
	return tok, nil
}

// ---- terms (spec §3, §4.1: term := additive_term) ----

func (p *parser) term() (logic.Term, error) {
	return p.additiveTerm()
}

func (p *parser) additiveTerm() (logic.Term, error) {
	acc, err := p.multiveTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.Plus && tok.Type != lexer.Minus {
			break
		}
		p.advance(tok)
		rhs, err := p.multiveTerm()
		if err != nil {
			return nil, err
		}
		if tok.Type == lexer.Plus {
			acc = logic.AddTerm{Lhs: acc, Rhs: rhs}
		} else {
			acc = logic.SubTerm{Lhs: acc, Rhs: rhs}
		}
	}
	return acc, nil
}

func (p *parser) multiveTerm() (logic.Term, error) {
	acc, err := p.primaryTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.Star && tok.Type != lexer.Slash {
			break
		}
		p.advance(tok)
		rhs, err := p.primaryTerm()
		if err != nil {
			return nil, err
		}
		if tok.Type == lexer.Star {
			acc = logic.MulTerm{Lhs: acc, Rhs: rhs}
		} else {
			acc = logic.DivTerm{Lhs: acc, Rhs: rhs}
		}
	}
	return acc, nil
}

func (p *parser) primaryTerm() (logic.Term, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case lexer.Ident:
		p.advance(tok)
		return logic.VarTerm{Name: tok.Literal}, nil
	case lexer.LParen:
		p.advance(tok)
		inner, err := p.term()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.Prob:
		p.advance(tok)
		if _, err := p.expect(lexer.LParen); err != nil {
			return nil, err
		}
		inner, err := p.formula()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return logic.ProbTerm{Inner: inner}, nil
	case lexer.Int:
		p.advance(tok)
		return logic.IntTerm{N: atoi(tok.Literal)}, nil
	default:
		return nil, p.errAt(tok.Offset, pmlerr.UnexpectedToken, "expected a term, found %q", tok.Literal)
	}
}

// ---- formulas (spec §3, §4.1: formula := impl_formula) ----

func (p *parser) formula() (logic.Formula, error) {
	return p.implFormula()
}

func (p *parser) implFormula() (logic.Formula, error) {
	acc, err := p.orFormula()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.FatArrow {
			break
		}
		p.advance(tok)
		rhs, err := p.orFormula()
		if err != nil {
			return nil, err
		}
		acc = logic.ImplFormula{Lhs: acc, Rhs: rhs}
	}
	return acc, nil
}

func (p *parser) orFormula() (logic.Formula, error) {
	acc, err := p.andFormula()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.Or {
			break
		}
		p.advance(tok)
		rhs, err := p.andFormula()
		if err != nil {
			return nil, err
		}
		acc = logic.OrFormula{Lhs: acc, Rhs: rhs}
	}
	return acc, nil
}

func (p *parser) andFormula() (logic.Formula, error) {
	acc, err := p.negFormula()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.And {
			break
		}
		p.advance(tok)
		rhs, err := p.negFormula()
		if err != nil {
			return nil, err
		}
		acc = logic.AndFormula{Lhs: acc, Rhs: rhs}
	}
	return acc, nil
}

func (p *parser) negFormula() (logic.Formula, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Type != lexer.Not {
		return p.primaryFormula()
	}
	p.advance(tok)
	inner, err := p.negFormula()
	if err != nil {
		return nil, err
	}
	return logic.NegFormula{Inner: inner}, nil
}

// primaryFormula matches True, False, a parenthesized formula, or else tries
// a term comparison ("term cmp term") and falls back to a bare variable
// formula when the lookahead is an identifier and the comparison did not
// parse. This mirrors the grammar's ambiguity between "x" as a formula
// variable and "x" as the start of a comparison term.
func (p *parser) primaryFormula() (logic.Formula, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case lexer.True:
		p.advance(tok)
		return logic.TopFormula{}, nil
	case lexer.False:
		p.advance(tok)
		return logic.BotFormula{}, nil
	case lexer.LParen:
		p.advance(tok)
		inner, err := p.formula()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		start := p.pos
		cmp, cmpErr := p.comparisonFormula()
		if cmpErr == nil {
			return cmp, nil
		}
		if tok.Type == lexer.Ident {
			p.pos = start
			p.advance(tok)
			return logic.VarFormula{Name: tok.Literal}, nil
		}
		return nil, p.errAt(tok.Offset, pmlerr.UnexpectedToken, "expected a formula, found %q", tok.Literal)
	}
}

func (p *parser) comparisonFormula() (logic.Formula, error) {
	lhs, err := p.term()
	if err != nil {
		return nil, err
	}
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case lexer.Eq, lexer.Less, lexer.Leq, lexer.Geq, lexer.Greater:
		p.advance(tok)
	default:
		return nil, p.errAt(tok.Offset, pmlerr.UnexpectedToken, "expected a comparison operator, found %q", tok.Literal)
	}
	rhs, err := p.term()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case lexer.Eq:
		return logic.EqFormula{Lhs: lhs, Rhs: rhs}, nil
	case lexer.Less:
		return logic.LtFormula{Lhs: lhs, Rhs: rhs}, nil
	case lexer.Leq:
		return logic.LeqFormula{Lhs: lhs, Rhs: rhs}, nil
	case lexer.Geq:
		return logic.GeqFormula{Lhs: lhs, Rhs: rhs}, nil
	default:
		return logic.GtFormula{Lhs: lhs, Rhs: rhs}, nil
	}
}

// ---- simple types and refinement/dependent types (spec §4.1) ----

func (p *parser) simpleDomain() (logic.Domain, error) {
	tok, err := p.expect(lexer.Ident)
	if err != nil {
		return 0, err
	}
	switch tok.Literal {
	case "int":
		return logic.DomainInt, nil
	case "bool":
		return logic.DomainBool, nil
	default:
		return 0, p.errAt(tok.Offset, pmlerr.UnexpectedToken, "expected 'int' or 'bool', found %q", tok.Literal)
	}
}

// refinementType tries the explicit "{x:dom|phi}" form first, then falls
// back to the bare-domain and "x:dom" abbreviations (spec §4.1).
func (p *parser) refinementType() (RefinementType, error) {
	start := p.pos
	if rt, err := p.refinementTypeDetail(); err == nil {
		return rt, nil
	}
	p.pos = start
	return p.refinementTypeAbbreviation()
}

func (p *parser) refinementTypeDetail() (RefinementType, error) {
	if _, err := p.expect(lexer.LBrace); err != nil {
		return RefinementType{}, err
	}
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return RefinementType{}, err
	}
	if _, err := p.expect(lexer.Colon); err != nil {
		return RefinementType{}, err
	}
	dom, err := p.simpleDomain()
	if err != nil {
		return RefinementType{}, err
	}
	if _, err := p.expect(lexer.Bar); err != nil {
		return RefinementType{}, err
	}
	constraint, err := p.formula()
	if err != nil {
		return RefinementType{}, err
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return RefinementType{}, err
	}
	return RefinementType{Name: nameTok.Literal, Domain: dom, Constraint: constraint}, nil
}

func (p *parser) refinementTypeAbbreviation() (RefinementType, error) {
	start := p.pos
	if dom, err := p.simpleDomain(); err == nil {
		return abbreviateDomain(dom), nil
	}
	p.pos = start
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return RefinementType{}, err
	}
	if _, err := p.expect(lexer.Colon); err != nil {
		return RefinementType{}, err
	}
	dom, err := p.simpleDomain()
	if err != nil {
		return RefinementType{}, err
	}
	return abbreviateNamed(nameTok.Literal, dom), nil
}

// dependentType parses "(refty, refty, ...) -> refty" or "refty -> refty".
func (p *parser) dependentType() (DependentType, error) {
	tok, err := p.peek()
	if err != nil {
		return DependentType{}, err
	}
	var args []RefinementType
	if tok.Type == lexer.LParen {
		p.advance(tok)
		first, err := p.refinementType()
		if err != nil {
			return DependentType{}, err
		}
		args = append(args, first)
		for {
			next, err := p.peek()
			if err != nil {
				return DependentType{}, err
			}
			if next.Type != lexer.Comma {
				break
			}
			p.advance(next)
			arg, err := p.refinementType()
			if err != nil {
				return DependentType{}, err
			}
			args = append(args, arg)
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return DependentType{}, err
		}
	} else {
		arg, err := p.refinementType()
		if err != nil {
			return DependentType{}, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(lexer.Arrow); err != nil {
		return DependentType{}, err
	}
	ret, err := p.refinementType()
	if err != nil {
		return DependentType{}, err
	}
	return DependentType{Args: args, Ret: ret}, nil
}

// ---- expressions (spec §3, §4.1: expr := let | letfun | if | or_expr) ----

func (p *parser) expr() (Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case lexer.Let:
		return p.letExpr()
	case lexer.LetFun:
		return p.letFunExpr()
	case lexer.If:
		return p.ifExpr()
	default:
		return p.orExpr()
	}
}

func (p *parser) letExpr() (Expr, error) {
	if _, err := p.expect(lexer.Let); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Eq); err != nil {
		return nil, err
	}
	init, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.In); err != nil {
		return nil, err
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	return LetExpr{Name: nameTok.Literal, Init: init, Body: body}, nil
}

func (p *parser) letFunExpr() (Expr, error) {
	if _, err := p.expect(lexer.LetFun); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	typ, err := p.dependentType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Eq); err != nil {
		return nil, err
	}
	init, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.In); err != nil {
		return nil, err
	}
	body, err := p.expr()
	if err != nil {
		return nil, err
	}
	return LetFunExpr{Name: nameTok.Literal, Type: typ, Body: init, Cont: body}, nil
}

func (p *parser) ifExpr() (Expr, error) {
	if _, err := p.expect(lexer.If); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Then); err != nil {
		return nil, err
	}
	thenE, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Else); err != nil {
		return nil, err
	}
	elseE, err := p.expr()
	if err != nil {
		return nil, err
	}
	return IfExpr{Cond: cond, Then: thenE, Else: elseE}, nil
}

func (p *parser) primaryExpr() (Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case lexer.Int:
		p.advance(tok)
		return IntExpr{N: atoi(tok.Literal)}, nil
	case lexer.True:
		p.advance(tok)
		return BoolExpr{B: true}, nil
	case lexer.False:
		p.advance(tok)
		return BoolExpr{B: false}, nil
	case lexer.Rand:
		p.advance(tok)
		if _, err := p.expect(lexer.LParen); err != nil {
			return nil, err
		}
		startTok, err := p.expect(lexer.Int)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Comma); err != nil {
			return nil, err
		}
		endTok, err := p.expect(lexer.Int)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return RandExpr{Start: atoi(startTok.Literal), End: atoi(endTok.Literal)}, nil
	case lexer.Ident:
		p.advance(tok)
		return VarExpr{Name: tok.Literal}, nil
	case lexer.LParen:
		p.advance(tok)
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.errAt(tok.Offset, pmlerr.UnexpectedToken, "expected a number, boolean, identifier, or parenthesis, found %q", tok.Literal)
	}
}

func (p *parser) negExpr() (Expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Type != lexer.Not {
		return p.primaryExpr()
	}
	p.advance(tok)
	inner, err := p.negExpr()
	if err != nil {
		return nil, err
	}
	return NegExpr{Inner: inner}, nil
}

// typedExpr optionally decorates a negExpr with ": reftype".
func (p *parser) typedExpr() (Expr, error) {
	inner, err := p.negExpr()
	if err != nil {
		return nil, err
	}
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Type != lexer.Colon {
		return inner, nil
	}
	p.advance(tok)
	typ, err := p.refinementType()
	if err != nil {
		return nil, err
	}
	return TypedExpr{Inner: inner, Type: typ}, nil
}

// applicativeExpr greedily consumes trailing typedExpr arguments as a
// function application; each attempt is rolled back on failure so a
// following keyword (then/else/in) or closing paren cleanly ends the chain.
func (p *parser) applicativeExpr() (Expr, error) {
	fn, err := p.typedExpr()
	if err != nil {
		return nil, err
	}
	var args []Expr
	for {
		start := p.pos
		arg, err := p.typedExpr()
		if err != nil {
			p.pos = start
			break
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return fn, nil
	}
	return AppExpr{Fn: fn, Args: args}, nil
}

func (p *parser) multiveExpr() (Expr, error) {
	acc, err := p.applicativeExpr()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.Star && tok.Type != lexer.Slash {
			break
		}
		p.advance(tok)
		rhs, err := p.applicativeExpr()
		if err != nil {
			return nil, err
		}
		if tok.Type == lexer.Star {
			acc = BinExpr{Op: OpMul, Lhs: acc, Rhs: rhs}
		} else {
			acc = BinExpr{Op: OpDiv, Lhs: acc, Rhs: rhs}
		}
	}
	return acc, nil
}

func (p *parser) additiveExpr() (Expr, error) {
	acc, err := p.multiveExpr()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.Plus && tok.Type != lexer.Minus {
			break
		}
		p.advance(tok)
		rhs, err := p.multiveExpr()
		if err != nil {
			return nil, err
		}
		if tok.Type == lexer.Plus {
			acc = BinExpr{Op: OpAdd, Lhs: acc, Rhs: rhs}
		} else {
			acc = BinExpr{Op: OpSub, Lhs: acc, Rhs: rhs}
		}
	}
	return acc, nil
}

func (p *parser) equiveExpr() (Expr, error) {
	acc, err := p.additiveExpr()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case lexer.DoubleEq, lexer.Neq, lexer.Leq, lexer.Geq:
			p.advance(tok)
		default:
			return acc, nil
		}
		rhs, err := p.additiveExpr()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case lexer.DoubleEq:
			acc = BinExpr{Op: OpEq, Lhs: acc, Rhs: rhs}
		case lexer.Neq:
			acc = BinExpr{Op: OpNeq, Lhs: acc, Rhs: rhs}
		case lexer.Leq:
			acc = BinExpr{Op: OpLeq, Lhs: acc, Rhs: rhs}
		default:
			acc = BinExpr{Op: OpGeq, Lhs: acc, Rhs: rhs}
		}
	}
}

// andExpr matches '&', the expression-level and connective — kept distinct
// from the formula grammar's "/\" so that a typed expression's refinement
// bar '|' never collides with boolean "or" at the expression level.
func (p *parser) andExpr() (Expr, error) {
	acc, err := p.equiveExpr()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.Amp {
			break
		}
		p.advance(tok)
		rhs, err := p.equiveExpr()
		if err != nil {
			return nil, err
		}
		acc = BinExpr{Op: OpAnd, Lhs: acc, Rhs: rhs}
	}
	return acc, nil
}

// orExpr matches '|' and builds an Or node, fixing the source-language
// parser's original mistake of building an And node on both sides of this
// production.
func (p *parser) orExpr() (Expr, error) {
	acc, err := p.andExpr()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != lexer.Bar {
			break
		}
		p.advance(tok)
		rhs, err := p.andExpr()
		if err != nil {
			return nil, err
		}
		acc = BinExpr{Op: OpOr, Lhs: acc, Rhs: rhs}
	}
	return acc, nil
}

// atoi parses a decimal integer literal already validated by the lexer
// (optional leading '-' followed by one or more digits).
func atoi(s string) int {
	neg := false
	i := 0
	if len(s) > 0 && s[0] == '-' {
		neg = true
		i = 1
	}
	n := 0
	for ; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}
