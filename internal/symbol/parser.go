package symbol

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
)

// Limits on accepted formula text. Input is typo- or attacker-controlled, so
// parsing cost is bounded up front rather than trusting the source.
const (
	maxInputLen = 512
	maxDepth    = 64
)

// Parse converts formula text into an Expr. The grammar covers arithmetic
// (+ - * / ^, with ** accepted for ^), parentheses, float literals, the free
// variables x and t, the constant pi, and the whitelisted elementary
// functions. Implicit multiplication is supported: "2x", "3(x+1)" and
// "x sin(x)" all parse. Malformed input returns an error wrapping
// ErrUnparseable; Parse never panics.
func Parse(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, eris.Wrap(ErrUnparseable, "empty input")
	}
	if len(text) > maxInputLen {
		return nil, eris.Wrapf(ErrUnparseable, "input exceeds %d bytes", maxInputLen)
	}

	toks, err := lex(text)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}
	expr, err := p.parseSum(0)
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, eris.Wrapf(ErrUnparseable, "unexpected %q", p.peek().text)
	}
	return expr, nil
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	val  float64
}

func lex(text string) ([]token, error) {
	var toks []token
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case r == '*':
			// ** is the power operator, a single * multiplies.
			if i+1 < len(runes) && runes[i+1] == '*' {
				toks = append(toks, token{kind: tokOp, text: "^"})
				i += 2
			} else {
				toks = append(toks, token{kind: tokOp, text: "*"})
				i++
			}
		case r == '+' || r == '-' || r == '/' || r == '^':
			toks = append(toks, token{kind: tokOp, text: string(r)})
			i++
		case unicode.IsDigit(r) || r == '.':
			j := i
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			lit := string(runes[i:j])
			v, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return nil, eris.Wrapf(ErrUnparseable, "bad number %q", lit)
			}
			toks = append(toks, token{kind: tokNumber, text: lit, val: v})
			i = j
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[i:j])})
			i = j
		default:
			return nil, eris.Wrapf(ErrUnparseable, "unexpected character %q", string(r))
		}
	}
	if len(toks) == 0 {
		return nil, eris.Wrap(ErrUnparseable, "empty input")
	}
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

func (p *parser) acceptOp(op string) bool {
	if !p.done() && p.peek().kind == tokOp && p.peek().text == op {
		p.pos++
		return true
	}
	return false
}

// startsFactor reports whether the upcoming token can begin a factor, which
// is what makes adjacency count as multiplication.
func (p *parser) startsFactor() bool {
	if p.done() {
		return false
	}
	switch p.peek().kind {
	case tokNumber, tokIdent, tokLParen:
		return true
	default:
		return false
	}
}

func (p *parser) parseSum(depth int) (Expr, error) {
	if depth > maxDepth {
		return nil, eris.Wrapf(ErrUnparseable, "nesting exceeds depth %d", maxDepth)
	}
	left, err := p.parseProduct(depth + 1)
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.acceptOp("+"):
			right, err := p.parseProduct(depth + 1)
			if err != nil {
				return nil, err
			}
			left = Sum(left, right)
		case p.acceptOp("-"):
			right, err := p.parseProduct(depth + 1)
			if err != nil {
				return nil, err
			}
			left = Sum(left, Negate(right))
		default:
			return left, nil
		}
	}
}

func (p *parser) parseProduct(depth int) (Expr, error) {
	if depth > maxDepth {
		return nil, eris.Wrapf(ErrUnparseable, "nesting exceeds depth %d", maxDepth)
	}
	left, err := p.parseUnary(depth + 1)
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.acceptOp("*"):
			right, err := p.parseUnary(depth + 1)
			if err != nil {
				return nil, err
			}
			left = Product(left, right)
		case p.acceptOp("/"):
			right, err := p.parseUnary(depth + 1)
			if err != nil {
				return nil, err
			}
			left = Quotient(left, right)
		case p.startsFactor():
			// Implicit multiplication: "2x", "3(x+1)", "x sin(x)".
			right, err := p.parseUnary(depth + 1)
			if err != nil {
				return nil, err
			}
			left = Product(left, right)
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary(depth int) (Expr, error) {
	if depth > maxDepth {
		return nil, eris.Wrapf(ErrUnparseable, "nesting exceeds depth %d", maxDepth)
	}
	if p.acceptOp("-") {
		e, err := p.parseUnary(depth + 1)
		if err != nil {
			return nil, err
		}
		return Negate(e), nil
	}
	return p.parsePower(depth + 1)
}

func (p *parser) parsePower(depth int) (Expr, error) {
	if depth > maxDepth {
		return nil, eris.Wrapf(ErrUnparseable, "nesting exceeds depth %d", maxDepth)
	}
	base, err := p.parseAtom(depth + 1)
	if err != nil {
		return nil, err
	}
	if p.acceptOp("^") {
		// Right-associative, and -x binds looser than ^ on the exponent side.
		exp, err := p.parseUnary(depth + 1)
		if err != nil {
			return nil, err
		}
		return Power(base, exp), nil
	}
	return base, nil
}

func (p *parser) parseAtom(depth int) (Expr, error) {
	if depth > maxDepth {
		return nil, eris.Wrapf(ErrUnparseable, "nesting exceeds depth %d", maxDepth)
	}
	if p.done() {
		return nil, eris.Wrap(ErrUnparseable, "unexpected end of input")
	}
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return Number(tok.val), nil
	case tokLParen:
		e, err := p.parseSum(depth + 1)
		if err != nil {
			return nil, err
		}
		if p.done() || p.next().kind != tokRParen {
			return nil, eris.Wrap(ErrUnparseable, "missing closing parenthesis")
		}
		return e, nil
	case tokIdent:
		if tok.text == "pi" {
			return Number(math.Pi), nil
		}
		if _, ok := funcs[tok.text]; ok {
			if p.done() || p.peek().kind != tokLParen {
				return nil, eris.Wrapf(ErrUnparseable, "function %q requires parenthesized argument", tok.text)
			}
			p.next()
			arg, err := p.parseSum(depth + 1)
			if err != nil {
				return nil, err
			}
			if p.done() || p.next().kind != tokRParen {
				return nil, eris.Wrapf(ErrUnparseable, "unterminated call to %q", tok.text)
			}
			return Call(tok.text, arg), nil
		}
		// Bare identifiers become symbols; anything other than the bound
		// variable fails later at Eval, not here.
		return Symbol(tok.text), nil
	default:
		return nil, eris.Wrapf(ErrUnparseable, "unexpected %q", tok.text)
	}
}
