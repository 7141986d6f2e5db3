package calculator

// Grammar, highest binding last:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("-" | "+") unary | power
//	power   = primary [ "^" unary ]
//	primary = number | constant | name "(" expr ")" | "(" expr ")"
//
// Power is right-associative and binds tighter than unary minus, so -2^2 is
// -4 while 2^-1 is 0.5.

// parser evaluates a token stream while it parses it. It is created per call
// and never shared.
type parser struct {
	toks  []token
	pos   int
	funcs FunctionSet
	mode  AngleMode
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) isOperator(ops string) bool {
	tok := p.peek()
	if tok.kind != tokenOperator {
		return false
	}
	for i := 0; i < len(ops); i++ {
		if tok.text[0] == ops[i] {
			return true
		}
	}
	return false
}

// parse evaluates the whole stream and requires that it is fully consumed.
func (p *parser) parse() (float64, error) {
	if p.peek().kind == tokenEOF {
		return 0, syntaxErrorf(p.peek().pos, "empty expression")
	}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		if tok.kind == tokenRightParen {
			return 0, syntaxErrorf(tok.pos, "unmatched closing parenthesis")
		}
		return 0, syntaxErrorf(tok.pos, "unexpected %s %q", tok.kind, tok.text)
	}
	return v, nil
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for p.isOperator("+-") {
		op := p.next()
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if op.text == "+" {
			left += right
		} else {
			left -= right
		}
	}
	return left, nil
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for p.isOperator("*/") {
		op := p.next()
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op.text == "*" {
			left *= right
		} else {
			// Division by zero yields ±Inf or NaN and is rejected by
			// result validation.
			left /= right
		}
	}
	return left, nil
}

func (p *parser) unary() (float64, error) {
	if p.isOperator("+-") {
		op := p.next()
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op.text == "-" {
			return -v, nil
		}
		return v, nil
	}
	return p.power()
}

func (p *parser) power() (float64, error) {
	base, err := p.primary()
	if err != nil {
		return 0, err
	}
	if !p.isOperator("^") {
		return base, nil
	}
	p.next()
	exponent, err := p.unary()
	if err != nil {
		return 0, err
	}
	return Power(base, exponent), nil
}

func (p *parser) primary() (float64, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNumber:
		return tok.value, nil
	case tokenLeftParen:
		return p.group(tok)
	case tokenIdent:
		if v, ok := constants[tok.text]; ok {
			return v, nil
		}
		fn, ok := p.funcs[tok.text]
		if !ok {
			return 0, syntaxErrorf(tok.pos, "unknown name %q", tok.text)
		}
		open := p.next()
		if open.kind != tokenLeftParen {
			return 0, syntaxErrorf(open.pos, "function %s requires a parenthesized argument", tok.text)
		}
		arg, err := p.group(open)
		if err != nil {
			return 0, err
		}
		return fn(arg, p.mode)
	case tokenEOF:
		return 0, syntaxErrorf(tok.pos, "unexpected end of expression")
	case tokenRightParen:
		return 0, syntaxErrorf(tok.pos, "unexpected ')'")
	}
	return 0, syntaxErrorf(tok.pos, "operator %q in invalid position", tok.text)
}

// group parses the inside of a parenthesized group whose '(' has been
// consumed, and the closing ')'.
func (p *parser) group(open token) (float64, error) {
	if p.peek().kind == tokenRightParen {
		return 0, syntaxErrorf(p.peek().pos, "empty parentheses")
	}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.peek().kind != tokenRightParen {
		return 0, syntaxErrorf(open.pos, "unmatched opening parenthesis")
	}
	p.next()
	return v, nil
}
