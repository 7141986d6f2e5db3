package calculator

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenOperator
	tokenLeftParen
	tokenRightParen
	tokenIdent
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenNumber:
		return "number"
	case tokenOperator:
		return "operator"
	case tokenLeftParen:
		return "'('"
	case tokenRightParen:
		return "')'"
	case tokenIdent:
		return "identifier"
	}
	return "unknown"
}

type token struct {
	kind  tokenKind
	text  string
	value float64
	pos   int
}

// Operators holds the binary operators understood after normalization.
const Operators = "+-*/^"

// glyphs maps calculator keypad symbols onto their canonical forms.
var glyphs = strings.NewReplacer(
	"×", "*",
	"÷", "/",
	"−", "-",
	"√", "sqrt",
	"**", "^",
)

// constants are resolved from identifier tokens by the parser, so a name such as
// "exp" is never rewritten.
var constants = map[string]float64{
	"π":  math.Pi,
	"pi": math.Pi,
	"PI": math.Pi,
	"e":  math.E,
	"E":  math.E,
}

func normalize(expr string) string {
	return glyphs.Replace(strings.TrimSpace(expr))
}

// tokenize scans src left to right. It fails on the first character that
// cannot start a token.
func tokenize(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isDigit(r) || r == '.':
			end := scanNumber(src, i)
			text := src[i:end]
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, syntaxErrorf(i, "malformed number %q", text)
			}
			toks = append(toks, token{kind: tokenNumber, text: text, value: v, pos: i})
			i = end
		case isIdentStart(r):
			end := i
			for end < len(src) {
				r, size := utf8.DecodeRuneInString(src[end:])
				if !isIdentStart(r) {
					break
				}
				end += size
			}
			toks = append(toks, token{kind: tokenIdent, text: src[i:end], pos: i})
			i = end
		case strings.ContainsRune(Operators, r):
			toks = append(toks, token{kind: tokenOperator, text: string(r), pos: i})
			i += size
		case r == '(':
			toks = append(toks, token{kind: tokenLeftParen, text: "(", pos: i})
			i += size
		case r == ')':
			toks = append(toks, token{kind: tokenRightParen, text: ")", pos: i})
			i += size
		default:
			return nil, syntaxErrorf(i, "unrecognized character %q", r)
		}
	}
	toks = append(toks, token{kind: tokenEOF, pos: len(src)})
	return toks, nil
}

// scanNumber returns the end of the number starting at start. An exponent
// suffix is only consumed when digits follow it, so "2e" stays a number and
// an identifier.
func scanNumber(src string, start int) int {
	i := start
	for i < len(src) && (isDigit(rune(src[i])) || src[i] == '.') {
		i++
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(rune(src[j])) {
			for j < len(src) && isDigit(rune(src[j])) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || r == 'π' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
