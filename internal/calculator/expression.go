package calculator

import (
	"math"
	"strings"
	"unicode/utf8"

	"scientific-calculator/internal/types"

	"github.com/qiniu/log"
)

// DefaultMaxExpressionLength bounds the input accepted by an evaluator
// unless overridden with WithMaxLength.
const DefaultMaxExpressionLength = 1024

// Recorder receives one line per successful calculation.
type Recorder interface {
	Record(entry string)
}

// Option configures a calculator.
type Option func(*options)

type options struct {
	funcs     FunctionSet
	recorder  Recorder
	maxLength int
}

func newOptions(funcs FunctionSet, opts []Option) options {
	o := options{funcs: funcs, maxLength: DefaultMaxExpressionLength}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFunctions replaces the function set the calculator may call.
func WithFunctions(fs FunctionSet) Option {
	return func(o *options) { o.funcs = fs }
}

// WithRecorder sends history entries for successful calculations to r.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithMaxLength limits the number of characters in an expression. Zero or a
// negative value disables the limit.
func WithMaxLength(n int) Option {
	return func(o *options) { o.maxLength = n }
}

// ExpressionCalculator evaluates calculator-notation expressions. It holds
// no mutable state and is safe for concurrent use.
type ExpressionCalculator struct {
	opts options
}

func NewExpressionCalculator(opts ...Option) *ExpressionCalculator {
	return &ExpressionCalculator{opts: newOptions(ExpressionFunctions(), opts)}
}

// Evaluate evaluates req.Expression, formats the result and records
// "<expression> = <formatted>" on success.
func (ec *ExpressionCalculator) Evaluate(req types.ExpressionRequest) (types.CalculationResult, error) {
	mode, err := ParseAngleMode(req.Unit)
	if err != nil {
		return types.CalculationResult{}, err
	}

	result, err := ec.EvaluateExpression(req.Expression, mode)
	if err != nil {
		log.Warnf("expression %q rejected: %v", req.Expression, err)
		return types.CalculationResult{}, err
	}

	formatted := FormatNumber(result)
	entry := strings.TrimSpace(req.Expression) + " = " + formatted
	if ec.opts.recorder != nil {
		ec.opts.recorder.Record(entry)
	}
	log.Debugf("evaluated %s (%s)", entry, mode)

	return types.CalculationResult{
		Result:    result,
		Formatted: formatted,
		Entry:     entry,
		Unit:      mode.String(),
	}, nil
}

// EvaluateExpression parses and evaluates expr in one pass. The returned
// value is always finite when err is nil.
func (ec *ExpressionCalculator) EvaluateExpression(expr string, mode AngleMode) (float64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, syntaxErrorf(0, "expression cannot be empty")
	}
	if limit := ec.opts.maxLength; limit > 0 && utf8.RuneCountInString(expr) > limit {
		return 0, syntaxErrorf(limit, "expression longer than %d characters", limit)
	}

	toks, err := tokenize(normalize(expr))
	if err != nil {
		return 0, err
	}

	p := &parser{toks: toks, funcs: ec.opts.funcs, mode: mode}
	result, err := p.parse()
	if err != nil {
		return 0, err
	}
	return validateResult(result)
}

// validateResult rejects values that must never reach a display.
func validateResult(v float64) (float64, error) {
	if math.IsNaN(v) {
		return 0, invalidResult("calculation resulted in NaN")
	}
	if math.IsInf(v, 0) {
		return 0, invalidResult("calculation resulted in infinity")
	}
	return v, nil
}

// GetSupportedFunctions returns the callable function names and constants.
func (ec *ExpressionCalculator) GetSupportedFunctions() []string {
	names := ec.opts.funcs.Names()
	out := make([]string, 0, len(names)+2)
	for _, name := range names {
		out = append(out, name+"(x)")
	}
	return append(out, "π", "e")
}

// GetSupportedOperators returns the accepted operator glyphs.
func (ec *ExpressionCalculator) GetSupportedOperators() []string {
	return []string{
		"+", "-", "*", "/", "^",
		"×", "÷", "−", "√",
		"(", ")", // grouping
	}
}
