package calculator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"scientific-calculator/internal/types"

	"github.com/qiniu/log"
)

// ScientificCalculator applies a single named operation to the operand
// currently on the display, the way a scientific key press does.
type ScientificCalculator struct {
	opts options
}

func NewScientificCalculator(opts ...Option) *ScientificCalculator {
	return &ScientificCalculator{opts: newOptions(UnaryOperations(), opts)}
}

// Calculate applies req.Operation to req.Operand and records
// "<op>(<operand>) = <formatted>" on success.
func (sc *ScientificCalculator) Calculate(req types.UnaryRequest) (types.CalculationResult, error) {
	mode, err := ParseAngleMode(req.Unit)
	if err != nil {
		return types.CalculationResult{}, err
	}

	result, err := sc.EvaluateUnary(req.Operation, req.Operand, mode)
	if err != nil {
		log.Warnf("%s(%s) rejected: %v", req.Operation, req.Operand, err)
		return types.CalculationResult{}, err
	}

	formatted := FormatNumber(result)
	entry := fmt.Sprintf("%s(%s) = %s", req.Operation, strings.TrimSpace(req.Operand), formatted)
	if sc.opts.recorder != nil {
		sc.opts.recorder.Record(entry)
	}
	log.Debugf("evaluated %s (%s)", entry, mode)

	return types.CalculationResult{
		Result:    result,
		Formatted: formatted,
		Entry:     entry,
		Unit:      mode.String(),
	}, nil
}

// EvaluateUnary parses operand as a single number and applies the named
// operation. The result carries the same guarantees as EvaluateExpression.
func (sc *ScientificCalculator) EvaluateUnary(operation, operand string, mode AngleMode) (float64, error) {
	fn, ok := sc.opts.funcs[operation]
	if !ok {
		return 0, &EvalError{Kind: ErrSyntax, Op: operation, Pos: -1, Msg: "unsupported operation"}
	}

	value, err := parseOperand(operand)
	if err != nil {
		return 0, err
	}

	result, err := fn(value, mode)
	if err != nil {
		return 0, err
	}
	return validateResult(result)
}

func parseOperand(operand string) (float64, error) {
	s := strings.TrimSpace(operand)
	if s == "" {
		return 0, syntaxErrorf(0, "operand cannot be empty")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, syntaxErrorf(0, "operand %q is not a finite number", s)
	}
	return v, nil
}

// ValidateOperation reports whether operation is a known key.
func (sc *ScientificCalculator) ValidateOperation(operation string) error {
	if _, ok := sc.opts.funcs[operation]; ok {
		return nil
	}
	return fmt.Errorf("invalid operation: %s. Valid operations are: %v", operation, sc.opts.funcs.Names())
}

// GetSupportedOperations lists the accepted operation names.
func (sc *ScientificCalculator) GetSupportedOperations() []string {
	return sc.opts.funcs.Names()
}
