package handlers

import (
	"fmt"
	"strings"

	"scientific-calculator/internal/calculator"
	"scientific-calculator/internal/history"
	"scientific-calculator/internal/types"
	"scientific-calculator/pkg/mcp"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CalcHandler exposes the calculator engine as MCP tools. All tools share
// one history store.
type CalcHandler struct {
	exprCalc    *calculator.ExpressionCalculator
	sciCalc     *calculator.ScientificCalculator
	history     *history.Store
	defaultUnit string
}

// Options configures a CalcHandler.
type Options struct {
	DefaultUnit         string
	MaxExpressionLength int
	HistoryLimit        int
}

func NewCalcHandler(opts Options) *CalcHandler {
	store := history.NewStore(opts.HistoryLimit)
	return &CalcHandler{
		exprCalc: calculator.NewExpressionCalculator(
			calculator.WithRecorder(store),
			calculator.WithMaxLength(opts.MaxExpressionLength),
		),
		sciCalc:     calculator.NewScientificCalculator(calculator.WithRecorder(store)),
		history:     store,
		defaultUnit: opts.DefaultUnit,
	}
}

// History returns the store the handler records into.
func (ch *CalcHandler) History() *history.Store {
	return ch.history
}

func decodeParams(params map[string]interface{}, dst interface{}, tool string) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %v", err)
	}
	if err := json.Unmarshal(paramsJSON, dst); err != nil {
		return fmt.Errorf("invalid parameters for %s: %v", tool, err)
	}
	return nil
}

// toolError attaches the evaluation error kind and the front-end message.
func toolError(err error) error {
	kind := calculator.KindName(err)
	if kind == "" {
		return err
	}
	return &mcp.ToolError{
		Err: err,
		Data: map[string]interface{}{
			"kind":    kind,
			"message": calculator.UserMessage(err),
			"detail":  err.Error(),
		},
	}
}

func (ch *CalcHandler) unit(requested string) string {
	if strings.TrimSpace(requested) == "" {
		return ch.defaultUnit
	}
	return requested
}

func (ch *CalcHandler) HandleEvaluate(params map[string]interface{}) (interface{}, error) {
	var req types.ExpressionRequest
	if err := decodeParams(params, &req, "expression evaluation"); err != nil {
		return nil, err
	}
	req.Unit = ch.unit(req.Unit)

	result, err := ch.exprCalc.Evaluate(req)
	if err != nil {
		return nil, toolError(err)
	}

	return map[string]interface{}{
		"result":     result.Result,
		"formatted":  result.Formatted,
		"expression": req.Expression,
		"unit":       result.Unit,
		"entry":      result.Entry,
	}, nil
}

func (ch *CalcHandler) HandleScientific(params map[string]interface{}) (interface{}, error) {
	var req types.UnaryRequest
	if err := decodeParams(params, &req, "scientific operation"); err != nil {
		return nil, err
	}
	if err := ch.sciCalc.ValidateOperation(req.Operation); err != nil {
		return nil, err
	}
	req.Unit = ch.unit(req.Unit)

	result, err := ch.sciCalc.Calculate(req)
	if err != nil {
		return nil, toolError(err)
	}
	return result, nil
}

func (ch *CalcHandler) HandleFormatNumber(params map[string]interface{}) (interface{}, error) {
	var req types.FormatRequest
	if err := decodeParams(params, &req, "format_number"); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"value":     req.Value,
		"formatted": calculator.FormatNumber(req.Value),
	}, nil
}

func (ch *CalcHandler) HandleConvertAngle(params map[string]interface{}) (interface{}, error) {
	var req types.AngleConversionRequest
	if err := decodeParams(params, &req, "convert_angle"); err != nil {
		return nil, err
	}
	from, err := calculator.ParseAngleMode(req.From)
	if err != nil {
		return nil, err
	}
	to, err := calculator.ParseAngleMode(req.To)
	if err != nil {
		return nil, err
	}

	result := calculator.ConvertAngle(req.Value, from, to)
	return types.CalculationResult{
		Result:    result,
		Formatted: calculator.FormatNumber(result),
		Unit:      to.String(),
	}, nil
}

func (ch *CalcHandler) HandleHistory(params map[string]interface{}) (interface{}, error) {
	var req types.HistoryRequest
	if err := decodeParams(params, &req, "history"); err != nil {
		return nil, err
	}

	switch req.Action {
	case "", "list":
	case "clear":
		ch.history.Clear()
	default:
		return nil, fmt.Errorf("unsupported history action: %s. Supported actions: [list clear]", req.Action)
	}

	entries := ch.history.Entries()
	return types.HistoryResult{Entries: entries, Count: len(entries)}, nil
}

// GetSupportedFunctions lists what the evaluate tool accepts.
func (ch *CalcHandler) GetSupportedFunctions() []string {
	return ch.exprCalc.GetSupportedFunctions()
}

// GetSupportedOperations lists what the scientific tool accepts.
func (ch *CalcHandler) GetSupportedOperations() []string {
	return ch.sciCalc.GetSupportedOperations()
}
