package calculator_test

import (
	"testing"

	"scientific-calculator/internal/calculator"
	"scientific-calculator/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScientificCalculate(t *testing.T) {
	calc := calculator.NewScientificCalculator()

	testCases := []struct {
		name      string
		request   types.UnaryRequest
		formatted string
		entry     string
	}{
		{
			name:      "Sine of 90 degrees",
			request:   types.UnaryRequest{Operation: "sin", Operand: "90", Unit: "degrees"},
			formatted: "1",
			entry:     "sin(90) = 1",
		},
		{
			name:      "Sine of 90 radians",
			request:   types.UnaryRequest{Operation: "sin", Operand: "90", Unit: "radians"},
			formatted: "0.8939966636",
			entry:     "sin(90) = 0.8939966636",
		},
		{
			name:      "Factorial",
			request:   types.UnaryRequest{Operation: "!", Operand: "5"},
			formatted: "120",
			entry:     "!(5) = 120",
		},
		{
			name:      "Reciprocal",
			request:   types.UnaryRequest{Operation: "1/x", Operand: "4"},
			formatted: "0.25",
			entry:     "1/x(4) = 0.25",
		},
		{
			name:      "Square",
			request:   types.UnaryRequest{Operation: "x²", Operand: "-3"},
			formatted: "9",
			entry:     "x²(-3) = 9",
		},
		{
			name:      "Negate",
			request:   types.UnaryRequest{Operation: "±", Operand: " 7 "},
			formatted: "-7",
			entry:     "±(7) = -7",
		},
		{
			name:      "Common log",
			request:   types.UnaryRequest{Operation: "log", Operand: "100"},
			formatted: "2",
			entry:     "log(100) = 2",
		},
		{
			name:      "Inverse sine in degrees",
			request:   types.UnaryRequest{Operation: "asin", Operand: "1", Unit: "deg"},
			formatted: "90",
			entry:     "asin(1) = 90",
		},
		{
			name:      "Large result",
			request:   types.UnaryRequest{Operation: "factorial", Operand: "20"},
			formatted: "2.432902e+18",
			entry:     "factorial(20) = 2.432902e+18",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := calc.Calculate(tc.request)
			require.NoError(t, err)
			assert.Equal(t, tc.formatted, result.Formatted)
			assert.Equal(t, tc.entry, result.Entry)
		})
	}
}

func TestScientificCalculateErrors(t *testing.T) {
	calc := calculator.NewScientificCalculator()

	testCases := []struct {
		name      string
		operation string
		operand   string
		wantErr   error
	}{
		{"Unknown operation", "cosh", "1", calculator.ErrSyntax},
		{"Empty operand", "sin", "", calculator.ErrSyntax},
		{"Non-numeric operand", "sin", "abc", calculator.ErrSyntax},
		{"Expression operand", "sqrt", "2+2", calculator.ErrSyntax},
		{"Infinite operand", "sqrt", "Inf", calculator.ErrSyntax},
		{"NaN operand", "sqrt", "NaN", calculator.ErrSyntax},
		{"Factorial too large", "!", "171", calculator.ErrRange},
		{"Factorial negative", "factorial", "-1", calculator.ErrDomain},
		{"Factorial fraction", "!", "2.5", calculator.ErrDomain},
		{"Reciprocal of zero", "1/x", "0", calculator.ErrDomain},
		{"Square root of negative", "sqrt", "-4", calculator.ErrDomain},
		{"Exp overflow", "exp", "710", calculator.ErrRange},
		{"Square overflow", "square", "1e200", calculator.ErrInvalidResult},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calc.EvaluateUnary(tc.operation, tc.operand, calculator.Radians)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestScientificRecordsOnlySuccess(t *testing.T) {
	rec := &recorder{}
	calc := calculator.NewScientificCalculator(calculator.WithRecorder(rec))

	_, err := calc.Calculate(types.UnaryRequest{Operation: "sqrt", Operand: "-1"})
	require.Error(t, err)
	assert.Equal(t, "Invalid calculation", calculator.UserMessage(err))

	_, err = calc.Calculate(types.UnaryRequest{Operation: "sqrt", Operand: "16"})
	require.NoError(t, err)

	_, err = calc.Calculate(types.UnaryRequest{Operation: "sin", Operand: "1", Unit: "turns"})
	require.Error(t, err)

	assert.Equal(t, []string{"sqrt(16) = 4"}, rec.entries)
}

func TestValidateOperation(t *testing.T) {
	calc := calculator.NewScientificCalculator()

	for _, op := range calc.GetSupportedOperations() {
		assert.NoError(t, calc.ValidateOperation(op), op)
	}

	err := calc.ValidateOperation("mod")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid operation: mod")
}
