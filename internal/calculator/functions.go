package calculator

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// AngleMode selects how trigonometric inputs and inverse-trigonometric
// outputs are interpreted.
type AngleMode int

const (
	Radians AngleMode = iota
	Degrees
)

func (m AngleMode) String() string {
	if m == Degrees {
		return "degrees"
	}
	return "radians"
}

// ParseAngleMode accepts the unit names used on the wire. An empty unit
// means radians.
func ParseAngleMode(unit string) (AngleMode, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "radians", "rad":
		return Radians, nil
	case "degrees", "deg":
		return Degrees, nil
	}
	return Radians, fmt.Errorf("invalid unit: %s. Valid units are: [radians degrees]", unit)
}

// MaxFactorial is the largest n whose factorial fits in a float64.
const MaxFactorial = 170

// Func is a single-operand numeric function. Functions that do not depend
// on the angle mode ignore it.
type Func func(x float64, mode AngleMode) (float64, error)

// FunctionSet is the enumerated set of named functions an evaluator may call.
type FunctionSet map[string]Func

// Names returns the function names in sorted order.
func (fs FunctionSet) Names() []string {
	names := make([]string, 0, len(fs))
	for name := range fs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpressionFunctions returns the functions callable as name(...) inside an
// expression.
func ExpressionFunctions() FunctionSet {
	return FunctionSet{
		"sin":   Sin,
		"cos":   Cos,
		"tan":   Tan,
		"asin":  Asin,
		"acos":  Acos,
		"atan":  Atan,
		"log":   Log,
		"ln":    Ln,
		"sqrt":  Sqrt,
		"exp":   Exp,
		"abs":   total(math.Abs),
		"floor": total(math.Floor),
		"ceil":  total(math.Ceil),
	}
}

// UnaryOperations returns the single-operand operations available to a key
// press. Keypad glyphs are accepted as aliases.
func UnaryOperations() FunctionSet {
	fs := ExpressionFunctions()
	fs["factorial"] = Factorial
	fs["!"] = Factorial
	fs["reciprocal"] = Reciprocal
	fs["1/x"] = Reciprocal
	fs["square"] = Square
	fs["x²"] = Square
	fs["negate"] = Negate
	fs["±"] = Negate
	return fs
}

func total(f func(float64) float64) Func {
	return func(x float64, _ AngleMode) (float64, error) {
		return f(x), nil
	}
}

func DegToRad(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

func RadToDeg(radians float64) float64 {
	return radians * (180 / math.Pi)
}

// ConvertAngle converts value from one angle mode to another.
func ConvertAngle(value float64, from, to AngleMode) float64 {
	switch {
	case from == to:
		return value
	case from == Degrees:
		return DegToRad(value)
	default:
		return RadToDeg(value)
	}
}

func toRadians(x float64, mode AngleMode) float64 {
	if mode == Degrees {
		return DegToRad(x)
	}
	return x
}

func fromRadians(x float64, mode AngleMode) float64 {
	if mode == Degrees {
		return RadToDeg(x)
	}
	return x
}

func Sin(x float64, mode AngleMode) (float64, error) {
	return math.Sin(toRadians(x, mode)), nil
}

func Cos(x float64, mode AngleMode) (float64, error) {
	return math.Cos(toRadians(x, mode)), nil
}

// Tan returns the tangent. Near an asymptote the result is a very large
// finite value rather than an error.
func Tan(x float64, mode AngleMode) (float64, error) {
	return math.Tan(toRadians(x, mode)), nil
}

func Asin(x float64, mode AngleMode) (float64, error) {
	if x < -1 || x > 1 {
		return 0, domainError("asin", "value must be between -1 and 1")
	}
	return fromRadians(math.Asin(x), mode), nil
}

func Acos(x float64, mode AngleMode) (float64, error) {
	if x < -1 || x > 1 {
		return 0, domainError("acos", "value must be between -1 and 1")
	}
	return fromRadians(math.Acos(x), mode), nil
}

func Atan(x float64, mode AngleMode) (float64, error) {
	return fromRadians(math.Atan(x), mode), nil
}

// Log is the base-10 logarithm.
func Log(x float64, _ AngleMode) (float64, error) {
	if x <= 0 {
		return 0, domainError("log", "value must be positive")
	}
	return math.Log10(x), nil
}

// Ln is the natural logarithm.
func Ln(x float64, _ AngleMode) (float64, error) {
	if x <= 0 {
		return 0, domainError("ln", "value must be positive")
	}
	return math.Log(x), nil
}

func Sqrt(x float64, _ AngleMode) (float64, error) {
	if x < 0 {
		return 0, domainError("sqrt", "value must be non-negative")
	}
	return math.Sqrt(x), nil
}

func Exp(x float64, _ AngleMode) (float64, error) {
	result := math.Exp(x)
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, rangeError("exp", "result overflows")
	}
	return result, nil
}

func Factorial(x float64, _ AngleMode) (float64, error) {
	if x < 0 || x != math.Trunc(x) || math.IsNaN(x) {
		return 0, domainError("factorial", "value must be a non-negative integer")
	}
	if x > MaxFactorial {
		return 0, rangeError("factorial", fmt.Sprintf("value too large (max %d)", MaxFactorial))
	}
	result := 1.0
	for i := 2; i <= int(x); i++ {
		result *= float64(i)
	}
	return result, nil
}

func Reciprocal(x float64, _ AngleMode) (float64, error) {
	if x == 0 {
		return 0, domainError("reciprocal", "value must be non-zero")
	}
	return 1 / x, nil
}

func Square(x float64, _ AngleMode) (float64, error) {
	return x * x, nil
}

func Negate(x float64, _ AngleMode) (float64, error) {
	return -x, nil
}

// Power raises base to exponent. Non-finite outcomes are left for result
// validation.
func Power(base, exponent float64) float64 {
	return math.Pow(base, exponent)
}
