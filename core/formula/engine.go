package formula

import (
	"errors"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/shopspring/decimal"
)

// threshold is the tier boundary: inputs strictly below it select the
// under-threshold formula. Exactly 5.00 selects the default tier.
var threshold = decimal.NewFromInt(5)

// program is one compiled tier. A compile failure is held and reported on
// every evaluation instead of failing engine construction, because formula
// errors are per-item by contract.
type program struct {
	formula Formula
	prog    *vm.Program
	err     error
}

// Engine evaluates the configured pricing formulas against supplier prices.
// Expressions are compiled once at construction; evaluation is a pure
// function of (price, tier).
type Engine struct {
	def   program
	under *program
}

// NewEngine compiles the default expression and, when non-empty, the
// under-threshold expression. Compile errors do not fail construction;
// they surface from Evaluate as *Error.
func NewEngine(defaultExpr, underThresholdExpr string) *Engine {
	e := &Engine{
		def: compile(Formula{Expression: defaultExpr, Tier: TierDefault}),
	}
	if underThresholdExpr != "" {
		under := compile(Formula{Expression: underThresholdExpr, Tier: TierUnderThreshold})
		e.under = &under
	}
	return e
}

// HasUnderThreshold reports whether an under-threshold formula is configured.
func (e *Engine) HasUnderThreshold() bool {
	return e.under != nil
}

// Evaluate computes the target price for the given supplier price.
// The under-threshold formula is selected when x < 5.00 strictly and one is
// configured; otherwise the default formula applies. The result is rounded
// to 2 decimal places.
func (e *Engine) Evaluate(x decimal.Decimal) (decimal.Decimal, error) {
	p := &e.def
	if e.under != nil && x.LessThan(threshold) {
		p = e.under
	}
	return p.evaluate(x)
}

func (p *program) evaluate(x decimal.Decimal) (decimal.Decimal, error) {
	if p.err != nil {
		return decimal.Zero, &Error{Tier: p.formula.Tier, Expression: p.formula.Expression, Err: p.err}
	}

	out, err := expr.Run(p.prog, map[string]interface{}{"x": x.InexactFloat64()})
	if err != nil {
		return decimal.Zero, &Error{Tier: p.formula.Tier, Expression: p.formula.Expression, Err: err}
	}

	f, ok := toFloat(out)
	if !ok {
		return decimal.Zero, &Error{
			Tier:       p.formula.Tier,
			Expression: p.formula.Expression,
			Err:        errors.New("expression did not produce a number"),
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, &Error{
			Tier:       p.formula.Tier,
			Expression: p.formula.Expression,
			Err:        errors.New("expression produced a non-finite result"),
		}
	}

	return decimal.NewFromFloat(f).Round(2), nil
}

// compile builds a sandboxed program: one free variable x, no builtins,
// and only the whitelisted math functions below.
func compile(f Formula) program {
	opts := []expr.Option{
		expr.Env(map[string]interface{}{"x": float64(0)}),
		expr.DisableAllBuiltins(),
	}
	opts = append(opts, mathFunctions()...)

	prog, err := expr.Compile(f.Expression, opts...)
	return program{formula: f, prog: prog, err: err}
}

// mathFunctions is the fixed whitelist available inside formulas.
func mathFunctions() []expr.Option {
	unary := func(name string, fn func(float64) float64) expr.Option {
		return expr.Function(name, func(params ...interface{}) (interface{}, error) {
			v, ok := toFloat(params[0])
			if !ok {
				return nil, errors.New(name + ": argument is not a number")
			}
			return fn(v), nil
		}, new(func(float64) float64))
	}
	binary := func(name string, fn func(float64, float64) float64) expr.Option {
		return expr.Function(name, func(params ...interface{}) (interface{}, error) {
			a, okA := toFloat(params[0])
			b, okB := toFloat(params[1])
			if !okA || !okB {
				return nil, errors.New(name + ": argument is not a number")
			}
			return fn(a, b), nil
		}, new(func(float64, float64) float64))
	}

	return []expr.Option{
		unary("abs", math.Abs),
		unary("ceil", math.Ceil),
		unary("floor", math.Floor),
		unary("round", math.Round),
		unary("sqrt", math.Sqrt),
		binary("min", math.Min),
		binary("max", math.Max),
		binary("pow", math.Pow),
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
