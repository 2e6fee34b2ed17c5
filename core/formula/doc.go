// Package formula evaluates the configured pricing expressions.
//
// A formula is plain arithmetic text (numbers, + - * / % ^, parentheses) over a
// single free variable x — the supplier price — plus a fixed whitelist of math
// functions (abs, ceil, floor, round, sqrt, min, max, pow). Expressions are
// compiled once per run through expr-lang with all builtins disabled, so
// configuration text can never reach a general-purpose interpreter.
//
// # Tiers
//
// Two tiers exist: the default formula and an optional under-threshold formula
// applied when the input price is strictly below 5.00. An input of exactly 5.00
// always selects the default tier.
//
// # Errors
//
// Compile failures, unknown symbols, and runtime math errors (division by zero,
// overflow, non-numeric results) all surface as *Error. These are per-item
// failures by contract; a broken formula must never abort a run.
package formula
