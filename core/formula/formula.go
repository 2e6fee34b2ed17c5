package formula

import "fmt"

// Tier identifies which pricing formula was selected for an input price.
type Tier string

const (
	// TierDefault is the formula applied to prices at or above the threshold.
	TierDefault Tier = "default"
	// TierUnderThreshold is the formula applied to prices strictly below the threshold.
	TierUnderThreshold Tier = "under-threshold"
)

// Formula is a single configured pricing expression.
type Formula struct {
	// Expression is the arithmetic expression text, e.g. "x*1.2+0.99".
	Expression string
	// Tier identifies when this formula applies.
	Tier Tier
}

// Error describes a formula failure. It is always a per-item error.
type Error struct {
	// Tier is the tier whose formula failed.
	Tier Tier
	// Expression is the offending expression text.
	Expression string
	// Err is the underlying compile or evaluation error.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("formula %q (%s tier): %v", e.Expression, e.Tier, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
