package pricesync

import "time"

// Config holds configuration for the reconciliation pipeline.
type Config struct {
	// FormulaFile is the path of the default formula expression file.
	FormulaFile string `mapstructure:"formula_file" default:"formula.txt"`
	// UnderThresholdFormulaFile is the path of the under-threshold formula
	// expression file. The file is optional; when missing, the default
	// formula applies to all prices.
	UnderThresholdFormulaFile string `mapstructure:"under_threshold_formula_file" default:"under5.txt"`
	// WriteDelayMs is the fixed delay after each write attempt, a rate-limit
	// courtesy to the catalog service.
	WriteDelayMs int `mapstructure:"write_delay_ms" default:"500"`
	// RunOnStart triggers an initial full run when the server starts.
	RunOnStart bool `mapstructure:"run_on_start" default:"true"`
}

// WriteDelay returns the configured write pacing as a duration.
func (c Config) WriteDelay() time.Duration {
	if c.WriteDelayMs <= 0 {
		return 0
	}
	return time.Duration(c.WriteDelayMs) * time.Millisecond
}
