package formula

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Loader reads formula expressions from text files.
// Formulas are re-read at the start of every run so they can change between
// runs without a restart.
type Loader struct {
	// DefaultPath is the file holding the default formula. Required.
	DefaultPath string
	// UnderThresholdPath is the file holding the under-threshold formula.
	// Optional; a missing file disables the under-threshold tier.
	UnderThresholdPath string
}

// Load reads the configured files and returns a compiled engine.
// A missing or empty default formula is an error; a missing under-threshold
// file is not.
func (l Loader) Load() (*Engine, error) {
	def, err := readExpression(l.DefaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read default formula: %w", err)
	}
	if def == "" {
		return nil, fmt.Errorf("default formula file %s is empty", l.DefaultPath)
	}

	under := ""
	if l.UnderThresholdPath != "" {
		under, err = readExpression(l.UnderThresholdPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read under-threshold formula: %w", err)
		}
	}

	return NewEngine(def, under), nil
}

func readExpression(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
