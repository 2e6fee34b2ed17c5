package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Variant is one purchasable, SKU-level unit of a catalog product.
// Variants are read fresh every run and owned transiently by the run.
type Variant struct {
	// ID is the variant's API identifier.
	ID string
	// ProductID is the API identifier of the owning product.
	ProductID string
	// SKU is the store SKU. The reader filters out empty/whitespace SKUs.
	SKU string
	// Price is the current catalog price.
	Price decimal.Decimal
}

// FetchError describes a failed catalog read. It aborts the run with zero
// items attempted.
type FetchError struct {
	// Op names the failed operation, e.g. "list variants".
	Op string
	// Err is the underlying transport, authorization, or API failure.
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog fetch failed (%s): %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FieldError is one API-level validation error attached to a mutation.
type FieldError struct {
	// Field is the path of the offending input field.
	Field []string `json:"field"`
	// Message is the human-readable validation message.
	Message string `json:"message"`
}

// WriteError describes a failed price update. It is always a per-item
// failure and never aborts the run.
type WriteError struct {
	// VariantID is the variant whose update failed.
	VariantID string
	// UserErrors holds API-level validation errors, if any.
	UserErrors []FieldError
	// Err is the underlying transport error when the call itself failed.
	Err error
}

func (e *WriteError) Error() string {
	if len(e.UserErrors) > 0 {
		msgs := make([]string, 0, len(e.UserErrors))
		for _, ue := range e.UserErrors {
			if len(ue.Field) > 0 {
				msgs = append(msgs, strings.Join(ue.Field, ".")+": "+ue.Message)
			} else {
				msgs = append(msgs, ue.Message)
			}
		}
		return fmt.Sprintf("price update rejected for variant %s: %s", e.VariantID, strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("price update failed for variant %s: %v", e.VariantID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
