package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

const updatePriceMutation = `
mutation productVariantsBulkUpdate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
  productVariantsBulkUpdate(productId: $productId, variants: $variants) {
    productVariants {
      id
      price
    }
    userErrors {
      field
      message
    }
  }
}`

type updatePriceResponse struct {
	ProductVariantsBulkUpdate struct {
		ProductVariants []struct {
			ID    string `json:"id"`
			Price string `json:"price"`
		} `json:"productVariants"`
		UserErrors []FieldError `json:"userErrors"`
	} `json:"productVariantsBulkUpdate"`
}

type variantPriceInput struct {
	ID    string `json:"id"`
	Price string `json:"price"`
}

// UpdatePrice applies a single price update to one variant. Both API-level
// validation errors and transport errors return a *WriteError; the caller
// decides how to aggregate them.
func (c *Client) UpdatePrice(ctx context.Context, productID, variantID string, newPrice decimal.Decimal) error {
	req := c.newRequest(updatePriceMutation)
	req.Var("productId", productID)
	req.Var("variants", []variantPriceInput{{ID: variantID, Price: newPrice.StringFixed(2)}})

	var resp updatePriceResponse
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return &WriteError{VariantID: variantID, Err: err}
	}

	if userErrors := resp.ProductVariantsBulkUpdate.UserErrors; len(userErrors) > 0 {
		return &WriteError{VariantID: variantID, UserErrors: userErrors}
	}

	return nil
}
