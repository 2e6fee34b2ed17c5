package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const listVariantsQuery = `
query getProducts($pageSize: Int!, $cursor: String) {
  products(first: $pageSize, after: $cursor) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        variants(first: 250) {
          edges {
            node {
              id
              sku
              price
            }
          }
        }
      }
    }
  }
}`

const findVariantQuery = `
query findVariant($query: String!) {
  productVariants(first: 1, query: $query) {
    edges {
      node {
        id
        sku
        price
        product {
          id
        }
      }
    }
  }
}`

type variantNode struct {
	ID    string `json:"id"`
	SKU   string `json:"sku"`
	Price string `json:"price"`
}

type productsPage struct {
	Products struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Edges []struct {
			Node struct {
				ID       string `json:"id"`
				Variants struct {
					Edges []struct {
						Node variantNode `json:"node"`
					} `json:"edges"`
				} `json:"variants"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

type variantSearch struct {
	ProductVariants struct {
		Edges []struct {
			Node struct {
				variantNode
				Product struct {
					ID string `json:"id"`
				} `json:"product"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"productVariants"`
}

// ListVariants enumerates every catalog variant with a non-empty SKU, in
// catalog page order. Pagination stops strictly when the API reports no next
// page; a cursor that fails to advance also terminates the loop so a
// malformed upstream response cannot hang the run. Any API failure returns
// a *FetchError.
func (c *Client) ListVariants(ctx context.Context) ([]Variant, error) {
	var variants []Variant
	cursor := ""

	for {
		req := c.newRequest(listVariantsQuery)
		req.Var("pageSize", c.pageSize)
		if cursor == "" {
			req.Var("cursor", nil)
		} else {
			req.Var("cursor", cursor)
		}

		var page productsPage
		if err := c.gql.Run(ctx, req, &page); err != nil {
			return nil, &FetchError{Op: "list variants", Err: err}
		}

		for _, productEdge := range page.Products.Edges {
			productID := productEdge.Node.ID
			for _, variantEdge := range productEdge.Node.Variants.Edges {
				v, ok := c.toVariant(variantEdge.Node, productID)
				if !ok {
					continue
				}
				variants = append(variants, v)
			}
		}

		info := page.Products.PageInfo
		if !info.HasNextPage {
			break
		}
		if info.EndCursor == "" || info.EndCursor == cursor {
			c.logger.Warn("Pagination cursor did not advance, stopping enumeration",
				zap.String("cursor", info.EndCursor))
			break
		}
		cursor = info.EndCursor
	}

	return variants, nil
}

// FindVariantBySKU looks up a single variant by its store SKU.
// It returns (nil, nil) when no variant matches.
func (c *Client) FindVariantBySKU(ctx context.Context, storeSKU string) (*Variant, error) {
	req := c.newRequest(findVariantQuery)
	req.Var("query", "sku:"+storeSKU)

	var resp variantSearch
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return nil, &FetchError{Op: "find variant", Err: err}
	}

	if len(resp.ProductVariants.Edges) == 0 {
		return nil, nil
	}

	node := resp.ProductVariants.Edges[0].Node
	v, ok := c.toVariant(node.variantNode, node.Product.ID)
	if !ok {
		return nil, nil
	}
	return &v, nil
}

// toVariant converts an API node, filtering empty SKUs and unparseable prices.
func (c *Client) toVariant(node variantNode, productID string) (Variant, bool) {
	if strings.TrimSpace(node.SKU) == "" {
		return Variant{}, false
	}
	price, err := decimal.NewFromString(node.Price)
	if err != nil {
		c.logger.Warn("Skipping variant with unparseable price",
			zap.String("variant_id", node.ID),
			zap.String("sku", node.SKU),
			zap.String("price", node.Price))
		return Variant{}, false
	}
	return Variant{ID: node.ID, ProductID: productID, SKU: node.SKU, Price: price}, true
}
