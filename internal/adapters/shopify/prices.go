package shopify

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"sifam-shopify-bridge/internal/adapters/shopify/dto"
)

type PriceWriter interface {
	UpdateVariantPrice(ctx context.Context, variantGID string, price decimal.Decimal, decimals int) error
}

// UpdateVariantPrice writes one variant price. GraphQL productVariantUpdate
// is the primary path; when the pinned API version no longer carries that
// mutation the REST PUT on the numeric variant id takes over. Both paths
// set an absolute price, so repeating the same write is a no-op upstream.
func (c *Client) UpdateVariantPrice(ctx context.Context, variantGID string, price decimal.Decimal, decimals int) error {
	if variantGID == "" {
		return errors.New("shopify variant id is required")
	}
	rendered := price.StringFixed(int32(decimals))

	mutation := `
mutation productVariantUpdate($input: ProductVariantInput!) {
	productVariantUpdate(input: $input) {
		productVariant { id price }
		userErrors { field message }
	}
}`

	var data dto.VariantUpdateData
	err := c.graphqlRequest(ctx, mutation, map[string]any{
		"input": map[string]any{
			"id":    variantGID,
			"price": rendered,
		},
	}, &data)
	if err == nil {
		return userErrorsToError("productVariantUpdate", data.ProductVariantUpdate.UserErrors)
	}
	if !isMutationUnsupported(err, "productVariantUpdate") {
		return err
	}

	numericID, idErr := gidNumericID(variantGID)
	if idErr != nil {
		return idErr
	}
	c.logWarning("productVariantUpdate unavailable, falling back to REST for variant " + variantGID)
	return c.rest.UpdateVariantPrice(numericID, price.Round(int32(decimals)))
}
