package shopify

import (
	goshopify "github.com/bold-commerce/go-shopify/v3"
	"github.com/shopspring/decimal"

	"sifam-shopify-bridge/internal/config"
)

// restClient adapts the go-shopify Admin REST client to the narrow
// surface the fallback write paths need.
type restClient struct {
	api *goshopify.Client
}

func newRESTAdmin(cfg config.ShopifyConfig) restAdmin {
	api := goshopify.NewClient(
		goshopify.App{},
		cfg.ShopDomain,
		cfg.Token,
		goshopify.WithVersion(cfg.APIVer),
		goshopify.WithRetry(3),
	)
	return &restClient{api: api}
}

func (r *restClient) UpdateVariantPrice(variantID int64, price decimal.Decimal) error {
	_, err := r.api.Variant.Update(goshopify.Variant{
		ID:    variantID,
		Price: &price,
	})
	return err
}

func (r *restClient) CreateProductImage(productID int64, image goshopify.Image) error {
	_, err := r.api.Image.Create(productID, image)
	return err
}
