package sifam

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// Price field aliases, in the order they appeared across supplier API
// revisions. First match wins.
var priceAliases = []string{"PRIX_PUBLIC", "PRIX_PUBLIC_HT", "PRIX"}

type PriceService interface {
	PriceForSKU(ctx context.Context, sku string) (decimal.Decimal, bool, error)
}

type priceClient struct {
	client   *Client
	vatRate  decimal.Decimal
	decimals int32
}

// NewPriceService resolves a SKU to the price Shopify should carry:
// supplier HT price, with VAT applied when a rate is configured, rounded
// to the configured number of decimals.
func NewPriceService(client *Client, vatRate float64, decimals int) PriceService {
	return &priceClient{
		client:   client,
		vatRate:  decimal.NewFromFloat(vatRate),
		decimals: int32(decimals),
	}
}

func (c *priceClient) PriceForSKU(ctx context.Context, sku string) (decimal.Decimal, bool, error) {
	if sku == "" {
		return decimal.Decimal{}, false, nil
	}

	endpoint := fmt.Sprintf("%s/stock/%s", c.client.Config.ProxyBase, url.PathEscape(ToRef(sku)))
	raw, err := c.client.getJSON(ctx, endpoint)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return decimal.Decimal{}, false, nil
		}
		return decimal.Decimal{}, false, err
	}

	obj, ok := unwrapObject(raw)
	if !ok {
		return decimal.Decimal{}, false, nil
	}
	value, ok := firstField(obj, priceAliases...)
	if !ok {
		return decimal.Decimal{}, false, nil
	}
	ht, ok := parseDecimal(value)
	if !ok {
		return decimal.Decimal{}, false, nil
	}

	gross := ht.Mul(decimal.NewFromInt(1).Add(c.vatRate)).Round(c.decimals)
	return gross, true, nil
}
