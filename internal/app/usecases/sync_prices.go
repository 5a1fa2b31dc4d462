package usecases

import (
	"context"

	"github.com/shopspring/decimal"

	"sifam-shopify-bridge/internal/adapters/shopify"
	"sifam-shopify-bridge/internal/adapters/sifam"
	"sifam-shopify-bridge/internal/config"
	"sifam-shopify-bridge/internal/domain/model"
	"sifam-shopify-bridge/internal/logging"
)

type SyncPricesService interface {
	Run(ctx context.Context) (model.RunCounters, error)
}

type ClientPrice struct {
	reader     shopify.CatalogReader
	sifamPrice sifam.PriceService
	writer     shopify.PriceWriter
	logger     logging.LoggerService
	cfg        config.SyncConfig
}

func NewSyncPrices(reader shopify.CatalogReader, sifamPrice sifam.PriceService, writer shopify.PriceWriter, logger logging.LoggerService, cfg config.SyncConfig) SyncPricesService {
	return &ClientPrice{
		reader:     reader,
		sifamPrice: sifamPrice,
		writer:     writer,
		logger:     logger,
		cfg:        cfg,
	}
}

func (c *ClientPrice) Run(ctx context.Context) (model.RunCounters, error) {
	if c.logger != nil {
		c.logger.Log("Price sync started")
	}

	driver := &Reconciler[model.Variant, decimal.Decimal, decimal.Decimal]{
		Fetch: func(ctx context.Context, cursor string) ([]model.Variant, string, bool, error) {
			page, err := c.reader.VariantPage(ctx, cursor)
			if err != nil {
				return nil, "", false, err
			}
			return page.Items, page.EndCursor, page.HasNextPage, nil
		},
		Policy:     &pricePolicy{sifamPrice: c.sifamPrice, writer: c.writer, decimals: c.cfg.CurrencyDecimals},
		Logger:     c.logger,
		Throttle:   c.cfg.Throttle,
		OnlySKU:    c.cfg.OnlySKU,
		MaxUpdates: c.cfg.MaxUpdates,
	}
	return driver.Run(ctx)
}

type pricePolicy struct {
	sifamPrice sifam.PriceService
	writer     shopify.PriceWriter
	decimals   int
}

func (p *pricePolicy) Key(v model.Variant) string      { return v.SKU }
func (p *pricePolicy) EntityID(v model.Variant) string { return "variant " + v.ID }

func (p *pricePolicy) Lookup(ctx context.Context, _ model.Variant, key string) (decimal.Decimal, bool, error) {
	return p.sifamPrice.PriceForSKU(ctx, key)
}

// Delta is empty when the variant already carries the supplier price, so
// a second run with unchanged supplier data writes nothing.
func (p *pricePolicy) Delta(v model.Variant, price decimal.Decimal) (decimal.Decimal, bool) {
	current, err := decimal.NewFromString(v.Price)
	if err == nil && current.Equal(price) {
		return decimal.Decimal{}, false
	}
	return price, true
}

func (p *pricePolicy) Apply(ctx context.Context, v model.Variant, price decimal.Decimal) error {
	return p.writer.UpdateVariantPrice(ctx, v.ID, price, p.decimals)
}
