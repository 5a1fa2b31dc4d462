package usecases

import (
	"context"

	"sifam-shopify-bridge/internal/adapters/shopify"
	"sifam-shopify-bridge/internal/config"
	"sifam-shopify-bridge/internal/domain/model"
	"sifam-shopify-bridge/internal/logging"
)

type SyncCategoriesService interface {
	Run(ctx context.Context) (model.RunCounters, error)
}

type ClientCategory struct {
	reader shopify.CatalogReader
	writer shopify.TagWriter
	logger logging.LoggerService
	cfg    config.SyncConfig
}

func NewSyncCategories(reader shopify.CatalogReader, writer shopify.TagWriter, logger logging.LoggerService, cfg config.SyncConfig) SyncCategoriesService {
	return &ClientCategory{
		reader: reader,
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

func (c *ClientCategory) Run(ctx context.Context) (model.RunCounters, error) {
	if c.logger != nil {
		c.logger.Log("Category sync started")
	}

	categoryMap, err := LoadCategoryMap(c.cfg.CategoryMapPath)
	if err != nil {
		return model.RunCounters{}, err
	}

	// ONLY_SKU is matched against every variant of a product here, not
	// in the driver: the driver's filter compares the single business
	// key, which for products is only the first SKU.
	driver := &Reconciler[model.Product, CategoryPair, []string]{
		Fetch: func(ctx context.Context, cursor string) ([]model.Product, string, bool, error) {
			page, err := c.reader.ProductPage(ctx, cursor)
			if err != nil {
				return nil, "", false, err
			}
			items := page.Items
			if c.cfg.OnlySKU != "" {
				items = productsWithSKU(items, c.cfg.OnlySKU)
			}
			return items, page.EndCursor, page.HasNextPage, nil
		},
		Policy:     &categoryPolicy{categories: categoryMap, writer: c.writer},
		Logger:     c.logger,
		Throttle:   c.cfg.Throttle,
		MaxUpdates: c.cfg.MaxUpdates,
	}
	return driver.Run(ctx)
}

// productsWithSKU keeps the products carrying sku on any of their variants.
func productsWithSKU(products []model.Product, sku string) []model.Product {
	kept := make([]model.Product, 0, len(products))
	for _, product := range products {
		for _, s := range product.SKUs() {
			if s == sku {
				kept = append(kept, product)
				break
			}
		}
	}
	return kept
}

// categoryPolicy derives dept:/cat: tags from SKU prefixes. The supplier
// fact here is the classification table, resolved locally.
type categoryPolicy struct {
	categories CategoryMap
	writer     shopify.TagWriter
}

func (p *categoryPolicy) Key(product model.Product) string {
	skus := product.SKUs()
	if len(skus) == 0 {
		return ""
	}
	return skus[0]
}

func (p *categoryPolicy) EntityID(product model.Product) string { return "product " + product.ID }

func (p *categoryPolicy) Lookup(_ context.Context, product model.Product, _ string) (CategoryPair, bool, error) {
	pair, ok := p.categories.Classify(product.SKUs())
	return pair, ok, nil
}

// Delta keeps only the wanted tags the product does not carry yet.
func (p *categoryPolicy) Delta(product model.Product, pair CategoryPair) ([]string, bool) {
	want := []string{"dept:" + pair.Dept, "cat:" + pair.Cat}
	has := make(map[string]bool, len(product.Tags))
	for _, tag := range product.Tags {
		has[tag] = true
	}
	toAdd := make([]string, 0, len(want))
	for _, tag := range want {
		if !has[tag] {
			toAdd = append(toAdd, tag)
		}
	}
	return toAdd, len(toAdd) > 0
}

func (p *categoryPolicy) Apply(ctx context.Context, product model.Product, toAdd []string) error {
	return p.writer.AddTags(ctx, product.ID, toAdd)
}
