package usecases

import (
	"context"

	"sifam-shopify-bridge/internal/adapters/shopify"
	"sifam-shopify-bridge/internal/adapters/sifam"
	"sifam-shopify-bridge/internal/config"
	"sifam-shopify-bridge/internal/domain/model"
	"sifam-shopify-bridge/internal/logging"
)

type SyncImagesService interface {
	Run(ctx context.Context) (model.RunCounters, error)
}

type ClientImage struct {
	reader shopify.CatalogReader
	photos sifam.PhotoService
	writer shopify.ImageWriter
	logger logging.LoggerService
	cfg    config.SyncConfig
}

func NewSyncImages(reader shopify.CatalogReader, photos sifam.PhotoService, writer shopify.ImageWriter, logger logging.LoggerService, cfg config.SyncConfig) SyncImagesService {
	return &ClientImage{
		reader: reader,
		photos: photos,
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

// imageTarget is one (product, variant) pair. Targets of the same product
// share the existing set so one product never plans the same photo twice,
// even across its variants.
type imageTarget struct {
	productID string
	variantID string
	sku       string
	existing  map[string]bool
}

func (c *ClientImage) Run(ctx context.Context) (model.RunCounters, error) {
	if c.logger != nil {
		c.logger.Log("Image sync started")
	}

	driver := &Reconciler[imageTarget, []string, []string]{
		Fetch: func(ctx context.Context, cursor string) ([]imageTarget, string, bool, error) {
			page, err := c.reader.ProductPageWithImages(ctx, cursor)
			if err != nil {
				return nil, "", false, err
			}
			return expandImageTargets(page.Items), page.EndCursor, page.HasNextPage, nil
		},
		Policy:     &imagePolicy{photos: c.photos, writer: c.writer},
		Logger:     c.logger,
		Throttle:   c.cfg.Throttle,
		OnlySKU:    c.cfg.OnlySKU,
		MaxUpdates: c.cfg.MaxUpdates,
	}
	return driver.Run(ctx)
}

// expandImageTargets flattens product pages into per-variant targets.
// Variants without a SKU still yield a target so the run counts them.
func expandImageTargets(products []model.Product) []imageTarget {
	var targets []imageTarget
	for _, product := range products {
		existing := make(map[string]bool, len(product.ImageSrcs))
		for _, src := range product.ImageSrcs {
			if u := sifam.NormalizeImageURL(src); u != "" {
				existing[u] = true
			}
		}
		for _, variant := range product.Variants {
			targets = append(targets, imageTarget{
				productID: product.ID,
				variantID: variant.ID,
				sku:       variant.SKU,
				existing:  existing,
			})
		}
	}
	return targets
}

type imagePolicy struct {
	photos sifam.PhotoService
	writer shopify.ImageWriter
}

func (p *imagePolicy) Key(t imageTarget) string      { return t.sku }
func (p *imagePolicy) EntityID(t imageTarget) string { return "variant " + t.variantID }

func (p *imagePolicy) Lookup(ctx context.Context, _ imageTarget, key string) ([]string, bool, error) {
	photos, err := p.photos.PhotosForSKU(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return photos, len(photos) > 0, nil
}

// Delta keeps the candidate URLs not yet on the product, in supplier
// order, so the writer can fall through to the next one on failure.
func (p *imagePolicy) Delta(t imageTarget, photos []string) ([]string, bool) {
	remaining := make([]string, 0, len(photos))
	for _, photo := range photos {
		if !t.existing[photo] {
			remaining = append(remaining, photo)
		}
	}
	return remaining, len(remaining) > 0
}

func (p *imagePolicy) Apply(ctx context.Context, t imageTarget, candidates []string) error {
	uploaded, err := p.writer.AttachImage(ctx, t.productID, t.variantID, candidates)
	if err != nil {
		return err
	}
	t.existing[uploaded] = true
	return nil
}
