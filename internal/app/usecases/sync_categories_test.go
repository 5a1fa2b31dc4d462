package usecases

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sifam-shopify-bridge/internal/adapters/shopify"
	"sifam-shopify-bridge/internal/config"
	"sifam-shopify-bridge/internal/domain/model"
)

type fakeCatalog struct {
	products []model.Product
}

func (f *fakeCatalog) VariantPage(_ context.Context, _ string) (shopify.Page[model.Variant], error) {
	return shopify.Page[model.Variant]{}, nil
}

func (f *fakeCatalog) ProductPage(_ context.Context, _ string) (shopify.Page[model.Product], error) {
	return shopify.Page[model.Product]{Items: f.products}, nil
}

func (f *fakeCatalog) ProductPageWithImages(ctx context.Context, cursor string) (shopify.Page[model.Product], error) {
	return f.ProductPage(ctx, cursor)
}

type fakeTagWriter struct {
	added map[string][]string
}

func (f *fakeTagWriter) AddTags(_ context.Context, resourceGID string, tags []string) error {
	if f.added == nil {
		f.added = map[string][]string{}
	}
	f.added[resourceGID] = append(f.added[resourceGID], tags...)
	return nil
}

func writeTestCategoryMap(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "category-map.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Moto":{"Transmission":["CHN"]}}`), 0o644))
	return path
}

func TestSyncCategoriesOnlySKUMatchesAnyVariant(t *testing.T) {
	reader := &fakeCatalog{products: []model.Product{
		{
			// matching SKU is on the second variant, not the first
			ID: "gid://shopify/Product/1",
			Variants: []model.Variant{
				{ID: "v1", SKU: "ZZZ-9"},
				{ID: "v2", SKU: "CHN-520"},
			},
		},
		{
			ID: "gid://shopify/Product/2",
			Variants: []model.Variant{
				{ID: "v3", SKU: "CHN-428"},
			},
		},
	}}
	writer := &fakeTagWriter{}

	job := NewSyncCategories(reader, writer, nil, config.SyncConfig{
		OnlySKU:         "CHN-520",
		CategoryMapPath: writeTestCategoryMap(t),
		Throttle:        time.Millisecond,
	})
	counters, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, counters.Updated)
	assert.Equal(t, []string{"dept:Moto", "cat:Transmission"}, writer.added["gid://shopify/Product/1"])
	assert.NotContains(t, writer.added, "gid://shopify/Product/2", "products without the filtered sku are not processed")
}

func TestSyncCategoriesTagsUnclassifiedAsSkipped(t *testing.T) {
	reader := &fakeCatalog{products: []model.Product{
		{
			ID:       "gid://shopify/Product/1",
			Variants: []model.Variant{{ID: "v1", SKU: "CHN-520"}},
		},
		{
			ID:       "gid://shopify/Product/2",
			Variants: []model.Variant{{ID: "v2", SKU: "ZZZ-1"}},
		},
	}}
	writer := &fakeTagWriter{}

	job := NewSyncCategories(reader, writer, nil, config.SyncConfig{
		CategoryMapPath: writeTestCategoryMap(t),
		Throttle:        time.Millisecond,
	})
	counters, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, counters.Updated)
	assert.Equal(t, 1, counters.Skipped)
	assert.NotContains(t, writer.added, "gid://shopify/Product/2")
}
