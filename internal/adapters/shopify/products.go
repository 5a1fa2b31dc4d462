package shopify

import (
	"context"

	"sifam-shopify-bridge/internal/adapters/shopify/dto"
	"sifam-shopify-bridge/internal/domain/model"
)

const (
	variantPageSize = 250
	productPageSize = 100
)

// Page is one batch of a cursor-paginated connection. An empty page with
// HasNextPage=false is the normal terminal state, not an error.
type Page[T any] struct {
	Items       []T
	EndCursor   string
	HasNextPage bool
}

// CatalogReader pages through the store catalog. Cursors are only valid
// within one run; iteration restarts from the beginning.
type CatalogReader interface {
	VariantPage(ctx context.Context, cursor string) (Page[model.Variant], error)
	ProductPage(ctx context.Context, cursor string) (Page[model.Product], error)
	ProductPageWithImages(ctx context.Context, cursor string) (Page[model.Product], error)
}

func (c *Client) VariantPage(ctx context.Context, cursor string) (Page[model.Variant], error) {
	query := `
query variants($first: Int!, $after: String) {
	productVariants(first: $first, after: $after) {
		nodes { id sku price }
		pageInfo { hasNextPage endCursor }
	}
}`

	variables := map[string]any{"first": variantPageSize}
	if cursor != "" {
		variables["after"] = cursor
	}

	var data dto.VariantsQueryData
	if err := c.graphqlRequest(ctx, query, variables, &data); err != nil {
		return Page[model.Variant]{}, err
	}

	items := make([]model.Variant, 0, len(data.ProductVariants.Nodes))
	for _, node := range data.ProductVariants.Nodes {
		items = append(items, model.Variant{
			ID:    node.ID,
			SKU:   node.SKU,
			Price: node.Price,
		})
	}
	return Page[model.Variant]{
		Items:       items,
		EndCursor:   data.ProductVariants.PageInfo.EndCursor,
		HasNextPage: data.ProductVariants.PageInfo.HasNextPage,
	}, nil
}

func (c *Client) ProductPage(ctx context.Context, cursor string) (Page[model.Product], error) {
	query := `
query products($first: Int!, $after: String) {
	products(first: $first, after: $after) {
		nodes {
			id
			handle
			title
			tags
			variants(first: 100) {
				nodes { id sku }
			}
		}
		pageInfo { hasNextPage endCursor }
	}
}`
	return c.productPage(ctx, query, cursor)
}

func (c *Client) ProductPageWithImages(ctx context.Context, cursor string) (Page[model.Product], error) {
	query := `
query products($first: Int!, $after: String) {
	products(first: $first, after: $after) {
		nodes {
			id
			handle
			title
			tags
			images(first: 100) {
				nodes { id src }
			}
			variants(first: 100) {
				nodes { id sku }
			}
		}
		pageInfo { hasNextPage endCursor }
	}
}`
	return c.productPage(ctx, query, cursor)
}

func (c *Client) productPage(ctx context.Context, query string, cursor string) (Page[model.Product], error) {
	variables := map[string]any{"first": productPageSize}
	if cursor != "" {
		variables["after"] = cursor
	}

	var data dto.ProductsQueryData
	if err := c.graphqlRequest(ctx, query, variables, &data); err != nil {
		return Page[model.Product]{}, err
	}

	items := make([]model.Product, 0, len(data.Products.Nodes))
	for _, node := range data.Products.Nodes {
		items = append(items, mapProductNode(node))
	}
	return Page[model.Product]{
		Items:       items,
		EndCursor:   data.Products.PageInfo.EndCursor,
		HasNextPage: data.Products.PageInfo.HasNextPage,
	}, nil
}

func mapProductNode(node dto.ProductNode) model.Product {
	product := model.Product{
		ID:     node.ID,
		Handle: node.Handle,
		Title:  node.Title,
		Tags:   node.Tags,
	}
	for _, v := range node.Variants.Nodes {
		product.Variants = append(product.Variants, model.Variant{ID: v.ID, SKU: v.SKU})
	}
	for _, img := range node.Images.Nodes {
		if img.Src != "" {
			product.ImageSrcs = append(product.ImageSrcs, img.Src)
		}
	}
	return product
}
