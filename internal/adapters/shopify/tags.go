package shopify

import (
	"context"
	"errors"

	"sifam-shopify-bridge/internal/adapters/shopify/dto"
)

type TagWriter interface {
	AddTags(ctx context.Context, resourceGID string, tags []string) error
}

// AddTags is a union add: existing tags are never removed, and adding a
// tag the resource already carries is accepted upstream as a no-op.
func (c *Client) AddTags(ctx context.Context, resourceGID string, tags []string) error {
	if resourceGID == "" {
		return errors.New("shopify resource id is required")
	}
	if len(tags) == 0 {
		return nil
	}

	mutation := `
mutation tagsAdd($id: ID!, $tags: [String!]!) {
	tagsAdd(id: $id, tags: $tags) {
		userErrors { field message }
	}
}`

	var data dto.TagsAddData
	err := c.graphqlRequest(ctx, mutation, map[string]any{
		"id":   resourceGID,
		"tags": tags,
	}, &data)
	if err != nil {
		return err
	}
	return userErrorsToError("tagsAdd", data.TagsAdd.UserErrors)
}
