package sifam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

type PhotoService interface {
	PhotosForSKU(ctx context.Context, sku string) ([]string, error)
}

type photoClient struct {
	client *Client
}

// NewPhotoService resolves a SKU to an ordered list of candidate photo
// URLs: the caching proxy first, the supplier API directly when a key is
// configured and the proxy yields nothing.
func NewPhotoService(client *Client) PhotoService {
	return &photoClient{client: client}
}

func (c *photoClient) PhotosForSKU(ctx context.Context, sku string) ([]string, error) {
	if sku == "" {
		return nil, nil
	}
	ref := ToRef(sku)

	endpoint := fmt.Sprintf("%s/photos/%s", c.client.Config.ProxyBase, url.PathEscape(ref))
	photos, err := c.fetchPhotoList(ctx, endpoint)
	if err == nil && len(photos) > 0 {
		return photos, nil
	}
	if err != nil && c.client.Config.APIKey == "" {
		return nil, err
	}

	// direct supplier fallback, generic photos included
	if c.client.Config.APIKey != "" {
		direct := fmt.Sprintf("%s/api/photos/%s.json?generique=1&api_key=%s",
			c.client.Config.APIBase, url.PathEscape(ref), url.QueryEscape(c.client.Config.APIKey))
		photos, directErr := c.fetchPhotoList(ctx, direct)
		if directErr != nil {
			if err != nil {
				return nil, err
			}
			return nil, directErr
		}
		return photos, nil
	}
	return photos, nil
}

func (c *photoClient) fetchPhotoList(ctx context.Context, endpoint string) ([]string, error) {
	raw, err := c.client.getJSON(ctx, endpoint)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return NormalizePhotoList(parsePhotoPayload(raw)), nil
}

// parsePhotoPayload accepts the two shapes the supplier returns: a bare
// array of URLs and a {"photos":[...]} wrapper.
func parsePhotoPayload(raw []byte) []string {
	var arr []any
	if err := json.Unmarshal(raw, &arr); err == nil {
		return anyListToStrings(arr)
	}
	var wrapped struct {
		Photos []any `json:"photos"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return anyListToStrings(wrapped.Photos)
	}
	return nil
}

func anyListToStrings(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NormalizePhotoList splits pipe-packed values, filters to known image
// extensions and dedupes while preserving order.
func NormalizePhotoList(raw []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(raw))
	for _, packed := range raw {
		for _, candidate := range strings.Split(packed, "|") {
			u := NormalizeImageURL(candidate)
			if u == "" || seen[u] {
				continue
			}
			if !hasImageExtension(u) {
				continue
			}
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}

// NormalizeImageURL is the comparison form used both for candidate lists
// and for the already-uploaded set on a product.
func NormalizeImageURL(raw string) string {
	return strings.TrimSpace(raw)
}

func hasImageExtension(u string) bool {
	path := u
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	lower := strings.ToLower(path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
