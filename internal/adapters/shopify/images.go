package shopify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	goshopify "github.com/bold-commerce/go-shopify/v3"
)

const maxImageBytes = 20 << 20

var contentTypeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type ImageWriter interface {
	AttachImage(ctx context.Context, productGID string, variantGID string, candidates []string) (string, error)
}

// AttachImage uploads the first workable candidate URL to the product and
// links it to the variant. Import-by-src is tried first (no binary moves
// through this process); when the upstream rejects the URL the binary is
// downloaded, size-capped, and re-submitted as a base64 attachment.
// Returns the candidate URL that was uploaded.
func (c *Client) AttachImage(ctx context.Context, productGID string, variantGID string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", errors.New("no image candidates")
	}
	productID, err := gidNumericID(productGID)
	if err != nil {
		return "", err
	}
	var variantIDs []int64
	if variantGID != "" {
		variantID, err := gidNumericID(variantGID)
		if err != nil {
			return "", err
		}
		variantIDs = []int64{variantID}
	}

	var last error
	for _, candidate := range candidates {
		err := c.rest.CreateProductImage(productID, goshopify.Image{
			Src:        candidate,
			VariantIds: variantIDs,
		})
		if err == nil {
			return candidate, nil
		}
		last = err
		if !isUnprocessableSrc(err) {
			continue
		}

		if err := c.attachImageInline(ctx, productID, variantIDs, candidate); err != nil {
			last = err
			continue
		}
		return candidate, nil
	}
	return "", fmt.Errorf("all image candidates failed: %w", last)
}

func (c *Client) attachImageInline(ctx context.Context, productID int64, variantIDs []int64, srcURL string) error {
	payload, contentType, err := c.downloadImage(ctx, srcURL)
	if err != nil {
		return err
	}
	return c.rest.CreateProductImage(productID, goshopify.Image{
		Attachment: base64.StdEncoding.EncodeToString(payload),
		Filename:   imageFilename(srcURL, contentType),
		VariantIds: variantIDs,
	})
}

func (c *Client) downloadImage(ctx context.Context, srcURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.downloader.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("image download failed: %s", resp.Status)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(payload) > maxImageBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes: %s", maxImageBytes, srcURL)
	}
	return payload, resp.Header.Get("Content-Type"), nil
}

// isUnprocessableSrc reports whether the REST API rejected the src URL as
// unfetchable or invalid, the condition that justifies the inline upload.
func isUnprocessableSrc(err error) bool {
	var respErr goshopify.ResponseError
	if errors.As(err, &respErr) {
		return respErr.Status == http.StatusUnprocessableEntity || respErr.Status == http.StatusBadRequest
	}
	return false
}

func imageFilename(srcURL string, contentType string) string {
	name := "image"
	if parsed, err := url.Parse(srcURL); err == nil {
		if base := path.Base(parsed.Path); base != "" && base != "/" && base != "." {
			name = base
		}
	}
	mediaType := contentType
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = mediaType[:i]
	}
	ext, ok := contentTypeExtensions[strings.TrimSpace(strings.ToLower(mediaType))]
	if !ok {
		return name
	}
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name
	}
	// strip whatever extension the URL carried, the content type wins
	name = strings.TrimSuffix(name, path.Ext(name))
	return name + ext
}
