package shopify

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	goshopify "github.com/bold-commerce/go-shopify/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unprocessableErr() error {
	return goshopify.ResponseError{Status: http.StatusUnprocessableEntity, Message: "image src is invalid"}
}

func TestAttachImageBySrc(t *testing.T) {
	client, fake := newTestShopifyClient(t, nil)

	uploaded, err := client.AttachImage(context.Background(),
		"gid://shopify/Product/10", "gid://shopify/ProductVariant/20",
		[]string{"https://img.sifam.fr/a.jpg"})

	require.NoError(t, err)
	assert.Equal(t, "https://img.sifam.fr/a.jpg", uploaded)
	require.Len(t, fake.imageCalls, 1)
	assert.Equal(t, "https://img.sifam.fr/a.jpg", fake.imageCalls[0].Src)
	assert.Equal(t, []int64{20}, fake.imageCalls[0].VariantIds)
}

func TestAttachImageFallsBackToInlineUpload(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}
	binaries := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	t.Cleanup(binaries.Close)

	client, fake := newTestShopifyClient(t, nil)
	client.downloader = binaries.Client()
	fake.imageErrs = []error{unprocessableErr(), nil}

	uploaded, err := client.AttachImage(context.Background(),
		"gid://shopify/Product/10", "gid://shopify/ProductVariant/20",
		[]string{binaries.URL + "/photo.jpg"})

	require.NoError(t, err)
	assert.Equal(t, binaries.URL+"/photo.jpg", uploaded)
	require.Len(t, fake.imageCalls, 2)
	assert.Empty(t, fake.imageCalls[1].Src)
	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), fake.imageCalls[1].Attachment)
	assert.Equal(t, "photo.jpg", fake.imageCalls[1].Filename)
}

func TestAttachImageTriesNextCandidate(t *testing.T) {
	client, fake := newTestShopifyClient(t, nil)
	// first candidate rejected and its download will fail (unreachable
	// host), second candidate imports fine
	fake.imageErrs = []error{unprocessableErr(), nil}

	uploaded, err := client.AttachImage(context.Background(),
		"gid://shopify/Product/10", "",
		[]string{"http://127.0.0.1:1/broken.jpg", "https://img.sifam.fr/b.jpg"})

	require.NoError(t, err)
	assert.Equal(t, "https://img.sifam.fr/b.jpg", uploaded)
	// one src attempt per candidate, only one ends in success
	srcAttempts := 0
	for _, call := range fake.imageCalls {
		if call.Src != "" {
			srcAttempts++
		}
	}
	assert.Equal(t, 2, srcAttempts)
}

func TestAttachImageAllCandidatesFail(t *testing.T) {
	client, fake := newTestShopifyClient(t, nil)
	fake.imageErrs = []error{unprocessableErr(), unprocessableErr()}

	_, err := client.AttachImage(context.Background(),
		"gid://shopify/Product/10", "",
		[]string{"http://127.0.0.1:1/a.jpg", "http://127.0.0.1:1/b.jpg"})
	assert.Error(t, err)
}

func TestAttachImageNoCandidates(t *testing.T) {
	client, _ := newTestShopifyClient(t, nil)
	_, err := client.AttachImage(context.Background(), "gid://shopify/Product/10", "", nil)
	assert.Error(t, err)
}

func TestImageFilename(t *testing.T) {
	assert.Equal(t, "photo.jpg", imageFilename("https://x/photo.jpg?v=2", "image/jpeg"))
	assert.Equal(t, "photo.png", imageFilename("https://x/photo.jpg", "image/png"))
	assert.Equal(t, "photo.webp", imageFilename("https://x/photo.webp", "image/webp; charset=binary"))
	assert.Equal(t, "image", imageFilename("https://x/", "application/octet-stream"))
}
