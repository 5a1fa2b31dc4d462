package sifam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sifam-shopify-bridge/internal/config"
	"sifam-shopify-bridge/internal/logging"
)

// errNotFound marks a well-formed "no such reference" answer from the
// supplier. It is a valid absent result, never retried and never counted
// as a failure.
var errNotFound = errors.New("sifam: reference not found")

type Client struct {
	Config     config.SifamConfig
	httpClient *http.Client
	logger     logging.LoggerService
	retry      RetryPolicy
}

func NewClient(cfg config.SifamConfig, httpClient *http.Client, logger logging.LoggerService) *Client {
	return &Client{
		Config:     cfg,
		httpClient: httpClient,
		logger:     logger,
		retry:      defaultRetryPolicy(),
	}
}

// getJSON fetches one supplier URL and returns the raw body. Transport
// failures and 5xx answers are retryable; a 404 surfaces as errNotFound
// without retry.
func (c *Client) getJSON(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := c.retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusNotFound {
			return Permanent(errNotFound)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("sifam request failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
		}
		body = raw
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
