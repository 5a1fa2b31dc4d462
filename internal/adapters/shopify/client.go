package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	goshopify "github.com/bold-commerce/go-shopify/v3"
	"github.com/shopspring/decimal"

	"sifam-shopify-bridge/internal/adapters/shopify/dto"
	"sifam-shopify-bridge/internal/config"
	"sifam-shopify-bridge/internal/logging"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type Client struct {
	config     config.ShopifyConfig
	httpClient *http.Client
	downloader *http.Client
	logger     logging.LoggerService
	rest       restAdmin
}

// restAdmin is the REST Admin surface used by the fallback write paths.
type restAdmin interface {
	UpdateVariantPrice(variantID int64, price decimal.Decimal) error
	CreateProductImage(productID int64, image goshopify.Image) error
}

func NewClient(cfg config.ShopifyConfig, httpClient *http.Client, logger logging.LoggerService) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		config:     cfg,
		httpClient: httpClient,
		// binary downloads get a wider window than API calls
		downloader: &http.Client{Timeout: 45 * time.Second},
		logger:     logger,
		rest:       newRESTAdmin(cfg),
	}
}

func (c *Client) logWarning(message string) {
	if c.logger != nil {
		c.logger.LogWarning(message)
	}
}

func (c *Client) graphqlRequest(ctx context.Context, query string, variables map[string]any, out any) error {
	endpoint, err := c.graphqlEndpoint()
	if err != nil {
		return err
	}

	payload := graphQLRequest{
		Query:     strings.TrimSpace(query),
		Variables: variables,
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		err = c.graphqlOnce(ctx, endpoint, bodyBytes, out)
		if err == nil {
			return nil
		}
		if attempt >= graphqlRetryMax {
			return err
		}
		if !isRetryableHTTPError(err) && !isThrottleGraphQLError(err) {
			return err
		}
		if sleepErr := sleepWithContext(ctx, retryDelay(attempt)); sleepErr != nil {
			return sleepErr
		}
	}
}

func (c *Client) graphqlOnce(ctx context.Context, endpoint string, body []byte, out any) error {
	raw, err := c.shopifyAPIRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}

	var resp dto.GraphQLResponse[json.RawMessage]
	if err := json.Unmarshal(raw, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return &graphQLErrorsError{errs: resp.Errors}
	}
	if out == nil {
		return nil
	}
	if len(resp.Data) == 0 {
		return errors.New("shopify graphql response missing data")
	}
	return json.Unmarshal(resp.Data, out)
}

func (c *Client) graphqlEndpoint() (string, error) {
	domain := strings.TrimSpace(c.config.ShopDomain)
	if domain == "" {
		return "", errors.New("shopify shop domain is empty")
	}
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	domain = strings.TrimRight(domain, "/")
	if c.config.APIVer == "" {
		return "", errors.New("shopify api version is empty")
	}
	return domain + "/admin/api/" + c.config.APIVer + "/graphql.json", nil
}

func (c *Client) shopifyAPIRequest(ctx context.Context, method string, endpoint string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.config.Token)

	client := c.httpClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPStatusError(resp.StatusCode, resp.Status, respBody)
	}

	return respBody, nil
}

func userErrorsToError(action string, errs []dto.ShopifyUserError) error {
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		field := strings.Join(err.Field, ".")
		message := strings.TrimSpace(err.Message)
		if field == "" {
			parts = append(parts, message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, message))
	}
	return fmt.Errorf("shopify %s failed: %s", action, strings.Join(parts, "; "))
}

// gidNumericID extracts the trailing numeric segment of an Admin GID,
// e.g. gid://shopify/ProductVariant/123 -> 123.
func gidNumericID(gid string) (int64, error) {
	trimmed := strings.TrimSpace(gid)
	idx := strings.LastIndex(trimmed, "/")
	if idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid shopify gid %q: %w", gid, err)
	}
	return id, nil
}
