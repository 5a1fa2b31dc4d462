package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sifam-shopify-bridge/internal/adapters/shopify/dto"
)

const (
	graphqlRetryMax       = 3
	graphqlRetryBaseDelay = 600 * time.Millisecond
	graphqlRetryMaxDelay  = 10 * time.Second
)

type httpStatusError struct {
	statusCode int
	status     string
	body       string
}

func (e *httpStatusError) Error() string {
	if strings.TrimSpace(e.body) == "" {
		return fmt.Sprintf("shopify request failed: %s", e.status)
	}
	return fmt.Sprintf("shopify request failed: %s: %s", e.status, e.body)
}

func newHTTPStatusError(statusCode int, status string, body []byte) error {
	return &httpStatusError{
		statusCode: statusCode,
		status:     status,
		body:       strings.TrimSpace(string(body)),
	}
}

func isRetryableHTTPError(err error) bool {
	var httpErr *httpStatusError
	if errors.As(err, &httpErr) {
		switch httpErr.statusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

// graphQLErrorsError carries the top-level errors array of a GraphQL
// response. userErrors inside the data envelope are a different failure
// class and never end up here.
type graphQLErrorsError struct {
	errs []dto.GraphQLError
}

func (e *graphQLErrorsError) Error() string {
	parts := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		parts = append(parts, err.Message)
	}
	return "shopify graphql errors: " + strings.Join(parts, "; ")
}

func isThrottleGraphQLError(err error) bool {
	var gqlErr *graphQLErrorsError
	if !errors.As(err, &gqlErr) {
		return false
	}
	for _, e := range gqlErr.errs {
		if strings.Contains(strings.ToLower(e.Message), "throttled") {
			return true
		}
		if code, ok := e.Extensions["code"].(string); ok && strings.EqualFold(code, "THROTTLED") {
			return true
		}
	}
	return false
}

// isMutationUnsupported reports whether the schema rejected the mutation
// itself (e.g. it was removed in the pinned API version). This is the
// only condition that triggers the REST fallback path.
func isMutationUnsupported(err error, mutation string) bool {
	var gqlErr *graphQLErrorsError
	if !errors.As(err, &gqlErr) {
		return false
	}
	return strings.Contains(err.Error(), mutation)
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	delay := graphqlRetryBaseDelay << attempt
	if delay > graphqlRetryMaxDelay {
		delay = graphqlRetryMaxDelay
	}
	return delay
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
