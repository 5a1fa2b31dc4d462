package httpx

import (
	"net/http"
	"time"
)

// NewClient builds the shared HTTP client used by every adapter. A hung
// upstream is treated like any other transport failure once the timeout
// fires.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
