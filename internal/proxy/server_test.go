package proxy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sifam-shopify-bridge/internal/config"
)

type upstream struct {
	server *httptest.Server
	hits   map[string]int
}

func newUpstream(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *upstream {
	t.Helper()
	u := &upstream{hits: map[string]int{}}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits[r.URL.Path]++
		handler(w, r)
	}))
	t.Cleanup(u.server.Close)
	return u
}

func newTestServer(t *testing.T, u *upstream) (*Server, *TTLCache) {
	t.Helper()
	cache := NewTTLCache(5 * time.Minute)
	server := NewServer(config.ProxyConfig{
		APIBase:  u.server.URL,
		APIKey:   "secret",
		CacheTTL: 5 * time.Minute,
		Timeout:  5 * time.Second,
	}, cache, u.server.Client(), nil)
	return server, cache
}

func TestStockRouteCachesWithinTTL(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{"PRIX_PUBLIC":"10,00"}`))
	})
	server, cache := newTestServer(t, u)
	handler := server.Handler()

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/AB~1", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"PRIX_PUBLIC":"10,00"}`, rec.Body.String())
	}
	assert.Equal(t, 1, u.hits["/api/stock/AB~1.json"], "second request within TTL must be served from memory")

	// age every entry past the TTL window, the upstream is hit again
	cache.now = func() time.Time { return time.Now().Add(6 * time.Minute) }
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stock/AB~1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, u.hits["/api/stock/AB~1.json"])
}

func TestCatalogRouteDefaultsToAllFamilies(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("dropshipping"))
		w.Write([]byte(`[]`))
	})
	server, _ := newTestServer(t, u)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalogue", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, u.hits["/api/articles/ALL.json"])
}

func TestUpstreamErrorBecomes502WithBody(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code":"BOOM","detail":"supplier exploded"}`))
	})
	server, _ := newTestServer(t, u)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/familles", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	errBody, _ := payload["error"].(map[string]any)
	assert.Equal(t, "BOOM", errBody["code"], "upstream error body must pass through for observability")
}

func TestFailedUpstreamResponseIsNotCached(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server, _ := newTestServer(t, u)
	handler := server.Handler()

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/familles", nil))
		require.Equal(t, http.StatusBadGateway, rec.Code)
	}
	assert.Equal(t, 2, u.hits["/api/familles.json"])
}

func TestPlaceOrderNeverCached(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"NumCommande":"C1"}`))
	})
	server, _ := newTestServer(t, u)
	handler := server.Handler()

	body := `{"CodeClient":"2","Articles":[]}`
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/commande", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, u.hits["/api/commande.json"], "order placement is side-effecting")
}

func TestOrderPaidRelayTransformsPayload(t *testing.T) {
	var forwarded SifamOrder
	u := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&forwarded))
		w.Write([]byte(`{"ok":true}`))
	})
	server, _ := newTestServer(t, u)
	server.now = func() time.Time {
		return time.Date(2026, 8, 31, 14, 5, 0, 0, time.UTC)
	}

	webhook := `{
		"id": 987654,
		"email": "buyer@example.com",
		"shipping_address": {
			"first_name": "Jean", "last_name": "Dupont",
			"address1": "1 rue de la Paix", "zip": "75002", "city": "Paris",
			"country_code": "fr", "phone": "+33611223344"
		},
		"line_items": [{"sku": "CHN/520", "quantity": 2}]
	}`

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/relay/order-paid", strings.NewReader(webhook)))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "987654", forwarded.ReferenceCommande)
	assert.Equal(t, "Jean Dupont", forwarded.NomClient)
	assert.Equal(t, "FR", forwarded.CodePays)
	assert.Equal(t, "20260831", forwarded.DateCmd)
	assert.Equal(t, "1405", forwarded.HeureCmd)
	require.Len(t, forwarded.Articles, 1)
	assert.Equal(t, "CHN/520", forwarded.Articles[0].ReferenceArticle)
	assert.Equal(t, "2", forwarded.Articles[0].Quantite)
}

func TestHealthRoute(t *testing.T) {
	server, _ := newTestServer(t, newUpstream(t, func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestCORSPreflightAllowsStorefront(t *testing.T) {
	server, _ := newTestServer(t, newUpstream(t, func(http.ResponseWriter, *http.Request) {}))
	handler := server.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/stock/AB", nil)
	req.Header.Set("Origin", "https://my-shop.myshopify.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "https://my-shop.myshopify.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/stock/AB", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDisallowedOriginRejectedBeforeUpstream(t *testing.T) {
	u := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"PRIX_PUBLIC":"10,00"}`))
	})
	server, _ := newTestServer(t, u)
	handler := server.Handler()

	req := httptest.NewRequest(http.MethodGet, "/stock/AB", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, u.hits["/api/stock/AB.json"], "disallowed origin must never be proxied upstream")

	req = httptest.NewRequest(http.MethodGet, "/stock/AB", nil)
	req.Header.Set("Origin", "https://my-shop.myshopify.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// no Origin header at all: server-to-server callers stay allowed
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/familles", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildSupplierOrderDefaults(t *testing.T) {
	order := BuildSupplierOrder(ShopifyOrder{ID: 1}, time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC))
	assert.Equal(t, "FR", order.CodePays)
	assert.Equal(t, "2", order.CodeClient)
	assert.Equal(t, "20260102", order.DateCmd)
	assert.Equal(t, "0304", order.HeureCmd)
	assert.Empty(t, order.Articles)
}
