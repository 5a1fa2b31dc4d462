package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"sifam-shopify-bridge/internal/adapters/sifam"
	"sifam-shopify-bridge/internal/config"
	"sifam-shopify-bridge/internal/logging"
)

// Origins allowed to call the proxy from a browser: the storefront and
// the deployment host.
var allowedOrigins = []*regexp.Regexp{
	regexp.MustCompile(`\.myshopify\.com$`),
	regexp.MustCompile(`^https://.*\.onrender\.com$`),
}

// Server is the stateless facade over the supplier API. The TTL cache is
// its only shared mutable state and is injected at construction.
type Server struct {
	cfg        config.ProxyConfig
	cache      *TTLCache
	httpClient *http.Client
	logger     logging.LoggerService
	now        func() time.Time
}

func NewServer(cfg config.ProxyConfig, cache *TTLCache, httpClient *http.Client, logger logging.LoggerService) *Server {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Server{
		cfg:        cfg,
		cache:      cache,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	corsMiddleware := cors.New(cors.Options{
		AllowOriginFunc: originAllowed,
		AllowedMethods:  []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:  []string{"Content-Type"},
	})

	r := chi.NewRouter()
	r.Use(corsMiddleware.Handler)
	r.Use(originFilter)

	r.Get("/health", s.handleHealth)
	r.Get("/familles", s.handleFamilies)
	r.Get("/catalogue", s.handleCatalog)
	r.Get("/stock/{ref}", s.handleStock)
	r.Get("/photos/{ref}", s.handlePhotos)
	r.Get("/suivi/{refcmd}", s.handleOrderStatus)
	r.Post("/commande", s.handlePlaceOrder)
	r.Post("/relay/order-paid", s.handleOrderPaidRelay)
	return r
}

func originAllowed(origin string) bool {
	for _, pattern := range allowedOrigins {
		if pattern.MatchString(origin) {
			return true
		}
	}
	return false
}

// originFilter rejects browser requests from disallowed origins before
// any handler runs, so nothing is proxied upstream on their behalf.
// Requests without an Origin header (curl, server-to-server, the sync
// jobs) pass through; preflights are already terminated by the CORS
// middleware.
func originFilter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && !originAllowed(origin) {
			writeJSON(w, http.StatusForbidden, map[string]any{"error": "origin not allowed"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleFamilies(w http.ResponseWriter, r *http.Request) {
	upstream := fmt.Sprintf("%s/api/familles.json?langue=2&api_key=%s", s.cfg.APIBase, url.QueryEscape(s.cfg.APIKey))
	s.serveCached(w, r, upstream)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	fam := r.URL.Query().Get("fam")
	if fam == "" {
		fam = "ALL"
	}
	upstream := fmt.Sprintf("%s/api/articles/%s.json?images=1&dropshipping=1&langue=2&debut=-1&api_key=%s",
		s.cfg.APIBase, url.PathEscape(fam), url.QueryEscape(s.cfg.APIKey))
	s.serveCached(w, r, upstream)
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	ref := sifam.ToRef(chi.URLParam(r, "ref"))
	upstream := fmt.Sprintf("%s/api/stock/%s.json?api_key=%s", s.cfg.APIBase, url.PathEscape(ref), url.QueryEscape(s.cfg.APIKey))
	s.serveCached(w, r, upstream)
}

func (s *Server) handlePhotos(w http.ResponseWriter, r *http.Request) {
	ref := sifam.ToRef(chi.URLParam(r, "ref"))
	upstream := fmt.Sprintf("%s/api/photos/%s.json?api_key=%s", s.cfg.APIBase, url.PathEscape(ref), url.QueryEscape(s.cfg.APIKey))
	s.serveCached(w, r, upstream)
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	refcmd := chi.URLParam(r, "refcmd")
	upstream := fmt.Sprintf("%s/api/commande/%s.json?api_key=%s", s.cfg.APIBase, url.PathEscape(refcmd), url.QueryEscape(s.cfg.APIKey))
	s.serveCached(w, r, upstream)
}

// handlePlaceOrder forwards the order payload as-is. Side-effecting, so
// it never touches the cache.
func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	s.forwardOrder(r.Context(), w, body)
}

func (s *Server) handleOrderPaidRelay(w http.ResponseWriter, r *http.Request) {
	var order ShopifyOrder
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid order payload: " + err.Error()})
		return
	}
	payload, err := json.Marshal(BuildSupplierOrder(order, s.now()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	s.forwardOrder(r.Context(), w, payload)
}

func (s *Server) forwardOrder(ctx context.Context, w http.ResponseWriter, body []byte) {
	upstream := fmt.Sprintf("%s/api/commande.json?api_key=%s", s.cfg.APIBase, url.QueryEscape(s.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, upstream, strings.NewReader(string(body)))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logUpstreamError("order forward", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
		return
	}
	if len(strings.TrimSpace(string(respBody))) == 0 {
		writeJSON(w, resp.StatusCode, map[string]bool{"ok": true})
		return
	}
	writeRaw(w, resp.StatusCode, respBody)
}

// serveCached answers from the TTL cache when possible, otherwise calls
// the upstream and stores the body. Upstream failures become 502 with
// the upstream's error payload so nothing is silently swallowed.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, upstream string) {
	if cached, ok := s.cache.Get(upstream); ok {
		writeRaw(w, http.StatusOK, cached)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstream, nil)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logUpstreamError(r.URL.Path, err)
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
		return
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logUpstreamError(r.URL.Path, fmt.Errorf("upstream status %s", resp.Status))
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": json.RawMessage(errorPayload(body)),
		})
		return
	}

	s.cache.Set(upstream, body)
	writeRaw(w, http.StatusOK, body)
}

func (s *Server) logUpstreamError(route string, err error) {
	if s.logger != nil {
		s.logger.LogError("upstream error on "+route, err)
	}
}

// errorPayload keeps the upstream error body when it is valid JSON,
// otherwise wraps it as a JSON string.
func errorPayload(body []byte) []byte {
	if json.Valid(body) && len(strings.TrimSpace(string(body))) > 0 {
		return body
	}
	quoted, _ := json.Marshal(strings.TrimSpace(string(body)))
	return quoted
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
