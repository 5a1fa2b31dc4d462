// caching reverse-proxy in front of the Sifam API
package main

import (
	"fmt"
	"net/http"
	"os"

	"sifam-shopify-bridge/internal/config"
	"sifam-shopify-bridge/internal/infra/httpx"
	"sifam-shopify-bridge/internal/logging"
	"sifam-shopify-bridge/internal/proxy"
)

func main() {
	cfg, err := config.LoadForProxy()
	if err != nil {
		fmt.Printf("error %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.TelegramBot)

	cache := proxy.NewTTLCache(cfg.Proxy.CacheTTL)
	httpClient := httpx.NewClient(cfg.Proxy.Timeout)
	server := proxy.NewServer(cfg.Proxy, cache, httpClient, logger)

	addr := fmt.Sprintf(":%d", cfg.Proxy.Port)
	logger.Log("sifam proxy listening on " + addr)
	if err := http.ListenAndServe(addr, server.Handler()); err != nil {
		logger.LogError("proxy server stopped", err)
		os.Exit(1)
	}
}
