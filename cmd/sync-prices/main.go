// one-shot job: reconcile Sifam public prices into Shopify variant prices
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"sifam-shopify-bridge/internal/adapters/shopify"
	"sifam-shopify-bridge/internal/adapters/sifam"
	"sifam-shopify-bridge/internal/app/usecases"
	"sifam-shopify-bridge/internal/config"
	"sifam-shopify-bridge/internal/infra/httpx"
	"sifam-shopify-bridge/internal/logging"
)

func main() {
	cfg, err := config.LoadForPriceSync()
	if err != nil {
		fmt.Printf("error %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.TelegramBot)
	httpClient := httpx.NewClient(maxDuration(cfg.Shopify.Timeout, cfg.Sifam.Timeout))

	logger.Log(fmt.Sprintf("-> Shopify: %s API %s", cfg.Shopify.ShopDomain, cfg.Shopify.APIVer))
	logger.Log(fmt.Sprintf("-> Proxy: %s", cfg.Sifam.ProxyBase))

	shopifyClient := shopify.NewClient(cfg.Shopify, httpClient, logger)
	sifamClient := sifam.NewClient(cfg.Sifam, httpClient, logger)
	priceService := sifam.NewPriceService(sifamClient, cfg.Sync.VATRate, cfg.Sync.CurrencyDecimals)

	job := usecases.NewSyncPrices(shopifyClient, priceService, shopifyClient, logger, cfg.Sync)
	counters, err := job.Run(context.Background())
	fmt.Println(counters.String())
	if err != nil {
		logger.LogError("price sync failed", err)
		os.Exit(1)
	}
	logger.LogSuccess("price sync completed " + counters.String())
}

func maxDuration(a, b time.Duration) time.Duration {
	if a >= b {
		return a
	}
	return b
}
