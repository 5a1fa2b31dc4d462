// one-shot job: import Sifam photos and attach them to Shopify variants
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
	cfg, err := config.LoadForImageSync()
	if err != nil {
		fmt.Printf("error %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.TelegramBot)
	httpClient := httpx.NewClient(maxDuration(cfg.Shopify.Timeout, cfg.Sifam.Timeout))

	logger.Log(fmt.Sprintf("-> Shopify: %s API %s", cfg.Shopify.ShopDomain, cfg.Shopify.APIVer))
	logger.Log(fmt.Sprintf("-> Proxy: %s", cfg.Sifam.ProxyBase))
	if cfg.Sync.OnlySKU != "" {
		logger.Log("-> ONLY_SKU: " + cfg.Sync.OnlySKU)
	}
	if cfg.Sync.MaxUpdates > 0 {
		logger.Log(fmt.Sprintf("-> MAX_UPDATES: %d", cfg.Sync.MaxUpdates))
	}

	shopifyClient := shopify.NewClient(cfg.Shopify, httpClient, logger)
	sifamClient := sifam.NewClient(cfg.Sifam, httpClient, logger)
	photoService := sifam.NewPhotoService(sifamClient)

	job := usecases.NewSyncImages(shopifyClient, photoService, shopifyClient, logger, cfg.Sync)
	counters, err := job.Run(context.Background())
	fmt.Println(counters.String())
	if err != nil {
		logger.LogError("image sync failed", err)
		os.Exit(1)
	}
	logger.LogSuccess("image sync completed " + counters.String())
}

func maxDuration(a, b time.Duration) time.Duration {
	if a >= b {
		return a
	}
	return b
}
