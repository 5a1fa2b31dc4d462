// one-shot job: add dept:/cat: tags derived from SKU prefixes
package main

import (
	"context"
	"fmt"
	"os"

	"sifam-shopify-bridge/internal/adapters/shopify"
	"sifam-shopify-bridge/internal/app/usecases"
	"sifam-shopify-bridge/internal/config"
	"sifam-shopify-bridge/internal/infra/httpx"
	"sifam-shopify-bridge/internal/logging"
)

func main() {
	cfg, err := config.LoadForCategorySync()
	if err != nil {
		fmt.Printf("error %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.TelegramBot)
	httpClient := httpx.NewClient(cfg.Shopify.Timeout)

	shopifyClient := shopify.NewClient(cfg.Shopify, httpClient, logger)

	job := usecases.NewSyncCategories(shopifyClient, shopifyClient, logger, cfg.Sync)
	counters, err := job.Run(context.Background())
	fmt.Println(counters.String())
	if err != nil {
		logger.LogError("category sync failed", err)
		os.Exit(1)
	}
	logger.LogSuccess("category sync completed " + counters.String())
}
