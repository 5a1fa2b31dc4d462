// one-shot job: export products missing dept:/cat: tags to CSV
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
	cfg, err := config.LoadForExport()
	if err != nil {
		fmt.Printf("error %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.TelegramBot)
	httpClient := httpx.NewClient(cfg.Shopify.Timeout)

	shopifyClient := shopify.NewClient(cfg.Shopify, httpClient, logger)

	job := usecases.NewExportUncategorized(shopifyClient, logger, os.Getenv("EXPORT_PATH"))
	exported, err := job.Run(context.Background())
	if err != nil {
		logger.LogError("export failed", err)
		os.Exit(1)
	}
	fmt.Printf("exported %d products\n", exported)
}
