package usecases

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"sifam-shopify-bridge/internal/adapters/shopify"
	"sifam-shopify-bridge/internal/logging"
)

type ExportUncategorizedService interface {
	Run(ctx context.Context) (int, error)
}

type ClientExport struct {
	reader  shopify.CatalogReader
	logger  logging.LoggerService
	outPath string
}

func NewExportUncategorized(reader shopify.CatalogReader, logger logging.LoggerService, outPath string) ExportUncategorizedService {
	if outPath == "" {
		outPath = "./uncategorized.csv"
	}
	return &ClientExport{
		reader:  reader,
		logger:  logger,
		outPath: outPath,
	}
}

// Run writes every product missing a dept: or cat: tag to a CSV and
// returns how many rows were exported.
func (c *ClientExport) Run(ctx context.Context) (int, error) {
	if c.logger != nil {
		c.logger.Log("Uncategorized export started")
	}

	file, err := os.Create(c.outPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"handle", "title", "skus", "tags"}); err != nil {
		return 0, err
	}

	exported := 0
	cursor := ""
	for {
		page, err := c.reader.ProductPage(ctx, cursor)
		if err != nil {
			return exported, err
		}
		for _, product := range page.Items {
			if hasCategoryTags(product.Tags) {
				continue
			}
			row := []string{
				product.Handle,
				product.Title,
				strings.Join(product.SKUs(), " | "),
				strings.Join(product.Tags, " | "),
			}
			if err := writer.Write(row); err != nil {
				return exported, err
			}
			exported++
		}
		if !page.HasNextPage {
			break
		}
		cursor = page.EndCursor
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return exported, err
	}
	if c.logger != nil {
		c.logger.LogSuccess(fmt.Sprintf("Export -> %s (%d products)", c.outPath, exported))
	}
	return exported, nil
}

func hasCategoryTags(tags []string) bool {
	hasDept, hasCat := false, false
	for _, tag := range tags {
		if strings.HasPrefix(tag, "dept:") {
			hasDept = true
		}
		if strings.HasPrefix(tag, "cat:") {
			hasCat = true
		}
	}
	return hasDept && hasCat
}
