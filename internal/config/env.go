package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIVersion = "2024-07"
	defaultSifamAPI   = "http://api.sifam.fr"
	defaultProxyBase  = "https://sifam-proxy.onrender.com"

	defaultShopifyTimeout = 25 * time.Second
	defaultSifamTimeout   = 20 * time.Second
	defaultCacheTTL       = 5 * time.Minute
	defaultThrottle       = 250 * time.Millisecond
)

func init() {
	// local development only; in deployment the env comes from the host
	_ = godotenv.Load()
}

func requiredString(key string) (string, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return variable, nil
}

// firstOf accepts both naming conventions used across deployments
// (e.g. SHOPIFY_DOMAIN vs SHOPIFY_STORE_DOMAIN).
func firstOf(keys ...string) string {
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
	}
	return ""
}

func stringWithDefault(key, def string) string {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return def
	}
	return variable
}

func intWithDefault(key string, def int) (int, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return def, nil
	}
	number, err := strconv.Atoi(variable)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %w", key, err)
	}
	return number, nil
}

func floatWithDefault(key string, def float64) (float64, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return def, nil
	}
	number, err := strconv.ParseFloat(variable, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float for %s: %w", key, err)
	}
	return number, nil
}

func telegram() TelegramBotConfig {
	return TelegramBotConfig{
		ChatId: os.Getenv("TELEGRAM_CHAT_ID"),
		Token:  os.Getenv("TELEGRAM_BOT_TOKEN"),
	}
}

func shopify() (ShopifyConfig, error) {
	domain := firstOf("SHOPIFY_DOMAIN", "SHOPIFY_STORE_DOMAIN")
	if domain == "" {
		return ShopifyConfig{}, fmt.Errorf("missing required env var: SHOPIFY_DOMAIN / SHOPIFY_STORE_DOMAIN")
	}
	token := firstOf("SHOPIFY_TOKEN", "SHOPIFY_ADMIN_TOKEN")
	if token == "" {
		return ShopifyConfig{}, fmt.Errorf("missing required env var: SHOPIFY_TOKEN / SHOPIFY_ADMIN_TOKEN")
	}
	return ShopifyConfig{
		ShopDomain: domain,
		Token:      token,
		APIVer:     stringWithDefault("SHOPIFY_API_VERSION", defaultAPIVersion),
		Timeout:    defaultShopifyTimeout,
	}, nil
}

func sifam() SifamConfig {
	proxyBase := firstOf("PROXY_BASE", "PROXY_URL")
	if proxyBase == "" {
		proxyBase = defaultProxyBase
	}
	return SifamConfig{
		ProxyBase: proxyBase,
		APIBase:   stringWithDefault("SIFAM_API_BASE", defaultSifamAPI),
		APIKey:    os.Getenv("SIFAM_API_KEY"),
		Timeout:   defaultSifamTimeout,
	}
}

func sync() (SyncConfig, error) {
	maxUpdates, err := intWithDefault("MAX_UPDATES", 0)
	if err != nil {
		return SyncConfig{}, err
	}
	vat, err := floatWithDefault("VAT_RATE", 0)
	if err != nil {
		return SyncConfig{}, err
	}
	decimals, err := intWithDefault("CURRENCY_DECIMALS", 2)
	if err != nil {
		return SyncConfig{}, err
	}
	if decimals < 0 || decimals > 4 {
		return SyncConfig{}, fmt.Errorf("CURRENCY_DECIMALS out of range: %d", decimals)
	}
	return SyncConfig{
		OnlySKU:          os.Getenv("ONLY_SKU"),
		MaxUpdates:       maxUpdates,
		VATRate:          vat,
		CurrencyDecimals: decimals,
		CategoryMapPath:  stringWithDefault("CATEGORY_MAP", "./category-map.json"),
		Throttle:         defaultThrottle,
	}, nil
}

func LoadForPriceSync() (*Config, error) {
	shopifyCfg, err := shopify()
	if err != nil {
		return nil, err
	}
	syncCfg, err := sync()
	if err != nil {
		return nil, err
	}
	return &Config{
		Shopify:     shopifyCfg,
		Sifam:       sifam(),
		Sync:        syncCfg,
		TelegramBot: telegram(),
	}, nil
}

func LoadForCategorySync() (*Config, error) {
	return LoadForPriceSync()
}

func LoadForImageSync() (*Config, error) {
	return LoadForPriceSync()
}

func LoadForExport() (*Config, error) {
	shopifyCfg, err := shopify()
	if err != nil {
		return nil, err
	}
	return &Config{
		Shopify:     shopifyCfg,
		TelegramBot: telegram(),
	}, nil
}

func LoadForProxy() (*Config, error) {
	apiKey, err := requiredString("SIFAM_API_KEY")
	if err != nil {
		return nil, err
	}
	port, err := intWithDefault("PORT", 8080)
	if err != nil {
		return nil, err
	}
	return &Config{
		Proxy: ProxyConfig{
			Port:     port,
			APIBase:  stringWithDefault("SIFAM_API_BASE", defaultSifamAPI),
			APIKey:   apiKey,
			CacheTTL: defaultCacheTTL,
			Timeout:  30 * time.Second,
		},
		TelegramBot: telegram(),
	}, nil
}
