package config

import "time"

type Config struct {
	Shopify     ShopifyConfig
	Sifam       SifamConfig
	Sync        SyncConfig
	Proxy       ProxyConfig
	TelegramBot TelegramBotConfig
}

type ShopifyConfig struct {
	ShopDomain string
	Token      string
	APIVer     string
	Timeout    time.Duration
}

// SifamConfig points the lookup client at either the caching proxy or the
// supplier API directly. APIKey is only needed for the direct fallback.
type SifamConfig struct {
	ProxyBase string
	APIBase   string
	APIKey    string
	Timeout   time.Duration
}

type SyncConfig struct {
	OnlySKU          string
	MaxUpdates       int
	VATRate          float64
	CurrencyDecimals int
	CategoryMapPath  string
	Throttle         time.Duration
}

type ProxyConfig struct {
	Port     int
	APIBase  string
	APIKey   string
	CacheTTL time.Duration
	Timeout  time.Duration
}

type TelegramBotConfig struct {
	ChatId string
	Token  string
}
