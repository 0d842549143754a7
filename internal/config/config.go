// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"kirby-site/internal/domain/model"
	"kirby-site/internal/domain/ports/repository"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	BaseURL         string        `yaml:"base_url"` // public site origin, e.g. https://getkirby.com
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// TrustProxy takes the client IP from X-Forwarded-For/X-Real-IP. Only
	// enable behind a proxy that sets these headers itself.
	TrustProxy bool `yaml:"trust_proxy"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty: in-process cache
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type HooksConfig struct {
	Key    string   `yaml:"key"`
	Caches []string `yaml:"caches"`
}

type PaddleConfig struct {
	VendorID       string        `yaml:"vendor_id"`
	VendorAuthCode string        `yaml:"vendor_auth_code"`
	Sandbox        bool          `yaml:"sandbox"`
	Timeout        time.Duration `yaml:"timeout"`
	// Product whose localized list price defines the visitor exchange rate.
	RateProduct string `yaml:"rate_product"`
}

type ProductConfig struct {
	ID           string  `yaml:"id"`
	ProcessorID  string  `yaml:"processor_id"`
	Regular      float64 `yaml:"regular"`
	Sale         float64 `yaml:"sale"`
	RevenueLimit string  `yaml:"revenue_limit"`
}

type VolumeDiscountConfig struct {
	MinQuantity int     `yaml:"min_quantity"`
	Percent     float64 `yaml:"percent"`
}

type DonationConfig struct {
	CustomerAmount float64 `yaml:"customer_amount"` // per license, reference currency
	TeamAmount     float64 `yaml:"team_amount"`     // per license, reference currency
	Charity        string  `yaml:"charity"`
}

type BuyConfig struct {
	ReferenceCurrency string                 `yaml:"reference_currency"`
	MaxQuantity       int                    `yaml:"max_quantity"`
	SupportEmail      string                 `yaml:"support_email"`
	RevenueLimit      float64                `yaml:"revenue_limit"` // reference currency per year
	Products          []ProductConfig        `yaml:"products"`
	VolumeDiscounts   []VolumeDiscountConfig `yaml:"volume_discounts"`
	Donation          DonationConfig         `yaml:"donation"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Hooks    HooksConfig    `yaml:"hooks"`
	Paddle   PaddleConfig   `yaml:"paddle"`
	Buy      BuyConfig      `yaml:"buy"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, overlays secrets from the
// environment (and an optional .env file), applies defaults and validates.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// .env is optional; real environment variables win over it
	_ = godotenv.Load()
	overlayEnv(&cfg)

	applyDefaults(&cfg)
	cfg.Runtime.Dev = dev

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func overlayEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("HOOKS_KEY"); v != "" {
		cfg.Hooks.Key = v
	}
	if v := os.Getenv("PADDLE_VENDOR_ID"); v != "" {
		cfg.Paddle.VendorID = v
	}
	if v := os.Getenv("PADDLE_VENDOR_AUTH_CODE"); v != "" {
		cfg.Paddle.VendorAuthCode = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if len(cfg.Hooks.Caches) == 0 {
		cfg.Hooks.Caches = []string{
			repository.CacheDiffs,
			repository.CacheMeet,
			repository.CachePages,
			repository.CachePlugins,
			repository.CacheReference,
		}
	}
	if cfg.Paddle.Timeout <= 0 {
		cfg.Paddle.Timeout = 15 * time.Second
	}
	if cfg.Paddle.RateProduct == "" {
		cfg.Paddle.RateProduct = string(model.ProductBasic)
	}
	if cfg.Buy.ReferenceCurrency == "" {
		cfg.Buy.ReferenceCurrency = "EUR"
	}
	cfg.Buy.ReferenceCurrency = strings.ToUpper(cfg.Buy.ReferenceCurrency)
	if cfg.Buy.MaxQuantity <= 0 {
		cfg.Buy.MaxQuantity = 500
	}
	if cfg.Buy.SupportEmail == "" {
		cfg.Buy.SupportEmail = "support@getkirby.com"
	}
	if cfg.Buy.RevenueLimit <= 0 {
		cfg.Buy.RevenueLimit = 1_000_000
	}
}

// Validate checks required settings. Paddle credentials are only required
// outside dev mode, where the noop gateway is used instead.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if !c.Runtime.Dev && (c.Paddle.VendorID == "" || c.Paddle.VendorAuthCode == "") {
		return errors.New("paddle.vendor_id and paddle.vendor_auth_code are required")
	}
	if len(c.Buy.Products) == 0 {
		return errors.New("buy.products must list at least one product")
	}
	if _, err := c.Buy.Catalog(); err != nil {
		return fmt.Errorf("buy: %w", err)
	}
	return nil
}

// Catalog converts the buy settings into the immutable product catalog.
func (b BuyConfig) Catalog() (*model.Catalog, error) {
	tiers := make([]model.VolumeDiscount, 0, len(b.VolumeDiscounts))
	for _, v := range b.VolumeDiscounts {
		tiers = append(tiers, model.VolumeDiscount{
			MinQuantity: v.MinQuantity,
			Percent:     decimal.NewFromFloat(v.Percent),
		})
	}
	schedule, err := model.NewDiscountSchedule(tiers)
	if err != nil {
		return nil, err
	}

	products := make([]*model.Product, 0, len(b.Products))
	for _, pc := range b.Products {
		price, err := model.NewReferencePrice(b.ReferenceCurrency, decimal.NewFromFloat(pc.Regular), decimal.NewFromFloat(pc.Sale), schedule)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", pc.ID, err)
		}
		products = append(products, &model.Product{
			ID:           model.ProductID(strings.ToLower(strings.TrimSpace(pc.ID))),
			ProcessorID:  pc.ProcessorID,
			RevenueLimit: pc.RevenueLimit,
			Price:        price,
		})
	}

	return model.NewCatalog(b.ReferenceCurrency, b.MaxQuantity, model.Donation{
		CustomerAmount: decimal.NewFromFloat(b.Donation.CustomerAmount),
		TeamAmount:     decimal.NewFromFloat(b.Donation.TeamAmount),
		Charity:        b.Donation.Charity,
	}, products...)
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
