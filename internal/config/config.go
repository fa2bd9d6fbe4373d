package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every environment-derived setting the service needs.
// It is loaded exactly once at startup; nothing else reads os.Getenv.
type Config struct {
	DatabaseURL     string
	AppHost         string
	JWTSecret       string
	ProvisionSecret string
	Brand           Brand
	StockThresholds StockThresholds
}

// StockThresholds partitions the non-negative usage quantities into the
// four stock statuses. CriticalMax < LowMax <= OverstockMin must hold.
type StockThresholds struct {
	CriticalMax  float64
	LowMax       float64
	OverstockMin float64
}

func (t StockThresholds) Validate() error {
	if !(t.CriticalMax < t.LowMax) || !(t.LowMax <= t.OverstockMin) {
		return fmt.Errorf("invalid stock thresholds: critical_max=%v low_max=%v overstock_min=%v", t.CriticalMax, t.LowMax, t.OverstockMin)
	}
	return nil
}

// DefaultStockThresholds apply when no STOCK_* variables are set.
var DefaultStockThresholds = StockThresholds{
	CriticalMax:  10,
	LowMax:       50,
	OverstockMin: 200,
}

// Load reads the .env file (if any) and builds the Config, failing on the
// first missing required variable instead of falling back silently.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		AppHost:         os.Getenv("APP_HOST"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		ProvisionSecret: os.Getenv("PROVISION_SECRET"),
	}

	required := map[string]string{
		"DATABASE_URL":     cfg.DatabaseURL,
		"JWT_SECRET":       cfg.JWTSecret,
		"PROVISION_SECRET": cfg.ProvisionSecret,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("%s environment variable is not set", name)
		}
	}

	if cfg.AppHost == "" {
		cfg.AppHost = ":8080"
	}

	brand, err := BrandByID(os.Getenv("BRAND_ID"))
	if err != nil {
		return nil, err
	}
	cfg.Brand = brand

	thresholds, err := loadStockThresholds()
	if err != nil {
		return nil, err
	}
	cfg.StockThresholds = thresholds

	return cfg, nil
}

func loadStockThresholds() (StockThresholds, error) {
	thresholds := DefaultStockThresholds

	overrides := []struct {
		name   string
		target *float64
	}{
		{"STOCK_CRITICAL_MAX", &thresholds.CriticalMax},
		{"STOCK_LOW_MAX", &thresholds.LowMax},
		{"STOCK_OVERSTOCK_MIN", &thresholds.OverstockMin},
	}
	for _, override := range overrides {
		raw := os.Getenv(override.name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return StockThresholds{}, fmt.Errorf("%s is not a number: %w", override.name, err)
		}
		*override.target = value
	}

	if err := thresholds.Validate(); err != nil {
		return StockThresholds{}, err
	}

	return thresholds, nil
}
