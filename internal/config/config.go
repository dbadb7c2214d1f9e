package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds everything the server needs to start. Values come from the
// environment, with .env support for local development.
type Config struct {
	HTTPAddr  string
	MySQLDSN  string
	RedisAddr string
	TaxRate   decimal.Decimal
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	taxRate, err := decimal.NewFromString(getEnv("TAX_RATE", "0.10"))
	if err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE: %w", err)
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("invalid TAX_RATE: must not be negative")
	}

	return &Config{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		MySQLDSN:  getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/restaurant?parseTime=true"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		TaxRate:   taxRate,
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
