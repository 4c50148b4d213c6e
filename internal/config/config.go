package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/igorfd2009/cookitie-pix/internal/pix"
)

type Config struct {
	Port        string
	GinMode     string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	MemoryOnly  bool

	PixKey           string
	MerchantName     string
	MerchantCity     string
	MerchantCategory string

	QRServiceURL  string
	QRSize        int
	QRTimeout     time.Duration
	ExpiryMinutes int
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "cookitie"),
		DBPassword:  getEnv("DB_PASSWORD", "cookitie_secret"),
		DBName:      getEnv("DB_NAME", "cookitie_pix"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "false") == "true",
		MemoryOnly:  getEnv("MEMORY_ONLY", "false") == "true",

		PixKey:           getEnv("PIX_KEY", ""),
		MerchantName:     getEnv("MERCHANT_NAME", "COOKITIE JEPP"),
		MerchantCity:     getEnv("MERCHANT_CITY", "SAO PAULO"),
		MerchantCategory: getEnv("MERCHANT_CATEGORY", "5812"),

		QRServiceURL:  getEnv("QR_SERVICE_URL", "https://api.qrserver.com/v1/create-qr-code/"),
		QRSize:        getEnvInt("QR_SIZE", 300),
		QRTimeout:     time.Duration(getEnvInt("QR_TIMEOUT_MS", 5000)) * time.Millisecond,
		ExpiryMinutes: getEnvInt("EXPIRY_MINUTES", 30),
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// Profile builds the merchant identity every charge is encoded against.
// Currency and country are fixed: this service only issues BRL PIX codes.
func (c *Config) Profile() pix.MerchantProfile {
	return pix.MerchantProfile{
		PixKey:           c.PixKey,
		MerchantName:     c.MerchantName,
		MerchantCity:     c.MerchantCity,
		MerchantCategory: c.MerchantCategory,
		CurrencyCode:     "986",
		CountryCode:      "BR",
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
