package config

import (
	"fmt"
	"os"
	"time"
)

// Seller holds the issuing company identity. SIRET and NumTVA are required
// for any Factur-X generation: their absence is a hard failure, not defaulted.
type Seller struct {
	Name       string
	SIRET      string
	NumTVA     string
	Address    string
	PostalCode string
	City       string
	Country    string
	Email      string
	Phone      string
	IBAN       string
	BIC        string
	BankName   string
}

// Config holds process configuration, loaded from the environment.
type Config struct {
	Address      string
	DatabaseDSN  string
	StorageDir   string
	Env          string
	Debug        bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// AdminKeys are the API keys granted the admin role (mutations).
	AdminKeys []string
	Seller    Seller
}

// Load reads configuration from environment variables with defaults.
// Precedence: explicit env var > .env file (when loaded by the caller) > default.
func Load() Config {
	cfg := Config{
		Address:      getEnv("ADDRESS", ":8080"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "backoffice.db"),
		StorageDir:   getEnv("STORAGE_DIR", "storage"),
		Env:          getEnv("APP_ENV", "development"),
		Debug:        getEnv("DEBUG", "") == "true",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		Seller: Seller{
			Name:       getEnv("SELLER_NAME", ""),
			SIRET:      getEnv("SELLER_SIRET", ""),
			NumTVA:     getEnv("SELLER_TVA", ""),
			Address:    getEnv("SELLER_ADDRESS", ""),
			PostalCode: getEnv("SELLER_POSTAL_CODE", ""),
			City:       getEnv("SELLER_CITY", ""),
			Country:    getEnv("SELLER_COUNTRY", "FR"),
			Email:      getEnv("SELLER_EMAIL", ""),
			Phone:      getEnv("SELLER_PHONE", ""),
			IBAN:       getEnv("SELLER_IBAN", ""),
			BIC:        getEnv("SELLER_BIC", ""),
			BankName:   getEnv("SELLER_BANK", ""),
		},
	}
	if key := os.Getenv("ADMIN_API_KEY"); key != "" {
		cfg.AdminKeys = append(cfg.AdminKeys, key)
	}
	return cfg
}

// RequireSellerIdentifiers fails when the seller tax identifiers needed for
// Factur-X generation are not configured.
func (c Config) RequireSellerIdentifiers() error {
	if c.Seller.SIRET == "" || c.Seller.NumTVA == "" {
		return fmt.Errorf("seller SIRET and VAT number must be configured (SELLER_SIRET, SELLER_TVA)")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
