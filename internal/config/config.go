package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Pricing   PricingConfig
	Email     EmailConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// RedisConfig backs the typeahead lookup cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// StorageConfig is the S3-compatible bucket that archives invoice PDFs.
// An empty Bucket disables archiving.
type StorageConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

func (s StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

// EmailConfig is the SMTP relay for guest confirmations. An empty host
// disables mail.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// PricingConfig holds the supplier's own GST identity, used to derive the
// display-taxes mode of an invoice when the client does not pick one.
type PricingConfig struct {
	SupplierName      string
	SupplierGSTIN     string
	SupplierStateCode string
	SupplierAddress   string
}

// ClientConfig configures stayctl and other API consumers.
type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	LookupDebounce time.Duration
	JWTSecret      string
	JWTExpiry      time.Duration
}

func readDotEnv() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}
}

func Load() *Config {
	readDotEnv()

	// Set defaults
	viper.SetDefault("APP_NAME", "stayledger-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "stayledger")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	viper.SetDefault("CORS_ALLOWED_HEADERS", "")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOOKUP_CACHE_TTL_SECONDS", 300)
	viper.SetDefault("S3_BUCKET", "")
	viper.SetDefault("S3_REGION", "ap-south-1")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("S3_ACCESS_KEY", "")
	viper.SetDefault("S3_SECRET_KEY", "")
	viper.SetDefault("S3_PREFIX", "invoices")
	viper.SetDefault("SUPPLIER_NAME", "StayLedger Hospitality")
	viper.SetDefault("SUPPLIER_GSTIN", "")
	viper.SetDefault("SUPPLIER_STATE_CODE", "29")
	viper.SetDefault("SUPPLIER_ADDRESS", "")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM_NAME", "StayLedger")
	viper.SetDefault("SMTP_FROM_EMAIL", "")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(viper.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(viper.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      time.Duration(viper.GetInt("LOOKUP_CACHE_TTL_SECONDS")) * time.Second,
		},
		Storage: StorageConfig{
			Bucket:    viper.GetString("S3_BUCKET"),
			Region:    viper.GetString("S3_REGION"),
			Endpoint:  viper.GetString("S3_ENDPOINT"),
			AccessKey: viper.GetString("S3_ACCESS_KEY"),
			SecretKey: viper.GetString("S3_SECRET_KEY"),
			Prefix:    viper.GetString("S3_PREFIX"),
		},
		Pricing: PricingConfig{
			SupplierName:      viper.GetString("SUPPLIER_NAME"),
			SupplierGSTIN:     viper.GetString("SUPPLIER_GSTIN"),
			SupplierStateCode: viper.GetString("SUPPLIER_STATE_CODE"),
			SupplierAddress:   viper.GetString("SUPPLIER_ADDRESS"),
		},
		Email: EmailConfig{
			SMTPHost:     viper.GetString("SMTP_HOST"),
			SMTPPort:     viper.GetInt("SMTP_PORT"),
			SMTPUsername: viper.GetString("SMTP_USERNAME"),
			SMTPPassword: viper.GetString("SMTP_PASSWORD"),
			FromName:     viper.GetString("SMTP_FROM_NAME"),
			FromEmail:    viper.GetString("SMTP_FROM_EMAIL"),
		},
	}
}

// LoadClient reads the API consumer settings the same way Load does.
func LoadClient() *ClientConfig {
	readDotEnv()

	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("API_TOKEN", "")
	viper.SetDefault("API_TIMEOUT_SECONDS", 15)
	viper.SetDefault("LOOKUP_DEBOUNCE_MS", 300)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)

	return &ClientConfig{
		BaseURL:        viper.GetString("API_BASE_URL"),
		Token:          viper.GetString("API_TOKEN"),
		Timeout:        time.Duration(viper.GetInt("API_TIMEOUT_SECONDS")) * time.Second,
		LookupDebounce: time.Duration(viper.GetInt("LOOKUP_DEBOUNCE_MS")) * time.Millisecond,
		JWTSecret:      viper.GetString("JWT_SECRET"),
		JWTExpiry:      time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
