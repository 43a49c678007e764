package config

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// MinTokenSecretLength is the minimum required length for the admin token secret in production
	MinTokenSecretLength = 32
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	UploadDir   string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	// Auth
	AdminTokenSecret string
	// Other
	AllowedOrigins   []string
	TursoDatabaseURL string
	TursoAuthToken   string
	// Cloudflare R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
	// Redis event relay (optional)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string
	// Print shop behaviour
	DefaultCombinationPrice  string
	StatusTransitions        string // "free" or "lifecycle"
	PublicCombinationUpdates bool
	SeedDefaultOptions       bool
	MatrixCheckSchedule      string // cron expression for the nightly matrix check
	// Rate limiting
	RateLimitRequests      int
	RateLimitWindowMinutes int
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	tokenSecret := getEnv("ADMIN_TOKEN_SECRET", "")

	// Validate token secret - this will fatal in production if invalid
	ValidateTokenSecret(tokenSecret, environment)

	// In development, generate a secure secret if none provided
	if tokenSecret == "" && environment != "production" {
		tokenSecret = GenerateSecureSecret()
		log.Println("[INFO] Generated temporary admin token secret for development. Set ADMIN_TOKEN_SECRET env var for persistence.")
	}

	return &Config{
		ServerPort:               getEnv("SERVER_PORT", "3000"),
		DBPath:                   getEnv("DB_PATH", "db/printshop.db"),
		Environment:              environment,
		UploadDir:                getEnv("UPLOAD_DIR", "uploads"),
		ResendAPIKey:             getEnv("RESEND_API_KEY", ""),
		EmailFrom:                getEnv("EMAIL_FROM", "orders@printshop.local"),
		EmailFromName:            getEnv("EMAIL_FROM_NAME", "Print Shop"),
		EmailTestMode:            getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		AdminTokenSecret:         tokenSecret,
		AllowedOrigins:           strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		TursoDatabaseURL:         getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:           getEnv("TURSO_AUTH_TOKEN", ""),
		R2AccountID:              getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:            getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:        getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:             getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:              getEnv("R2_PUBLIC_URL", ""),
		RedisHost:                getEnv("REDIS_HOST", ""),
		RedisPort:                getEnv("REDIS_PORT", "6379"),
		RedisPassword:            os.Getenv("REDIS_PASSWORD"),
		RedisDB:                  getEnvInt("REDIS_DB", 0),
		RedisChannel:             getEnv("REDIS_CHANNEL", "printshop:events"),
		DefaultCombinationPrice:  getEnv("DEFAULT_COMBINATION_PRICE", "0.10"),
		StatusTransitions:        getEnv("STATUS_TRANSITIONS", "free"),
		PublicCombinationUpdates: getEnvBool("PUBLIC_COMBINATION_UPDATES", false),
		SeedDefaultOptions:       getEnvBool("SEED_DEFAULT_OPTIONS", true),
		MatrixCheckSchedule:      getEnv("MATRIX_CHECK_SCHEDULE", "0 3 * * *"),
		RateLimitRequests:        getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindowMinutes:   getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 15),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Printf("[WARNING] Invalid integer for %s (%q), using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ValidateTokenSecret validates the admin token secret meets security requirements
// In production, it must be at least 32 bytes and not a known insecure default
func ValidateTokenSecret(secret string, environment string) error {
	insecureDefaults := []string{
		"your-secret-key",
		"change-me",
		"secret",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				log.Fatal("[CRITICAL] ADMIN_TOKEN_SECRET is set to an insecure default value. Generate a secure random secret with: openssl rand -base64 32")
			}
			log.Printf("[WARNING] ADMIN_TOKEN_SECRET is set to an insecure default value. This is acceptable only in development.")
			return nil
		}
	}

	if environment == "production" {
		if len(secret) < MinTokenSecretLength {
			log.Fatalf("[CRITICAL] ADMIN_TOKEN_SECRET must be at least %d characters in production (current: %d). Generate with: openssl rand -base64 32", MinTokenSecretLength, len(secret))
		}
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret
// This is used only for development when no secret is provided
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Printf("[WARNING] Failed to generate secure secret: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
