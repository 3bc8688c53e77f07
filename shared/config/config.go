package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// Email Configuration
	EmailFrom     string
	EmailFromName string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPUseTLS    bool

	// Request Rate Limiting (per-IP, middleware level)
	RateLimitMaxRequests       string
	RateLimitTimeWindowSeconds string

	// Invite Rate Limiting (per-actor, pipeline level)
	InviteRateLimitMaxPerWindow  string
	InviteRateLimitWindowMinutes string

	// Frontend URL
	FrontendURL string

	// Portal Service
	PortalServiceURL string

	// Worker
	WorkerConcurrency string

	// MinIO Configuration
	MinIOServerURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string

	// Media upload constraints
	MediaMaxFileSize  string
	MediaAllowedTypes string

	// Super Admin (seed)
	SuperAdminEmail    string
	SuperAdminPassword string
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "carelink"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-this"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// Email Configuration
		EmailFrom:     getEnv("EMAIL_FROM", "noreply@carelink.org"),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "CareLink"),
		SMTPHost:      getEnv("SMTP_HOST", "smtp.example.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:    getEnvAsBool("SMTP_USE_TLS", false),

		// Request Rate Limiting
		RateLimitMaxRequests:       getEnv("RATE_LIMIT_MAX_REQUESTS", "100"),
		RateLimitTimeWindowSeconds: getEnv("RATE_LIMIT_TIME_WINDOW_SECONDS", "60"),

		// Invite Rate Limiting
		InviteRateLimitMaxPerWindow:  getEnv("INVITE_RATE_LIMIT_MAX_PER_WINDOW", "5"),
		InviteRateLimitWindowMinutes: getEnv("INVITE_RATE_LIMIT_WINDOW_MINUTES", "10"),

		// Frontend URL
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Portal Service
		PortalServiceURL: getEnv("PORTAL_SERVICE_URL", "http://localhost:8080"),

		// Worker
		WorkerConcurrency: getEnv("WORKER_CONCURRENCY", "10"),

		// MinIO Configuration
		MinIOServerURL:    getEnv("MINIO_SERVER_URL", "http://localhost:9000"),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "carelink-media"),

		// Media upload constraints
		MediaMaxFileSize:  getEnv("MEDIA_MAX_FILE_SIZE", "10MB"),
		MediaAllowedTypes: getEnv("MEDIA_ALLOWED_TYPES", ".jpg,.jpeg,.png,.webp,.svg"),

		// Super Admin
		SuperAdminEmail:    getEnv("SUPER_ADMIN_EMAIL", "admin@carelink.org"),
		SuperAdminPassword: getEnv("SUPER_ADMIN_PASSWORD", "admin123"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// GetRateLimitMaxRequests returns the rate limit max requests as integer
func (c *Config) GetRateLimitMaxRequests() int {
	if value, err := strconv.Atoi(c.RateLimitMaxRequests); err == nil {
		return value
	}
	return 100
}

// GetRateLimitTimeWindowSeconds returns the rate limit time window as integer
func (c *Config) GetRateLimitTimeWindowSeconds() int {
	if value, err := strconv.Atoi(c.RateLimitTimeWindowSeconds); err == nil {
		return value
	}
	return 60
}

// GetInviteRateLimitMaxPerWindow returns the invite creation limit as integer
func (c *Config) GetInviteRateLimitMaxPerWindow() int {
	if value, err := strconv.Atoi(c.InviteRateLimitMaxPerWindow); err == nil {
		return value
	}
	return 5
}

// GetInviteRateLimitWindow returns the invite creation window as a duration
func (c *Config) GetInviteRateLimitWindow() time.Duration {
	if value, err := strconv.Atoi(c.InviteRateLimitWindowMinutes); err == nil {
		return time.Duration(value) * time.Minute
	}
	return 10 * time.Minute
}

// GetWorkerConcurrency returns the background worker concurrency as integer
func (c *Config) GetWorkerConcurrency() int {
	if value, err := strconv.Atoi(c.WorkerConcurrency); err == nil {
		return value
	}
	return 10
}

// RedisAddr returns the host:port address of the Redis server
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// RedisDBNumber returns the Redis database number as integer
func (c *Config) RedisDBNumber() int {
	if value, err := strconv.Atoi(c.RedisDB); err == nil {
		return value
	}
	return 0
}
