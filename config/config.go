package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cast"
)

// Store drivers selectable with STORE_DRIVER.
const (
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

const defaultJWTSecret = "change-me-in-production"

type Config struct {
	Port        string
	StoreDriver string

	MongoURI string
	DBName   string

	FirestoreProjectID   string
	FirestoreCredentials string

	JWTSecret     string
	AdminEmail    string
	AdminPassword string
	CORSOrigins   []string

	S3Bucket       string
	S3Region       string
	S3AccessKeyID  string
	S3SecretKey    string
	ExportSchedule string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	ContactEmail string

	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() (*Config, error) {
	smtpPort, err := cast.ToIntE(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("SMTP_PORT: %w", err)
	}
	rps, err := cast.ToFloat64E(getEnv("RATE_LIMIT_RPS", "10"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	burst, err := cast.ToIntE(getEnv("RATE_LIMIT_BURST", "20"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		StoreDriver:          strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:             getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:               getEnv("MONGODB_DB", "library"),
		FirestoreProjectID:   getEnv("FIRESTORE_PROJECT_ID", ""),
		FirestoreCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		JWTSecret:            getEnv("JWT_SECRET", defaultJWTSecret),
		AdminEmail:           getEnv("ADMIN_EMAIL", ""),
		AdminPassword:        getEnv("ADMIN_PASSWORD", ""),
		CORSOrigins:          splitList(getEnv("CORS_ORIGINS", "*")),
		S3Bucket:             getEnv("AWS_S3_BUCKET", ""),
		S3Region:             getEnv("AWS_REGION", "us-east-1"),
		S3AccessKeyID:        getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:          getEnv("AWS_SECRET_ACCESS_KEY", ""),
		ExportSchedule:       getEnv("EXPORT_SCHEDULE", "0 3 * * *"),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             smtpPort,
		SMTPUser:             getEnv("SMTP_USER", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		ContactEmail:         getEnv("CONTACT_EMAIL", ""),
		RateLimitRPS:         rps,
		RateLimitBurst:       burst,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the selected store driver needs. Optional
// integrations (S3 export, SMTP) are switched off by leaving them empty.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" || c.DBName == "" {
			return fmt.Errorf("MONGODB_URI and MONGODB_DB are required for the %s driver", DriverMongo)
		}
	case DriverFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID is required for the %s driver", DriverFirestore)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreDriver != DriverMemory && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set to a strong secret (not the default %s)", defaultJWTSecret)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func (c *Config) ExportEnabled() bool { return c.S3Bucket != "" }

func (c *Config) MailEnabled() bool { return c.SMTPHost != "" && c.ContactEmail != "" }

// LogSummary logs which integrations are on. Secret values are never logged.
func (c *Config) LogSummary() {
	slog.Info("config loaded",
		"port", c.Port,
		"store", c.StoreDriver,
		"cors_origins", c.CORSOrigins,
		"s3_export", c.ExportEnabled(),
		"contact_mail", c.MailEnabled(),
		"admin_seed", c.AdminEmail != "",
	)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
