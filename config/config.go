package config

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Storage: users.json and tasks.json live here
	DataDir string

	// JWT
	JWTSecret string
	JWTTTL    time.Duration

	// Credentials
	BcryptCost              int
	AllowSelfAssignedRole   bool
	UnifiedCredentialErrors bool

	// Access policy
	AdminMayActOnAdminOwned bool

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Proxies whose X-Forwarded-For is believed (comma-separated IPs/CIDRs);
	// empty trusts none and the socket address is the client IP.
	TrustedProxies string
	// TrustedPlatform names a header set by the edge, e.g. "cloudflare" for CF-Connecting-IP.
	TrustedPlatform string

	// Redis (rate limiting); empty address disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// RabbitMQ (task activity events); empty URL disables publishing
	RabbitMQURL           string
	RabbitMQActivityQueue string

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// Email sending toggle
	MailSendEnabled bool

	// Debug metrics (/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool

	// Seed admin (cmd/seed)
	SeedAdminName     string
	SeedAdminEmail    string
	SeedAdminPassword string
}

// DevJWTSecret is the JWT_SECRET fallback; only development may run with it.
const DevJWTSecret = "devsecret"

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "task-tracker-api"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "5000"),
		GinMode: getenv("GIN_MODE", "release"),

		DataDir: getenv("DATA_DIR", "data"),

		JWTSecret: getenv("JWT_SECRET", DevJWTSecret),
		JWTTTL:    getdur("JWT_TTL", time.Hour),

		BcryptCost:              getint("BCRYPT_COST", 10),
		AllowSelfAssignedRole:   getbool("ALLOW_SELF_ASSIGNED_ROLE", false),
		UnifiedCredentialErrors: getbool("UNIFIED_CREDENTIAL_ERRORS", false),

		AdminMayActOnAdminOwned: getbool("ADMIN_MAY_ACT_ON_ADMIN_OWNED", true),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", ""),

		TrustedProxies:  getenv("TRUSTED_PROXIES", ""),
		TrustedPlatform: getenv("TRUSTED_PLATFORM", ""),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		RabbitMQURL:           getenv("RABBITMQ_URL", ""),
		RabbitMQActivityQueue: getenv("RABBITMQ_ACTIVITY_QUEUE", "task-activity"),

		MailgunDomain: getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getenv("MAILGUN_API_KEY", ""),
		MailgunSender: getenv("MAILGUN_SENDER", ""),

		MailSendEnabled: getbool("MAIL_SEND_ENABLED", false),

		DebugMetricsEnabled: getbool("DEBUG_METRICS_ENABLED", false),

		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),

		SeedAdminName:     getenv("SEED_ADMIN_NAME", "Admin"),
		SeedAdminEmail:    getenv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: getenv("SEED_ADMIN_PASSWORD", ""),
	}
}

// Validate rejects settings that are only acceptable on a developer machine.
func (c *Config) Validate() error {
	if c.Env != "development" && c.JWTSecret == DevJWTSecret {
		return errors.New("JWT_SECRET must be set outside development")
	}
	return nil
}

// UsersFile is the credential store path.
func (c *Config) UsersFile() string { return filepath.Join(c.DataDir, "user.json") }

// TasksFile is the task store path.
func (c *Config) TasksFile() string { return filepath.Join(c.DataDir, "tasks.json") }

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// TrustedProxyList returns the trusted proxies as slice; nil trusts none.
func (c *Config) TrustedProxyList() []string {
	list := splitList(c.TrustedProxies)
	if len(list) == 0 {
		return nil
	}
	return list
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
