package config

import (
	"net"
	"net/url"
	"strings"
	"time"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config is read once at startup from the environment. Defaults target local
// development; optional services stay disabled while their address is empty.
type Config struct {
	AppName string
	Env     string // development | staging | production
	Port    string
	GinMode string

	// LogLevel overrides the env default when set (debug, info, warn, error)
	LogLevel string

	// postgres or memory
	StorageDriver string

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	BookCacheTTL  time.Duration

	// Book covers. Empty credentials fall back to Application Default Credentials.
	GCSBucket              string
	GCSCredentialsJSONPath string

	CORSAllowedOrigins  string
	RateLimitPerMinute  int
	RateLimitAllowCIDRs string

	MigrationsDir string

	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	RabbitMQURL         string
	RabbitMQEventsQueue string

	ElasticsearchAddrs string
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESBooksIndex       string

	// Welcome email branding
	CompanyName string
	SupportURL  string

	MailSendEnabled     bool
	DebugMetricsEnabled bool
	HTTPLogEnabled      bool

	warnings []string
}

// Load reads the environment. Malformed values fall back to their default and
// are reported by Warnings.
func Load() *Config {
	env := &envReader{}
	cfg := &Config{
		AppName:  env.str("APP_NAME", "managebooks"),
		Env:      env.str("APP_ENV", "development"),
		Port:     env.str("PORT", "8080"),
		GinMode:  env.str("GIN_MODE", "release"),
		LogLevel: env.str("LOG_LEVEL", ""),

		StorageDriver: strings.ToLower(env.str("STORAGE_DRIVER", StorageDriverPostgres)),

		DBHost:        env.str("DB_HOST", "localhost"),
		DBPort:        env.str("DB_PORT", "5432"),
		DBUser:        env.str("DB_USER", "postgres"),
		DBPassword:    env.str("DB_PASSWORD", "postgres"),
		DBName:        env.str("DB_NAME", "managebooks"),
		DBSSLMode:     env.str("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(env.integer("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(env.integer("DB_MIN_CONNS", 2)),
		DBMaxConnLife: env.duration("DB_MAX_CONN_LIFETIME", time.Hour),

		RedisAddr:     env.str("REDIS_ADDR", "localhost:6379"),
		RedisPassword: env.str("REDIS_PASSWORD", ""),
		RedisDB:       env.integer("REDIS_DB", 0),
		BookCacheTTL:  env.duration("BOOK_CACHE_TTL", 10*time.Minute),

		GCSBucket:              env.str("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: env.str("GCS_CREDENTIALS_JSON", ""),

		CORSAllowedOrigins: env.str("CORS_ALLOWED_ORIGINS", ""),

		RateLimitPerMinute:  env.integer("RATE_LIMIT_PER_MINUTE", 600),
		RateLimitAllowCIDRs: env.str("RATE_LIMIT_ALLOW_CIDRS", ""),

		MigrationsDir: env.str("MIGRATIONS_DIR", "db/migrations"),

		MailgunDomain: env.str("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: env.str("MAILGUN_API_KEY", ""),
		MailgunSender: env.str("MAILGUN_SENDER", ""),

		RabbitMQURL:         env.str("RABBITMQ_URL", ""),
		RabbitMQEventsQueue: env.str("RABBITMQ_EVENTS_QUEUE", "managebooks.events"),

		ElasticsearchAddrs: env.str("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  env.str("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  env.str("ELASTICSEARCH_PASSWORD", ""),
		ESBooksIndex:       env.str("ES_BOOKS_INDEX", "books"),

		CompanyName: env.str("COMPANY_NAME", "ManageBooks"),
		SupportURL:  env.str("SUPPORT_URL", ""),

		MailSendEnabled: env.boolean("MAIL_SEND_ENABLED", true),

		DebugMetricsEnabled: env.boolean("DEBUG_METRICS_ENABLED", true),

		HTTPLogEnabled: env.boolean("HTTP_LOG_ENABLED", false),
	}
	cfg.warnings = env.warnings
	return cfg
}

// Warnings lists the variables Load ignored because they did not parse.
func (c *Config) Warnings() []string {
	return c.warnings
}

// PostgresDSN builds a pgx connection URL with credentials escaped.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) UsesMemoryStorage() bool {
	return c.StorageDriver == StorageDriverMemory
}

func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// RateLimitExemptCIDRs returns the networks that bypass the global limiter.
func (c *Config) RateLimitExemptCIDRs() []string {
	return splitList(c.RateLimitAllowCIDRs)
}

func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}
