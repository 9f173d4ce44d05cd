package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/inkwell/backend/pkg/firebase"
	"github.com/anonto42/inkwell/backend/pkg/media"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Storage drivers accepted in STORAGE_DRIVER
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const devJWTSecret = "supersecretjwtkey"

type Config struct {
	Port            string
	Env             string
	StorageDriver   string
	MongoURI        string
	MongoDatabase   string
	PostgresConnStr string
	SQLitePath      string
	JWTSecret       string
	TokenTTL        time.Duration
	CookieName      string
	CookieSecure    bool
	BcryptCost      int
	CORSOrigins     []string
	Firebase        firebase.Config
	Media           media.Config

	notices []notice
}

// notice is a message raised by Load. Load runs before InitLogger, so these
// are held and written by LogNotices once the logger is configured.
type notice struct {
	level zerolog.Level
	msg   string
	key   string
	value string
}

// Load reads the configuration from the environment, after loading .env
// when one is present.
func Load() (*Config, error) {
	env := &envReader{}
	if err := godotenv.Load(); err != nil {
		env.note(zerolog.InfoLevel, "No .env file found, assuming environment variables are set.", "", "")
	}

	cfg := &Config{
		Port:            env.getString("PORT", "8080"),
		Env:             env.getString("ENV", "development"),
		StorageDriver:   strings.ToLower(env.getString("STORAGE_DRIVER", DriverMongo)),
		MongoURI:        env.getString("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   env.getString("MONGO_DATABASE", "inkwell"),
		PostgresConnStr: env.getString("POSTGRES_CONN_STR", ""),
		SQLitePath:      env.getString("SQLITE_PATH", "inkwell.db"),
		JWTSecret:       env.getString("JWT_SECRET", ""),
		TokenTTL:        env.getDuration("TOKEN_TTL", 72*time.Hour),
		CookieName:      env.getString("COOKIE_NAME", "access_token"),
		CookieSecure:    env.getBool("COOKIE_SECURE", false),
		BcryptCost:      env.getInt("BCRYPT_COST", 10),
		CORSOrigins:     splitList(env.getString("CORS_ORIGINS", "http://localhost:5173")),
		Firebase: firebase.Config{
			CredentialsPath: env.getString("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       env.getString("FIREBASE_PROJECT_ID", ""),
		},
		Media: media.Config{
			Bucket:          env.getString("S3_BUCKET", ""),
			Region:          env.getString("S3_REGION", ""),
			Endpoint:        env.getString("S3_ENDPOINT", ""),
			AccessKeyID:     env.getString("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: env.getString("S3_SECRET_ACCESS_KEY", ""),
			PublicURL:       env.getString("S3_PUBLIC_URL", ""),
			Expires:         env.getDuration("S3_PRESIGN_TTL", 15*time.Minute),
		},
	}

	cfg.notices = env.notices

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogNotices writes what Load noticed about the environment. Call it after
// InitLogger.
func (c *Config) LogNotices() {
	for _, n := range c.notices {
		event := log.WithLevel(n.level)
		if n.key != "" {
			event = event.Str("key", n.key).Str("value", n.value)
		}
		event.Msg(n.msg)
	}
}

// IsProduction reports whether ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case DriverMongo, DriverSQLite:
	case DriverPostgres:
		if c.PostgresConnStr == "" {
			return fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET environment variable not set")
		}
		c.notices = append(c.notices, notice{level: zerolog.WarnLevel, msg: "JWT_SECRET not set, using the development secret"})
		c.JWTSecret = devJWTSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

// envReader reads typed values, falling back to the default and recording a
// notice when a value does not parse.
type envReader struct {
	notices []notice
}

func (e *envReader) note(level zerolog.Level, msg, key, value string) {
	e.notices = append(e.notices, notice{level: level, msg: msg, key: key, value: value})
}

func (e *envReader) getString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (e *envReader) getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		e.note(zerolog.WarnLevel, "invalid integer, using default", key, value)
		return defaultValue
	}
	return n
}

func (e *envReader) getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		e.note(zerolog.WarnLevel, "invalid boolean, using default", key, value)
		return defaultValue
	}
	return b
}

func (e *envReader) getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		e.note(zerolog.WarnLevel, "invalid duration, using default", key, value)
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
