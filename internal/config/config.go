package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	AppHost   string
	AppPort   string
	LogLevel  string
	LogFormat string

	PostgresHost         string
	PostgresPort         int
	PostgresUser         string
	PostgresPassword     string
	PostgresDB           string
	PostgresMaxOpenConns int
	PostgresMaxIdleConns int

	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecretKey string
	JWTExpSecond int

	InsightAPIKey        string
	InsightBaseURL       string
	InsightModel         string
	InsightTimeoutSecond int
	InsightRatePerSecond float64

	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
}

// LoadDefaults returns a Config populated with development defaults.
func LoadDefaults() *Config {
	return &Config{
		AppHost:   "localhost",
		AppPort:   "8080",
		LogLevel:  "info",
		LogFormat: "json",

		PostgresHost:         "localhost",
		PostgresPort:         5432,
		PostgresUser:         "user",
		PostgresPassword:     "password",
		PostgresDB:           "dreamvault",
		PostgresMaxOpenConns: 16,
		PostgresMaxIdleConns: 8,

		RedisHost:         "localhost",
		RedisPort:         6379,
		RedisPoolSize:     10,
		RedisMinIdleConns: 2,

		KafkaTopic: "dream-events",

		JWTSecretKey: "my_super_secret_key",
		JWTExpSecond: int((30 * 24 * time.Hour).Seconds()),

		InsightBaseURL:       "https://api.anthropic.com",
		InsightModel:         "claude-3-5-haiku-latest",
		InsightTimeoutSecond: 30,
		InsightRatePerSecond: 1,

		S3Bucket: "dreamvault-exports",
		S3Region: "us-east-1",
	}
}

// Load reads the dotenv file at path (missing files are ignored) and overlays
// the process environment on top of the defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		_ = godotenv.Load(path)
	}

	cfg := LoadDefaults()
	var err error

	// Application config
	cfg.AppHost = getEnv("APP_HOST", cfg.AppHost)
	cfg.AppPort = getEnv("APP_PORT", cfg.AppPort)
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("APP_LOG_FORMAT", cfg.LogFormat)

	// PostgreSQL config
	cfg.PostgresHost = getEnv("POSTGRES_HOST", cfg.PostgresHost)
	cfg.PostgresUser = getEnv("POSTGRES_USER", cfg.PostgresUser)
	cfg.PostgresPassword = getEnv("POSTGRES_PASSWORD", cfg.PostgresPassword)
	cfg.PostgresDB = getEnv("POSTGRES_DB", cfg.PostgresDB)
	if cfg.PostgresPort, err = getEnvInt("POSTGRES_PORT", cfg.PostgresPort); err != nil {
		return nil, err
	}
	if cfg.PostgresMaxOpenConns, err = getEnvInt("POSTGRES_MAX_OPEN_CONNS", cfg.PostgresMaxOpenConns); err != nil {
		return nil, err
	}
	if cfg.PostgresMaxIdleConns, err = getEnvInt("POSTGRES_MAX_IDLE_CONNS", cfg.PostgresMaxIdleConns); err != nil {
		return nil, err
	}

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	if cfg.RedisPort, err = getEnvInt("REDIS_PORT", cfg.RedisPort); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", cfg.RedisDB); err != nil {
		return nil, err
	}
	if cfg.RedisPoolSize, err = getEnvInt("REDIS_POOL_SIZE", cfg.RedisPoolSize); err != nil {
		return nil, err
	}
	if cfg.RedisMinIdleConns, err = getEnvInt("REDIS_MIN_IDLE_CONNS", cfg.RedisMinIdleConns); err != nil {
		return nil, err
	}

	// Kafka config
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = splitList(brokers)
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", cfg.KafkaTopic)

	// JWT config
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", cfg.JWTSecretKey)
	if cfg.JWTExpSecond, err = getEnvInt("JWT_EXP_SECOND", cfg.JWTExpSecond); err != nil {
		return nil, err
	}

	// Insight config
	cfg.InsightAPIKey = getEnv("INSIGHT_API_KEY", cfg.InsightAPIKey)
	cfg.InsightBaseURL = getEnv("INSIGHT_BASE_URL", cfg.InsightBaseURL)
	cfg.InsightModel = getEnv("INSIGHT_MODEL", cfg.InsightModel)
	if cfg.InsightTimeoutSecond, err = getEnvInt("INSIGHT_TIMEOUT_SECOND", cfg.InsightTimeoutSecond); err != nil {
		return nil, err
	}
	if raw := getEnv("INSIGHT_RATE_PER_SECOND", ""); raw != "" {
		if cfg.InsightRatePerSecond, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("INSIGHT_RATE_PER_SECOND: %w", err)
		}
	}

	// S3 config
	cfg.S3AccessKey = getEnv("S3_ACCESS_KEY", cfg.S3AccessKey)
	cfg.S3SecretKey = getEnv("S3_SECRET_KEY", cfg.S3SecretKey)
	cfg.S3Bucket = getEnv("S3_BUCKET", cfg.S3Bucket)
	cfg.S3Region = getEnv("S3_REGION", cfg.S3Region)
	cfg.S3Endpoint = getEnv("S3_ENDPOINT", cfg.S3Endpoint)

	return cfg, nil
}

// PostgresDSN builds the pgx connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

// RedisAddr returns host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWTExpSecond) * time.Second
}

func (c *Config) InsightTimeout() time.Duration {
	return time.Duration(c.InsightTimeoutSecond) * time.Second
}

func getEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
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
