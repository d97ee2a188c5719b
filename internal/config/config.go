package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer `yaml:"http_server"`
	Database   `yaml:"database"`
	Tracking   `yaml:"tracking"`
	Auth       `yaml:"auth"`
	Log        `yaml:"log"`
	UserAgent  `yaml:"user_agent"`
	Redis      `yaml:"redis"`
	Kafka      `yaml:"kafka"`
	Analytics  `yaml:"analytics"`
}

// HTTPServer holds HTTP server specific configuration.
type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_SERVER_ADDRESS" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
	CORSOrigins  []string      `yaml:"cors_origins" env:"HTTP_SERVER_CORS_ORIGINS" env-separator:","`
	// Storage выбирает бэкенд: postgres или memory (только для локальной разработки)
	Storage      string        `yaml:"storage" env:"STORAGE" env-default:"postgres"`
}

// Database holds PostgreSQL connection settings.
type Database struct {
	Host            string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	DBName          string `yaml:"dbname" env:"DB_NAME" env-default:"channeltrack"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	Timezone        string `yaml:"timezone" env:"DB_TIMEZONE" env-default:"UTC"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"false"`
}

// DSN собирает строку подключения для gorm.io/driver/postgres
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode, d.Timezone)
}

// Tracking holds link tracking and statistics settings.
type Tracking struct {
	BaseURL            string `yaml:"base_url" env:"TRACKING_BASE_URL" env-default:"http://localhost:8080"`
	DailyWindowDays    int    `yaml:"daily_window_days" env:"TRACKING_DAILY_WINDOW_DAYS" env-default:"30"`
	MaxDailyWindowDays int    `yaml:"max_daily_window_days" env:"TRACKING_MAX_DAILY_WINDOW_DAYS" env-default:"365"`
	HashRetries        int    `yaml:"hash_retries" env:"TRACKING_HASH_RETRIES" env-default:"5"`
}

// Auth holds marketer JWT and bot credentials.
type Auth struct {
	JWTSecret string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"AUTH_TOKEN_TTL" env-default:"24h"`
	Issuer    string        `yaml:"issuer" env:"AUTH_ISSUER" env-default:"ChannelTrack-Backend"`
	BotToken  string        `yaml:"bot_token" env:"AUTH_BOT_TOKEN" env-required:"true"`
}

// Log holds logger settings. Empty File disables the rotating file sink.
type Log struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"100"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"5"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"30"`
}

// UserAgent holds the uap-go regexes location. Empty path uses the embedded definitions.
type UserAgent struct {
	RegexesPath string `yaml:"regexes_path" env:"UA_REGEXES_PATH"`
}

// Redis holds link cache settings.
type Redis struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	LinkTTL  time.Duration `yaml:"link_ttl" env:"REDIS_LINK_TTL" env-default:"1m"`
}

// Kafka holds tracking event publishing settings.
type Kafka struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"tracking-events"`
}

// Analytics holds event dispatcher settings.
type Analytics struct {
	Workers         int           `yaml:"workers" env:"ANALYTICS_WORKERS" env-default:"4"`
	BufferSize      int           `yaml:"buffer_size" env:"ANALYTICS_BUFFER_SIZE" env-default:"1000"`
	RetryAttempts   int           `yaml:"retry_attempts" env:"ANALYTICS_RETRY_ATTEMPTS" env-default:"3"`
	RetryDelay      time.Duration `yaml:"retry_delay" env:"ANALYTICS_RETRY_DELAY" env-default:"100ms"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"ANALYTICS_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// MustLoad loads the application configuration.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load reads CONFIG_PATH (default config/local.yml) and falls back to
// environment variables when the file does not exist.
func Load() (*Config, error) {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yml" // default path
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	} else {
		log.Println("Config file not found, using environment variables only")
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read config from environment: %w", err)
		}
	}

	return &cfg, nil
}
