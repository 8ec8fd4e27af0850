package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Events   EventsConfig   `yaml:"events"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Booking  BookingConfig  `yaml:"booking"`
	Auth     AuthConfig     `yaml:"auth"`
	Mail     MailConfig     `yaml:"mail"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	Name           string `yaml:"name"`
	SSLMode        string `yaml:"ssl_mode"`
	MigrationsPath string `yaml:"migrations_path"`
	AutoMigrate    bool   `yaml:"auto_migrate"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// MigrateURL is the connection string in the form golang-migrate's pgx/v5 driver expects.
func (d DatabaseConfig) MigrateURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type EventsConfig struct {
	// Driver selects the broker: "kafka", "rabbitmq" or "none".
	Driver       string `yaml:"driver"`
	BookingTopic string `yaml:"booking_topic"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
}

type RabbitMQConfig struct {
	URL string `yaml:"url"`
}

type BookingConfig struct {
	ListCacheTTL         int `yaml:"list_cache_ttl_seconds"`
	ActiveCacheTTL       int `yaml:"active_cache_ttl_seconds"`
	DetailCacheTTL       int `yaml:"detail_cache_ttl_seconds"`
	AvailabilityCacheTTL int `yaml:"availability_cache_ttl_seconds"`
	BoatsCacheTTL        int `yaml:"boats_cache_ttl_seconds"`
	LockTTL              int `yaml:"lock_ttl_seconds"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Audience  string `yaml:"audience"`
}

// Validate is called by the API server only; the worker and the migrate
// command never verify tokens.
func (a AuthConfig) Validate() error {
	if strings.TrimSpace(a.JWTSecret) == "" {
		return errors.New("auth.jwt_secret is empty, set it or AUTH_JWT_SECRET")
	}
	return nil
}

type MailConfig struct {
	Domain string `yaml:"domain"`
	APIKey string `yaml:"api_key"`
	From   string `yaml:"from"`
}

type WorkerConfig struct {
	CompletionSweepMinutes int `yaml:"completion_sweep_minutes"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	// Format is "json" or "text".
	Format string `yaml:"format"`
}

func LoadConfig(path string) (*Config, error) {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.HTTP.Address, "HTTP_ADDRESS")
	setString(&c.Database.Host, "DATABASE_HOST")
	setString(&c.Database.User, "DATABASE_USER")
	setString(&c.Database.Password, "DATABASE_PASSWORD")
	setString(&c.Database.Name, "DATABASE_NAME")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&c.Auth.JWTSecret, "AUTH_JWT_SECRET")
	setString(&c.Mail.APIKey, "MAILGUN_API_KEY")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("DATABASE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DATABASE_PORT %q: %w", v, err)
		}
		c.Database.Port = port
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MigrationsPath == "" {
		c.Database.MigrationsPath = "migrations"
	}
	if c.Events.Driver == "" {
		c.Events.Driver = "kafka"
	}
	if c.Events.BookingTopic == "" {
		c.Events.BookingTopic = "booking-events"
	}
	if c.Booking.ListCacheTTL == 0 {
		c.Booking.ListCacheTTL = 120
	}
	if c.Booking.ActiveCacheTTL == 0 {
		c.Booking.ActiveCacheTTL = 60
	}
	if c.Booking.DetailCacheTTL == 0 {
		c.Booking.DetailCacheTTL = 120
	}
	if c.Booking.AvailabilityCacheTTL == 0 {
		c.Booking.AvailabilityCacheTTL = 60
	}
	if c.Booking.BoatsCacheTTL == 0 {
		c.Booking.BoatsCacheTTL = 300
	}
	if c.Booking.LockTTL == 0 {
		c.Booking.LockTTL = 10
	}
	if c.Worker.CompletionSweepMinutes == 0 {
		c.Worker.CompletionSweepMinutes = 15
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
