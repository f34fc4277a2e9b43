// Package config предоставялет структуры и функцию для парсинга и загрузки конфига.
//
// Источник — переменные окружения; при заданном CONFIG_PATH сначала читается
// YAML-файл, затем поверх него применяются переменные окружения.
package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultJWTSecret — небезопасное значение секрета, используемое при пустом JWT_SECRET.
const DefaultJWTSecret = "default_secret"

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config общая структура для хранения настроек
type Config struct {
	Env            string `yaml:"env" env:"ENV" env-default:"local"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	Database       `yaml:"database"`
	Redis          `yaml:"redis"`
	HTTPServer     `yaml:"http_server"`
	JWTToken       `yaml:"jwttoken"`
	RabbitMQ       `yaml:"rabbitmq"`
	Admin          `yaml:"admin"`
	RateLimit      `yaml:"rate_limit"`
	ProductCache   `yaml:"product_cache"`
}

// Database структура для настройки подключения к PostgreSQL
type Database struct {
	Host         string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"DB_PORT" env-default:"5432"`
	Username     string        `yaml:"username" env:"DB_USERNAME" env-default:"postgres"`
	Password     string        `yaml:"password" env:"DB_PASSWORD"`
	Name         string        `yaml:"name" env:"DB_NAME" env-default:"ecommerce"`
	SSLMode      string        `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	QueryTimeout time.Duration `yaml:"query_timeout" env:"DB_QUERY_TIMEOUT" env-default:"3s"`
}

// Redis структура для настройки подключения к redis
type Redis struct {
	AddressRedis string        `yaml:"address" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"1"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"2s"`
	TimeoutRedis time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"500ms"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	Port        int           `yaml:"port" env:"PORT" env-default:"3000"`
	TimeoutHTTP time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"secret" env:"JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"JWT_TTL" env-default:"1h"`
}

// RabbitMQ структура для публикации доменных событий. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"catalog.events"`
	Retries    int           `yaml:"retries" env:"RABBITMQ_RETRIES" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"RABBITMQ_RETRY_DELAY" env-default:"2s"`
}

// Admin учётная запись администратора, создаваемая при старте, если её нет.
type Admin struct {
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
	Name     string `yaml:"name" env:"ADMIN_NAME" env-default:"Administrator"`
}

// RateLimit лимиты запросов на одного клиента.
type RateLimit struct {
	Limit        int           `yaml:"limit" env:"RATE_LIMIT" env-default:"10"`
	Window       time.Duration `yaml:"window" env:"RATE_WINDOW" env-default:"60s"`
	ProductLimit int           `yaml:"product_limit" env:"PRODUCT_RATE_LIMIT" env-default:"3"`
}

// ProductCache настройки кэша листинга товаров.
type ProductCache struct {
	TTL time.Duration `yaml:"ttl" env:"PRODUCT_CACHE_TTL" env-default:"60s"`
}

// MustLoad загружает конфиг и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из CONFIG_PATH (если задан) и переменных окружения.
func Load() (*Config, error) {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("file: %s - does not exist", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, err
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.JWTSecretKey == "" {
		cfg.JWTSecretKey = DefaultJWTSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}
	if c.Env == EnvProd && c.UsesDefaultSecret() {
		return errors.New("JWT_SECRET must be set in prod")
	}
	if c.RateLimit.Limit < 1 || c.RateLimit.ProductLimit < 1 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit values must be positive")
	}
	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// UsesDefaultSecret сообщает, что токены подписываются небезопасным секретом по умолчанию.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecretKey == DefaultJWTSecret
}

// DSN собирает строку подключения к PostgreSQL.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.Username, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port)),
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return u.String()
}

// AddressHTTP возвращает адрес, который слушает HTTP-сервер.
func (c *Config) AddressHTTP() string {
	return ":" + strconv.Itoa(c.HTTPServer.Port)
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Database:\n"+
			"  Host: %s\n"+
			"  Port: %d\n"+
			"  Name: %s\n"+
			"  Username: %s\n"+
			"  QueryTimeout: %s\n"+
			"Redis:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  Timeout: %s\n"+
			"HTTPServer:\n"+
			"  Port: %d\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  DefaultSecret: %t\n"+
			"  TokenTTL: %s\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n"+
			"  Exchange: %s\n",
		c.Env,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.Username,
		c.Database.QueryTimeout,
		c.AddressRedis,
		c.Redis.DB,
		c.TimeoutRedis,
		c.HTTPServer.Port,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.UsesDefaultSecret(),
		c.TokenTTL,
		c.RabbitMQ.URL != "",
		c.Exchange,
	)
}
