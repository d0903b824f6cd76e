// Package config предоставляет структуры и функции для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	Timezone                string `yaml:"timezone" env:"TIMEZONE" env-default:"Europe/Madrid"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"DATABASE_URL"`
	GRPCAddress             string `yaml:"grpc_address" env:"GRPC_ADDRESS"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":3001"`
	TimeoutHTTP time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кэш.
type RedisConnection struct {
	AddressRedis string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeout" env-default:"3s"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"5m"`
}

// RabbitMQ структура для настройки публикации уведомлений.
// Пустой url отключает публикацию.
type RabbitMQ struct {
	RabbitURL     string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange      string        `yaml:"exchange" env-default:"backoffice.documents"`
	RabbitRetries int           `yaml:"max_retries" env-default:"5"`
	RetryDelay    time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// RateLimit ограничение частоты запросов на вход
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"5"`
	Burst int     `yaml:"burst" env-default:"10"`
}

// MustLoad загружает .env (если есть) и конфиг из CONFIG_PATH, завершает процесс при ошибке
func MustLoad() *Config {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Load читает конфиг из файла и проверяет обязательные поля
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.StorageConnectionString == "" {
		return errors.New("storage_connection_string is required")
	}
	if c.JWTSecretKey == "" {
		return errors.New("jwt_secret_key is required")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// Location возвращает часовой пояс календаря. Зона проверяется при загрузке.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Timezone: %s\n"+
			"GRPCAddress: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  CacheTTL: %s\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n"+
			"  Exchange: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n",
		c.Env,
		c.Timezone,
		c.GRPCAddress,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressRedis,
		c.DB,
		c.CacheTTL,
		c.RabbitURL != "",
		c.Exchange,
		c.TokenTTL,
	)
}
