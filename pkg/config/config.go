package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	if err := godotenv.Load(); err != nil {
		return err // Return error if .env file loading fails
	}

	if err := env.Parse(cfg); err != nil {
		return err // Return error if environment variable parsing fails
	}

	return nil // Return nil if everything is successful
}

// Config holds the configuration for the matching engine.
type Config struct {
	// Market names the order book this instance owns, e.g. "compute/eu".
	Market string `env:"MARKET,required"`
	// Unit is the engine's unit time; every duration in the book is a
	// multiple of it. Fixed for the lifetime of the engine instance.
	Unit time.Duration `env:"UNIT_TIME" envDefault:"1h"`

	KafkaConfig          `envPrefix:"KAFKA_"`
	MatchPublisherConfig `envPrefix:"MATCH_PUBLISHER_"`
	RedisConfig          `envPrefix:"REDIS_"`
}

// KafkaConfig holds the configuration for the order intake consumer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"default_group"`
	Brokers []string `env:"BROKER,required"`
}

// MatchPublisherConfig holds the configuration for the outcome publisher.
type MatchPublisherConfig struct {
	Topic   string   `env:"TOPIC,required"`
	Brokers []string `env:"BROKER,required"`
}

// RedisConfig holds the configuration for the snapshot store client.
type RedisConfig struct {
	Addrs    string `env:"ADDRESS,required"` // Comma-separated list of Redis addresses
	Password string `env:"PASSWORD" envDefault:""`
	Username string `env:"USERNAME" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}
