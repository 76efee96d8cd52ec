package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Impact struct {
		// Optional JSON file overriding the built-in CO2 rate table,
		// category name -> kg CO2 saved per kg recycled.
		RatesFile string `env:"WASTE_RATES_FILE" envDefault:""`
	}

	Wallet struct {
		// Redis stream redemption submissions are published to for
		// out-of-band admin review.
		EventStream string `env:"REDEMPTION_EVENT_STREAM" envDefault:"wallet:redemptions"`
	}
}

func Load() *Config {
	// Missing .env is fine; production sets variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
