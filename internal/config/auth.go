package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

func LoadAuth() (AuthConfig, error) {
	var cfg AuthConfig
	err := env.Parse(&cfg)
	return cfg, err
}
