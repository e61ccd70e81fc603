package config

import "github.com/caarlos0/env/v11"

type GameConfig struct {
	StartingBalance float64 `env:"STARTING_BALANCE" envDefault:"1000"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	err := env.Parse(&cfg)
	return cfg, err
}
