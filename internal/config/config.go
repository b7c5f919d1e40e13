package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env-default:"info"`
	Engine   Engine `yaml:"engine"`
}

// Engine holds the belief-update tuning constants. Defaults match the
// values the deduction models were calibrated with.
type Engine struct {
	Strategy               string  `yaml:"strategy" env-default:"rule-augmented"`
	HandSize               int     `yaml:"hand-size" env-default:"3"`
	HandIncreaseFactor     float64 `yaml:"hand-increase-factor" env-default:"1.5"`
	EnvelopeDecreaseFactor float64 `yaml:"envelope-decrease-factor" env-default:"0.5"`
	RefutationBaseIncrease float64 `yaml:"refutation-base-increase" env-default:"0.05"`
	RefutationGrowthFactor float64 `yaml:"refutation-growth-factor" env-default:"1.5"`
	ConfidenceThreshold    float64 `yaml:"confidence-threshold" env-default:"0.9"`
	TopLikelyCards         int     `yaml:"top-likely-cards" env-default:"3"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}
