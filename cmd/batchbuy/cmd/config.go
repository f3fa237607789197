package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/nftsweep/sdk-go/core/types"
	"github.com/nftsweep/sdk-go/core/util"
	"github.com/pkg/errors"
)

// EnvPrefix is prepended to every variable, e.g. BATCHBUY_RECIPIENT
const EnvPrefix = "BATCHBUY"

// Config is used to hold all runtime configuration.
type Config struct {
	Recipient        string `envconfig:"RECIPIENT"`
	ConduitKey       string `envconfig:"CONDUIT_KEY"`
	Affiliate        string `envconfig:"AFFILIATE"`
	IsAtomic         bool   `default:"true" envconfig:"IS_ATOMIC"`
	MaximumFulfilled uint64 `default:"0" envconfig:"MAXIMUM_FULFILLED"`
	Concurrency      int    `default:"8" envconfig:"CONCURRENCY"`
	LogLevel         string `default:"info" envconfig:"LOG_LEVEL"`
}

// Environment returns configuration sourced from environment variables, after
// loading envFile when it is set. Variables already in the environment win
// over the file.
func Environment(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "load %s", envFile)
		}
	}

	conf := Config{}
	if err := envconfig.Process(EnvPrefix, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// BatchParams converts the configured defaults into encoder parameters
func (c *Config) BatchParams() (types.BatchParams, error) {
	recipient, err := util.ParseOptionalAddress(c.Recipient)
	if err != nil {
		return types.BatchParams{}, errors.Wrap(err, "recipient")
	}
	conduitKey, err := util.ParseBytes32(c.ConduitKey)
	if err != nil {
		return types.BatchParams{}, errors.Wrap(err, "conduit key")
	}
	affiliate, err := util.ParseOptionalAddress(c.Affiliate)
	if err != nil {
		return types.BatchParams{}, errors.Wrap(err, "affiliate")
	}
	return types.BatchParams{
		Recipient:        recipient,
		ConduitKey:       conduitKey,
		Affiliate:        affiliate,
		IsAtomic:         c.IsAtomic,
		MaximumFulfilled: c.MaximumFulfilled,
	}, nil
}
