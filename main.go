package main

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"hex/experiments"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	viper.SetDefault("experiment", "budget")
	viper.SetDefault("board_size", 11)
	viper.SetDefault("num_games", 10)
	viper.SetDefault("move_time", 500*time.Millisecond)
	viper.SetConfigName("hex")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("hex")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal().Err(err).Msg("failed to read config")
		}
	}

	settings := experiments.Settings{
		BoardSize: viper.GetInt("board_size"),
		NumGames:  viper.GetInt("num_games"),
		MoveTime:  viper.GetDuration("move_time"),
	}

	var err error
	experiment := viper.GetString("experiment")
	switch experiment {
	case "budget":
		err = experiments.RunBudgetExperiment(settings)
	case "bridge":
		err = experiments.RunBridgeExperiment(settings)
	case "depth":
		err = experiments.RunDepthExperiment(settings)
	default:
		log.Fatal().Str("experiment", experiment).Msg("unknown experiment")
	}
	if err != nil {
		log.Fatal().Err(err).Str("experiment", experiment).Msg("experiment failed")
	}
}
