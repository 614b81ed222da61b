package main

import (
	"context"
	"fmt"
	"os"

	"etmmbot/internal/bot"
	"etmmbot/internal/config"
	"etmmbot/internal/store"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {

	configPath := pflag.String("config", "config.cfg", "path to the configuration file")
	envFile := pflag.String("env-file", "", "env file with secret overrides")
	debug := pflag.Bool("debug", false, "enable debug logging")
	pflag.Parse()

	// Logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Secrets come from the environment, optionally seeded from a file
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Warn().Msg(fmt.Sprintf("Env file %s not found", *envFile))
		}
	} else {
		godotenv.Load()
	}

	// Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Msg(fmt.Sprintf("Could not parse configuration file %s: %s", *configPath, err))
	}
	if token := os.Getenv("ETMM_DISCORD_TOKEN"); token != "" {
		cfg.Discord.Token = token
	}
	if password := os.Getenv("ETMM_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if cfg.Discord.Token == "" {
		log.Fatal().Msg("discord information: token not in configuration file or environment")
	}
	log.Info().Msg(fmt.Sprintf("Loaded %d match making groups", cfg.Groups.Len()))

	// Database
	dsn := cfg.Database.DSN()
	if err := store.Migrate(dsn); err != nil {
		log.Fatal().Msg(fmt.Sprintf("Could not migrate the database: %s", err))
	}
	pg, err := store.Connect(context.Background(), dsn)
	if err != nil {
		log.Fatal().Msg(fmt.Sprintf("Could not connect to the database: %s", err))
	}
	defer pg.Close()

	// Run bot
	mmbot := bot.New(cfg.Discord.Token, cfg.Discord.Prefix, cfg.Discord.Resync, cfg.Groups, pg)
	if err := mmbot.Run(context.Background()); err != nil {
		log.Fatal().Msg(fmt.Sprintf("Bot stopped with an error: %s", err))
	}
}
