package main

import (
	"context"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"reminder-bot/bot"
	"reminder-bot/config"
	"reminder-bot/handlers"
	"reminder-bot/kv"
	"reminder-bot/model"
	"reminder-bot/utils"
	"reminder-bot/utils/database"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "reminder-bot",
		Short:         "Discord bot that reminds people of things",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cfgPath)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to a TOML or YAML config file")
	root.AddCommand(healthcheckCmd(&cfgPath))
	return root
}

func healthcheckCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "healthcheck",
		Short: "Check the database and key-value store and print the result as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, store, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			defer db.Close()
			defer store.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.KVCheckTimeout+5*time.Second)
			defer cancel()

			report := utils.RunHealthChecks(ctx,
				utils.Probe{Name: "database", Check: db.PingContext},
				utils.Probe{Name: "kv", Check: store.ConnectionCheck},
			)
			out, err := report.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			if !report.Healthy {
				return fmt.Errorf("%w: health check failed", model.ErrStorage)
			}
			return nil
		},
	}
}

func setup(cfgPath string) (*model.Config, *database.DB, *kv.Client, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}
	utils.SetupLogger(cfg.LogLevel, cfg.LogWebhookURL)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := kv.New(cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	store.CheckTimeout = cfg.KVCheckTimeout
	return cfg, db, store, nil
}

func runBot(cfgPath string) error {
	cfg, db, store, err := setup(cfgPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.KVCheckTimeout)
	err = store.ConnectionCheck(ctx)
	cancel()
	if err != nil {
		db.Close()
		store.Close()
		return err
	}

	b, err := bot.New(cfg, db, store)
	if err != nil {
		db.Close()
		store.Close()
		return err
	}
	defer b.Close()

	handlers.Register(b)
	return b.Run()
}
