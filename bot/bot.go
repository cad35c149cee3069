package bot

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"reminder-bot/commands"
	"reminder-bot/kv"
	"reminder-bot/model"
	"reminder-bot/tasks"
	"reminder-bot/utils/database"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	config             atomic.Value // *model.Config

	DB        *database.DB
	KV        *kv.Client
	Reminders *database.ReminderRepo
	Timezones *kv.GuildTimezones
	RunStates *kv.RunStates

	scheduler *Scheduler
	cancel    context.CancelFunc
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

// Jobs returns the background jobs in the order they run each tick.
func Jobs() []tasks.Job {
	return []tasks.Job{
		tasks.RemindersJob{},
		tasks.RemindersCleanupJob{},
	}
}

func New(cfg *model.Config, db *database.DB, store *kv.Client) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	b := &Bot{
		Session:   dg,
		DB:        db,
		KV:        store,
		Reminders: database.NewReminderRepo(db, model.SystemClock{}),
		Timezones: kv.NewGuildTimezones(store),
		RunStates: kv.NewRunStates(store),
	}
	b.config.Store(cfg)

	b.scheduler, err = NewScheduler(Jobs(), cfg.ShardKey, cfg.JobInterval, b.RunStates, JobDeps{
		DB:        db,
		KV:        store,
		Config:    *cfg,
		Messenger: NewDiscordMessenger(dg),
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bot) Close() {
	log.Info().Msg("gracefully shutting down")
	if b.cancel != nil {
		b.cancel()
	}
	if err := b.Session.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing discord session")
	}
	if err := b.KV.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing kv store")
	}
	if err := b.DB.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing database")
	}
}

// RefreshCommands replaces the application's global slash commands.
func (b *Bot) RefreshCommands() error {
	cmds := commands.GenerateCommands()
	log.Info().Int("count", len(cmds)).Msg("registering commands")
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, "", cmds)
	if err != nil {
		return fmt.Errorf("cannot register commands: %w", err)
	}
	b.RegisteredCommands = registered
	return nil
}
