package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	coreconfig "ledgerbot/core/config"
	"ledgerbot/core/database"
	"ledgerbot/core/logger"
	tgcore "ledgerbot/core/telegram"
	tgsender "ledgerbot/core/telegram/sender"
	"ledgerbot/internal/bindings"
	"ledgerbot/internal/dispatcher"
	"ledgerbot/internal/flow"
	"ledgerbot/internal/sheets"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ledgerbot:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := coreconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Shutdown() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	binds, err := openBindings(cfg)
	if err != nil {
		return fmt.Errorf("open bindings store: %w", err)
	}
	defer func() { _ = binds.Close() }()

	sheetsClient, err := sheets.NewClient(ctx, cfg.Sheets.CredentialsFile)
	if err != nil {
		return fmt.Errorf("init sheets client: %w", err)
	}

	queue := tgsender.NewDispatcher(tgsender.Options{})
	reg := tgcore.NewRegistry()

	return tgcore.RunTelegram(ctx, tgcore.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Dispatcher:  queue,
		Middlewares: tgcore.DefaultMiddlewares(cfg, nil),
		OnStart: func(ctx context.Context, rt tgcore.Runtime) error {
			sender := dispatcher.NewBotSender(rt.Bot, rt.Dispatcher)
			disp := dispatcher.New(flow.NewMemoryStore(), binds, sheetsClient, sender)
			for _, route := range disp.Bind(rt.Registry) {
				rt.Bot.Handle(route.Endpoint, route.Handler)
			}
			return nil
		},
	})
}

// openBindings selects the configured persistence backend for the
// chat-to-spreadsheet bindings.
func openBindings(cfg *coreconfig.Config) (bindings.Store, error) {
	switch cfg.Bindings.Backend {
	case coreconfig.BindingsPostgres:
		if err := database.RunMigrations(cfg.Database); err != nil {
			return nil, err
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		return bindings.NewPostgres(db), nil
	default:
		return bindings.OpenBolt(cfg.Bindings.BoltPath)
	}
}
