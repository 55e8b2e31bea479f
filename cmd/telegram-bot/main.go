package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"betledger/internal/bot"
	"betledger/internal/pkg/betline"
	"betledger/internal/pkg/config"
	"betledger/internal/pkg/logging"
	"betledger/internal/pkg/metrics"
	"betledger/internal/pkg/storage"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to YAML config (optional, env vars override)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New("betledger", cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	bets, err := storage.NewPostgresBetStore(cfg.Postgres.DSN, loc)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer bets.Close()

	prefs, err := storage.NewRedisPreferenceStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer prefs.Close()

	health := func(ctx context.Context) error {
		if err := bets.Ping(ctx); err != nil {
			return err
		}
		return prefs.Ping(ctx)
	}

	metricsSrv := metrics.StartServer(cfg.Metrics.Port, health)
	logger.Info("metrics server listening", zap.String("port", cfg.Metrics.Port))

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal("failed to create telegram bot", zap.Error(err))
	}
	logger.Info("authorized", zap.String("username", api.Self.UserName))

	preference := betline.PreferTipster
	if cfg.PreferEventDateOnAmbiguity {
		preference = betline.PreferEventDate
	}
	resolver := &betline.Resolver{
		Loc:        loc,
		Now:        time.Now,
		Preference: preference,
	}

	b := bot.New(api, bets, prefs, resolver, logger, bot.Options{
		AllowedUserIDs: cfg.Telegram.AllowedUserIDs,
		UpdateTimeout:  cfg.Telegram.UpdateTimeout,
		Health:         health,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal, stopping bot")
		cancel()
	}()

	b.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown", zap.Error(err))
	}
}
