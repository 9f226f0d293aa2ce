package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fi44er/reward_bot/config"
	"github.com/Fi44er/reward_bot/db"
	"github.com/Fi44er/reward_bot/internal/bot"
	"github.com/Fi44er/reward_bot/internal/httpapi"
	"github.com/Fi44er/reward_bot/internal/repository"
	"github.com/Fi44er/reward_bot/internal/service"
	"github.com/Fi44er/reward_bot/internal/session"
	"github.com/Fi44er/reward_bot/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	logger := utils.InitLogger()
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		logger.Fatal("Failed to load config: ", err)
	}
	logger.SetLevelFromString(cfg.LogLevel)

	database, err := db.ConnectDb(cfg.DBDriver, cfg.DB_URL, logger)
	if err != nil {
		logger.Fatal(err)
	}

	if err := db.Migrate(database, true, logger); err != nil {
		logger.Fatal(err)
	}

	repo := repository.NewRepository(database, logger)

	telegramBot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		logger.Fatal("Failed to create bot API: ", err)
	}
	telegramBot.Debug = cfg.BotDebug
	logger.Infof("Authorized as @%s", telegramBot.Self.UserName)

	messenger := bot.NewMessenger(telegramBot)
	rewardService := service.NewService(repo, messenger, messenger, &cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rewardService.Init(ctx); err != nil {
		logger.Fatal("Failed to seed settings: ", err)
	}
	if cfg.AdminClaimPIN == "" {
		logger.Warn("ADMIN_CLAIM_PIN is empty, /claimadmin is disabled")
	}

	sessions, err := session.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL, logger)
	if err != nil {
		logger.Warnf("Redis unavailable for pending actions, using in-memory fallback: %v", err)
	}

	var server *httpapi.Server
	if cfg.HTTPAddr != "" {
		server = httpapi.NewServer(cfg.HTTPAddr, rewardService, logger)
		go func() {
			if err := server.Start(); err != nil {
				logger.Errorf("HTTP server stopped: %v", err)
			}
		}()
	}

	rewardBot := bot.NewBot(telegramBot, rewardService, sessions, logger)
	rewardBot.Start(ctx)

	logger.Info("Shutting down...")
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("HTTP server forced to shutdown: %v", err)
		}
	}

	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Bot exited")
}
