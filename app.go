package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"event-booking-bot/internal/api/client"
	"event-booking-bot/internal/bot"
	"event-booking-bot/internal/botconfig_parser"
	"event-booking-bot/internal/cache"
	"event-booking-bot/internal/chat"
	"event-booking-bot/internal/config"
	"event-booking-bot/internal/database"
	"event-booking-bot/internal/logger"
	"event-booking-bot/internal/server"
	"event-booking-bot/internal/telegram"

	"github.com/gin-gonic/gin"
	"gopkg.in/fsnotify.v1"
)

func main() {
	var (
		configFile = flag.String("config", "./config/config.yml", "Usage: -config=<config_file>")
		botConfig  = flag.String("bot", "", "Usage: -bot=<botConfig_file>")
		debug      = flag.Bool("debug", false, "Print debug information on stderr")
	)

	flag.Parse()

	cnf, err := config.GetConfig(*configFile)
	if err != nil {
		logger.Crit("Error while reading config:", err)
	}
	if *botConfig != "" {
		cnf.BotConfig = *botConfig
	}
	cnf.RunInDebug = *debug

	if logFile := logger.InitLogger(*debug, cnf.Logging); logFile != nil {
		defer logFile.Close()
	}
	logger.Info("Application starting...")

	if *debug {
		logger.Debug("Api:", cnf.Api, "Server:", cnf.Server, "Mode:", cnf.Telegram.Mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	memory, err := database.ConnectInMemoryCache(ctx)
	if err != nil {
		logger.Crit("Error while init session cache:", err)
	}
	defer memory.Close()

	messages, err := botconfig_parser.InitMessages(cnf.BotConfig)
	if err != nil {
		logger.Crit("Не корректный конфиг бота!", err)
	}

	api := client.New(cnf.Api.Addr, cnf.Api.Timeout)

	var router *bot.Bot
	transport, err := telegram.New(cnf.Telegram, func(ctx context.Context, update chat.Update) {
		router.Receive(ctx, update)
	})
	if err != nil {
		logger.Crit("Error while connect to Telegram:", err)
	}
	router = bot.New(cache.NewStore(memory), api, transport, messages, cnf.RateLimit)

	if err := router.DeclareCommands(ctx); err != nil {
		logger.Warning("Error while set bot commands:", err)
	}

	var webhook http.HandlerFunc
	if cnf.Telegram.Mode == config.MODE_WEBHOOK {
		logger.Info("Setup webhook", cnf.Telegram.WebhookURL)
		if err := transport.SetWebhook(ctx); err != nil {
			logger.Crit("Error while setup webhook:", err)
		}
		webhook = transport.WebhookHandler()
	}

	srv := server.New(cnf, webhook)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Crit("Listen:", err)
		}
	}()

	// Следим за изменениями конфига бота.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Crit(err)
	}
	defer watcher.Close()
	go watchBotConfig(watcher, cnf.BotConfig, messages, router)

	if err := watcher.Add(filepath.Dir(cnf.BotConfig)); err != nil {
		logger.Warning("Bot config is not watched:", err)
	}

	go transport.Run(ctx)

	logger.Info("Application started in", cnf.Telegram.Mode, "mode")

	<-ctx.Done()
	logger.Info("Catch OS signal! Exiting...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cnf.Telegram.Mode == config.MODE_WEBHOOK {
		logger.Info("Destroy webhook...")
		if err := transport.DeleteWebhook(shutdownCtx); err != nil {
			logger.Warning("Error while delete webhook:", err)
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("App forced to shutdown:", err)
		return
	}

	logger.Info("Application stopped correctly!")
}

// watchBotConfig перечитывает тексты бота при изменении файла.
// При ошибке в файле остаются прежние тексты.
func watchBotConfig(watcher *fsnotify.Watcher, path string, messages *botconfig_parser.Holder, router *bot.Bot) {
	target, _ := filepath.Abs(path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			name, _ := filepath.Abs(event.Name)
			if name != target {
				continue
			}
			logger.Debug("Bot config event:", event.String())

			// редакторы часто сохраняют через создание нового файла
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := messages.UpdateMessages(path); err != nil {
				logger.Warning("Не корректный конфиг бота!", err)
				continue
			}
			logger.Info("Bot config reloaded")

			ctx, cancel := context.WithTimeout(context.Background(), config.API_TIMEOUT)
			if err := router.DeclareCommands(ctx); err != nil {
				logger.Warning("Error while set bot commands:", err)
			}
			cancel()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warning("Watcher error:", err)
		}
	}
}
