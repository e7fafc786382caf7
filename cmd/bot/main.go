package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/parentconnect/appointment-bot/internal/app"
	"github.com/parentconnect/appointment-bot/internal/catalog"
	"github.com/parentconnect/appointment-bot/internal/config"
	"github.com/parentconnect/appointment-bot/internal/jobs"
	"github.com/parentconnect/appointment-bot/internal/logging"
	"github.com/parentconnect/appointment-bot/internal/observability"
	"github.com/parentconnect/appointment-bot/internal/rules"
	"github.com/parentconnect/appointment-bot/internal/store"
)

const release = "parentconnect-bot@dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, relying on the environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		lg.Sugar.Warnw("sentry init failed", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		lg.Sugar.Fatalw("bot start failed", "err", err)
	}
	lg.Sugar.Infow("bot started", "username", bot.Self.UserName)

	// Process-lifetime state: reference catalog plus the appointment
	// repository. Nothing is persisted across restarts.
	cat := catalog.Seed()
	appointments := store.New()
	now := func() time.Time { return time.Now().In(cfg.Location) }
	engine := rules.NewEngine(now, cfg.Booking, appointments, cat)

	notes := app.NewNotifications(bot, cfg.Location, lg.Base)
	a := app.New(bot, cat, appointments, engine, notes, lg.Base, cfg.Location, cfg.ChatIDs)

	app.StartHTTP(ctx, cfg.HTTPAddr, appointments)

	runner := jobs.New(ctx, lg.Base)
	runner.Every(15*time.Minute, "day_before_reminders",
		jobs.DayBeforeReminders(appointments, notes, cfg.Location))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			lg.Sugar.Infow("shutting down")
			return
		case update := <-updates:
			go func(up tgbotapi.Update) {
				defer func() {
					if r := recover(); r != nil {
						lg.Base.Error("handler panic", zap.Any("panic", r))
					}
				}()
				a.HandleUpdate(ctx, up)
			}(update)
		}
	}
}
