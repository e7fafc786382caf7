// Package app is the Telegram delivery surface: it turns updates into
// calls on the booking core and renders wizard steps as inline
// keyboards.
package app

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/parentconnect/appointment-bot/internal/catalog"
	"github.com/parentconnect/appointment-bot/internal/rules"
	"github.com/parentconnect/appointment-bot/internal/store"
)

type App struct {
	bot          *tgbotapi.BotAPI
	catalog      *catalog.Catalog
	appointments *store.Appointments
	engine       *rules.Engine
	notes        *Notifications
	log          *zap.Logger
	limiter      *ChatLimiter
	loc          *time.Location
	allowed      map[int64]bool

	sessions *Sessions
}

func New(bot *tgbotapi.BotAPI, cat *catalog.Catalog, appointments *store.Appointments, engine *rules.Engine, notes *Notifications, log *zap.Logger, loc *time.Location, chatIDs []int64) *App {
	allowed := make(map[int64]bool, len(chatIDs))
	for _, id := range chatIDs {
		allowed[id] = true
	}
	return &App{
		bot:          bot,
		catalog:      cat,
		appointments: appointments,
		engine:       engine,
		notes:        notes,
		log:          log,
		limiter:      NewChatLimiter(),
		loc:          loc,
		allowed:      allowed,
		sessions:     NewSessions(),
	}
}

// allowedChat: with no configured ids every chat acts as the demo
// guardian; otherwise only the listed ones.
func (a *App) allowedChat(chatID int64) bool {
	return len(a.allowed) == 0 || a.allowed[chatID]
}
