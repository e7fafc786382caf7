package app

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/parentconnect/appointment-bot/internal/bot/menu"
	"github.com/parentconnect/appointment-bot/internal/ctxutil"
	"github.com/parentconnect/appointment-bot/internal/metrics"
	"github.com/parentconnect/appointment-bot/internal/tg"
)

func (a *App) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	metrics.BotUpdates.Inc()

	if update.CallbackQuery != nil {
		a.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message != nil {
		a.handleMessage(ctx, update.Message)
	}
}

func (a *App) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	ctx = ctxutil.WithChatID(ctx, chatID)
	defer a.limiter.Lock(chatID)()

	if !a.allowedChat(chatID) {
		a.reply(chatID, "This bot is restricted to registered guardians.")
		return
	}

	switch msg.Text {
	case "/start":
		out := tgbotapi.NewMessage(chatID, "Welcome to ParentConnect! Book a meeting with a school representative for one of your children.")
		out.ReplyMarkup = menu.GuardianMenu()
		if _, err := tg.Send(a.bot, out); err != nil {
			metrics.HandlerErrors.Inc()
		}
		return
	case "/book", menu.BookButton:
		a.startBooking(chatID)
		return
	case "/appointments", menu.AppointmentsButton:
		a.showAppointments(chatID)
		return
	case "/cancel_appointment", menu.CancelButton:
		a.showCancelMenu(chatID)
		return
	case "/export", menu.ExportButton:
		a.exportAppointments(ctx, chatID)
		return
	}

	// A wizard waiting for the purpose text consumes any other message.
	if a.tryHandleBookingText(ctx, msg) {
		return
	}

	a.reply(chatID, "⚠️ Unknown command. Use /start to see the menu.")
}

func (a *App) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Data == "" {
		return
	}
	chatID := cb.Message.Chat.ID
	ctx = ctxutil.WithChatID(ctx, chatID)
	defer a.limiter.Lock(chatID)()

	if !a.allowedChat(chatID) {
		a.answer(cb.ID, "Not available.")
		return
	}

	switch {
	case strings.HasPrefix(cb.Data, "bk:"):
		a.handleBookingCallback(ctx, cb)
	case strings.HasPrefix(cb.Data, "ap:"):
		a.handleAppointmentCallback(ctx, cb)
	default:
		a.answer(cb.ID, "")
	}
}

func (a *App) reply(chatID int64, text string) {
	if _, err := tg.Send(a.bot, tgbotapi.NewMessage(chatID, text)); err != nil {
		metrics.HandlerErrors.Inc()
		a.log.Warn("send failed", zap.Int64("chat", chatID), zap.Error(err))
	}
}

func (a *App) answer(callbackID, text string) {
	if _, err := tg.Request(a.bot, tgbotapi.NewCallback(callbackID, text)); err != nil {
		metrics.HandlerErrors.Inc()
	}
}

// alert pops a modal on the client; used for rule rejections so the
// wizard message itself stays in place.
func (a *App) alert(callbackID, text string) {
	if _, err := tg.Request(a.bot, tgbotapi.NewCallbackWithAlert(callbackID, text)); err != nil {
		metrics.HandlerErrors.Inc()
	}
}
