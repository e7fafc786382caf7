package app

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/parentconnect/appointment-bot/internal/metrics"
	"github.com/parentconnect/appointment-bot/internal/models"
	"github.com/parentconnect/appointment-bot/internal/tg"
)

func statusIcon(s models.AppointmentStatus) string {
	switch s {
	case models.StatusPending:
		return "🕒"
	case models.StatusApproved:
		return "✅"
	case models.StatusRejected:
		return "❌"
	case models.StatusCompleted:
		return "🎓"
	case models.StatusCancelled:
		return "🚫"
	default:
		return "•"
	}
}

// showAppointments lists every request, most recent first.
func (a *App) showAppointments(chatID int64) {
	all := a.appointments.AllAppointments()
	if len(all) == 0 {
		a.reply(chatID, "No appointment requests yet.")
		return
	}

	var b strings.Builder
	b.WriteString("Your appointment requests:\n")
	for _, req := range all {
		fmt.Fprintf(&b, "\n%s %s — %s\n     %s at %s · %s · %s\n",
			statusIcon(req.Status), req.StudentName, req.RepresentativeName,
			req.Date.In(a.loc).Format("Mon, 2 Jan 2006"), req.Time.Clock(),
			req.Category.DisplayName(), req.Status.DisplayName(),
		)
	}
	a.reply(chatID, b.String())
}

// showCancelMenu offers the active requests for cancellation.
func (a *App) showCancelMenu(chatID int64) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, st := range a.catalog.Students() {
		req, ok := a.appointments.ActiveAppointment(st.ID)
		if !ok {
			continue
		}
		label := fmt.Sprintf("%s — %s at %s", req.StudentName,
			req.Date.In(a.loc).Format("2 Jan"), req.Time.Clock())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "ap:cancel:"+req.ID),
		))
	}
	if len(rows) == 0 {
		a.reply(chatID, "There are no active appointment requests to cancel.")
		return
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Keep them", "ap:keep"),
	))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	out := tgbotapi.NewMessage(chatID, "Which appointment do you want to cancel?")
	out.ReplyMarkup = kb
	if _, err := tg.Send(a.bot, out); err != nil {
		metrics.HandlerErrors.Inc()
	}
}

func (a *App) handleAppointmentCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	switch {
	case cb.Data == "ap:keep":
		edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, "Nothing cancelled.")
		if _, err := tg.Send(a.bot, edit); err != nil {
			metrics.HandlerErrors.Inc()
		}
		a.answer(cb.ID, "")

	case strings.HasPrefix(cb.Data, "ap:cancel:"):
		id := strings.TrimPrefix(cb.Data, "ap:cancel:")
		req, ok := a.appointments.UpdateStatus(id, models.StatusCancelled)
		if !ok {
			a.answer(cb.ID, "Appointment not found.")
			return
		}
		a.notes.StatusChanged(req)
		edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID,
			fmt.Sprintf("Appointment for %s cancelled.", req.StudentName))
		if _, err := tg.Send(a.bot, edit); err != nil {
			metrics.HandlerErrors.Inc()
		}
		a.answer(cb.ID, "Cancelled")
	}
}
