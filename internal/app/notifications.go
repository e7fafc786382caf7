package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/parentconnect/appointment-bot/internal/metrics"
	"github.com/parentconnect/appointment-bot/internal/models"
	"github.com/parentconnect/appointment-bot/internal/tg"
	"github.com/parentconnect/appointment-bot/internal/workflow"
)

// Notifications delivers booking confirmations, status alerts and the
// day-before reminders. It remembers which chat submitted which
// appointment; the booking itself never depends on a delivery result.
type Notifications struct {
	bot *tgbotapi.BotAPI
	loc *time.Location
	log *zap.Logger

	mu    sync.Mutex
	chats map[string]int64 // appointment id -> chat id
}

func NewNotifications(bot *tgbotapi.BotAPI, loc *time.Location, log *zap.Logger) *Notifications {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifications{bot: bot, loc: loc, log: log, chats: make(map[string]int64)}
}

// Bind adapts the center to one chat for the duration of a booking
// flow.
func (n *Notifications) Bind(chatID int64) workflow.Notifier {
	return chatNotifier{n: n, chatID: chatID}
}

type chatNotifier struct {
	n      *Notifications
	chatID int64
}

func (c chatNotifier) AppointmentSubmitted(ctx context.Context, req models.AppointmentRequest) {
	c.n.register(req.ID, c.chatID)
	text := fmt.Sprintf(
		"📨 Request for %s sent to %s. You'll be notified when %s responds.",
		req.StudentName, req.RepresentativeName, req.RepresentativeTitle.DisplayName(),
	)
	c.n.send(c.chatID, text)
}

func (n *Notifications) register(appointmentID string, chatID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chats[appointmentID] = chatID
}

func (n *Notifications) chatFor(appointmentID string) (int64, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id, ok := n.chats[appointmentID]
	return id, ok
}

// AppointmentReminder implements jobs.ReminderSender.
func (n *Notifications) AppointmentReminder(ctx context.Context, req models.AppointmentRequest) error {
	chatID, ok := n.chatFor(req.ID)
	if !ok {
		// booked before a restart; no chat to remind
		return nil
	}
	text := fmt.Sprintf(
		"⏰ Reminder: appointment for %s with %s tomorrow, %s at %s.",
		req.StudentName, req.RepresentativeName,
		req.Date.In(n.loc).Format("Mon, 2 Jan"), req.Time.Clock(),
	)
	n.send(chatID, text)
	return nil
}

// StatusChanged tells the booking chat about a status transition.
func (n *Notifications) StatusChanged(req models.AppointmentRequest) {
	chatID, ok := n.chatFor(req.ID)
	if !ok {
		return
	}
	text := fmt.Sprintf(
		"ℹ️ Appointment for %s on %s is now: %s.",
		req.StudentName, req.Date.In(n.loc).Format("Mon, 2 Jan"), req.Status.DisplayName(),
	)
	n.send(chatID, text)
}

func (n *Notifications) send(chatID int64, text string) {
	if _, err := tg.Send(n.bot, tgbotapi.NewMessage(chatID, text)); err != nil {
		metrics.HandlerErrors.Inc()
		n.log.Warn("notification failed", zap.Int64("chat", chatID), zap.Error(err))
	}
}
