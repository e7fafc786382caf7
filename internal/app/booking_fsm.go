package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/parentconnect/appointment-bot/internal/bot/shared/fsmutil"
	"github.com/parentconnect/appointment-bot/internal/ctxutil"
	"github.com/parentconnect/appointment-bot/internal/metrics"
	"github.com/parentconnect/appointment-bot/internal/models"
	"github.com/parentconnect/appointment-bot/internal/tg"
	"github.com/parentconnect/appointment-bot/internal/workflow"
)

// bookingSession is one open wizard: the core flow plus the message id
// being edited in place.
type bookingSession struct {
	flow            *workflow.Flow
	msgID           int
	awaitingPurpose bool
}

type Sessions struct {
	m sync.Map // chatID(int64) -> *bookingSession
}

func NewSessions() *Sessions { return &Sessions{} }

func (s *Sessions) get(chatID int64) (*bookingSession, bool) {
	v, ok := s.m.Load(chatID)
	if !ok {
		return nil, false
	}
	return v.(*bookingSession), true
}
func (s *Sessions) set(chatID int64, st *bookingSession) { s.m.Store(chatID, st) }
func (s *Sessions) clear(chatID int64)                   { s.m.Delete(chatID) }

// startBooking opens the child picker. The flow itself is created only
// after a child is chosen, so abandoning here touches nothing.
func (a *App) startBooking(chatID int64) {
	if old, ok := a.sessions.get(chatID); ok && old.msgID != 0 {
		fsmutil.DisableMarkup(a.bot, chatID, old.msgID)
	}
	a.sessions.clear(chatID)

	students := a.catalog.Students()
	if len(students) == 0 {
		a.reply(chatID, "No children are linked to your profile.")
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, name := range a.catalog.SchoolNames() {
		for _, st := range a.catalog.StudentsBySchoolName()[name] {
			title := fmt.Sprintf("%s — %s (%s)", st.Name, st.Grade, name)
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(title, "bk:child:"+st.ID),
			))
		}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "bk:cancel"),
	))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	out := tgbotapi.NewMessage(chatID, "Select a child:")
	out.ReplyMarkup = kb
	sent, err := tg.Send(a.bot, out)
	if err != nil {
		metrics.HandlerErrors.Inc()
		return
	}
	a.sessions.set(chatID, &bookingSession{msgID: sent.MessageID})
}

func (a *App) handleBookingCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	st, ok := a.sessions.get(chatID)
	if !ok {
		a.answer(cb.ID, "This booking has expired. Start again from the menu.")
		return
	}
	data := cb.Data

	switch {
	case data == "bk:cancel":
		// Discarding is always safe: nothing was committed.
		a.sessions.clear(chatID)
		a.editStep(chatID, st, "Booking cancelled.", nil)
		a.answer(cb.ID, "")

	case strings.HasPrefix(data, "bk:child:"):
		a.pickChild(cb, st, strings.TrimPrefix(data, "bk:child:"))

	case data == "bk:back":
		if st.flow == nil {
			a.answer(cb.ID, "")
			return
		}
		st.awaitingPurpose = false
		st.flow.Back()
		a.renderStep(chatID, st)
		a.answer(cb.ID, "")

	case strings.HasPrefix(data, "bk:rep:"):
		a.pickRepresentative(ctx, cb, st, strings.TrimPrefix(data, "bk:rep:"))

	case strings.HasPrefix(data, "bk:date:"):
		a.pickDate(cb, st, strings.TrimPrefix(data, "bk:date:"))

	case strings.HasPrefix(data, "bk:time:"):
		a.pickTime(cb, st, strings.TrimPrefix(data, "bk:time:"))

	case strings.HasPrefix(data, "bk:dur:"):
		a.pickDuration(ctx, cb, st, strings.TrimPrefix(data, "bk:dur:"))

	case strings.HasPrefix(data, "bk:cat:"):
		a.pickCategory(ctx, cb, st, strings.TrimPrefix(data, "bk:cat:"))

	case data == "bk:confirm":
		a.submitBooking(ctx, cb, st)

	default:
		a.answer(cb.ID, "")
	}
}

func (a *App) pickChild(cb *tgbotapi.CallbackQuery, st *bookingSession, studentID string) {
	chatID := cb.Message.Chat.ID
	student, ok := a.catalog.StudentByID(studentID)
	if !ok {
		a.answer(cb.ID, "Unknown student.")
		return
	}

	flow, res := workflow.Start(student, a.engine, a.appointments, a.notes.Bind(chatID))
	if !res.Valid {
		metrics.ValidationFailures.WithLabelValues("student").Inc()
		a.alert(cb.ID, res.Reason)
		return
	}
	st.flow = flow
	a.renderStep(chatID, st)
	a.answer(cb.ID, "")
}

func (a *App) pickRepresentative(ctx context.Context, cb *tgbotapi.CallbackQuery, st *bookingSession, repID string) {
	if st.flow == nil {
		a.answer(cb.ID, "")
		return
	}
	rep, ok := a.catalog.RepresentativeByID(repID)
	if !ok {
		a.answer(cb.ID, "Unknown representative.")
		return
	}
	st.flow.SelectRepresentative(rep)
	a.forward(ctx, cb, st)
}

func (a *App) pickDate(cb *tgbotapi.CallbackQuery, st *bookingSession, raw string) {
	if st.flow == nil {
		a.answer(cb.ID, "")
		return
	}
	day, err := time.ParseInLocation("2006-01-02", raw, a.loc)
	if err != nil {
		a.answer(cb.ID, "Bad date.")
		return
	}
	if res := a.engine.DateAvailable(day); !res.Valid {
		metrics.ValidationFailures.WithLabelValues("datetime").Inc()
		a.alert(cb.ID, res.Reason)
		return
	}
	st.flow.SelectDate(day)
	a.renderStep(cb.Message.Chat.ID, st)
	a.answer(cb.ID, "")
}

func (a *App) pickTime(cb *tgbotapi.CallbackQuery, st *bookingSession, raw string) {
	if st.flow == nil {
		a.answer(cb.ID, "")
		return
	}
	t, err := models.ParseTimeOfDay(raw)
	if err != nil {
		a.answer(cb.ID, "Bad time.")
		return
	}
	if res := a.engine.TimeAvailable(t); !res.Valid {
		metrics.ValidationFailures.WithLabelValues("datetime").Inc()
		a.alert(cb.ID, res.Reason)
		return
	}
	st.flow.SelectTime(t)
	a.renderStep(cb.Message.Chat.ID, st)
	a.answer(cb.ID, "")
}

func (a *App) pickDuration(ctx context.Context, cb *tgbotapi.CallbackQuery, st *bookingSession, raw string) {
	if st.flow == nil {
		a.answer(cb.ID, "")
		return
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		a.answer(cb.ID, "Bad duration.")
		return
	}
	st.flow.SelectDuration(models.AppointmentDuration(minutes))
	a.forward(ctx, cb, st)
}

func (a *App) pickCategory(ctx context.Context, cb *tgbotapi.CallbackQuery, st *bookingSession, raw string) {
	if st.flow == nil {
		a.answer(cb.ID, "")
		return
	}
	st.flow.SelectCategory(models.AppointmentCategory(raw))
	a.forward(ctx, cb, st)
}

// forward advances the core flow; a guard rejection keeps the current
// screen and surfaces the reason as an alert.
func (a *App) forward(ctx context.Context, cb *tgbotapi.CallbackQuery, st *bookingSession) {
	outcome := st.flow.Forward(ctx)
	if !outcome.Result.Valid {
		metrics.ValidationFailures.WithLabelValues(st.flow.Step().String()).Inc()
		a.alert(cb.ID, outcome.Result.Reason)
		return
	}
	a.renderStep(cb.Message.Chat.ID, st)
	a.answer(cb.ID, "")
}

// tryHandleBookingText consumes the purpose text when the wizard is on
// that step. Returns false when nobody is waiting for input.
func (a *App) tryHandleBookingText(ctx context.Context, msg *tgbotapi.Message) bool {
	chatID := msg.Chat.ID
	st, ok := a.sessions.get(chatID)
	if !ok || st.flow == nil || !st.awaitingPurpose {
		return false
	}
	if fsmutil.IsCancelText(msg.Text) {
		a.sessions.clear(chatID)
		a.reply(chatID, "Booking cancelled.")
		return true
	}

	st.flow.SetPurpose(msg.Text)
	outcome := st.flow.Forward(ctx)
	if !outcome.Result.Valid {
		metrics.ValidationFailures.WithLabelValues("purpose").Inc()
		a.reply(chatID, outcome.Result.Reason)
		return true
	}
	st.awaitingPurpose = false
	st.msgID = 0 // the confirm screen starts a fresh message below the text
	a.renderStep(chatID, st)
	return true
}

func (a *App) submitBooking(ctx context.Context, cb *tgbotapi.CallbackQuery, st *bookingSession) {
	chatID := cb.Message.Chat.ID
	if st.flow == nil {
		a.answer(cb.ID, "")
		return
	}
	if !fsmutil.SetPending(chatID, "submit") {
		a.answer(cb.ID, "Already submitting…")
		return
	}
	defer fsmutil.ClearPending(chatID, "submit")

	subCtx, cancel := ctxutil.WithSubmitTimeout(ctx)
	defer cancel()

	outcome := st.flow.Forward(subCtx)
	if !outcome.Result.Valid {
		metrics.ValidationFailures.WithLabelValues("submit").Inc()
		a.alert(cb.ID, outcome.Result.Reason)
		return
	}

	metrics.Submissions.Inc()
	req := outcome.Created
	a.log.Info("appointment submitted",
		zap.String("appointment", req.ID),
		zap.String("student", req.StudentID),
		zap.Int64("chat", chatID),
	)
	a.sessions.clear(chatID)

	text := fmt.Sprintf(
		"✅ Your appointment request has been submitted!\n\n%s with %s (%s)\n%s at %s, %d min\nStatus: %s",
		req.StudentName, req.RepresentativeName, req.RepresentativeTitle.DisplayName(),
		req.Date.Format("Mon, 2 Jan 2006"), req.Time.Clock(), req.Duration.Minutes(),
		req.Status.DisplayName(),
	)
	a.editStep(chatID, st, text, nil)
	a.answer(cb.ID, "Submitted")
}

// ----- step rendering -----

func (a *App) renderStep(chatID int64, st *bookingSession) {
	switch st.flow.Step() {
	case workflow.StepRepresentative:
		a.renderRepresentatives(chatID, st)
	case workflow.StepDateTime:
		a.renderDateTime(chatID, st)
	case workflow.StepCategory:
		a.renderCategories(chatID, st)
	case workflow.StepPurpose:
		a.renderPurposePrompt(chatID, st)
	case workflow.StepConfirm:
		a.renderConfirm(chatID, st)
	}
}

func (a *App) renderRepresentatives(chatID int64, st *bookingSession) {
	student := st.flow.Student()
	reps := a.catalog.RepresentativesBySchool(student.SchoolID)

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, r := range reps {
		label := fmt.Sprintf("%s — %s", r.Name, r.Title.DisplayName())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "bk:rep:"+r.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "bk:cancel"),
	))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	text := fmt.Sprintf("Step 1/5 · %s\nSelect a school representative:", student.SchoolName)
	a.editStep(chatID, st, text, &kb)
}

func (a *App) renderDateTime(chatID int64, st *bookingSession) {
	sel := st.flow.Selections()
	switch {
	case sel.Date == nil:
		a.renderDates(chatID, st)
	case sel.Time == nil:
		a.renderTimes(chatID, st)
	default:
		a.renderDurations(chatID, st)
	}
}

func (a *App) renderDates(chatID int64, st *bookingSession) {
	var rows [][]tgbotapi.InlineKeyboardButton
	last := a.engine.MaximumDate()
	shown := 0
	for d := a.engine.MinimumDate(); !d.After(last) && shown < 10; d = d.AddDate(0, 0, 1) {
		if !a.engine.DateAvailable(d).Valid {
			continue
		}
		label := d.Format("Mon 2 Jan")
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "bk:date:"+d.Format("2006-01-02")),
		))
		shown++
	}
	rows = append(rows, fsmutil.BackCancelRow("bk:back", "bk:cancel"))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	a.editStep(chatID, st, "Step 2/5 · Select a date:", &kb)
}

func (a *App) renderTimes(chatID int64, st *bookingSession) {
	var row []tgbotapi.InlineKeyboardButton
	var rows [][]tgbotapi.InlineKeyboardButton
	for slot := range a.engine.TimeSlots() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(slot.Clock(), "bk:time:"+slot.String()))
		if len(row) == 2 {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row...))
	}
	rows = append(rows, fsmutil.BackCancelRow("bk:back", "bk:cancel"))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	a.editStep(chatID, st, "Step 2/5 · Select a time:", &kb)
}

func (a *App) renderDurations(chatID int64, st *bookingSession) {
	var row []tgbotapi.InlineKeyboardButton
	for _, d := range models.Durations() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d min", d.Minutes()), fmt.Sprintf("bk:dur:%d", d.Minutes()),
		))
	}
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(row...),
		fsmutil.BackCancelRow("bk:back", "bk:cancel"),
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	a.editStep(chatID, st, "Step 2/5 · Select a duration:", &kb)
}

func (a *App) renderCategories(chatID int64, st *bookingSession) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range models.Categories() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.DisplayName(), "bk:cat:"+string(c)),
		))
	}
	rows = append(rows, fsmutil.BackCancelRow("bk:back", "bk:cancel"))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	a.editStep(chatID, st, "Step 3/5 · Select a category:", &kb)
}

func (a *App) renderPurposePrompt(chatID int64, st *bookingSession) {
	st.awaitingPurpose = true
	rows := [][]tgbotapi.InlineKeyboardButton{
		fsmutil.BackCancelRow("bk:back", "bk:cancel"),
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	text := "Step 4/5 · Describe the purpose of the meeting.\nSend it as a message: at least 2 complete sentences and 20 characters."
	a.editStep(chatID, st, text, &kb)
}

func (a *App) renderConfirm(chatID int64, st *bookingSession) {
	sel := st.flow.Selections()
	student := st.flow.Student()

	text := fmt.Sprintf(
		"Step 5/5 · Confirm your request\n\nStudent: %s (%s)\nSchool: %s\nRepresentative: %s (%s)\nDate: %s\nTime: %s\nDuration: %d min\nCategory: %s\nPurpose: %s",
		student.Name, student.Grade,
		student.SchoolName,
		sel.Representative.Name, sel.Representative.Title.DisplayName(),
		sel.Date.Format("Mon, 2 Jan 2006"),
		sel.Time.Clock(),
		sel.Duration.Minutes(),
		sel.Category.DisplayName(),
		sel.Purpose,
	)
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", "bk:confirm"),
		),
		fsmutil.BackCancelRow("bk:back", "bk:cancel"),
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	a.editStep(chatID, st, text, &kb)
}

// editStep edits the wizard message in place, or sends a fresh one
// when there is nothing to edit yet.
func (a *App) editStep(chatID int64, st *bookingSession, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if st.msgID == 0 {
		msg := tgbotapi.NewMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = kb
		}
		out, err := tg.Send(a.bot, msg)
		if err != nil {
			metrics.HandlerErrors.Inc()
			return
		}
		st.msgID = out.MessageID
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, st.msgID, text)
	if kb != nil {
		edit.ReplyMarkup = kb
	}
	if _, err := tg.Send(a.bot, edit); err != nil {
		metrics.HandlerErrors.Inc()
	}
}
