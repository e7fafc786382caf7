package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/parentconnect/appointment-bot/internal/bot/shared/fsmutil"
	"github.com/parentconnect/appointment-bot/internal/export"
	"github.com/parentconnect/appointment-bot/internal/metrics"
	"github.com/parentconnect/appointment-bot/internal/observability"
)

func (a *App) exportAppointments(ctx context.Context, chatID int64) {
	if !fsmutil.SetPending(chatID, "export") {
		a.reply(chatID, "An export is already running.")
		return
	}
	defer fsmutil.ClearPending(chatID, "export")

	all := a.appointments.AllAppointments()
	if err := export.SendAppointmentsExcel(ctx, a.bot, all, a.loc, chatID); err != nil {
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		a.log.Warn("export failed", zap.Int64("chat", chatID), zap.Error(err))
		a.reply(chatID, "Export failed. Please try again later.")
	}
}
