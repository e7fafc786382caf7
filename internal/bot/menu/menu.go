package menu

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

const (
	BookButton         = "📅 Book appointment"
	AppointmentsButton = "🗂 My appointments"
	CancelButton       = "🚫 Cancel appointment"
	ExportButton       = "📤 Export history"
)

// GuardianMenu is the persistent reply keyboard for the guardian chat.
func GuardianMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BookButton),
			tgbotapi.NewKeyboardButton(AppointmentsButton),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(CancelButton),
			tgbotapi.NewKeyboardButton(ExportButton),
		),
	)
}
