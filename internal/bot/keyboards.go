package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/sourcinglab/sourcingbot/core/telegram/keyboard"
)

// Callback keys used in inline keyboards.
const (
	cbStartRequest  = "start_request"
	cbViewRequest   = "view_request"
	cbDeleteRequest = "delete_request"
)

func startRequestKeyboard() *tele.ReplyMarkup {
	return keyboard.SingleButtonMarkup(keyboard.InlineBtn{
		Text:   "📨 Оставить заявку",
		Unique: cbStartRequest,
	})
}

func viewRequestKeyboard() *tele.ReplyMarkup {
	return keyboard.SingleButtonMarkup(keyboard.InlineBtn{
		Text:   "Моя заявка",
		Unique: cbViewRequest,
	})
}

func deleteRequestKeyboard() *tele.ReplyMarkup {
	return keyboard.SingleButtonMarkup(keyboard.InlineBtn{
		Text:   "❌ Удалить заявку",
		Unique: cbDeleteRequest,
	})
}
