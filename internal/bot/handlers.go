package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/sourcinglab/sourcingbot/core/telegram/format"
	tghelpers "github.com/sourcinglab/sourcingbot/core/telegram/helpers"
	"github.com/sourcinglab/sourcingbot/internal/conversation"
	requestsvc "github.com/sourcinglab/sourcingbot/internal/service/request"
)

// Handlers binds Telegram updates to the conversation engine and the
// request service.
type Handlers struct {
	engine   *conversation.Engine
	requests *requestsvc.Service
}

// NewHandlers creates the handler set.
func NewHandlers(engine *conversation.Engine, requests *requestsvc.Service) *Handlers {
	return &Handlers{engine: engine, requests: requests}
}

// InProgress satisfies the text router's dialogue check.
func (h *Handlers) InProgress(userID int64) bool {
	return h.engine.InProgress(userID)
}

// HandleText feeds dialogue text into the engine.
func (h *Handlers) HandleText(c tele.Context) error {
	sender := c.Sender()
	return h.dispatch(c, conversation.TextInput{
		UserID:   sender.ID,
		Username: sender.Username,
		Text:     c.Text(),
	})
}

// Start handles /start and the intake button. Outside a dialogue it
// greets the user and opens one, or reports the existing request.
// During a dialogue it re-prompts the current step.
func (h *Handlers) Start(c tele.Context) error {
	return h.dispatch(c, conversation.StartTrigger{UserID: c.Sender().ID})
}

// Cancel handles /cancel and abandons any dialogue in progress.
func (h *Handlers) Cancel(c tele.Context) error {
	return h.dispatch(c, conversation.CancelTrigger{UserID: c.Sender().ID})
}

// Delete handles /delete and the delete button. Deleting twice is
// harmless; the second attempt just reports that there is nothing
// to delete.
func (h *Handlers) Delete(c tele.Context) error {
	return h.dispatch(c, conversation.DeleteRequestTrigger{UserID: c.Sender().ID})
}

// ViewRequest handles the "my request" button.
func (h *Handlers) ViewRequest(c tele.Context) error {
	return h.dispatch(c, conversation.ViewRequestTrigger{UserID: c.Sender().ID})
}

// Help handles /help.
func (h *Handlers) Help(c tele.Context) error {
	return tghelpers.SendText(c, replyHelp)
}

// ChatID handles the hidden /chatid command.
func (h *Handlers) ChatID(c tele.Context) error {
	return tghelpers.SendMD(c, fmt.Sprintf("🆔 Chat ID: `%d`", c.Chat().ID))
}

// Requests handles the admin-only /requests listing.
func (h *Handlers) Requests(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	reqs, err := h.requests.List(ctx)
	if err != nil {
		return tghelpers.SendText(c, replyFailure)
	}
	if len(reqs) == 0 {
		return tghelpers.SendText(c, "Открытых заявок нет.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Открытые заявки (%d):\n", len(reqs))
	for _, req := range reqs {
		fmt.Fprintf(&b, "\n• %d | %s | %s | %s\n",
			req.UserID,
			req.CreatedAt.Format("2006-01-02 15:04"),
			req.Description,
			req.Contact,
		)
	}
	return tghelpers.SendText(c, b.String())
}

// Unknown replies to unrecognized text and commands.
func (h *Handlers) Unknown(c tele.Context) error {
	return tghelpers.SendText(c, replyUnknown)
}

// SlowDown is the rate limiter rejection reply.
func (h *Handlers) SlowDown(c tele.Context) error {
	return tghelpers.SendText(c, replySlowDown)
}

// dispatch feeds a trigger to the engine and renders the outcome.
// Engine errors are already logged at the source; the user only sees
// the rendered reply.
func (h *Handlers) dispatch(c tele.Context, trig conversation.Trigger) error {
	rep, _ := h.engine.Handle(tghelpers.BuildContext(c), trig)
	return h.renderReply(c, rep)
}

// renderReply maps an engine reply to a user-facing message.
func (h *Handlers) renderReply(c tele.Context, rep conversation.Reply) error {
	switch rep.Signal {
	case conversation.SignalWelcome:
		return tghelpers.SendText(c, replyWelcome,
			&tele.SendOptions{ReplyMarkup: startRequestKeyboard()})
	case conversation.SignalPromptDescription:
		return tghelpers.SendText(c, replyAskDescription)
	case conversation.SignalPromptContact:
		return tghelpers.SendText(c, replyAskContact)
	case conversation.SignalDescriptionTooShort:
		return tghelpers.SendText(c, replyDescriptionTooShort)
	case conversation.SignalContactTooShort:
		return tghelpers.SendText(c, replyContactTooShort)
	case conversation.SignalAlreadyRequested:
		return tghelpers.SendText(c, replyAlreadyRequested,
			&tele.SendOptions{ReplyMarkup: viewRequestKeyboard()})
	case conversation.SignalThanks:
		return tghelpers.SendText(c, replyThanks)
	case conversation.SignalCancelled:
		return tghelpers.SendText(c, replyCancelled)
	case conversation.SignalRequestView:
		text := fmt.Sprintf(
			"📄 *Ваша заявка*\n\n📦 *Описание:* %s\n📞 *Контакт:* %s",
			format.EscapeMarkdown(rep.Description),
			format.EscapeMarkdown(rep.Contact),
		)
		return tghelpers.SendMD(c, text, deleteRequestKeyboard())
	case conversation.SignalNoActiveRequest:
		return tghelpers.SendText(c, replyNoRequest)
	case conversation.SignalDeleted:
		return tghelpers.SendText(c, replyDeleted)
	case conversation.SignalFailure:
		return tghelpers.SendText(c, replyFailure)
	case conversation.SignalNone:
		return nil
	default:
		return nil
	}
}
