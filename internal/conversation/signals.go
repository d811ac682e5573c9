package conversation

// Signal tells the transport layer which reply to render. The engine
// never talks to Telegram directly; it only emits signals.
type Signal int

const (
	// SignalNone means no reply is needed.
	SignalNone Signal = iota

	// SignalWelcome greets the user and opens the intake dialogue.
	SignalWelcome

	// SignalPromptDescription asks the user to describe the goods.
	SignalPromptDescription

	// SignalPromptContact asks the user for contact details.
	SignalPromptContact

	// SignalDescriptionTooShort re-prompts after a too-short description.
	SignalDescriptionTooShort

	// SignalContactTooShort re-prompts after a too-short contact.
	SignalContactTooShort

	// SignalAlreadyRequested tells the user an open request already exists.
	SignalAlreadyRequested

	// SignalThanks confirms the request was accepted.
	SignalThanks

	// SignalCancelled confirms the dialogue was abandoned.
	SignalCancelled

	// SignalRequestView shows the user's open request. The Reply carries
	// the description and contact.
	SignalRequestView

	// SignalNoActiveRequest reports that nothing is on file for the user.
	SignalNoActiveRequest

	// SignalDeleted confirms the request was removed.
	SignalDeleted

	// SignalFailure reports a transient storage problem. The dialogue
	// state is preserved so the user can retry the same step.
	SignalFailure
)

// String returns the signal name for logging.
func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalWelcome:
		return "welcome"
	case SignalPromptDescription:
		return "prompt_description"
	case SignalPromptContact:
		return "prompt_contact"
	case SignalDescriptionTooShort:
		return "description_too_short"
	case SignalContactTooShort:
		return "contact_too_short"
	case SignalAlreadyRequested:
		return "already_requested"
	case SignalThanks:
		return "thanks"
	case SignalCancelled:
		return "cancelled"
	case SignalRequestView:
		return "request_view"
	case SignalNoActiveRequest:
		return "no_active_request"
	case SignalDeleted:
		return "deleted"
	case SignalFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Reply is the engine's answer to a trigger. Description and Contact
// are populated only for SignalRequestView.
type Reply struct {
	Signal      Signal
	Description string
	Contact     string
}

func reply(sig Signal) Reply {
	return Reply{Signal: sig}
}
