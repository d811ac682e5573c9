package router

import (
	"time"

	tg "github.com/sourcinglab/sourcingbot/core/telegram"
	"github.com/sourcinglab/sourcingbot/core/telegram/callbacks"
	"github.com/sourcinglab/sourcingbot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute builds the single tele.OnCallback handler that dispatches
// inline keyboard presses through the registry. The callback is acknowledged
// before the handler runs so the client spinner always clears.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		key := callbacks.CallbackKey(c)
		_ = c.Respond()

		if h, ok := reg.GetCallback(key); ok {
			return handleWithSummary(c, "cb:"+key, start, func() error {
				return h(c)
			}, slog.String("cb_key", key))
		}

		fallback := reg.CallbackNotFound()
		if fallback == nil {
			logHandlerSummary(c, "cb_not_found", start, "skip", nil, slog.String("cb_key", key))
			return nil
		}
		return handleWithSummary(c, "cb_not_found", start, func() error {
			return fallback(c)
		}, slog.String("cb_key", key))
	}

	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
