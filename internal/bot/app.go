// Package bot wires the intake bot together: commands, callbacks,
// middleware, and lifecycle hooks.
package bot

import (
	"context"

	"github.com/jmoiron/sqlx"

	tg "github.com/sourcinglab/sourcingbot/core/telegram"
	"github.com/sourcinglab/sourcingbot/core/telegram/commands"
	"github.com/sourcinglab/sourcingbot/core/telegram/router"
	appconfig "github.com/sourcinglab/sourcingbot/internal/config"
	"github.com/sourcinglab/sourcingbot/internal/conversation"
	"github.com/sourcinglab/sourcingbot/internal/notify"
	requestrepo "github.com/sourcinglab/sourcingbot/internal/repository/request"
	requestsvc "github.com/sourcinglab/sourcingbot/internal/service/request"
)

// App holds the assembled application components.
type App struct {
	cfg      *appconfig.Config
	sessions *conversation.SessionStore
	requests *requestsvc.Service
	handlers *Handlers
}

// New assembles the application on top of an open database handle.
func New(cfg *appconfig.Config, db *sqlx.DB) *App {
	repo := requestrepo.New(db)
	svc := requestsvc.New(repo, nil)
	sessions := conversation.NewSessionStore()
	engine := conversation.NewEngine(sessions, svc)

	return &App{
		cfg:      cfg,
		sessions: sessions,
		requests: svc,
		handlers: NewHandlers(engine, svc),
	}
}

// buildRegistry declares all commands and callbacks.
func (a *App) buildRegistry() *tg.Registry {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handlers.Start,
		Description: "начать",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handlers.Help,
		Description: "помощь",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.handlers.Cancel,
		Description: "отменить во время заполнения",
	})
	reg.RegisterCommand("/delete", commands.Command{
		Handler:     a.handlers.Delete,
		Description: "удалить заявку полностью",
	})
	reg.RegisterCommand("/requests", commands.Command{
		Handler:     a.handlers.Requests,
		Description: "список открытых заявок",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/chatid", commands.Command{
		Handler:     a.handlers.ChatID,
		Description: "показать chat id",
		Hidden:      true,
	})

	_ = reg.RegisterCallback(cbStartRequest, a.handlers.Start)
	_ = reg.RegisterCallback(cbViewRequest, a.handlers.ViewRequest)
	_ = reg.RegisterCallback(cbDeleteRequest, a.handlers.Delete)

	reg.SetTextFallback(a.handlers.Unknown)
	return reg
}

// TelegramRunOptions builds the transport configuration. The admin
// notification sink and the session janitor are wired in OnStart
// because both need a running bot or a live context.
func (a *App) TelegramRunOptions() tg.RunOptions {
	core := a.cfg.Core()
	reg := a.buildRegistry()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.handlers, reg, router.TextOptions{
		UnknownText: a.handlers.Unknown,
	})...)
	routes = append(routes, router.CallbackRoute(reg))

	return tg.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(core, a.handlers.SlowDown),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.requests.SetSink(notify.NewTelegramSink(rt.Bot, a.cfg.Telegram.AdminID, a.cfg.Notify.Timeout()))
			go a.sessions.RunJanitor(ctx, a.cfg.Session.TTL(), a.cfg.Session.SweepInterval())
			return nil
		},
	}
}
