package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcinglab/sourcingbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noopHandler(tele.Context) error { return nil }

func TestRegistryCommandValidation(t *testing.T) {
	r := NewRegistry()

	r.RegisterCommand("start", commands.Command{Handler: noopHandler, Description: "x"})
	assert.Empty(t, r.Commands(), "missing slash prefix must be rejected")

	r.RegisterCommand("/start", commands.Command{Description: "x"})
	assert.Empty(t, r.Commands(), "nil handler must be rejected")

	r.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "x"})
	assert.Len(t, r.Commands(), 1)

	// Duplicate registration keeps the first handler.
	r.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "y"})
	assert.Equal(t, "x", r.Commands()["/start"].Description)
}

func TestRegistryAliasLookup(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/delete", commands.Command{
		Handler:     noopHandler,
		Description: "x",
		Aliases:     []string{"remove"},
	})

	key, _, ok := r.LookupCommand("/remove")
	require.True(t, ok)
	assert.Equal(t, "/delete", key)

	key, _, ok = r.LookupCommand("delete")
	require.True(t, ok)
	assert.Equal(t, "/delete", key)

	_, _, ok = r.LookupCommand("/missing")
	assert.False(t, ok)
}

func TestRegistryListCommandsHidesInternal(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/start", commands.Command{Handler: noopHandler, Description: "a"})
	r.RegisterCommand("/chatid", commands.Command{Handler: noopHandler, Description: "b", Hidden: true})
	r.RegisterCommand("/requests", commands.Command{Handler: noopHandler, Description: "c", AdminOnly: true})

	visible := r.ListCommands(true)
	require.Len(t, visible, 1)
	assert.Equal(t, "/start", visible[0].Text)

	all := r.ListCommands(false)
	assert.Len(t, all, 3)
}

func TestRegistryCallbacks(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterCallback("view_request", noopHandler))
	assert.Error(t, r.RegisterCallback("view_request", noopHandler), "duplicate key must be rejected")
	assert.Error(t, r.RegisterCallback("", noopHandler))
	assert.Error(t, r.RegisterCallback("x", nil))

	_, ok := r.GetCallback("view_request")
	assert.True(t, ok)
	_, ok = r.GetCallback("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"view_request"}, r.ListCallbacks())
}
