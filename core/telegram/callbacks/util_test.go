package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	unique, payload := ParseCallbackData(&tele.Callback{Data: "\fview_request|42"})
	assert.Equal(t, "view_request", unique)
	assert.Equal(t, "42", payload)

	unique, payload = ParseCallbackData(&tele.Callback{Data: "\fstart_request"})
	assert.Equal(t, "start_request", unique)
	assert.Empty(t, payload)

	unique, payload = ParseCallbackData(&tele.Callback{Data: "plain"})
	assert.Equal(t, "plain", unique)
	assert.Empty(t, payload)

	unique, payload = ParseCallbackData(nil)
	assert.Empty(t, unique)
	assert.Empty(t, payload)
}

func TestCallbackKeyPrefersUnique(t *testing.T) {
	c := &tele.Callback{Unique: "delete_request", Data: "\fsomething_else"}
	k, _ := ParseCallbackData(c)
	assert.Equal(t, "something_else", k)
}
