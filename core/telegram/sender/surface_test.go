package sender

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/faqbot/core/faq"
	"github.com/m3rciful/faqbot/core/telegram/teletest"
)

func menuScreen() faq.Screen {
	return faq.NewRouter(faq.Links{}).Render(faq.Menu, "Ana")
}

func TestSendNewUsesHTMLWithoutPreview(t *testing.T) {
	c := teletest.NewMessage(1, "/faq", teletest.User(5, "Ana"))
	screen := menuScreen()

	require.NoError(t, NewSurface(c, "faq").SendNew(screen))

	sent := c.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, screen.Text, sent[0].Text)
	require.NotNil(t, sent[0].Options)
	assert.Equal(t, tele.ModeHTML, sent[0].Options.ParseMode)
	assert.True(t, sent[0].Options.DisableWebPagePreview)
	require.NotNil(t, sent[0].Options.ReplyMarkup)
	assert.Equal(t, "\ffaq|shipping", sent[0].Options.ReplyMarkup.InlineKeyboard[0][0].Data)
}

func TestSendNewWrapsFailure(t *testing.T) {
	c := teletest.NewMessage(1, "/start", teletest.User(5, "Ana"))
	c.SendErr = errors.New("boom")

	err := NewSurface(c, "faq").SendNew(menuScreen())

	require.Error(t, err)
	assert.ErrorIs(t, err, c.SendErr)
	assert.NotErrorIs(t, err, ErrNoopEdit)
}

func TestAttemptEditSuccess(t *testing.T) {
	c := teletest.NewCallback(2, "\ffaq|menu", teletest.User(5, "Ana"))

	require.NoError(t, NewSurface(c, "faq").AttemptEdit(menuScreen()))
	assert.Len(t, c.Edited(), 1)
}

func TestAttemptEditNoop(t *testing.T) {
	cases := map[string]error{
		"same content sentinel": tele.ErrSameMessageContent,
		"not modified sentinel": tele.ErrMessageNotModified,
		"api error":             &tele.Error{Code: 400, Description: "Bad Request: message is not modified: whatever"},
		"plain error":           fmt.Errorf("telegram: Bad Request: Message is not modified (400)"),
	}
	for name, editErr := range cases {
		t.Run(name, func(t *testing.T) {
			c := teletest.NewCallback(2, "\ffaq|menu", teletest.User(5, "Ana"))
			c.EditErr = editErr

			err := NewSurface(c, "faq").AttemptEdit(menuScreen())

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNoopEdit)
		})
	}
}

func TestAttemptEditOtherFailure(t *testing.T) {
	c := teletest.NewCallback(2, "\ffaq|menu", teletest.User(5, "Ana"))
	c.EditErr = &tele.Error{Code: 400, Description: "Bad Request: message to edit not found"}

	err := NewSurface(c, "faq").AttemptEdit(menuScreen())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoopEdit)
	assert.Equal(t, "http_4xx", ErrorKind(err))
}

func TestAcknowledge(t *testing.T) {
	c := teletest.NewCallback(2, "\ffaq|menu", teletest.User(5, "Ana"))

	require.NoError(t, NewSurface(c, "faq").Acknowledge("hola"))

	responses := c.Responses()
	require.Len(t, responses, 1)
	assert.Equal(t, "hola", responses[0].Text)
}

func TestAcknowledgeWithoutCallback(t *testing.T) {
	c := teletest.NewMessage(1, "/start", teletest.User(5, "Ana"))

	require.NoError(t, NewSurface(c, "faq").Acknowledge("x"))
	assert.Empty(t, c.Responses())
}
