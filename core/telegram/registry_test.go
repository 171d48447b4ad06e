package telegram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/faqbot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func TestCommandName(t *testing.T) {
	cases := map[string]string{
		"/start":              "/start",
		"/start@MundoVapoBot": "/start",
		"/faq extra args":     "/faq",
		"  /help  ":           "/help",
		"hola":                "",
		"":                    "",
		"/":                   "",
		"/@bot":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CommandName(in), "input %q", in)
	}
}

func TestRegisterAndLookupCommand(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/faq", commands.Command{Handler: noop, Description: "FAQ", Aliases: []string{"preguntas"}}))

	key, _, ok := reg.LookupCommand("/faq@bot")
	assert.True(t, ok)
	assert.Equal(t, "/faq", key)

	key, _, ok = reg.LookupCommand("/preguntas")
	assert.True(t, ok)
	assert.Equal(t, "/faq", key)

	_, _, ok = reg.LookupCommand("/nope")
	assert.False(t, ok)

	_, _, ok = reg.LookupCommand("faq")
	assert.True(t, ok)
}

func TestRegisterCommandRejectsInvalid(t *testing.T) {
	reg := NewRegistry()
	assert.Error(t, reg.RegisterCommand("start", commands.Command{Handler: noop, Description: "x"}))
	assert.Error(t, reg.RegisterCommand("/start", commands.Command{Description: "x"}))
	require.NoError(t, reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "x"}))
	assert.Error(t, reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "x"}))
}

func TestListCommandsHidesHidden(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Inicio"}))
	require.NoError(t, reg.RegisterCommand("/help", commands.Command{Handler: noop, Description: "Ayuda"}))
	require.NoError(t, reg.RegisterCommand("/debug", commands.Command{Handler: noop, Description: "dbg", Hidden: true}))

	assert.Equal(t, []tele.Command{
		{Text: "help", Description: "Ayuda"},
		{Text: "start", Description: "Inicio"},
	}, reg.ListCommands(true))
	assert.Len(t, reg.ListCommands(false), 3)
}

func TestCallbacks(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCallback("faq", noop))
	assert.Error(t, reg.RegisterCallback("faq", noop))
	assert.Error(t, reg.RegisterCallback("", noop))

	_, ok := reg.GetCallback("faq")
	assert.True(t, ok)
	_, ok = reg.GetCallback("other")
	assert.False(t, ok)
	assert.Equal(t, []string{"faq"}, reg.ListCallbacks())
	assert.NotNil(t, reg.CallbackNotFound())
}

type fakeSetter struct {
	got []interface{}
	err error
}

func (f *fakeSetter) SetCommands(opts ...interface{}) error {
	f.got = opts
	return f.err
}

func TestInitBotCommands(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Inicio"}))

	setter := &fakeSetter{}
	require.NoError(t, InitBotCommands(setter, reg))
	require.Len(t, setter.got, 1)
	assert.Equal(t, []tele.Command{{Text: "start", Description: "Inicio"}}, setter.got[0])

	setter.err = errors.New("flood")
	assert.Error(t, InitBotCommands(setter, reg))
}
