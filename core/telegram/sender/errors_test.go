package sender

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestErrorKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("wrap: %w", context.DeadlineExceeded), "timeout"},
		{"dns", &net.DNSError{Err: "no such host", Name: "api.telegram.org"}, "dns"},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("refused")}, "dial"},
		{"api 5xx", &tele.Error{Code: 502, Description: "Bad Gateway"}, "http_5xx"},
		{"parsed code", errors.New("telegram: chat not found (400)"), "http_4xx"},
		{"noop", fmt.Errorf("edit: %w", ErrNoopEdit), "noop_edit"},
		{"other", errors.New("boom"), "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ErrorKind(tc.err))
		})
	}
}

func TestRedact(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:ABC-def_ghi/sendMessage": timeout`)
	assert.Equal(t, `Post "https://api.telegram.org/bot<redacted>/sendMessage": timeout`, Redact(err))
	assert.Empty(t, Redact(nil))
}

func TestRedactErrorKeepsChain(t *testing.T) {
	base := errors.New("dial bot42:secret failed")
	wrapped := RedactError(base)
	assert.Equal(t, "dial bot<redacted> failed", wrapped.Error())
	assert.ErrorIs(t, wrapped, base)
	assert.NoError(t, RedactError(nil))
}

func TestIsNotModified(t *testing.T) {
	assert.True(t, IsNotModified(tele.ErrSameMessageContent))
	assert.True(t, IsNotModified(fmt.Errorf("x: %w", ErrNoopEdit)))
	assert.False(t, IsNotModified(errors.New("message to edit not found")))
	assert.False(t, IsNotModified(nil))
}
