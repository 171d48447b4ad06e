package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPoller(t *testing.T) {
	assert.Equal(t, defaultLongPollTimeout, BuildPoller(0).Timeout)

	p := BuildPoller(25)
	assert.Equal(t, 25*time.Second, p.Timeout)
	assert.Equal(t, AllowedUpdates, p.AllowedUpdates)
}

func TestPublicWebhookURL(t *testing.T) {
	cases := []struct {
		base, path, want string
	}{
		{"https://bot.example.cl", "/telegram", "https://bot.example.cl/telegram"},
		{"https://bot.example.cl/", "/telegram", "https://bot.example.cl/telegram"},
		{"https://bot.example.cl/hooks/tg", "/telegram", "https://bot.example.cl/hooks/tg"},
	}
	for _, tc := range cases {
		got, err := PublicWebhookURL(tc.base, tc.path)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := PublicWebhookURL("://bad", "/telegram")
	assert.Error(t, err)
}

func TestBuildHTTPClientTimeout(t *testing.T) {
	assert.Equal(t, defaultClientTimeout, BuildHTTPClient(0).Timeout)
	assert.Equal(t, 3*time.Second, BuildHTTPClient(3*time.Second).Timeout)
}
