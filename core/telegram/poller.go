package telegram

import (
	"net/url"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

const defaultLongPollTimeout = 10 * time.Second

// AllowedUpdates are the update types the bot subscribes to.
var AllowedUpdates = []string{"message", "callback_query"}

// BuildPoller returns the long poller used in longpoll run mode.
func BuildPoller(timeoutSeconds int) *tele.LongPoller {
	timeout := defaultLongPollTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &tele.LongPoller{Timeout: timeout, AllowedUpdates: AllowedUpdates}
}

// PublicWebhookURL joins the public base URL with the webhook path unless
// the URL already names a path.
func PublicWebhookURL(base, path string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", err
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = path
	}
	return u.String(), nil
}
