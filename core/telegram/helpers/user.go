package helpers

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// DisplayName returns the sender's first name, or "" when the update has no sender.
func DisplayName(c tele.Context) string {
	if c == nil {
		return ""
	}
	u := c.Sender()
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.FirstName)
}
