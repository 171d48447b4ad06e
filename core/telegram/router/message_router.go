package router

import (
	"time"

	tg "github.com/m3rciful/faqbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// handleMessage runs a registered command, then the text fallback; anything
// else is skipped.
func (d *Dispatcher) handleMessage(c tele.Context, start time.Time) error {
	text := c.Text()

	if tg.CommandName(text) != "" {
		if key, cmd, ok := d.reg.LookupCommand(text); ok && cmd.Handler != nil {
			name := normalizeHandlerName(key)
			return d.handleWithSummary(c, KindCommand, name, start, func() error {
				return cmd.Handler(c)
			})
		}
	}

	if fb := d.reg.TextFallback(); fb != nil {
		return d.handleWithSummary(c, KindText, "fallback", start, func() error {
			return fb(c)
		})
	}

	d.logHandlerSummary(c, KindText, "unknown_text", start, "skip", nil)
	return nil
}
