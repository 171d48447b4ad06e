package router

import (
	"log/slog"
	"time"

	"github.com/m3rciful/faqbot/core/logger"
	"github.com/m3rciful/faqbot/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// handleCallback routes a callback through the registry. The callback is not
// answered here; the handler owns the single answer.
func (d *Dispatcher) handleCallback(c tele.Context, start time.Time) error {
	key, payload := callbacks.Parse(c.Callback())
	name := "callback." + normalizeHandlerName(key)
	extras := []slog.Attr{slog.String("cb_key", logger.SanitizeLimit(key, 128))}
	if payload != "" {
		extras = append(extras, slog.String("payload", logger.SanitizeLimit(payload, 64)))
	}

	cbHandler, ok := d.reg.GetCallback(key)
	if !ok || cbHandler == nil {
		fallback := d.reg.CallbackNotFound()
		extras = append(extras, slog.String("reason", "not_found"))
		return d.handleWithSummary(c, KindCallback, name, start, func() error {
			if fallback != nil {
				return fallback(c)
			}
			return c.Respond()
		}, extras...)
	}

	return d.handleWithSummary(c, KindCallback, name, start, func() error {
		return cbHandler(c)
	}, extras...)
}
