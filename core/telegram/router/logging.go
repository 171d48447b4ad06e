package router

import (
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/faqbot/core/logger"
	tghelpers "github.com/m3rciful/faqbot/core/telegram/helpers"
	"github.com/m3rciful/faqbot/core/telegram/middleware"
	"github.com/m3rciful/faqbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// OutcomeKey lets a handler report a finer outcome (for example "noop") for the summary line.
const OutcomeKey = "outcome"

func (d *Dispatcher) handleWithSummary(c tele.Context, kind, handlerName string, start time.Time, fn func() error, extras ...slog.Attr) error {
	tghelpers.WithHandler(c, handlerName)
	err := fn()
	d.logHandlerSummary(c, kind, handlerName, start, "", err, extras...)
	return err
}

func (d *Dispatcher) logHandlerSummary(c tele.Context, kind, handlerName string, start time.Time, statusOverride string, err error, extras ...slog.Attr) {
	ctx := tghelpers.WithHandler(c, handlerName)
	msgs, kb := middleware.GetCounters(c)

	status := statusOverride
	if status == "" {
		status = logger.Status(err)
	}
	outcome, _ := c.Get(OutcomeKey).(string)
	if outcome == "" {
		outcome = logger.Status(err)
	}

	took := logger.Took(start)
	d.metrics.RecordUpdate(kind, status)
	d.metrics.ObserveHandler(handlerName, time.Since(start))

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("kind", kind),
		slog.String("handler", handlerName),
		slog.String("outcome", outcome),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Duration("duration", took),
	}
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(sender.Redact(err), 256)),
			slog.String("error_kind", sender.ErrorKind(err)),
			slog.String("err_code", deriveErrorCode(err)),
			slog.String("cause", handlerName),
		)
	}
	attrs = append(attrs, extras...)
	logger.LogEvent(ctx, logger.TG, level, "handler.handled", attrs...)
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}

func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	type coder interface{ Code() string }
	if c, ok := err.(coder); ok {
		code := strings.TrimSpace(c.Code())
		if code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Name() != "" {
		return strings.ToUpper(strings.ReplaceAll(t.Name(), " ", "_"))
	}
	return "UNKNOWN_ERROR"
}
