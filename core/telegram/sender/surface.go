package sender

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/faqbot/core/faq"
	"github.com/m3rciful/faqbot/core/logger"
	tghelpers "github.com/m3rciful/faqbot/core/telegram/helpers"
	"github.com/m3rciful/faqbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Surface renders menu screens into the chat of one update.
// Every call is a single synchronous Bot API request; nothing is retried.
type Surface struct {
	c           tele.Context
	callbackKey string
}

// NewSurface binds a surface to c. Transition buttons are encoded under callbackKey.
func NewSurface(c tele.Context, callbackKey string) *Surface {
	return &Surface{c: c, callbackKey: callbackKey}
}

// Options returns the send options used for a screen: HTML, no link previews.
func Options(screen faq.Screen, callbackKey string) *tele.SendOptions {
	return &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
		ReplyMarkup:           keyboard.FromFAQ(screen.Keyboard, callbackKey),
	}
}

// SendNew posts the screen as a new message.
func (s *Surface) SendNew(screen faq.Screen) error {
	start := time.Now()
	err := s.c.Send(screen.Text, Options(screen, s.callbackKey))
	s.logResult("send.new", "sendMessage", screen, start, err)
	if err != nil {
		return fmt.Errorf("send %s: %w", screen.State, err)
	}
	return nil
}

// AttemptEdit replaces the callback's message with the screen. It returns an
// error matching ErrNoopEdit when the message already shows the screen.
func (s *Surface) AttemptEdit(screen faq.Screen) error {
	start := time.Now()
	err := s.c.Edit(screen.Text, Options(screen, s.callbackKey))
	if err != nil && IsNotModified(err) {
		logger.Debug(s.ctx(), "tg.sender", "edit.noop",
			slog.String("screen", screen.State.String()),
			slog.Duration("duration", logger.Took(start)),
		)
		return fmt.Errorf("edit %s: %w: %w", screen.State, ErrNoopEdit, err)
	}
	s.logResult("edit", "editMessageText", screen, start, err)
	if err != nil {
		return fmt.Errorf("edit %s: %w", screen.State, err)
	}
	return nil
}

// Acknowledge answers the pending callback query. Updates without a callback
// have nothing to answer.
func (s *Surface) Acknowledge(text string) error {
	if s.c.Callback() == nil {
		return nil
	}
	if err := s.c.Respond(&tele.CallbackResponse{Text: text}); err != nil {
		logger.Warn(s.ctx(), "tg.sender", "callback.answer.fail",
			slog.String("err", Redact(err)),
			slog.String("error_kind", ErrorKind(err)),
		)
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

func (s *Surface) ctx() context.Context {
	return tghelpers.BuildContext(s.c)
}

func (s *Surface) logResult(action, endpoint string, screen faq.Screen, start time.Time, err error) {
	attrs := []slog.Attr{
		slog.String("action", action),
		slog.String("endpoint", endpoint),
		slog.String("screen", screen.State.String()),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", Redact(err)),
			slog.String("error_kind", ErrorKind(err)),
		)
		logger.Error(s.ctx(), "tg.sender", "send.fail", attrs...)
		return
	}
	if logger.ShouldSampleDebug() {
		logger.Debug(s.ctx(), "tg.sender", "send.success", attrs...)
	}
}
