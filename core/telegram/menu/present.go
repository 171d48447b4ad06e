// Package menu connects the FAQ router to Telegram: command and callback
// handlers plus the edit-or-acknowledge policy for callback navigation.
package menu

import (
	"errors"

	"github.com/m3rciful/faqbot/core/faq"
	"github.com/m3rciful/faqbot/core/telegram/sender"
)

// AlreadyHereText is the toast shown when a button leads to the current screen.
const AlreadyHereText = "Ya estás en este menú."

// Surface is the transport capability a screen is presented on.
type Surface interface {
	SendNew(screen faq.Screen) error
	// AttemptEdit returns an error matching sender.ErrNoopEdit when nothing changed.
	AttemptEdit(screen faq.Screen) error
	Acknowledge(text string) error
}

// Outcome of presenting a screen.
type Outcome string

const (
	OutcomeEdited Outcome = "ok"
	OutcomeNoop   Outcome = "noop"
	OutcomeFailed Outcome = "fail"
)

// Present edits the callback message into screen and answers the callback
// exactly once. A no-op edit is answered with AlreadyHereText and is not an
// error. Any other edit failure is answered silently and returned.
func Present(s Surface, screen faq.Screen) (Outcome, error) {
	err := s.AttemptEdit(screen)
	switch {
	case err == nil:
		return OutcomeEdited, s.Acknowledge("")
	case errors.Is(err, sender.ErrNoopEdit):
		return OutcomeNoop, s.Acknowledge(AlreadyHereText)
	default:
		// the edit error matters more than a failed answer
		_ = s.Acknowledge("")
		return OutcomeFailed, err
	}
}
