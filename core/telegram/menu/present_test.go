package menu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/faqbot/core/faq"
	"github.com/m3rciful/faqbot/core/telegram/sender"
)

type fakeSurface struct {
	editErr error
	ackErr  error
	edits   []faq.Screen
	sent    []faq.Screen
	acks    []string
}

func (f *fakeSurface) SendNew(s faq.Screen) error {
	f.sent = append(f.sent, s)
	return nil
}

func (f *fakeSurface) AttemptEdit(s faq.Screen) error {
	f.edits = append(f.edits, s)
	return f.editErr
}

func (f *fakeSurface) Acknowledge(text string) error {
	f.acks = append(f.acks, text)
	return f.ackErr
}

func screen() faq.Screen {
	return faq.NewRouter(faq.Links{}).Render(faq.Shipping, "Ana")
}

func TestPresentEdited(t *testing.T) {
	s := &fakeSurface{}

	outcome, err := Present(s, screen())

	require.NoError(t, err)
	assert.Equal(t, OutcomeEdited, outcome)
	assert.Len(t, s.edits, 1)
	assert.Equal(t, []string{""}, s.acks)
}

func TestPresentNoopIsAcknowledged(t *testing.T) {
	s := &fakeSurface{editErr: fmt.Errorf("edit faq_shipping: %w", sender.ErrNoopEdit)}

	outcome, err := Present(s, screen())

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, outcome)
	assert.Equal(t, []string{AlreadyHereText}, s.acks)
	assert.Empty(t, s.sent)
}

func TestPresentOtherFailurePropagates(t *testing.T) {
	boom := errors.New("bad request: message to edit not found")
	s := &fakeSurface{editErr: boom}

	outcome, err := Present(s, screen())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, OutcomeFailed, outcome)
	assert.Equal(t, []string{""}, s.acks, "callback answered once, silently")
}

func TestPresentAckFailureSurfaces(t *testing.T) {
	ackErr := errors.New("query is too old")
	s := &fakeSurface{ackErr: ackErr}

	outcome, err := Present(s, screen())

	assert.ErrorIs(t, err, ackErr)
	assert.Equal(t, OutcomeEdited, outcome)
}
