package menu

import (
	"fmt"

	"github.com/m3rciful/faqbot/core/faq"
	"github.com/m3rciful/faqbot/core/metrics"
	tg "github.com/m3rciful/faqbot/core/telegram"
	"github.com/m3rciful/faqbot/core/telegram/callbacks"
	"github.com/m3rciful/faqbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/faqbot/core/telegram/helpers"
	"github.com/m3rciful/faqbot/core/telegram/router"
	"github.com/m3rciful/faqbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// CallbackKey namespaces the FAQ transition buttons.
const CallbackKey = "faq"

// LegacyCallbacks maps the callback ids of the previous deployment onto
// transition tokens, so buttons in old chats keep working.
var LegacyCallbacks = map[string]string{
	"faq_home":      faq.TransitionHome,
	"faq_menu":      faq.TransitionMenu,
	"faq_envios":    faq.TransitionShipping,
	"faq_garantias": faq.TransitionWarranty,
}

// Handlers serves the menu commands and navigation callbacks.
type Handlers struct {
	router     *faq.Router
	metrics    *metrics.Metrics
	newSurface func(tele.Context) Surface
}

// New returns handlers rendering screens with r.
func New(r *faq.Router, m *metrics.Metrics) *Handlers {
	return &Handlers{
		router:  r,
		metrics: m,
		newSurface: func(c tele.Context) Surface {
			return sender.NewSurface(c, CallbackKey)
		},
	}
}

// Start sends the welcome screen.
func (h *Handlers) Start(c tele.Context) error {
	return h.newSurface(c).SendNew(h.router.Welcome(tghelpers.DisplayName(c)))
}

// Help sends the short help prompt with the main keyboard.
func (h *Handlers) Help(c tele.Context) error {
	return h.newSurface(c).SendNew(h.router.Help())
}

// FAQ sends the category menu as a new message.
func (h *Handlers) FAQ(c tele.Context) error {
	return h.newSurface(c).SendNew(h.router.Render(faq.Menu, tghelpers.DisplayName(c)))
}

// Navigate handles a transition button; the token is the callback payload.
func (h *Handlers) Navigate(c tele.Context) error {
	return h.navigate(c, callbacks.CallbackPayload(c))
}

// Fallback handles callbacks with an unknown key. They resolve to the FAQ menu.
func (h *Handlers) Fallback(c tele.Context) error {
	return h.navigate(c, "")
}

func (h *Handlers) legacy(token string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return h.navigate(c, token)
	}
}

func (h *Handlers) navigate(c tele.Context, token string) error {
	screen := h.router.Route(faq.Request{
		Transition:  token,
		DisplayName: tghelpers.DisplayName(c),
	})
	outcome, err := Present(h.newSurface(c), screen)
	c.Set(router.OutcomeKey, string(outcome))
	if outcome == OutcomeNoop {
		h.metrics.RecordNoopEdit()
	}
	return err
}

// Register installs the commands, the FAQ callback key, the legacy ids and
// the unknown-callback fallback.
func (h *Handlers) Register(reg *tg.Registry) error {
	cmds := []struct {
		name string
		cmd  commands.Command
	}{
		{"/start", commands.Command{Handler: h.Start, Description: "Bienvenida y enlaces"}},
		{"/help", commands.Command{Handler: h.Help, Description: "Mostrar el menú"}},
		{"/faq", commands.Command{Handler: h.FAQ, Description: "Preguntas frecuentes"}},
	}
	for _, c := range cmds {
		if err := reg.RegisterCommand(c.name, c.cmd); err != nil {
			return fmt.Errorf("menu: %w", err)
		}
	}
	if err := reg.RegisterCallback(CallbackKey, h.Navigate); err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	for id, token := range LegacyCallbacks {
		if err := reg.RegisterCallback(id, h.legacy(token)); err != nil {
			return fmt.Errorf("menu: %w", err)
		}
	}
	reg.SetCallbackNotFound(h.Fallback)
	return nil
}
