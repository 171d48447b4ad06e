package router

import (
	"context"
	"errors"
	"time"

	"github.com/m3rciful/faqbot/core/metrics"
	tg "github.com/m3rciful/faqbot/core/telegram"
	"github.com/m3rciful/faqbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Update kinds used in logs and metrics.
const (
	KindCallback = "callback"
	KindCommand  = "command"
	KindText     = "text"
	KindOther    = "other"
)

// Options configures a Dispatcher.
type Options struct {
	Metrics *metrics.Metrics
	// NewContext builds a handler context for a raw update, usually bot.NewContext.
	NewContext func(tele.Update) tele.Context
}

// Dispatcher classifies updates and runs the matching registry handler inside
// the recover, logging and counters middleware. It is shared by the webhook
// server and the long poller.
type Dispatcher struct {
	reg     *tg.Registry
	metrics *metrics.Metrics
	newCtx  func(tele.Update) tele.Context
	handler tele.HandlerFunc
}

// NewDispatcher wires a dispatcher over reg.
func NewDispatcher(reg *tg.Registry, opts Options) *Dispatcher {
	if reg == nil {
		reg = tg.NewRegistry()
	}
	d := &Dispatcher{
		reg:     reg,
		metrics: opts.Metrics,
		newCtx:  opts.NewContext,
	}
	d.handler = middleware.RecoverMiddleware(
		middleware.LoggerMiddleware(
			middleware.MessageMetricsMiddleware(d.route),
		),
	)
	return d
}

// Handle processes one update context and returns the handler error.
func (d *Dispatcher) Handle(c tele.Context) error {
	return d.handler(c)
}

// Process builds a context for upd and handles it. Cancellation of ctx is not
// propagated into Bot API calls already in flight.
func (d *Dispatcher) Process(_ context.Context, upd tele.Update) error {
	if d.newCtx == nil {
		return errors.New("router: dispatcher has no context factory")
	}
	return d.Handle(d.newCtx(upd))
}

// Routes returns the telebot endpoints that feed the dispatcher in long-poll mode.
func (d *Dispatcher) Routes() []tg.Route {
	return []tg.Route{
		{Endpoint: tele.OnText, Handler: d.Handle},
		{Endpoint: tele.OnCallback, Handler: d.Handle},
	}
}

func (d *Dispatcher) route(c tele.Context) error {
	start := time.Now()
	switch {
	case c.Callback() != nil:
		return d.handleCallback(c, start)
	case c.Message() != nil:
		return d.handleMessage(c, start)
	default:
		d.logHandlerSummary(c, KindOther, "unsupported", start, "skip", nil)
		return nil
	}
}
