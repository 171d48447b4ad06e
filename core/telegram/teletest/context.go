// Package teletest provides a recording tele.Context for handler tests.
package teletest

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Message is one recorded Send or Edit call.
type Message struct {
	Text    string
	Options *tele.SendOptions
}

// Context implements the parts of tele.Context the bot uses. Calling any
// other method panics on the nil embedded interface.
type Context struct {
	tele.Context

	Upd tele.Update

	SendErr    error
	EditErr    error
	RespondErr error

	mu        sync.Mutex
	store     map[string]any
	sent      []Message
	edited    []Message
	responses []*tele.CallbackResponse
}

// User returns a test user.
func User(id int64, firstName string) *tele.User {
	return &tele.User{ID: id, FirstName: firstName, Username: "user" + firstName, LanguageCode: "es"}
}

// NewMessage builds a private-chat text message update.
func NewMessage(updateID int, text string, from *tele.User) *Context {
	chat := chatOf(from)
	return &Context{Upd: tele.Update{
		ID:      updateID,
		Message: &tele.Message{ID: 100 + updateID, Sender: from, Chat: chat, Text: text},
	}}
}

// NewCallback builds a callback query update attached to a bot message.
func NewCallback(updateID int, data string, from *tele.User) *Context {
	chat := chatOf(from)
	return &Context{Upd: tele.Update{
		ID: updateID,
		Callback: &tele.Callback{
			ID:      "cb-1",
			Sender:  from,
			Data:    data,
			Message: &tele.Message{ID: 7, Chat: chat},
		},
	}}
}

func chatOf(u *tele.User) *tele.Chat {
	if u == nil {
		return &tele.Chat{ID: 1, Type: tele.ChatPrivate}
	}
	return &tele.Chat{ID: u.ID, Type: tele.ChatPrivate}
}

func (c *Context) Update() tele.Update { return c.Upd }

func (c *Context) Message() *tele.Message {
	switch {
	case c.Upd.Message != nil:
		return c.Upd.Message
	case c.Upd.Callback != nil:
		return c.Upd.Callback.Message
	}
	return nil
}

func (c *Context) Callback() *tele.Callback { return c.Upd.Callback }

func (c *Context) Sender() *tele.User {
	switch {
	case c.Upd.Callback != nil:
		return c.Upd.Callback.Sender
	case c.Upd.Message != nil:
		return c.Upd.Message.Sender
	}
	return nil
}

func (c *Context) Chat() *tele.Chat {
	if m := c.Message(); m != nil {
		return m.Chat
	}
	return nil
}

func (c *Context) Text() string {
	if m := c.Upd.Message; m != nil {
		return m.Text
	}
	return ""
}

func (c *Context) Get(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key]
}

func (c *Context) Set(key string, val interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = val
}

func (c *Context) Send(what interface{}, opts ...interface{}) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, record(what, opts))
	return nil
}

func (c *Context) Edit(what interface{}, opts ...interface{}) error {
	if c.EditErr != nil {
		return c.EditErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edited = append(c.edited, record(what, opts))
	return nil
}

func (c *Context) Respond(resp ...*tele.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := &tele.CallbackResponse{}
	if len(resp) > 0 && resp[0] != nil {
		r = resp[0]
	}
	c.responses = append(c.responses, r)
	return c.RespondErr
}

// Sent returns the recorded Send calls.
func (c *Context) Sent() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.sent...)
}

// Edited returns the recorded successful Edit calls.
func (c *Context) Edited() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.edited...)
}

// Responses returns every callback answer, including failed ones.
func (c *Context) Responses() []*tele.CallbackResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*tele.CallbackResponse(nil), c.responses...)
}

func record(what interface{}, opts []interface{}) Message {
	m := Message{}
	if s, ok := what.(string); ok {
		m.Text = s
	}
	for _, o := range opts {
		if so, ok := o.(*tele.SendOptions); ok {
			m.Options = so
		}
	}
	return m
}
