package keyboard

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/faqbot/core/faq"
	"github.com/m3rciful/faqbot/core/telegram/callbacks"
)

// InlineBtn describes one inline button: either a URL or callback data.
type InlineBtn struct {
	Text string
	URL  string
	Data string
}

// InlineButtonsRows builds an inline keyboard from rows of InlineBtn.
// Data is sent verbatim, so buttons never rely on telebot's Unique rewriting.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tele.InlineButton, 0, len(row))
		for _, btn := range row {
			ib := tele.InlineButton{Text: btn.Text}
			if btn.URL != "" {
				ib.URL = btn.URL
			} else {
				ib.Data = btn.Data
			}
			r = append(r, ib)
		}
		inline = append(inline, r)
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}

// FromFAQ converts a menu keyboard; transition buttons carry callbackKey with
// the transition token as payload.
func FromFAQ(kb faq.Keyboard, callbackKey string) *tele.ReplyMarkup {
	rows := make([][]InlineBtn, 0, len(kb))
	for _, row := range kb {
		r := make([]InlineBtn, 0, len(row))
		for _, b := range row {
			if b.IsLink() {
				r = append(r, InlineBtn{Text: b.Label, URL: b.URL})
				continue
			}
			r = append(r, InlineBtn{Text: b.Label, Data: callbacks.Encode(callbackKey, b.Transition)})
		}
		rows = append(rows, r)
	}
	return InlineButtonsRows(rows...)
}
