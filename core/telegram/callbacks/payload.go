package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Prefix marks callback data produced by Encode. Telebot uses the same
// \f<unique>|<payload> layout for its own buttons.
const Prefix = "\f"

// Encode builds callback data for a key and optional payload.
func Encode(key, payload string) string {
	if payload == "" {
		return Prefix + key
	}
	return Prefix + key + "|" + payload
}

// ParseCallbackData splits raw callback data into key and payload.
// Data without the prefix is treated as a bare key, which is how buttons of
// the previous deployment arrive.
func ParseCallbackData(data string) (string, string) {
	raw := strings.TrimPrefix(data, Prefix)
	key, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(key), payload
}

// Parse returns key and payload of a callback. Telebot fills Unique and
// strips Data when it matched the key itself; otherwise Data is raw.
func Parse(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	return ParseCallbackData(cb.Data)
}

// CallbackKey returns the key of the current callback.
func CallbackKey(c tele.Context) string {
	k, _ := Parse(c.Callback())
	return k
}

// CallbackPayload returns the payload of the current callback.
func CallbackPayload(c tele.Context) string {
	_, p := Parse(c.Callback())
	return p
}
