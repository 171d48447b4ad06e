package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestEncodeRoundTrip(t *testing.T) {
	data := Encode("faq", "shipping")
	assert.Equal(t, "\ffaq|shipping", data)

	key, payload := ParseCallbackData(data)
	assert.Equal(t, "faq", key)
	assert.Equal(t, "shipping", payload)
}

func TestEncodeWithoutPayload(t *testing.T) {
	assert.Equal(t, "\ffaq", Encode("faq", ""))
}

func TestParseLegacyData(t *testing.T) {
	key, payload := Parse(&tele.Callback{Data: "faq_envios"})
	assert.Equal(t, "faq_envios", key)
	assert.Empty(t, payload)
}

func TestParsePrefersUnique(t *testing.T) {
	key, payload := Parse(&tele.Callback{Unique: "faq", Data: "menu"})
	assert.Equal(t, "faq", key)
	assert.Equal(t, "menu", payload)
}

func TestParseKeepsPipesInPayload(t *testing.T) {
	key, payload := ParseCallbackData("\fk|a|b")
	assert.Equal(t, "k", key)
	assert.Equal(t, "a|b", payload)
}

func TestParseNil(t *testing.T) {
	key, payload := Parse(nil)
	assert.Empty(t, key)
	assert.Empty(t, payload)
}
