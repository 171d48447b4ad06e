package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/faqbot/core/faq"
)

func TestFromFAQHome(t *testing.T) {
	links := faq.Links{}.WithDefaults()
	markup := FromFAQ(faq.BuildKeyboard(faq.Home, links), "faq")

	require.Len(t, markup.InlineKeyboard, 4)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, links.ChannelURL, markup.InlineKeyboard[0][0].URL)
	assert.Empty(t, markup.InlineKeyboard[0][0].Data)

	faqBtn := markup.InlineKeyboard[2][0]
	assert.Equal(t, faq.LabelFAQ, faqBtn.Text)
	assert.Equal(t, "\ffaq|menu", faqBtn.Data)
	assert.Empty(t, faqBtn.URL)
}

func TestFromFAQMenu(t *testing.T) {
	markup := FromFAQ(faq.BuildKeyboard(faq.Menu, faq.Links{}), "faq")

	var data []string
	for _, row := range markup.InlineKeyboard {
		for _, b := range row {
			data = append(data, b.Data)
		}
	}
	assert.Equal(t, []string{"\ffaq|shipping", "\ffaq|warranty", "\ffaq|home"}, data)
}

func TestInlineButtonsRowsEmpty(t *testing.T) {
	markup := InlineButtonsRows()
	assert.Empty(t, markup.InlineKeyboard)
}
