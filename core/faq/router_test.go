package faq

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter() *Router {
	return NewRouter(Links{
		ChannelURL:         "https://t.me/channel",
		GroupURL:           "https://t.me/group",
		RaffleRulesURL:     "https://example.cl/sorteo",
		WarrantyFormURL:    "https://forms.example/garantia",
		SupportContactText: "+56 9 1111 2222",
		SupportContactURL:  "https://wa.me/56911112222",
	})
}

func TestRouteRecognisedTransitions(t *testing.T) {
	r := testRouter()
	cases := map[string]State{
		"home":     Home,
		"menu":     Menu,
		"shipping": Shipping,
		"warranty": Warranty,
	}
	for token, want := range cases {
		t.Run(token, func(t *testing.T) {
			assert.Equal(t, want, r.Route(Request{Transition: token, DisplayName: "Ana"}).State)
		})
	}
}

func TestRouteUnknownFallsBackToMenu(t *testing.T) {
	r := testRouter()
	for _, token := range []string{"", "HOME", "faq_envios", "shipping ", "🤔"} {
		screen := r.Route(Request{Transition: token, DisplayName: "Ana"})
		assert.Equal(t, Menu, screen.State, "token %q", token)
	}
}

func TestResolveReportsRecognition(t *testing.T) {
	s, ok := Resolve("warranty")
	assert.True(t, ok)
	assert.Equal(t, Warranty, s)

	s, ok = Resolve("nope")
	assert.False(t, ok)
	assert.Equal(t, Menu, s)

	for _, st := range []State{Home, Menu, Shipping, Warranty} {
		got, ok := Resolve(st.Token())
		require.True(t, ok)
		assert.Equal(t, st, got)
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	r := testRouter()
	for _, token := range append(Transitions(), "junk") {
		req := Request{Transition: token, DisplayName: "Ana"}
		assert.Equal(t, r.Route(req), r.Route(req))
	}
}

func TestRouteConcurrentUse(t *testing.T) {
	r := testRouter()
	want := r.Route(Request{Transition: "warranty", DisplayName: "Ana"})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, r.Route(Request{Transition: "warranty", DisplayName: "Ana"}))
		}()
	}
	wg.Wait()
}

func TestWelcomeInterpolatesName(t *testing.T) {
	r := testRouter()

	home := r.Route(Request{Transition: "home", DisplayName: "Ana"})
	assert.Contains(t, home.Text, "¡Bienvenid@, Ana!")

	anon := r.Route(Request{Transition: "home"})
	assert.Contains(t, anon.Text, "¡Bienvenid@, "+DefaultDisplayName+"!")
	assert.NotContains(t, anon.Text, "Bienvenid@, !")

	blank := r.Welcome("   ")
	assert.Equal(t, anon.Text, blank.Text)
	assert.Equal(t, Home, blank.State)
}

func TestWelcomeEscapesName(t *testing.T) {
	screen := testRouter().Welcome("<b>Eve</b> & co")
	assert.Contains(t, screen.Text, "&lt;b&gt;Eve&lt;/b&gt; &amp; co")
	assert.NotContains(t, screen.Text, "<b>Eve</b>")
}

func TestMenuScreen(t *testing.T) {
	screen := testRouter().Route(Request{Transition: "menu", DisplayName: "Ana"})

	assert.True(t, strings.HasPrefix(screen.Text, "❓ <b>Preguntas frecuentes</b>"))
	assert.Equal(t, []string{"shipping", "warranty", "home"}, screen.Keyboard.Transitions())
	for _, row := range screen.Keyboard {
		require.Len(t, row, 1)
		assert.False(t, row[0].IsLink())
	}
}

func TestShippingScreen(t *testing.T) {
	r := testRouter()
	screen := r.Route(Request{Transition: "shipping", DisplayName: "Ana"})

	assert.Contains(t, screen.Text, "+56 9 1111 2222")
	assert.Contains(t, screen.Text, "Despacho en máximo 48 h hábiles")
	assert.Equal(t, r.Route(Request{Transition: "menu"}).Keyboard, screen.Keyboard)
}

func TestWarrantyScreen(t *testing.T) {
	screen := testRouter().Route(Request{Transition: "warranty"})

	assert.Contains(t, screen.Text, `<a href="https://forms.example/garantia">Formulario de garantía</a>`)
	assert.Contains(t, screen.Text, "+56 9 1111 2222")
	assert.Contains(t, screen.Text, "mailto:"+SupportEmail)
}

func TestHomeKeyboardLayout(t *testing.T) {
	kb := BuildKeyboard(Home, testRouter().Links())

	require.Len(t, kb, 4)
	require.Len(t, kb[0], 2)
	assert.Equal(t, "https://t.me/channel", kb[0][0].URL)
	assert.Equal(t, "https://t.me/group", kb[0][1].URL)
	assert.Equal(t, "https://example.cl/sorteo", kb[1][0].URL)
	assert.Equal(t, TransitionMenu, kb[2][0].Transition)
	assert.Equal(t, "https://wa.me/56911112222", kb[3][0].URL)
}

func TestKeyboardTransitionsAreRoutable(t *testing.T) {
	for _, state := range []State{Home, Menu, Shipping, Warranty} {
		for _, token := range BuildKeyboard(state, Links{}).Transitions() {
			_, ok := Resolve(token)
			assert.True(t, ok, "state %s emits unknown token %q", state, token)
		}
	}
}

func TestEmptyLinksUseDefaults(t *testing.T) {
	r := NewRouter(Links{})
	assert.Equal(t, DefaultChannelURL, r.Links().ChannelURL)

	shipping := r.Render(Shipping, "")
	assert.Contains(t, shipping.Text, DefaultSupportContactText)

	kb := BuildKeyboard(Home, Links{})
	assert.Equal(t, DefaultSupportContactURL, kb[3][0].URL)
}

func TestHelpScreen(t *testing.T) {
	r := testRouter()
	help := r.Help()
	assert.Equal(t, HelpText(), help.Text)
	assert.Equal(t, BuildKeyboard(Home, r.Links()), help.Keyboard)
}
