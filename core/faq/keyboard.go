package faq

// Button is either an external link (URL set) or a transition (Transition set).
type Button struct {
	Label      string
	URL        string
	Transition string
}

// IsLink reports whether pressing the button opens a URL.
func (b Button) IsLink() bool { return b.URL != "" }

// Keyboard is an ordered list of button rows.
type Keyboard [][]Button

// Transitions returns the tokens of all transition buttons in layout order.
func (k Keyboard) Transitions() []string {
	var out []string
	for _, row := range k {
		for _, b := range row {
			if !b.IsLink() {
				out = append(out, b.Transition)
			}
		}
	}
	return out
}

// Button labels.
const (
	LabelChannel  = "📣 Canal"
	LabelChat     = "💬 Chat"
	LabelRaffle   = "📋 Bases del sorteo"
	LabelFAQ      = "❓ Preguntas frecuentes"
	LabelSupport  = "🟢📱 Atención por WhatsApp"
	LabelShipping = "🚚 Envíos"
	LabelWarranty = "🛠️ Garantías"
	LabelBackHome = "⬅️ Volver al inicio"
)

// BuildKeyboard returns the layout attached to a screen. Every FAQ screen
// shares the category keyboard.
func BuildKeyboard(state State, links Links) Keyboard {
	if state == Home {
		links = links.WithDefaults()
		return Keyboard{
			{{Label: LabelChannel, URL: links.ChannelURL}, {Label: LabelChat, URL: links.GroupURL}},
			{{Label: LabelRaffle, URL: links.RaffleRulesURL}},
			{{Label: LabelFAQ, Transition: TransitionMenu}},
			{{Label: LabelSupport, URL: links.SupportContactURL}},
		}
	}
	return Keyboard{
		{{Label: LabelShipping, Transition: TransitionShipping}},
		{{Label: LabelWarranty, Transition: TransitionWarranty}},
		{{Label: LabelBackHome, Transition: TransitionHome}},
	}
}
