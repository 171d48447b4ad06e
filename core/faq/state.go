// Package faq holds the menu tree of the bot: the screens, their texts and
// keyboards, and the router that resolves a transition token to a screen.
// Everything here is pure and safe for concurrent use.
package faq

// State identifies a screen of the menu tree.
type State int

const (
	// Home is the welcome screen shown on /start.
	Home State = iota
	// Menu is the FAQ category selection.
	Menu
	// Shipping answers shipping questions.
	Shipping
	// Warranty answers warranty questions.
	Warranty
)

// Transition tokens carried by inline buttons. Matching is case-sensitive.
const (
	TransitionHome     = "home"
	TransitionMenu     = "menu"
	TransitionShipping = "shipping"
	TransitionWarranty = "warranty"
)

var transitions = map[string]State{
	TransitionHome:     Home,
	TransitionMenu:     Menu,
	TransitionShipping: Shipping,
	TransitionWarranty: Warranty,
}

// Resolve looks a token up in the closed transition table.
// Unknown and empty tokens resolve to Menu with ok=false.
func Resolve(token string) (State, bool) {
	if s, ok := transitions[token]; ok {
		return s, true
	}
	return Menu, false
}

// Transitions lists every recognised token.
func Transitions() []string {
	return []string{TransitionHome, TransitionMenu, TransitionShipping, TransitionWarranty}
}

// Token returns the transition token that leads to s.
func (s State) Token() string {
	switch s {
	case Home:
		return TransitionHome
	case Shipping:
		return TransitionShipping
	case Warranty:
		return TransitionWarranty
	default:
		return TransitionMenu
	}
}

func (s State) String() string {
	switch s {
	case Home:
		return "home"
	case Menu:
		return "faq_menu"
	case Shipping:
		return "faq_shipping"
	case Warranty:
		return "faq_warranty"
	default:
		return "unknown"
	}
}

// Request is one navigation step: the pressed token and who pressed it.
type Request struct {
	Transition  string
	DisplayName string
}

// Screen is a rendered state ready to be sent or edited in place.
type Screen struct {
	State    State
	Text     string
	Keyboard Keyboard
}
