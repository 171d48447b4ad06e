package faq

// Router resolves navigation requests to screens. It keeps no per-request
// state, so one value serves every update concurrently.
type Router struct {
	links Links
}

// NewRouter returns a router bound to the given links. Empty links fall back to defaults.
func NewRouter(links Links) *Router {
	return &Router{links: links.WithDefaults()}
}

// Links returns the effective link set.
func (r *Router) Links() Links { return r.links }

// Route resolves the request token and renders the resulting screen.
// Unknown or empty tokens land on the FAQ menu.
func (r *Router) Route(req Request) Screen {
	state, _ := Resolve(req.Transition)
	return r.Render(state, req.DisplayName)
}

// Render renders a state for the given display name.
func (r *Router) Render(state State, displayName string) Screen {
	return Screen{
		State:    state,
		Text:     Render(state, Params{DisplayName: displayName, Links: r.links}),
		Keyboard: BuildKeyboard(state, r.links),
	}
}

// Welcome is the entry screen of a fresh conversation.
func (r *Router) Welcome(displayName string) Screen {
	return r.Render(Home, displayName)
}

// Help pairs the help prompt with the main keyboard.
func (r *Router) Help() Screen {
	return Screen{
		State:    Home,
		Text:     HelpText(),
		Keyboard: BuildKeyboard(Home, r.links),
	}
}
