package faq

import (
	"fmt"
	"html"
	"strings"
)

// DefaultDisplayName replaces a missing first name.
const DefaultDisplayName = "amig@"

// SupportEmail is printed on the warranty screen.
const SupportEmail = "soporte@mundovapo.cl"

// Defaults used when a link is not configured.
const (
	DefaultChannelURL         = "https://t.me/+jS_YKiiHgcw3OTRh"
	DefaultGroupURL           = "https://t.me/+kL7eSPE27805ZGRh"
	DefaultRaffleRulesURL     = "https://www.mundovapo.cl"
	DefaultWarrantyFormURL    = "https://docs.google.com/forms/d/e/1FAIpQLSct9QIex5u95sdnaJdXDC4LeB-WBlcdhE7GXoUVh3YvTh_MlQ/viewform"
	DefaultSupportContactText = "+56 9 9324 5860"
	DefaultSupportContactURL  = "https://www.mundovapo.cl"
)

// Links are the external URLs and contact strings substituted into screens.
type Links struct {
	ChannelURL         string
	GroupURL           string
	RaffleRulesURL     string
	WarrantyFormURL    string
	SupportContactText string
	SupportContactURL  string
}

// WithDefaults fills empty fields.
func (l Links) WithDefaults() Links {
	fill := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}
	return Links{
		ChannelURL:         fill(l.ChannelURL, DefaultChannelURL),
		GroupURL:           fill(l.GroupURL, DefaultGroupURL),
		RaffleRulesURL:     fill(l.RaffleRulesURL, DefaultRaffleRulesURL),
		WarrantyFormURL:    fill(l.WarrantyFormURL, DefaultWarrantyFormURL),
		SupportContactText: fill(l.SupportContactText, DefaultSupportContactText),
		SupportContactURL:  fill(l.SupportContactURL, DefaultSupportContactURL),
	}
}

// Params are the interpolation inputs of Render.
type Params struct {
	DisplayName string
	Links       Links
}

const (
	menuText = "❓ <b>Preguntas frecuentes</b>\n\nSelecciona una categoría:"
	helpText = "Aquí tienes el menú 👇"

	welcomeTemplate = "👋 ¡Bienvenid@, %s!\n\n" +
		"Nos alegra mucho tenerte por aquí 🌿\n" +
		"En plataformas como Instagram es muy difícil mantener una cuenta dedicada a vaporizadores, " +
		"por eso decidimos crear esta comunidad exclusiva para quienes confían en nosotros 💚\n\n" +
		"📣 <b>En el canal</b> podrás estar al tanto de:\n" +
		"— Nuevos lanzamientos\n— Descuentos especiales\n— Sorteos mensuales\n— Y más\n\n" +
		"💬 <b>En el chat</b> puedes resolver dudas y participar en una comunidad respetuosa (+18, sin spam).\n\n" +
		"Gracias por tu compra 🤝 Ya estás participando en el sorteo mensual.\n" +
		"Revisa las bases y formulario en el enlace 👇"

	shippingTemplate = "✈️ <b>Envíos</b>\n\n" +
		"Envíos a todo Chile por courier. Despacho en máximo 48 h hábiles.\n" +
		"Al enviar, te llegará el tracking por correo.\n\n" +
		"📩 ¿No recibiste el tracking? Escríbenos por WhatsApp: %s"

	warrantyTemplate = "🛠️ <b>Garantías</b>\n\n" +
		"Cada artículo tiene garantía original del fabricante (ver descripción del producto).\n\n" +
		"No cubre daños por mal uso. Para evaluación, completa el formulario y espera respuesta (≤ 48 h hábiles):\n" +
		"🔗 <a href=\"%s\">Formulario de garantía</a>\n\n" +
		"📬 Soporte: <a href=\"mailto:%s\">%s</a> o WhatsApp: %s"
)

// Render returns the HTML text of a screen.
func Render(state State, p Params) string {
	links := p.Links.WithDefaults()
	switch state {
	case Home:
		return fmt.Sprintf(welcomeTemplate, DisplayName(p.DisplayName))
	case Shipping:
		return fmt.Sprintf(shippingTemplate, html.EscapeString(links.SupportContactText))
	case Warranty:
		return fmt.Sprintf(warrantyTemplate,
			html.EscapeString(links.WarrantyFormURL),
			SupportEmail, SupportEmail,
			html.EscapeString(links.SupportContactText),
		)
	default:
		return menuText
	}
}

// HelpText is the short prompt sent with the main keyboard on /help.
func HelpText() string {
	return helpText
}

// DisplayName trims and escapes a user name, falling back to the placeholder.
func DisplayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultDisplayName
	}
	return html.EscapeString(name)
}
