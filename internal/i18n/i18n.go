// Package i18n resuelve el idioma de cada petición (bahasa Indonesia o
// inglés), traduce los mensajes de error/aviso y formatea montos en rupias.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	Indonesian = "id"
	English    = "en"
)

var (
	supported = []language.Tag{language.Indonesian, language.English}
	matcher   = language.NewMatcher(supported)
	messages  = catalog.NewBuilder(catalog.Fallback(language.Indonesian))
	known     = map[string]bool{}
)

func init() {
	for key, m := range catalogEntries {
		known[key] = true
		_ = messages.SetString(language.Indonesian, key, m.id)
		_ = messages.SetString(language.English, key, m.en)
	}
}

// Normalize reduce una etiqueta arbitraria a "id" o "en"; "" si no aplica
func Normalize(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	switch base.String() {
	case Indonesian, "in":
		return Indonesian
	case English:
		return English
	}
	return ""
}

// Negotiate elige el idioma: parámetro explícito, idioma guardado del
// usuario, Accept-Language y por último el valor por defecto.
func Negotiate(explicit, saved, acceptLanguage, fallback string) string {
	if loc := Normalize(explicit); loc != "" {
		return loc
	}
	if loc := Normalize(saved); loc != "" {
		return loc
	}
	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				return localeOf(supported[idx])
			}
		}
	}
	if loc := Normalize(fallback); loc != "" {
		return loc
	}
	return Indonesian
}

func localeOf(tag language.Tag) string {
	if tag == language.English {
		return English
	}
	return Indonesian
}

func tagOf(locale string) language.Tag {
	if locale == English {
		return language.English
	}
	return language.Indonesian
}

func printer(locale string) *message.Printer {
	return message.NewPrinter(tagOf(locale), message.Catalog(messages))
}

// T traduce la clave al idioma pedido; claves desconocidas se devuelven tal cual
func T(locale, key string, args ...interface{}) string {
	if !known[key] {
		return key
	}
	return printer(locale).Sprintf(key, args...)
}

// FormatIDR formatea un monto en rupias con la agrupación del idioma:
// "Rp 1.250.000" en bahasa Indonesia, "IDR 1,250,000" en inglés.
func FormatIDR(amount int64, locale string) string {
	p := message.NewPrinter(tagOf(locale))
	if locale == English {
		return p.Sprintf("IDR %d", amount)
	}
	return p.Sprintf("Rp %d", amount)
}
