// Package translate formats user visible messages for the current locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// DefaultLocale is used when the host reports no locale.
const DefaultLocale = "en-US"

var printer *message.Printer

func init() {
	SetLocales(hostLocales()...)
}

// hostLocales returns the locales of the host, falling back to DefaultLocale.
func hostLocales() []string {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("ledrom: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{DefaultLocale}
	}

	return locales
}

// SetLocales selects the closest matching language for message output.
func SetLocales(locales ...string) {
	if len(locales) == 0 {
		locales = []string{DefaultLocale}
	}
	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
