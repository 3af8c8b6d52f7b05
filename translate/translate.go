// Package translate renders user-visible text in the user's language.
//
// Every message is keyed by its en-US fmt format string, so an untranslated
// key still prints correctly.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// supported languages, fallback first.
var supported = []language.Tag{
	language.AmericanEnglish,
	language.German,
	language.French,
}

var (
	mutex   sync.RWMutex
	matcher = language.NewMatcher(supported)
	printer *message.Printer
)

func init() {
	for tag, entries := range catalog {
		for key, msg := range entries {
			err := message.SetString(tag, key, msg)
			if err != nil {
				log.Printf("translate: %v: %v", tag, err)
			}
		}
	}

	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("translate: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	var tags []language.Tag
	for _, name := range locales {
		tag, err := language.Parse(name)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}

	printer = message.NewPrinter(match(tags...))
}

// match returns the best supported language for the preferred tags.
func match(preferred ...language.Tag) language.Tag {
	_, index, _ := matcher.Match(preferred...)
	return supported[index]
}

// SetLanguage overrides the language picked from the user's locales.
func SetLanguage(name string) (err error) {
	tag, err := language.Parse(name)
	if err != nil {
		return
	}

	mutex.Lock()
	defer mutex.Unlock()

	printer = message.NewPrinter(match(tag))
	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	mutex.RLock()
	defer mutex.RUnlock()

	return printer.Sprintf(key, args...)
}
