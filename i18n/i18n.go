package i18n

import (
	"log"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"
)

var lang string

var translations = map[string]map[string]string{
	"Mouse Distance Tracker": {
		"it": "Contachilometri del mouse",
	},
	"You have travelled:": {
		"it": "Hai percorso:",
	},
	"Reset counter": {
		"it": "Azzera contatore",
	},
	"Are you sure?": {
		"it": "Sei sicuro?",
	},
	"Do you really want to reset the counter?": {
		"it": "Vuoi davvero azzerare il contatore?",
	},
	"Cancel": {
		"it": "Annulla",
	},
	"Yes, reset": {
		"it": "Sì, azzera",
	},
	"Show": {
		"it": "Mostra",
	},
	"Reset": {
		"it": "Azzera",
	},
	"Quit": {
		"it": "Esci",
	},
}

func init() {
	SetLang(detect())
}

func detect() string {
	if forcedLang := strings.TrimSpace(os.Getenv("MOUSEKM_LANG")); forcedLang != "" {
		log.Printf("MOUSEKM_LANG is set to: '%s'", forcedLang)
		return forcedLang
	}

	userLocales, err := locale.GetLocales()
	if err != nil || len(userLocales) == 0 {
		log.Println("Could not get user locale, defaulting to english")
		return "en"
	}

	log.Printf("Detected user locale: %s", userLocales[0])
	return userLocales[0]
}

// SetLang selects the language by locale prefix; anything unknown is English.
func SetLang(l string) {
	if strings.HasPrefix(strings.ToLower(l), "it") {
		lang = "it"
	} else {
		lang = "en"
	}
}

func T(key string) string {
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}

func GetLang() string {
	return lang
}
