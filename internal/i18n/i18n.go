package i18n

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/wakelyai/webchat/internal/storage"
)

// Language is a supported UI language code.
type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

// DefaultLanguage is Arabic: the widget ships to the Saudi market first.
const DefaultLanguage = Arabic

var supported = []Language{English, Arabic}

var currencies = map[Language]string{
	English: "SAR",
	Arabic:  "ر.س",
}

// Supported reports whether lang is one of the supported language codes.
func Supported(lang Language) bool {
	for _, l := range supported {
		if l == lang {
			return true
		}
	}
	return false
}

// Resolve picks the session language: an explicitly stored choice wins, then
// a prefix match on the browser locale, then the configured default.
func Resolve(store storage.Store, browserLocale string) Language {
	if store != nil {
		if saved, ok := store.Get(storage.KeyLanguage); ok && Supported(Language(saved)) {
			return Language(saved)
		}
	}
	for _, l := range supported {
		if strings.HasPrefix(browserLocale, string(l)) {
			return l
		}
	}
	return DefaultLanguage
}

// Translator resolves user-facing text for one session. All lookups are
// against the current language table; a missing key is logged and returned
// verbatim so rendering never fails outright.
type Translator struct {
	mu        sync.RWMutex
	current   Language
	store     storage.Store
	logger    apt.Logger
	listeners []func(Language)
}

// NewTranslator builds a Translator with the language resolved from the
// session store and browser locale.
func NewTranslator(store storage.Store, browserLocale string, logger apt.Logger) *Translator {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Translator{
		current: Resolve(store, browserLocale),
		store:   store,
		logger:  logger,
	}
}

// Current returns the active language.
func (t *Translator) Current() Language {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// IsRTL reports whether the active language renders right-to-left.
func (t *Translator) IsRTL() bool {
	return t.Current() == Arabic
}

// SetLanguage switches the active language, persists the choice and notifies
// listeners. Unsupported codes are rejected without changing state.
func (t *Translator) SetLanguage(lang Language) {
	if !Supported(lang) {
		t.logger.Errorf("Unsupported language: %s", lang)
		return
	}

	t.mu.Lock()
	t.current = lang
	listeners := make([]func(Language), len(t.listeners))
	copy(listeners, t.listeners)
	t.mu.Unlock()

	if t.store != nil {
		t.store.Set(storage.KeyLanguage, string(lang))
	}
	for _, fn := range listeners {
		fn(lang)
	}
}

// OnChange registers a callback invoked after every successful language
// switch.
func (t *Translator) OnChange(fn func(Language)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// T returns the translation for key in the current language. Parameterized
// entries are interpolated with args. A missing key is non-fatal: it is
// logged and the raw key returned.
func (t *Translator) T(key string, args ...any) string {
	lang := t.Current()
	entry, ok := tables[lang][key]
	if !ok {
		t.logger.Infof("Missing translation for key: %s (%s)", key, lang)
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(entry, args...)
	}
	return entry
}

// FormatPrice renders an amount with the currency token of the current
// language.
func (t *Translator) FormatPrice(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64) + " " + currencies[t.Current()]
}

// Pick selects the Arabic variant of a bilingual field when the current
// language is Arabic and the variant is non-empty, else the base value.
func (t *Translator) Pick(base, arabic string) string {
	if t.Current() == Arabic && arabic != "" {
		return arabic
	}
	return base
}
