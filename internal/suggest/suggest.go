package suggest

import (
	"github.com/wakelyai/webchat/internal/i18n"
	"github.com/wakelyai/webchat/internal/org"
	"github.com/wakelyai/webchat/internal/storage"
)

// Default quick-reply templates by business type. Organizations without an
// explicit chat configuration fall back to the table matching their business
// type, then to the generic set.
var defaults = map[string][]org.SuggestionChip{
	"restaurant": {
		{Icon: "🛒", TextEN: "I'd like to order", TextAR: "أبي أطلب"},
		{Icon: "📋", TextEN: "Show me the menu", TextAR: "وريني المنيو"},
		{Icon: "⏰", TextEN: "Are you open now?", TextAR: "مفتوحين الحين؟"},
		{Icon: "📍", TextEN: "Where are you located?", TextAR: "وين موقعكم؟"},
	},
	"hotel": {
		{Icon: "🛏️", TextEN: "Book a room", TextAR: "أبي أحجز غرفة"},
		{Icon: "💰", TextEN: "Room types & prices", TextAR: "أنواع الغرف والأسعار"},
		{Icon: "⏰", TextEN: "Check-in/out times", TextAR: "أوقات الدخول والخروج"},
		{Icon: "🏊", TextEN: "Hotel amenities", TextAR: "مرافق الفندق"},
	},
	"spa": {
		{Icon: "📅", TextEN: "Book an appointment", TextAR: "أبي أحجز موعد"},
		{Icon: "💆", TextEN: "Services & prices", TextAR: "الخدمات والأسعار"},
		{Icon: "⏰", TextEN: "Working hours", TextAR: "أوقات العمل"},
		{Icon: "📍", TextEN: "Your location", TextAR: "موقعكم"},
	},
	"default": {
		{Icon: "💬", TextEN: "I have a question", TextAR: "عندي سؤال"},
		{Icon: "⏰", TextEN: "Working hours", TextAR: "أوقات العمل"},
		{Icon: "📍", TextEN: "Your location", TextAR: "موقعكم"},
		{Icon: "📞", TextEN: "Contact info", TextAR: "معلومات التواصل"},
	},
}

// Resolve picks the suggestion chips for an organization. Precedence: chips
// explicitly enabled in the org config, an explicit opt-out (nil result,
// suppressing defaults), the business-type default table, the generic table.
func Resolve(organization *org.Organization) []org.SuggestionChip {
	if organization == nil {
		return defaults["default"]
	}

	if cfg := suggestionsConfig(organization); cfg != nil && cfg.Enabled != nil {
		if !*cfg.Enabled {
			return nil
		}
		if len(cfg.Chips) > 0 {
			return cfg.Chips
		}
	}

	// An organization without a business type is a restaurant; the generic
	// table is only for types the table does not know.
	businessType := organization.BusinessType
	if businessType == "" {
		businessType = "restaurant"
	}
	if chips, ok := defaults[businessType]; ok {
		return chips
	}
	return defaults["default"]
}

func suggestionsConfig(organization *org.Organization) *org.SuggestionsConfig {
	if organization.ChatConfig == nil {
		return nil
	}
	return organization.ChatConfig.Suggestions
}

// Engine tracks the per-session suggestion state. Dismissal is sticky for
// the whole session: the flag is checked, never the chip content.
type Engine struct {
	chips []org.SuggestionChip
	store storage.Store
}

func NewEngine(organization *org.Organization, store storage.Store) *Engine {
	return &Engine{
		chips: Resolve(organization),
		store: store,
	}
}

// Chips returns the resolved chip set, which may be nil when the
// organization opted out.
func (e *Engine) Chips() []org.SuggestionChip {
	return e.chips
}

// ShouldShow reports whether the chips should be rendered: there must be
// chips and the session must not have dismissed them.
func (e *Engine) ShouldShow() bool {
	if len(e.chips) == 0 {
		return false
	}
	if e.store == nil {
		return true
	}
	_, dismissed := e.store.Get(storage.KeySuggestionsDismissed)
	return !dismissed
}

// Dismiss hides the suggestions for the rest of the session.
func (e *Engine) Dismiss() {
	if e.store != nil {
		e.store.Set(storage.KeySuggestionsDismissed, "true")
	}
}

// Text returns a chip's prompt in the current language.
func Text(tr *i18n.Translator, chip org.SuggestionChip) string {
	return tr.Pick(chip.TextEN, chip.TextAR)
}
