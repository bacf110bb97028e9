package org

// Organization is the tenant metadata fetched once per session by slug.
// It is immutable for the lifetime of the session.
type Organization struct {
	ID             string       `json:"organization_id"`
	Name           string       `json:"name"`
	WhatsappNumber string       `json:"whatsapp_number,omitempty"`
	BusinessType   string       `json:"business_type,omitempty"`
	BrandAssets    *BrandAssets `json:"brand_assets,omitempty"`
	ChatConfig     *ChatConfig  `json:"chat_config,omitempty"`
}

// BrandAssets carries the visual customization of an organization. Colors
// arrive in up to three shapes: the current nested theme, a nested legacy
// object, and flat legacy fields kept for organizations that never
// re-published their branding.
type BrandAssets struct {
	LogoURL string        `json:"logo_url,omitempty"`
	Theme   *Theme        `json:"theme,omitempty"`
	Legacy  *LegacyColors `json:"_legacy,omitempty"`

	// Flat legacy fields, oldest shape.
	ButtonColor string `json:"button_color,omitempty"`
	BgColor     string `json:"bg_color,omitempty"`
	HeaderColor string `json:"header_color,omitempty"`
}

// Theme is the current branding shape.
type Theme struct {
	BrandColor      string `json:"brand_color,omitempty"`
	BackgroundColor string `json:"background_color,omitempty"`
	SurfaceColor    string `json:"surface_color,omitempty"`
}

// LegacyColors is the intermediate nested legacy shape.
type LegacyColors struct {
	ButtonColor string `json:"button_color,omitempty"`
	BgColor     string `json:"bg_color,omitempty"`
	HeaderColor string `json:"header_color,omitempty"`
}

// ChatConfig is the per-organization chat configuration.
type ChatConfig struct {
	Suggestions *SuggestionsConfig `json:"suggestions,omitempty"`
}

// SuggestionsConfig is the suggestion-chip section of the chat config.
type SuggestionsConfig struct {
	// Enabled distinguishes "unset" (nil, use defaults) from an explicit
	// opt-out (false, suppress suggestions entirely).
	Enabled *bool            `json:"enabled,omitempty"`
	Chips   []SuggestionChip `json:"chips,omitempty"`
}

// SuggestionChip is a predefined quick-reply prompt.
type SuggestionChip struct {
	Icon   string `json:"icon,omitempty"`
	TextEN string `json:"text_en"`
	TextAR string `json:"text_ar,omitempty"`
}
