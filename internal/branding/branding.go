package branding

import (
	"fmt"
	"sync"

	"github.com/wakelyai/webchat/internal/org"
)

// FallbackColor is the hardcoded last resort for every color slot.
const FallbackColor = "#ffffff"

// Brand is the final set of CSS-facing values resolved from an
// organization's brand assets. It is resolved once at session bootstrap and
// never re-resolved; only the logo visibility may flip afterwards, when the
// logo image fails to load.
type Brand struct {
	BrandColor      string `json:"brand_color"`
	BackgroundColor string `json:"background_color"`
	SurfaceColor    string `json:"surface_color"`
	LogoURL         string `json:"logo_url,omitempty"`

	mu       sync.Mutex
	showLogo bool
}

// Resolve merges the three possible asset shapes into a Brand. For each
// color slot the candidates are evaluated in strict order: current theme
// field, nested legacy field, flat legacy field, fallback; the first
// non-empty value wins. A nil assets object resolves to pure fallbacks.
func Resolve(assets *org.BrandAssets) *Brand {
	var theme org.Theme
	var legacy org.LegacyColors
	var flat org.BrandAssets
	if assets != nil {
		flat = *assets
		if assets.Theme != nil {
			theme = *assets.Theme
		}
		if assets.Legacy != nil {
			legacy = *assets.Legacy
		}
	}

	brand := &Brand{
		BrandColor:      firstNonEmpty(theme.BrandColor, legacy.ButtonColor, flat.ButtonColor, FallbackColor),
		BackgroundColor: firstNonEmpty(theme.BackgroundColor, legacy.BgColor, flat.BgColor, FallbackColor),
		SurfaceColor:    firstNonEmpty(theme.SurfaceColor, legacy.HeaderColor, flat.HeaderColor, FallbackColor),
	}
	if assets != nil && assets.LogoURL != "" {
		brand.LogoURL = assets.LogoURL
		brand.showLogo = true
	}
	return brand
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// CSSVariables returns the custom-property assignments the view applies to
// the document root.
func (b *Brand) CSSVariables() map[string]string {
	return map[string]string{
		"--brand-color": b.BrandColor,
		"--bg-main":     b.BackgroundColor,
	}
}

// SurfaceOverride returns the scoped style override for the header and
// input-bar regions. Those regions must not inherit the general background
// variable, so the surface color targets them directly.
func (b *Brand) SurfaceOverride() string {
	return fmt.Sprintf(
		"#chat-header { background: %s !important; }\n#chat-input-container { background: %s !important; }",
		b.SurfaceColor, b.SurfaceColor,
	)
}

// ShowLogo reports whether the logo should be displayed instead of the
// organization's text name.
func (b *Brand) ShowLogo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.showLogo
}

// LogoFailed records a logo image load failure: the logo is hidden and the
// text name shown again. It never errors; branding degrades silently.
func (b *Brand) LogoFailed() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.showLogo = false
}
