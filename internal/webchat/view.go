package webchat

import (
	"github.com/wakelyai/webchat/internal/chat"
	"github.com/wakelyai/webchat/internal/menu"
	"github.com/wakelyai/webchat/internal/order"
	"github.com/wakelyai/webchat/internal/suggest"
)

// ViewState is the full render model of a session. The browser widget is a
// thin view over it: everything the DOM needs (colors, visibility flags,
// transcript, derived order figures) is computed here so the components
// above stay renderer-free.
type ViewState struct {
	SessionID string         `json:"session_id"`
	Revision  int64          `json:"revision"`
	OrgName   string         `json:"org_name"`
	Degraded  bool           `json:"degraded,omitempty"`
	Language  string         `json:"language"`
	RTL       bool           `json:"rtl"`
	Branding  BrandingView   `json:"branding"`
	Messages  []chat.Message `json:"messages"`
	Chips     *ChipsView     `json:"suggestions,omitempty"`
	Order     OrderView      `json:"order"`
	Sending   bool           `json:"sending"`
}

// BrandingView carries the CSS-facing branding values.
type BrandingView struct {
	CSSVariables    map[string]string `json:"css_variables"`
	SurfaceOverride string            `json:"surface_override"`
	LogoURL         string            `json:"logo_url,omitempty"`
	ShowLogo        bool              `json:"show_logo"`
	ShowName        bool              `json:"show_name"`
}

// ChipsView carries the suggestion chips in the current language.
type ChipsView struct {
	Show  bool       `json:"show"`
	Chips []ChipView `json:"chips"`
}

type ChipView struct {
	Icon string `json:"icon,omitempty"`
	Text string `json:"text"`
}

// OrderView carries the order panel state. Count and total are derived from
// the snapshot on every build, never cached.
type OrderView struct {
	Visible        bool         `json:"visible"`
	ItemCount      int          `json:"item_count"`
	Total          float64      `json:"total"`
	TotalFormatted string       `json:"total_formatted,omitempty"`
	Items          []order.Item `json:"items,omitempty"`
}

// MenuView carries one filtered rendering of the menu panel.
type MenuView struct {
	Categories []string       `json:"categories"`
	Items      []MenuItemView `json:"items"`
}

type MenuItemView struct {
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Category       string  `json:"category,omitempty"`
	Price          float64 `json:"price"`
	PriceFormatted string  `json:"price_formatted"`
	ImageURL       string  `json:"image_url,omitempty"`
}

// View assembles the current render model.
func (s *Session) View() ViewState {
	showLogo := s.Brand.ShowLogo()

	state := ViewState{
		SessionID: s.ID,
		Revision:  s.Revision(),
		OrgName:   s.DisplayName(),
		Degraded:  s.Degraded,
		Language:  string(s.Translator.Current()),
		RTL:       s.Translator.IsRTL(),
		Branding: BrandingView{
			CSSVariables:    s.Brand.CSSVariables(),
			SurfaceOverride: s.Brand.SurfaceOverride(),
			LogoURL:         s.Brand.LogoURL,
			ShowLogo:        showLogo,
			ShowName:        !showLogo,
		},
		Messages: s.Controller.Transcript().Messages(),
		Order:    s.orderView(),
		Sending:  s.Controller.Sending(),
	}

	if chips := s.Suggestions.Chips(); chips != nil {
		view := &ChipsView{Show: s.Suggestions.ShouldShow()}
		for _, chip := range chips {
			view.Chips = append(view.Chips, ChipView{
				Icon: chip.Icon,
				Text: suggest.Text(s.Translator, chip),
			})
		}
		state.Chips = view
	}

	return state
}

func (s *Session) orderView() OrderView {
	store := s.Controller.OrderStore()
	if !store.Visible() {
		// Hidden view: indicators off, any open order sheet closes.
		return OrderView{}
	}

	sum := store.Derive()
	view := OrderView{
		Visible:        true,
		ItemCount:      sum.ItemCount,
		Total:          sum.Total,
		TotalFormatted: s.Translator.FormatPrice(sum.Total),
	}
	if snapshot := store.Snapshot(); snapshot != nil {
		view.Items = snapshot.Items
	}
	return view
}

// MenuView renders the menu panel filtered by category, then by search
// query.
func (s *Session) MenuView(category, query string) MenuView {
	items := menu.Search(s.Catalog.FilterByCategory(category), query)

	view := MenuView{Categories: s.Catalog.Categories()}
	for _, item := range items {
		view.Items = append(view.Items, MenuItemView{
			Name:           s.Translator.Pick(item.Name, item.NameAR),
			Description:    s.Translator.Pick(item.Description, item.DescriptionAR),
			Category:       item.Category,
			Price:          item.Price,
			PriceFormatted: s.Translator.FormatPrice(item.Price),
			ImageURL:       item.ImageURL,
		})
	}
	return view
}
