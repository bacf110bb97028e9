package menu

// Item is a single menu entry as served by the public menu endpoint.
// Bilingual fields carry an optional Arabic variant next to the base value.
type Item struct {
	Name          string  `json:"name"`
	NameAR        string  `json:"name_ar,omitempty"`
	Description   string  `json:"description,omitempty"`
	DescriptionAR string  `json:"description_ar,omitempty"`
	Category      string  `json:"category,omitempty"`
	Price         float64 `json:"price"`
	ImageURL      string  `json:"image_url,omitempty"`
}
