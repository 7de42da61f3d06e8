package entities

// DesignBrief represents the structured website brief extracted from a
// client conversation. List fields may be empty when the dialogue never
// touched them, but they are always non-nil after Normalize.
type DesignBrief struct {
	ProjectName    string   `json:"project_name" validate:"required"`
	Business       string   `json:"business" validate:"required"`
	SiteGoal       string   `json:"site_goal" validate:"required"`
	TargetAudience []string `json:"target_audience"`
	Pages          []string `json:"pages"`
	StyleKeywords  []string `json:"style_keywords"`
	Colors         []string `json:"colors"`
	MustHave       []string `json:"must_have"`
	Avoid          []string `json:"avoid"`
	ContentNotes   string   `json:"content_notes,omitempty"`
}

// Normalize initializes nil list fields.
func (b *DesignBrief) Normalize() {
	if b.TargetAudience == nil {
		b.TargetAudience = make([]string, 0)
	}
	if b.Pages == nil {
		b.Pages = make([]string, 0)
	}
	if b.StyleKeywords == nil {
		b.StyleKeywords = make([]string, 0)
	}
	if b.Colors == nil {
		b.Colors = make([]string, 0)
	}
	if b.MustHave == nil {
		b.MustHave = make([]string, 0)
	}
	if b.Avoid == nil {
		b.Avoid = make([]string, 0)
	}
}
