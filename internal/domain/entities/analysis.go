package entities

// Sentiment represents the overall tone of a client conversation
type Sentiment struct {
	Label string `json:"label" validate:"required"` // positive, neutral, negative
	Score int    `json:"score" validate:"min=1,max=5"`
}

// Sentiment label constants
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// ClientAnalysis represents the structured output of the dialogue analysis.
// KeyPoints and NextSteps must be non-empty for the record to be usable;
// timeline and budget stay empty when the client never mentioned them.
type ClientAnalysis struct {
	ClientName       string    `json:"client_name" validate:"required"`
	Topic            string    `json:"topic" validate:"required"`
	MainRequest      string    `json:"main_request" validate:"required"`
	Sentiment        Sentiment `json:"sentiment"`
	Summary          string    `json:"summary" validate:"required"`
	KeyPoints        []string  `json:"key_points" validate:"min=1,dive,required"`
	NextSteps        []string  `json:"next_steps" validate:"min=1,dive,required"`
	DesiredTimeline  string    `json:"desired_timeline,omitempty"`
	BudgetRange      string    `json:"budget_range,omitempty"`
	CoreRequirements []string  `json:"core_requirements"`
}

// Normalize initializes optional slices so cache round-trips and templates
// see a consistent shape.
func (a *ClientAnalysis) Normalize() {
	if a.CoreRequirements == nil {
		a.CoreRequirements = make([]string, 0)
	}
}
