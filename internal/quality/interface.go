package quality

// Label values.
const (
	Accepted       = "accepted"
	BelowThreshold = "below_threshold"
)

// Scorer rates generated summaries.
type Scorer interface {
	// Score rates text. participants is used only to report missing references.
	Score(text string, participants []string) Metrics
}

// Metrics is the outcome of scoring one piece of generated text.
type Metrics struct {
	Length         int      `json:"length"`
	TechnicalTerms int      `json:"technical_terms"`
	ActionItems    int      `json:"action_items"`
	TechnicalScore float64  `json:"technical_score"`
	ActionScore    float64  `json:"action_score"`
	BusinessScore  float64  `json:"business_score"`
	ClarityScore   float64  `json:"clarity_score"`
	Score          float64  `json:"score"`
	Label          string   `json:"label"`
	Confidence     string   `json:"confidence"`
	Issues         []string `json:"issues,omitempty"`
}

// Accepted reports whether the text met every threshold.
func (m Metrics) Accepted() bool {
	return m.Label == Accepted
}
