package schema

// RiskTier is the categorical risk band derived from a percent.
type RiskTier string

// All risk tiers.
const (
	LowRisk      RiskTier = "Low"
	ModerateRisk RiskTier = "Moderate"
	HighRisk     RiskTier = "High"
)

// Tier boundaries in percent. Lower bounds are inclusive.
const (
	ModerateThreshold = 20.0
	HighThreshold     = 50.0
)

// AllRiskTiers lists the tiers from lowest to highest.
var AllRiskTiers = []RiskTier{LowRisk, ModerateRisk, HighRisk}

// Advice returns the guidance text shown next to a tier.
func (t RiskTier) Advice() string {
	switch t {
	case HighRisk:
		return "High risk, urgently consult a cardiologist"
	case ModerateRisk:
		return "Moderate risk, consult a doctor"
	case LowRisk:
		return "Low risk"
	default:
		return "Unknown risk"
	}
}

// RiskResult is the outcome of a single prediction.
type RiskResult struct {
	Probability float64  `json:"probability"` // positive-class probability in [0,1]
	Percent     float64  `json:"percent"`     // probability*100 rounded to one decimal
	Tier        RiskTier `json:"tier"`
}

// Assessment pairs a result with the context it was produced in.
type Assessment struct {
	ID       string     `json:"id"`
	ModelID  string     `json:"model_id"`
	Input    RawInput   `json:"input"`
	Result   RiskResult `json:"result"`
	Warnings []string   `json:"warnings,omitempty"`
}

// BatchItem is one row of a batch assessment. Exactly one of Result and Err is set.
type BatchItem struct {
	Row      int
	Input    RawInput
	Result   *RiskResult
	Warnings []string
	Err      error
}
