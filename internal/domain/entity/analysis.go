package entity

// Error tags a degraded analysis or explanation can carry. Callers branch on
// these instead of on error values; no failure crosses the adapter boundary.
const (
	ErrTagMissingAPIKey = "missing_api_key"
	ErrTagJSONParse     = "json_parse_error"
	ErrTagCallFailed    = "call_failed"
	ErrTagTimeout       = "timeout"
)

// FewShotFinding is a single bias the few-shot pipeline reported. Sub-type
// naming is whatever the external model produced; only the prompt-provided
// taxonomy constrains it.
type FewShotFinding struct {
	Category        string  `json:"category"`
	SubType         string  `json:"sub_type"`
	Confidence      float64 `json:"confidence"`
	Evidence        string  `json:"evidence"`
	ProblematicText string  `json:"problematic_text"`
	Recommendation  string  `json:"recommendation"`
}

// FewShotAnalysis is the validated result of one few-shot classification.
// Error is empty on success and one of the ErrTag constants otherwise.
type FewShotAnalysis struct {
	BiasDetected     bool             `json:"bias_detected"`
	PrimaryCategory  string           `json:"primary_category"`
	OverallBiasLevel BiasLevel        `json:"overall_bias_level"`
	BiasesFound      []FewShotFinding `json:"biases_found"`
	BiasFreeSections []string         `json:"bias_free_sections"`
	Summary          string           `json:"summary"`
	Error            string           `json:"error,omitempty"`
}

// DegradedAnalysis builds the fixed shape returned when the few-shot call
// cannot produce a real analysis.
func DegradedAnalysis(errTag, summary string) *FewShotAnalysis {
	return &FewShotAnalysis{
		BiasDetected:     false,
		PrimaryCategory:  "error",
		OverallBiasLevel: BiasLevelNone,
		BiasesFound:      []FewShotFinding{},
		BiasFreeSections: []string{},
		Summary:          summary,
		Error:            errTag,
	}
}

// Flags collects the problematic text excerpts from all findings
func (a *FewShotAnalysis) Flags() []string {
	flags := make([]string, 0, len(a.BiasesFound))
	for _, f := range a.BiasesFound {
		if f.ProblematicText != "" {
			flags = append(flags, f.ProblematicText)
		}
	}
	return flags
}

// AggregateConfidence is the arithmetic mean of per-finding confidences.
// With no findings, a no_bias classification defaults high (0.95) and
// anything else defaults to zero; the asymmetry is intentional.
func (a *FewShotAnalysis) AggregateConfidence() float64 {
	if len(a.BiasesFound) == 0 {
		if a.PrimaryCategory == string(LabelNoBias) {
			return 0.95
		}
		return 0.0
	}
	var sum float64
	for _, f := range a.BiasesFound {
		sum += f.Confidence
	}
	return sum / float64(len(a.BiasesFound))
}

// Explanation is the rationale the explanation adapter produced for an
// already-computed label. Error carries a tag when the fallback payload was
// used instead of a real model reply.
type Explanation struct {
	Rationale           string   `json:"rationale"`
	Flags               []string `json:"flags"`
	RecommendedRevision string   `json:"recommended_revision"`
	Error               string   `json:"error,omitempty"`
}

// FallbackExplanation preserves the original text as the revision when the
// external model is unavailable.
func FallbackExplanation(text, rationale, errTag string) *Explanation {
	return &Explanation{
		Rationale:           rationale,
		Flags:               []string{},
		RecommendedRevision: text,
		Error:               errTag,
	}
}
