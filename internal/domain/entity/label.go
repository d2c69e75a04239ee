package entity

// BiasLabel represents one of the fixed bias categories the classifier emits
type BiasLabel string

const (
	LabelNoBias         BiasLabel = "no_bias"
	LabelDemographic    BiasLabel = "demographic_bias"
	LabelClinicalStigma BiasLabel = "clinical_stigma_bias"
	LabelAssessment     BiasLabel = "assessment_bias"
)

// DefaultLabelOrder is the index->label mapping the classifier was trained
// with. The order is alphabetical and must stay stable between training and
// inference; a label_map.json shipped next to the model weights overrides it.
var DefaultLabelOrder = []BiasLabel{
	LabelAssessment,
	LabelClinicalStigma,
	LabelDemographic,
	LabelNoBias,
}

// IsValid reports whether the label is one of the four known categories
func (l BiasLabel) IsValid() bool {
	switch l {
	case LabelNoBias, LabelDemographic, LabelClinicalStigma, LabelAssessment:
		return true
	}
	return false
}

// BiasLevel is the ordinal severity the few-shot pipeline reports
type BiasLevel string

const (
	BiasLevelNone     BiasLevel = "NONE"
	BiasLevelLow      BiasLevel = "LOW"
	BiasLevelModerate BiasLevel = "MODERATE"
	BiasLevelHigh     BiasLevel = "HIGH"
	BiasLevelCritical BiasLevel = "CRITICAL"
)

// IsValid reports whether the level is one of the known ordinals
func (l BiasLevel) IsValid() bool {
	switch l {
	case BiasLevelNone, BiasLevelLow, BiasLevelModerate, BiasLevelHigh, BiasLevelCritical:
		return true
	}
	return false
}

// ComplianceRating is the human-facing rating derived from an audit score
type ComplianceRating string

const (
	RatingExcellent        ComplianceRating = "Excellent"
	RatingGood             ComplianceRating = "Good"
	RatingFair             ComplianceRating = "Fair"
	RatingNeedsImprovement ComplianceRating = "Needs Improvement"
	RatingHighRisk         ComplianceRating = "High Risk"
)
