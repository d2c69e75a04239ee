package entity

import "math"

// levelScores maps a few-shot bias level to its effective audit score.
// Both derivation paths end in RatingForScore so the compliance thresholds
// live in exactly one place.
var levelScores = map[BiasLevel]int{
	BiasLevelNone:     10,
	BiasLevelLow:      7,
	BiasLevelModerate: 5,
	BiasLevelHigh:     3,
	BiasLevelCritical: 1,
}

// DeriveScore maps a classification result to a 1-10 audit score and its
// compliance rating. A confident no_bias call scores high; a confident bias
// call scores low. Rounding is math.Round, half away from zero, so .5
// boundaries round up for these operands.
func DeriveScore(label BiasLabel, confidence float64) (int, ComplianceRating) {
	var score int
	if label == LabelNoBias {
		score = int(math.Round(8 + confidence*2))
		if score > 10 {
			score = 10
		}
	} else {
		score = int(math.Round((1 - confidence) * 10))
		if score < 1 {
			score = 1
		}
	}
	return score, RatingForScore(score)
}

// ScoreForBiasLevel maps a few-shot bias level to its audit score and rating.
// Unknown levels fall back to the CRITICAL anchor.
func ScoreForBiasLevel(level BiasLevel) (int, ComplianceRating) {
	score, ok := levelScores[level]
	if !ok {
		score = 1
	}
	return score, RatingForScore(score)
}

// RatingForScore applies the fixed compliance thresholds, first match wins
func RatingForScore(score int) ComplianceRating {
	switch {
	case score >= 9:
		return RatingExcellent
	case score >= 7:
		return RatingGood
	case score >= 5:
		return RatingFair
	case score >= 3:
		return RatingNeedsImprovement
	default:
		return RatingHighRisk
	}
}
