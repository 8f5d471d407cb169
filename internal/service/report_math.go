package service

import (
	"math"

	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/util"
)

const (
	populationMean = 100.0
	populationSD   = 15.0
	maxTraits      = 5
)

// tag groups used for strengths and traits
var (
	patternTags      = []string{"sequence", "pattern"}
	verbalTags       = []string{"verbal", "vocabulary", "anagram"}
	mathematicalTags = []string{"mathematical"}
	logicalTags      = []string{"logic", "reasoning"}
)

// erf uses the Abramowitz and Stegun 7.1.26 approximation (max error 1.5e-7).
func erf(x float64) float64 {
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	x = math.Abs(x)
	t := 1.0 / (1.0 + p*x)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)
	return sign * y
}

// IQToPercentile places a score on the normal curve (mean 100, sd 15).
// The result is rounded to one decimal and kept inside [0.1, 99.9].
func IQToPercentile(iq int) float64 {
	z := (float64(iq) - populationMean) / populationSD
	percentile := 0.5 * (1 + erf(z/math.Sqrt2)) * 100
	return util.ClampFloat(util.RoundTo(percentile, 1), 0.1, 99.9)
}

// IQCategory names the band a percentile falls in.
func IQCategory(percentile float64) string {
	switch {
	case percentile >= 98:
		return "Very Superior"
	case percentile >= 84:
		return "Superior"
	case percentile >= 50:
		return "High Average"
	case percentile >= 16:
		return "Average"
	case percentile >= 2:
		return "Low Average"
	default:
		return "Below Average"
	}
}

// groupAccuracy is the share of correct answers among questions carrying any of tags. 0 when none do.
func groupAccuracy(answers []*domain.Answer, tags ...string) float64 {
	total, correct := 0, 0
	for _, a := range answers {
		if a.Question == nil || !a.Question.HasTag(tags...) {
			continue
		}
		total++
		if a.IsCorrect {
			correct++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

func accuracyOf(answers []*domain.Answer) float64 {
	if len(answers) == 0 {
		return 0
	}
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(answers))
}

// PersonalityTraits derives up to five traits from answers in chronological order.
func PersonalityTraits(answers []*domain.Answer) []string {
	if len(answers) == 0 {
		return []string{}
	}
	var traits []string

	totalMs := 0
	for _, a := range answers {
		totalMs += a.ResponseTimeMs
	}
	avgMs := float64(totalMs) / float64(len(answers))
	if avgMs < 5000 {
		traits = append(traits, "Quick Thinker")
	} else if avgMs > 15000 {
		traits = append(traits, "Thorough Analyzer")
	}

	accuracy := accuracyOf(answers) * 100
	if accuracy >= 80 {
		traits = append(traits, "High Achiever")
	}
	if accuracy >= 70 && accuracy < 80 {
		traits = append(traits, "Consistent Performer")
	}

	var hard []*domain.Answer
	for _, a := range answers {
		if a.Difficulty() >= 4 {
			hard = append(hard, a)
		}
	}
	if len(hard) > 0 && accuracyOf(hard) >= 0.7 {
		traits = append(traits, "Problem Solver")
	}

	if groupAccuracy(answers, patternTags...) >= 0.8 {
		traits = append(traits, "Pattern Recognition Expert")
	}
	if groupAccuracy(answers, verbalTags...) >= 0.8 {
		traits = append(traits, "Strong Verbal Ability")
	}
	if groupAccuracy(answers, mathematicalTags...) >= 0.8 {
		traits = append(traits, "Strong Mathematical Reasoning")
	}
	if groupAccuracy(answers, logicalTags...) >= 0.8 {
		traits = append(traits, "Analytical Thinker")
	}

	// first half gets the extra answer on odd counts; a single answer has no second half
	split := (len(answers) + 1) / 2
	if split < len(answers) {
		if math.Abs(accuracyOf(answers[:split])-accuracyOf(answers[split:])) < 0.1 {
			traits = append(traits, "Consistent")
		}
	}

	if len(traits) == 0 {
		traits = append(traits, "Balanced Thinker")
	}
	if len(traits) > maxTraits {
		traits = traits[:maxTraits]
	}
	return traits
}

func percent(ratio float64) int {
	return int(util.RoundHalfUp(ratio * 100))
}
