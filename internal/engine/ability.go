package engine

import (
	"context"
	"fmt"
	"math"

	"adaptive-iq/internal/domain"
)

// EstimateAbility turns an answer history into an IQ-like score in [MinAbility, MaxAbility].
// Answer order does not matter. An empty history yields BaselineAbility.
func EstimateAbility(answers []*domain.Answer) int {
	if len(answers) == 0 {
		return BaselineAbility
	}

	total := float64(len(answers))
	var correct int
	var difficultyPoints float64
	var correctDifficultySum float64

	for _, a := range answers {
		d := float64(a.Difficulty())
		if a.IsCorrect {
			correct++
			difficultyPoints += d * 8
			correctDifficultySum += d
		} else {
			difficultyPoints -= d * 2
		}
	}

	accuracy := float64(correct) / total * 100
	var avgCorrectDifficulty float64
	if correct > 0 {
		avgCorrectDifficulty = correctDifficultySum / float64(correct)
	}

	score := float64(BaselineAbility) +
		(accuracy-50)*0.8 +
		(avgCorrectDifficulty-3)*15 +
		difficultyPoints/total

	// Round half up, then clamp.
	rounded := int(math.Floor(score + 0.5))
	return clamp(rounded, MinAbility, MaxAbility)
}

// DifficultyForAbility maps an ability score to a difficulty tier in [1, 5].
func DifficultyForAbility(ability int) int {
	switch {
	case ability >= 130:
		return 5
	case ability >= 115:
		return 4
	case ability >= 100:
		return 3
	case ability >= 85:
		return 2
	default:
		return 1
	}
}

// CalculateAbility loads the session's answers and estimates its current ability.
func (e *Engine) CalculateAbility(ctx context.Context, sessionID string) (int, error) {
	answers, err := e.answers.ListBySession(ctx, sessionID, domain.SortAsc)
	if err != nil {
		return 0, fmt.Errorf("failed to list answers for session %s: %w", sessionID, err)
	}
	return EstimateAbility(answers), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
