package engine

import (
	"context"
	"fmt"
	"sort"

	"adaptive-iq/internal/domain"
)

// CompletionReason explains why no further question is served.
type CompletionReason string

const (
	ReasonSessionCapped CompletionReason = "session_capped"
	ReasonExhausted     CompletionReason = "exhausted"
)

// Selection is the outcome of SelectNextQuestion. Either Question is set or Done is true.
type Selection struct {
	Question         *domain.Question
	Done             bool
	Reason           CompletionReason
	Answered         int
	Ability          int
	TargetDifficulty int
	// Fallback is true when no question was found near the target and any unseen one was used.
	Fallback bool
}

// SelectNextQuestion picks the next unseen question of domainName for the session.
//
// Candidates within one tier of the target difficulty are preferred; among them the
// least exposed and closest to the target half is kept and one is drawn at random.
// With no candidates in the band, any unseen question of the domain is drawn uniformly.
func (e *Engine) SelectNextQuestion(ctx context.Context, sessionID, domainName string) (*Selection, error) {
	answers, err := e.answers.ListBySession(ctx, sessionID, domain.SortDesc)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers for session %s: %w", sessionID, err)
	}

	ability := EstimateAbility(answers)
	if len(answers) >= e.maxQuestions {
		return &Selection{Done: true, Reason: ReasonSessionCapped, Answered: len(answers), Ability: ability}, nil
	}

	target := DifficultyForAbility(ability)

	if len(answers) > 0 {
		target, err = e.fineTune(ctx, answers[0], target)
		if err != nil {
			return nil, err
		}
	}

	answeredIDs := make([]string, 0, len(answers))
	for _, a := range answers {
		answeredIDs = append(answeredIDs, a.QuestionID)
	}

	sel := &Selection{Answered: len(answers), Ability: ability, TargetDifficulty: target}

	candidates, err := e.questions.FindMany(ctx, domain.QuestionFilter{
		Domain:        domainName,
		ExcludeIDs:    answeredIDs,
		MinDifficulty: clamp(target-1, domain.MinDifficulty, domain.MaxDifficulty),
		MaxDifficulty: clamp(target+1, domain.MinDifficulty, domain.MaxDifficulty),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate questions: %w", err)
	}

	if len(candidates) == 0 {
		remaining, err := e.questions.FindMany(ctx, domain.QuestionFilter{
			Domain:     domainName,
			ExcludeIDs: answeredIDs,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to find remaining questions: %w", err)
		}
		if len(remaining) == 0 {
			sel.Done = true
			sel.Reason = ReasonExhausted
			return sel, nil
		}
		// No exposure balancing on the fallback path.
		sel.Question = remaining[e.rng.Intn(len(remaining))]
		sel.Fallback = true
		return sel, nil
	}

	sel.Question = e.pickBalanced(candidates, target)
	return sel, nil
}

// fineTune nudges the target by one step based on the most recent answer only.
func (e *Engine) fineTune(ctx context.Context, last *domain.Answer, target int) (int, error) {
	q := last.Question
	if q == nil {
		var err error
		q, err = e.questions.FindByID(ctx, last.QuestionID)
		if err != nil {
			return 0, fmt.Errorf("failed to load last answered question %s: %w", last.QuestionID, err)
		}
		if q == nil {
			return target, nil
		}
	}

	switch {
	case last.IsCorrect && q.Difficulty == target:
		return min(domain.MaxDifficulty, target+1), nil
	case !last.IsCorrect && q.Difficulty >= target:
		return max(domain.MinDifficulty, target-1), nil
	}
	return target, nil
}

// pickBalanced shuffles for random tie-breaking, orders by exposure then distance
// to target, and draws uniformly from the better half.
func (e *Engine) pickBalanced(candidates []*domain.Question, target int) *domain.Question {
	pool := make([]*domain.Question, len(candidates))
	copy(pool, candidates)

	e.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].ExposureCount != pool[j].ExposureCount {
			return pool[i].ExposureCount < pool[j].ExposureCount
		}
		return absInt(pool[i].Difficulty-target) < absInt(pool[j].Difficulty-target)
	})

	top := pool[:max(1, (len(pool)+1)/2)]
	return top[e.rng.Intn(len(top))]
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
