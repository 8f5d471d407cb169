package engine

import (
	"context"
	"fmt"

	"adaptive-iq/internal/domain"
)

// RecordAnswerParams carries one submitted answer.
type RecordAnswerParams struct {
	SessionID      string
	QuestionID     string
	SelectedOption string // empty means skipped
	ResponseTimeMs int
	UserID         string
}

// RecordResult is returned by RecordAnswer.
type RecordResult struct {
	AnswerID   string
	Correct    bool
	Difficulty int
}

// RecordAnswer grades and stores an answer and increments the question's exposure by one.
// It is not idempotent: submitting the same answer twice stores it twice.
func (e *Engine) RecordAnswer(ctx context.Context, params RecordAnswerParams) (*RecordResult, error) {
	question, err := e.questions.FindByID(ctx, params.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question %s: %w", params.QuestionID, err)
	}
	if question == nil {
		return nil, domain.NewQuestionNotFoundError(params.QuestionID)
	}

	answer := &domain.Answer{
		SessionID:      params.SessionID,
		UserID:         params.UserID,
		QuestionID:     question.ID,
		SelectedOption: params.SelectedOption,
		IsCorrect:      IsCorrect(params.SelectedOption, question.CorrectOption),
		ResponseTimeMs: params.ResponseTimeMs,
		CreatedAt:      e.now(),
	}

	persist := func(ctx context.Context) error {
		if err := e.answers.Insert(ctx, answer); err != nil {
			return fmt.Errorf("failed to insert answer: %w", err)
		}
		if err := e.questions.IncrementExposure(ctx, question.ID); err != nil {
			return fmt.Errorf("failed to increment exposure for question %s: %w", question.ID, err)
		}
		return nil
	}

	if e.tx != nil {
		err = e.tx.WithTransaction(ctx, persist)
	} else {
		err = persist(ctx)
	}
	if err != nil {
		return nil, err
	}

	return &RecordResult{AnswerID: answer.ID, Correct: answer.IsCorrect, Difficulty: question.Difficulty}, nil
}

// IsCorrect reports whether selected matches the correct option. A skipped answer is never correct.
func IsCorrect(selected, correctOption string) bool {
	return selected != "" && selected == correctOption
}
