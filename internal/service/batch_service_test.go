package service

import (
	"context"
	"errors"
	"testing"

	"adaptive-iq/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func generated(text string, difficulty int) *domain.GeneratedQuestion {
	return &domain.GeneratedQuestion{
		Text:          text,
		Options:       []domain.Option{{ID: "A", Text: "yes"}, {ID: "B", Text: "no"}},
		CorrectOption: "A",
		Difficulty:    difficulty,
		Tags:          []string{"logic"},
	}
}

func TestBatchService_GenerateAndSave(t *testing.T) {
	ctx := context.Background()
	questions := new(MockQuestionRepository)
	gen := new(MockQuestionGenerator)
	tx := &passthroughTx{}
	svc := NewBatchService(questions, gen, tx, zap.NewNop())

	existing := taggedQuestion("Q1", 1, "logic")
	existing.Text = "Are all bloops razzies?"
	questions.On("ListByDomain", ctx, "IQ").Return([]*domain.Question{existing}, nil).Once()

	gen.On("GenerateQuestions", ctx, "IQ", 1, []string(nil), 2).
		Return([]*domain.GeneratedQuestion{generated("are all bloops, razzies", 1), generated("Is A taller than C?", 1)}, nil).Once()
	gen.On("GenerateQuestions", ctx, "IQ", 2, []string(nil), 2).
		Return(nil, domain.NewLLMServiceError(errors.New("timeout"))).Once()
	gen.On("GenerateQuestions", ctx, "IQ", 3, []string(nil), 2).
		Return([]*domain.GeneratedQuestion{generated("Is A  taller than C?", 3)}, nil).Once()
	gen.On("GenerateQuestions", ctx, "IQ", 4, []string(nil), 2).
		Return([]*domain.GeneratedQuestion{{Text: "one option", Options: []domain.Option{{ID: "A"}}, CorrectOption: "A", Difficulty: 4}}, nil).Once()
	gen.On("GenerateQuestions", ctx, "IQ", 5, []string(nil), 2).
		Return([]*domain.GeneratedQuestion{generated("Which word does not belong?", 5)}, nil).Once()

	questions.On("Save", ctx, mock.MatchedBy(func(q *domain.Question) bool {
		return q.Text == "Is A taller than C?" && q.Difficulty == 1 && q.Domain == "IQ"
	})).Return(nil).Once()
	questions.On("Save", ctx, mock.MatchedBy(func(q *domain.Question) bool {
		return q.Text == "Which word does not belong?" && q.Difficulty == 5
	})).Return(nil).Once()

	saved, err := svc.GenerateAndSave(ctx, "IQ", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	assert.Equal(t, 1, tx.calls)
	questions.AssertExpectations(t)
	gen.AssertExpectations(t)
}

func TestBatchService_GenerateAndSave_AllFail(t *testing.T) {
	ctx := context.Background()
	gen := new(MockQuestionGenerator)
	svc := NewBatchService(new(MockQuestionRepository), gen, &passthroughTx{}, zap.NewNop())

	gen.On("GenerateQuestions", ctx, "IQ", mock.Anything, []string(nil), 3).
		Return(nil, errors.New("connection refused")).Times(5)

	saved, err := svc.GenerateAndSave(ctx, "IQ", 3)
	assert.Error(t, err)
	assert.Zero(t, saved)
	gen.AssertExpectations(t)
}

func TestBatchService_ImportQuestions_SaveError(t *testing.T) {
	ctx := context.Background()
	questions := new(MockQuestionRepository)
	svc := NewBatchService(questions, nil, &passthroughTx{}, zap.NewNop())

	questions.On("ListByDomain", ctx, "IQ").Return([]*domain.Question{}, nil).Once()
	questions.On("Save", ctx, mock.Anything).Return(errors.New("unique constraint violated")).Once()

	q := generated("Is A taller than C?", 2).ToQuestion("IQ")
	saved, err := svc.ImportQuestions(ctx, "IQ", []*domain.Question{q})
	assert.Error(t, err)
	assert.Zero(t, saved)

	_, err = svc.GenerateAndSave(ctx, "IQ", 1)
	assert.Error(t, err, "no generator configured")
}

func TestNormalizeQuestionText(t *testing.T) {
	assert.Equal(t, "isatallerthanc", normalizeQuestionText("  Is A taller than C? "))
	assert.Equal(t, normalizeQuestionText("2, 4, 8, ?"), normalizeQuestionText("2 4 8?"))
}
