package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"adaptive-iq/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, e *Engine, sessionID, questionID string, correct bool) {
	t.Helper()
	option := "B"
	if correct {
		option = "A"
	}
	_, err := e.RecordAnswer(context.Background(), RecordAnswerParams{
		SessionID:      sessionID,
		QuestionID:     questionID,
		SelectedOption: option,
		ResponseTimeMs: 4000,
	})
	require.NoError(t, err)
}

func TestSelectNextQuestion_FreshSessionTargetsMiddleTier(t *testing.T) {
	questions := newFakeQuestionRepo(mkQuestion("q1", 3, 0))
	e := New(questions, newFakeAnswerRepo(questions))

	sel, err := e.SelectNextQuestion(context.Background(), "s1", domain.DefaultDomain)
	require.NoError(t, err)
	assert.False(t, sel.Done)
	assert.Equal(t, "q1", sel.Question.ID)
	assert.Equal(t, BaselineAbility, sel.Ability)
	assert.Equal(t, 3, sel.TargetDifficulty)
	assert.False(t, sel.Fallback)
}

func TestSelectNextQuestion_NeverRepeatsAnsweredQuestions(t *testing.T) {
	questions := newFakeQuestionRepo()
	for i := 0; i < 10; i++ {
		questions.add(mkQuestion(fmt.Sprintf("q%d", i), i%5+1, 0))
	}
	e := New(questions, newFakeAnswerRepo(questions), WithRandomSource(NewRandomSource(3)))

	seen := map[string]bool{}
	var last *Selection
	for i := 0; i < 30; i++ {
		sel, err := e.SelectNextQuestion(context.Background(), "s1", domain.DefaultDomain)
		require.NoError(t, err)
		last = sel
		if sel.Done {
			break
		}
		assert.False(t, seen[sel.Question.ID], "question %s served twice", sel.Question.ID)
		seen[sel.Question.ID] = true
		record(t, e, "s1", sel.Question.ID, i%2 == 0)
	}

	assert.Len(t, seen, 10)
	require.NotNil(t, last)
	assert.True(t, last.Done)
	assert.Equal(t, ReasonExhausted, last.Reason)
	assert.Equal(t, 10, last.Answered)
}

func TestSelectNextQuestion_SessionCap(t *testing.T) {
	questions := newFakeQuestionRepo()
	for i := 0; i < 25; i++ {
		questions.add(mkQuestion(fmt.Sprintf("q%02d", i), 3, 0))
	}
	answers := newFakeAnswerRepo(questions)
	e := New(questions, answers)

	for i := 0; i < MaxQuestionsPerSession; i++ {
		record(t, e, "s1", fmt.Sprintf("q%02d", i), true)
	}

	sel, err := e.SelectNextQuestion(context.Background(), "s1", domain.DefaultDomain)
	require.NoError(t, err)
	assert.True(t, sel.Done)
	assert.Equal(t, ReasonSessionCapped, sel.Reason)
	assert.Equal(t, 20, sel.Answered)
	assert.Nil(t, sel.Question)
}

func TestSelectNextQuestion_CustomCap(t *testing.T) {
	questions := newFakeQuestionRepo(mkQuestion("a", 3, 0), mkQuestion("b", 3, 0), mkQuestion("c", 3, 0), mkQuestion("d", 3, 0))
	e := New(questions, newFakeAnswerRepo(questions), WithMaxQuestions(3))
	assert.Equal(t, 3, e.MaxQuestions())

	record(t, e, "s1", "a", true)
	record(t, e, "s1", "b", true)
	record(t, e, "s1", "c", true)

	sel, err := e.SelectNextQuestion(context.Background(), "s1", domain.DefaultDomain)
	require.NoError(t, err)
	assert.True(t, sel.Done)
	assert.Equal(t, ReasonSessionCapped, sel.Reason)
}

func TestSelectNextQuestion_EmptyBankIsExhausted(t *testing.T) {
	questions := newFakeQuestionRepo()
	e := New(questions, newFakeAnswerRepo(questions))

	sel, err := e.SelectNextQuestion(context.Background(), "s1", domain.DefaultDomain)
	require.NoError(t, err)
	assert.True(t, sel.Done)
	assert.Equal(t, ReasonExhausted, sel.Reason)
	assert.Equal(t, 0, sel.Answered)
}

func TestSelectNextQuestion_FallsBackOutsideTheBand(t *testing.T) {
	questions := newFakeQuestionRepo(
		mkQuestion("h1", 5, 0),
		mkQuestion("h2", 5, 0),
		mkQuestion("h3", 5, 0),
		mkQuestion("easy", 1, 0),
	)
	e := New(questions, newFakeAnswerRepo(questions))

	record(t, e, "s1", "h1", true)
	record(t, e, "s1", "h2", true)
	record(t, e, "s1", "h3", true)

	sel, err := e.SelectNextQuestion(context.Background(), "s1", domain.DefaultDomain)
	require.NoError(t, err)
	assert.False(t, sel.Done)
	assert.Equal(t, 160, sel.Ability)
	assert.Equal(t, 5, sel.TargetDifficulty)
	assert.True(t, sel.Fallback)
	assert.Equal(t, "easy", sel.Question.ID)
}

func TestSelectNextQuestion_PrefersLeastExposed(t *testing.T) {
	questions := newFakeQuestionRepo(
		mkQuestion("fresh1", 3, 0),
		mkQuestion("worn1", 3, 9),
		mkQuestion("fresh2", 3, 0),
		mkQuestion("worn2", 3, 9),
	)
	e := New(questions, newFakeAnswerRepo(questions), WithRandomSource(NewRandomSource(1)))

	picked := map[string]int{}
	for i := 0; i < 100; i++ {
		sel, err := e.SelectNextQuestion(context.Background(), fmt.Sprintf("s%d", i), domain.DefaultDomain)
		require.NoError(t, err)
		picked[sel.Question.ID]++
	}

	assert.Zero(t, picked["worn1"])
	assert.Zero(t, picked["worn2"])
	assert.Positive(t, picked["fresh1"])
	assert.Positive(t, picked["fresh2"])
}

func TestSelectNextQuestion_OrdersByExposureThenDistance(t *testing.T) {
	t.Run("closer difficulty wins on equal exposure", func(t *testing.T) {
		questions := newFakeQuestionRepo(mkQuestion("d4", 4, 1), mkQuestion("d3", 3, 1))
		e := New(questions, newFakeAnswerRepo(questions), WithRandomSource(firstPick{}))

		sel, err := e.SelectNextQuestion(context.Background(), "s1", domain.DefaultDomain)
		require.NoError(t, err)
		assert.Equal(t, "d3", sel.Question.ID)
	})

	t.Run("lower exposure wins over distance", func(t *testing.T) {
		questions := newFakeQuestionRepo(mkQuestion("d3", 3, 2), mkQuestion("d4", 4, 0))
		e := New(questions, newFakeAnswerRepo(questions), WithRandomSource(firstPick{}))

		sel, err := e.SelectNextQuestion(context.Background(), "s1", domain.DefaultDomain)
		require.NoError(t, err)
		assert.Equal(t, "d4", sel.Question.ID)
	})
}

func TestSelectNextQuestion_FineTune(t *testing.T) {
	setup := func() (*Engine, *fakeQuestionRepo) {
		questions := newFakeQuestionRepo(
			mkQuestion("x", 3, 0),
			mkQuestion("y", 3, 0),
			mkQuestion("z", 3, 0),
		)
		return New(questions, newFakeAnswerRepo(questions)), questions
	}

	t.Run("correct at target steps up", func(t *testing.T) {
		e, _ := setup()
		record(t, e, "s1", "x", false)
		record(t, e, "s1", "y", true)

		sel, err := e.SelectNextQuestion(context.Background(), "s1", domain.DefaultDomain)
		require.NoError(t, err)
		assert.Equal(t, 109, sel.Ability)
		assert.Equal(t, 4, sel.TargetDifficulty)
	})

	t.Run("incorrect at or above target steps down", func(t *testing.T) {
		e, _ := setup()
		record(t, e, "s1", "x", true)
		record(t, e, "s1", "y", false)

		sel, err := e.SelectNextQuestion(context.Background(), "s1", domain.DefaultDomain)
		require.NoError(t, err)
		assert.Equal(t, 109, sel.Ability)
		assert.Equal(t, 2, sel.TargetDifficulty)
	})

	t.Run("never drops below one", func(t *testing.T) {
		e, _ := setup()
		record(t, e, "s1", "x", false)

		sel, err := e.SelectNextQuestion(context.Background(), "s1", domain.DefaultDomain)
		require.NoError(t, err)
		assert.Equal(t, 70, sel.Ability)
		assert.Equal(t, 1, sel.TargetDifficulty)
	})

	t.Run("skipped when the last question is gone", func(t *testing.T) {
		e, questions := setup()
		record(t, e, "s1", "x", false)
		record(t, e, "s1", "y", true)
		questions.remove("y")

		sel, err := e.SelectNextQuestion(context.Background(), "s1", domain.DefaultDomain)
		require.NoError(t, err)
		// The vanished question scores as difficulty 0: ability 70, tier 1, no tune.
		assert.Equal(t, 1, sel.TargetDifficulty)
		assert.Equal(t, "z", sel.Question.ID)
	})
}

func TestSelectNextQuestion_RespectsDomain(t *testing.T) {
	iq := mkQuestion("iq", 3, 0)
	verbal := mkQuestion("verbal", 3, 0)
	verbal.Domain = "VERBAL"
	questions := newFakeQuestionRepo(iq, verbal)
	e := New(questions, newFakeAnswerRepo(questions))

	for i := 0; i < 20; i++ {
		sel, err := e.SelectNextQuestion(context.Background(), fmt.Sprintf("s%d", i), "VERBAL")
		require.NoError(t, err)
		assert.Equal(t, "verbal", sel.Question.ID)
	}
}

func TestSelectNextQuestion_RepositoryError(t *testing.T) {
	questions := newFakeQuestionRepo(mkQuestion("q1", 3, 0))
	questions.findErr = errors.New("connection reset")
	e := New(questions, newFakeAnswerRepo(questions))

	sel, err := e.SelectNextQuestion(context.Background(), "s1", domain.DefaultDomain)
	assert.Nil(t, sel)
	assert.ErrorIs(t, err, questions.findErr)
}
