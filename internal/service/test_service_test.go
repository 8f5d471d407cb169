package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"adaptive-iq/internal/config"
	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/dto"
	"adaptive-iq/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testUnlock = config.UnlockConfig{RequiredShares: 5, RequiredAdViews: 5, AdRevenueCents: 2}

type testServiceFixture struct {
	engine    *MockEngine
	sessions  *MockSessionRepository
	questions *MockQuestionRepository
	emails    *MockEmailRepository
	tx        *passthroughTx
	svc       TestService
}

func newTestServiceFixture() *testServiceFixture {
	f := &testServiceFixture{
		engine:    new(MockEngine),
		sessions:  new(MockSessionRepository),
		questions: new(MockQuestionRepository),
		emails:    new(MockEmailRepository),
		tx:        &passthroughTx{},
	}
	f.svc = NewTestService(f.engine, f.sessions, f.questions, f.emails, f.tx, testUnlock)
	return f
}

func (f *testServiceFixture) assertExpectations(t *testing.T) {
	f.engine.AssertExpectations(t)
	f.sessions.AssertExpectations(t)
	f.questions.AssertExpectations(t)
	f.emails.AssertExpectations(t)
}

func inProgressSession(id string) *domain.TestSession {
	s := domain.NewTestSession("IQ", "kr")
	s.ID = id
	return s
}

func sampleQuestion(id string, difficulty int) *domain.Question {
	q := domain.NewQuestion("What comes next: 1, 2, 4, 8, ?",
		[]domain.Option{{ID: "A", Text: "12"}, {ID: "B", Text: "16"}, {ID: "C", Text: "10"}},
		"B", difficulty, "IQ", []string{"sequence"}, "Each term doubles.")
	q.ID = id
	return q
}

func TestStartTest(t *testing.T) {
	f := newTestServiceFixture()
	ctx := context.Background()

	f.sessions.On("Create", ctx, mock.MatchedBy(func(s *domain.TestSession) bool {
		return s.Domain == "IQ" && s.CountryCode == "KR" && s.Status == domain.SessionInProgress
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.TestSession).ID = "S1"
	}).Return(nil).Once()

	resp, err := f.svc.StartTest(ctx, &dto.StartTestRequest{CountryCode: " kr "})
	require.NoError(t, err)
	assert.Equal(t, "S1", resp.ID)
	assert.Equal(t, "IQ", resp.Domain)
	f.assertExpectations(t)
}

func TestStartTest_RepositoryError(t *testing.T) {
	f := newTestServiceFixture()
	ctx := context.Background()
	f.sessions.On("Create", ctx, mock.Anything).Return(errors.New("db down")).Once()

	_, err := f.svc.StartTest(ctx, nil)
	assert.True(t, domain.IsCode(err, domain.CodeInternal))
}

func TestNextQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("ServesQuestion", func(t *testing.T) {
		f := newTestServiceFixture()
		f.sessions.On("FindByID", ctx, "S1").Return(inProgressSession("S1"), nil).Once()
		f.questions.On("CountByDomain", ctx, "IQ").Return(30, nil).Once()
		f.engine.On("SelectNextQuestion", ctx, "S1", "IQ").Return(&engine.Selection{
			Question:         sampleQuestion("Q1", 3),
			Ability:          100,
			TargetDifficulty: 3,
		}, nil).Once()

		resp, err := f.svc.NextQuestion(ctx, "S1")
		require.NoError(t, err)
		require.NotNil(t, resp.Question)
		assert.False(t, resp.Done)
		assert.Equal(t, "Q1", resp.Question.ID)
		assert.Len(t, resp.Question.Options, 3)
		assert.Equal(t, 3, resp.Question.Difficulty)
		f.assertExpectations(t)
	})

	t.Run("SessionNotFound", func(t *testing.T) {
		f := newTestServiceFixture()
		f.sessions.On("FindByID", ctx, "missing").Return(nil, nil).Once()

		_, err := f.svc.NextQuestion(ctx, "missing")
		assert.True(t, domain.IsCode(err, domain.CodeSessionNotFound))
		f.assertExpectations(t)
	})

	t.Run("EmptyBank", func(t *testing.T) {
		f := newTestServiceFixture()
		f.sessions.On("FindByID", ctx, "S1").Return(inProgressSession("S1"), nil).Once()
		f.questions.On("CountByDomain", ctx, "IQ").Return(0, nil).Once()

		_, err := f.svc.NextQuestion(ctx, "S1")
		assert.True(t, domain.IsCode(err, domain.CodeNoQuestionsAvailable))
		f.engine.AssertNotCalled(t, "SelectNextQuestion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CompletesSession", func(t *testing.T) {
		f := newTestServiceFixture()
		session := inProgressSession("S1")
		f.sessions.On("FindByID", ctx, "S1").Return(session, nil).Once()
		f.questions.On("CountByDomain", ctx, "IQ").Return(30, nil).Once()
		f.engine.On("SelectNextQuestion", ctx, "S1", "IQ").Return(&engine.Selection{
			Done:     true,
			Reason:   engine.ReasonSessionCapped,
			Answered: 20,
			Ability:  118,
		}, nil).Once()
		f.sessions.On("Update", ctx, mock.MatchedBy(func(s *domain.TestSession) bool {
			return s.IsCompleted() && s.CompletedAt != nil
		})).Return(nil).Once()

		resp, err := f.svc.NextQuestion(ctx, "S1")
		require.NoError(t, err)
		assert.True(t, resp.Done)
		assert.Equal(t, 20, resp.Answered)
		assert.Equal(t, "Test complete. Answered 20 questions.", resp.Message)
		assert.Nil(t, resp.Question)
		f.assertExpectations(t)
	})

	t.Run("AlreadyCompletedIsNotUpdatedAgain", func(t *testing.T) {
		f := newTestServiceFixture()
		session := inProgressSession("S1")
		session.Complete(time.Now())
		f.sessions.On("FindByID", ctx, "S1").Return(session, nil).Once()
		f.questions.On("CountByDomain", ctx, "IQ").Return(30, nil).Once()
		f.engine.On("SelectNextQuestion", ctx, "S1", "IQ").Return(&engine.Selection{
			Done:     true,
			Reason:   engine.ReasonSessionCapped,
			Answered: 20,
		}, nil).Once()

		resp, err := f.svc.NextQuestion(ctx, "S1")
		require.NoError(t, err)
		assert.True(t, resp.Done)
		f.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("EngineError", func(t *testing.T) {
		f := newTestServiceFixture()
		f.sessions.On("FindByID", ctx, "S1").Return(inProgressSession("S1"), nil).Once()
		f.questions.On("CountByDomain", ctx, "IQ").Return(30, nil).Once()
		f.engine.On("SelectNextQuestion", ctx, "S1", "IQ").Return(nil, errors.New("boom")).Once()

		_, err := f.svc.NextQuestion(ctx, "S1")
		assert.True(t, domain.IsCode(err, domain.CodeInternal))
	})
}

func TestSubmitAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("Correct", func(t *testing.T) {
		f := newTestServiceFixture()
		f.sessions.On("FindByID", ctx, "S1").Return(inProgressSession("S1"), nil).Once()
		f.engine.On("RecordAnswer", ctx, engine.RecordAnswerParams{
			SessionID:      "S1",
			QuestionID:     "Q1",
			SelectedOption: "B",
			ResponseTimeMs: 4200,
			UserID:         "U1",
		}).Return(&engine.RecordResult{AnswerID: "A1", Correct: true, Difficulty: 3}, nil).Once()

		resp, err := f.svc.SubmitAnswer(ctx, "S1", "U1", &dto.SubmitAnswerRequest{
			QuestionID:     "Q1",
			SelectedOption: " B ",
			ResponseTimeMs: 4200,
		})
		require.NoError(t, err)
		assert.True(t, resp.Correct)
		f.assertExpectations(t)
	})

	t.Run("SkippedWithNegativeTime", func(t *testing.T) {
		f := newTestServiceFixture()
		f.sessions.On("FindByID", ctx, "S1").Return(inProgressSession("S1"), nil).Once()
		f.engine.On("RecordAnswer", ctx, engine.RecordAnswerParams{
			SessionID:  "S1",
			QuestionID: "Q1",
		}).Return(&engine.RecordResult{AnswerID: "A1"}, nil).Once()

		resp, err := f.svc.SubmitAnswer(ctx, "S1", "", &dto.SubmitAnswerRequest{QuestionID: "Q1", ResponseTimeMs: -10})
		require.NoError(t, err)
		assert.False(t, resp.Correct)
		f.assertExpectations(t)
	})

	t.Run("MissingQuestionID", func(t *testing.T) {
		f := newTestServiceFixture()
		_, err := f.svc.SubmitAnswer(ctx, "S1", "", &dto.SubmitAnswerRequest{SelectedOption: "A"})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "question_id", verrs[0].Field)
		f.sessions.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("UnknownQuestion", func(t *testing.T) {
		f := newTestServiceFixture()
		f.sessions.On("FindByID", ctx, "S1").Return(inProgressSession("S1"), nil).Once()
		f.engine.On("RecordAnswer", ctx, mock.Anything).Return(nil, domain.NewQuestionNotFoundError("nope")).Once()

		_, err := f.svc.SubmitAnswer(ctx, "S1", "", &dto.SubmitAnswerRequest{QuestionID: "nope", SelectedOption: "A"})
		assert.True(t, domain.IsCode(err, domain.CodeQuestionNotFound))
	})
}

func TestUnlockStatus(t *testing.T) {
	ctx := context.Background()
	f := newTestServiceFixture()
	session := inProgressSession("S1")
	session.ShareCount = 2
	session.AdViews = 1
	f.sessions.On("FindByID", ctx, "S1").Return(session, nil).Once()

	resp, err := f.svc.UnlockStatus(ctx, "S1")
	require.NoError(t, err)
	assert.False(t, resp.Unlocked)
	assert.Equal(t, 2, resp.ShareCount)
	assert.Equal(t, 1, resp.AdViews)
	assert.Equal(t, 3, resp.SharesRemaining)
	assert.Equal(t, "KR", resp.CountryCode)
}

func TestRecordShare(t *testing.T) {
	ctx := context.Background()

	t.Run("UnlocksAtThreshold", func(t *testing.T) {
		f := newTestServiceFixture()
		session := inProgressSession("S1")
		session.ShareCount = 4
		f.sessions.On("FindByID", ctx, "S1").Return(session, nil).Once()
		f.sessions.On("InsertShare", ctx, mock.MatchedBy(func(s *domain.Share) bool {
			return s.SessionID == "S1" && s.Platform == "link"
		})).Return(nil).Once()
		f.sessions.On("Update", ctx, mock.MatchedBy(func(s *domain.TestSession) bool {
			return s.ShareCount == 5 && s.Unlocked
		})).Return(nil).Once()

		resp, err := f.svc.RecordShare(ctx, "S1", nil)
		require.NoError(t, err)
		assert.Equal(t, &dto.ShareResponse{Success: true, ShareCount: 5, Unlocked: true, SharesRemaining: 0}, resp)
		assert.Equal(t, 1, f.tx.calls)
		f.assertExpectations(t)
	})

	t.Run("BelowThreshold", func(t *testing.T) {
		f := newTestServiceFixture()
		f.sessions.On("FindByID", ctx, "S1").Return(inProgressSession("S1"), nil).Once()
		f.sessions.On("InsertShare", ctx, mock.MatchedBy(func(s *domain.Share) bool {
			return s.Platform == "kakao" && s.SharedWith == "friend"
		})).Return(nil).Once()
		f.sessions.On("Update", ctx, mock.Anything).Return(nil).Once()

		resp, err := f.svc.RecordShare(ctx, "S1", &dto.ShareRequest{Platform: "kakao", SharedWith: "friend"})
		require.NoError(t, err)
		assert.False(t, resp.Unlocked)
		assert.Equal(t, 4, resp.SharesRemaining)
	})

	t.Run("InsertFails", func(t *testing.T) {
		f := newTestServiceFixture()
		f.sessions.On("FindByID", ctx, "S1").Return(inProgressSession("S1"), nil).Once()
		f.sessions.On("InsertShare", ctx, mock.Anything).Return(errors.New("constraint")).Once()

		_, err := f.svc.RecordShare(ctx, "S1", nil)
		assert.True(t, domain.IsCode(err, domain.CodeInternal))
		f.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestRecordAdView(t *testing.T) {
	ctx := context.Background()

	t.Run("NeedsBothThresholds", func(t *testing.T) {
		f := newTestServiceFixture()
		session := inProgressSession("S1")
		session.AdViews = 4
		session.ShareCount = 3
		f.sessions.On("FindByID", ctx, "S1").Return(session, nil).Once()
		f.sessions.On("InsertAdView", ctx, mock.MatchedBy(func(v *domain.AdView) bool {
			return v.AdProvider == "google" && v.RevenueCents == 2
		})).Return(nil).Once()
		f.sessions.On("Update", ctx, mock.Anything).Return(nil).Once()

		resp, err := f.svc.RecordAdView(ctx, "S1", nil)
		require.NoError(t, err)
		assert.Equal(t, 5, resp.AdViews)
		assert.False(t, resp.Unlocked)
	})

	t.Run("Unlocks", func(t *testing.T) {
		f := newTestServiceFixture()
		session := inProgressSession("S1")
		session.AdViews = 4
		session.ShareCount = 5
		f.sessions.On("FindByID", ctx, "S1").Return(session, nil).Once()
		f.sessions.On("InsertAdView", ctx, mock.Anything).Return(nil).Once()
		f.sessions.On("Update", ctx, mock.Anything).Return(nil).Once()

		resp, err := f.svc.RecordAdView(ctx, "S1", &dto.AdViewRequest{AdProvider: "admob"})
		require.NoError(t, err)
		assert.True(t, resp.Unlocked)
	})

	t.Run("PaidStaysUnlocked", func(t *testing.T) {
		f := newTestServiceFixture()
		session := inProgressSession("S1")
		session.Paid = true
		f.sessions.On("FindByID", ctx, "S1").Return(session, nil).Once()
		f.sessions.On("InsertAdView", ctx, mock.Anything).Return(nil).Once()
		f.sessions.On("Update", ctx, mock.Anything).Return(nil).Once()

		resp, err := f.svc.RecordAdView(ctx, "S1", nil)
		require.NoError(t, err)
		assert.True(t, resp.Unlocked)
	})
}

func TestSaveEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newTestServiceFixture()
		f.sessions.On("FindByID", ctx, "S1").Return(inProgressSession("S1"), nil).Once()
		f.sessions.On("Update", ctx, mock.MatchedBy(func(s *domain.TestSession) bool {
			return s.Email == "kim@example.com"
		})).Return(nil).Once()
		f.emails.On("Upsert", ctx, &domain.EmailSubscription{
			Email:      "kim@example.com",
			SessionID:  "S1",
			Source:     domain.EmailSourceReportUnlock,
			Subscribed: true,
		}).Return(nil).Once()

		resp, err := f.svc.SaveEmail(ctx, "S1", &dto.EmailRequest{Email: " kim@example.com "})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		f.assertExpectations(t)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		f := newTestServiceFixture()
		_, err := f.svc.SaveEmail(ctx, "S1", &dto.EmailRequest{Email: "not-an-email"})
		var verrs domain.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, domain.CodeInvalidFormat, verrs[0].Code)
		assert.Equal(t, 0, f.tx.calls)
	})

	t.Run("UpsertFails", func(t *testing.T) {
		f := newTestServiceFixture()
		f.sessions.On("FindByID", ctx, "S1").Return(inProgressSession("S1"), nil).Once()
		f.sessions.On("Update", ctx, mock.Anything).Return(nil).Once()
		f.emails.On("Upsert", ctx, mock.Anything).Return(errors.New("db down")).Once()

		_, err := f.svc.SaveEmail(ctx, "S1", &dto.EmailRequest{Email: "kim@example.com"})
		assert.True(t, domain.IsCode(err, domain.CodeInternal))
	})
}
