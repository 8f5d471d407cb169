package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"adaptive-iq/internal/config"
	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/dto"
	"adaptive-iq/internal/engine"
	"adaptive-iq/internal/logger"
	"adaptive-iq/internal/metrics"

	"go.uber.org/zap"
)

const (
	defaultSharePlatform = "link"
	defaultAdProvider    = "google"
)

// AdaptiveEngine is the part of *engine.Engine the services depend on.
type AdaptiveEngine interface {
	SelectNextQuestion(ctx context.Context, sessionID, domainName string) (*engine.Selection, error)
	RecordAnswer(ctx context.Context, params engine.RecordAnswerParams) (*engine.RecordResult, error)
	CalculateAbility(ctx context.Context, sessionID string) (int, error)
}

// TestService drives a test session over HTTP
type TestService interface {
	StartTest(ctx context.Context, req *dto.StartTestRequest) (*dto.StartTestResponse, error)
	NextQuestion(ctx context.Context, sessionID string) (*dto.NextQuestionResponse, error)
	SubmitAnswer(ctx context.Context, sessionID, userID string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	UnlockStatus(ctx context.Context, sessionID string) (*dto.UnlockStatusResponse, error)
	RecordShare(ctx context.Context, sessionID string, req *dto.ShareRequest) (*dto.ShareResponse, error)
	RecordAdView(ctx context.Context, sessionID string, req *dto.AdViewRequest) (*dto.AdViewResponse, error)
	SaveEmail(ctx context.Context, sessionID string, req *dto.EmailRequest) (*dto.SuccessResponse, error)
}

type testService struct {
	engine    AdaptiveEngine
	sessions  domain.TestSessionRepository
	questions domain.QuestionRepository
	emails    domain.EmailRepository
	tx        domain.TransactionManager
	unlock    config.UnlockConfig
	now       func() time.Time
}

// NewTestService creates a new instance of testService
func NewTestService(
	eng AdaptiveEngine,
	sessions domain.TestSessionRepository,
	questions domain.QuestionRepository,
	emails domain.EmailRepository,
	tx domain.TransactionManager,
	unlock config.UnlockConfig,
) TestService {
	return &testService{
		engine:    eng,
		sessions:  sessions,
		questions: questions,
		emails:    emails,
		tx:        tx,
		unlock:    unlock,
		now:       time.Now,
	}
}

func (s *testService) StartTest(ctx context.Context, req *dto.StartTestRequest) (*dto.StartTestResponse, error) {
	if req == nil {
		req = &dto.StartTestRequest{}
	}
	session := domain.NewTestSession(strings.TrimSpace(req.Domain), strings.TrimSpace(req.CountryCode))
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, domain.NewInternalError("Failed to create test session", err)
	}

	logger.Get().Info("Test session started",
		zap.String("sessionID", session.ID),
		zap.String("domain", session.Domain),
		zap.String("country", session.CountryCode))
	return &dto.StartTestResponse{ID: session.ID, Domain: session.Domain}, nil
}

func (s *testService) NextQuestion(ctx context.Context, sessionID string) (*dto.NextQuestionResponse, error) {
	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	count, err := s.questions.CountByDomain(ctx, session.Domain)
	if err != nil {
		return nil, domain.NewInternalError("Failed to count questions", err)
	}
	if count == 0 {
		return nil, domain.NewNoQuestionsAvailableError(session.Domain)
	}

	sel, err := s.engine.SelectNextQuestion(ctx, session.ID, session.Domain)
	if err != nil {
		return nil, domain.NewInternalError("Failed to select next question", err)
	}

	if sel.Done {
		if err := s.completeSession(ctx, session, sel); err != nil {
			return nil, err
		}
		return &dto.NextQuestionResponse{
			Done:     true,
			Message:  fmt.Sprintf("Test complete. Answered %d questions.", sel.Answered),
			Answered: sel.Answered,
		}, nil
	}

	metrics.QuestionServed(sel.Question.Difficulty, sel.Fallback)
	logger.Get().Debug("Serving question",
		zap.String("sessionID", session.ID),
		zap.String("questionID", sel.Question.ID),
		zap.Int("ability", sel.Ability),
		zap.Int("target", sel.TargetDifficulty),
		zap.Int("difficulty", sel.Question.Difficulty),
		zap.Bool("fallback", sel.Fallback))

	return &dto.NextQuestionResponse{Question: toQuestionResponse(sel.Question)}, nil
}

// completeSession marks the session COMPLETED the first time it runs out of questions.
func (s *testService) completeSession(ctx context.Context, session *domain.TestSession, sel *engine.Selection) error {
	if session.IsCompleted() {
		return nil
	}
	session.Complete(s.now())
	if err := s.sessions.Update(ctx, session); err != nil {
		return domain.NewInternalError("Failed to complete test session", err)
	}
	metrics.SessionCompleted(string(sel.Reason), sel.Ability)
	logger.Get().Info("Test session completed",
		zap.String("sessionID", session.ID),
		zap.String("reason", string(sel.Reason)),
		zap.Int("answered", sel.Answered),
		zap.Int("ability", sel.Ability))
	return nil
}

func (s *testService) SubmitAnswer(ctx context.Context, sessionID, userID string, req *dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	if req == nil || strings.TrimSpace(req.QuestionID) == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("question_id")}
	}
	if _, err := s.findSession(ctx, sessionID); err != nil {
		return nil, err
	}

	result, err := s.engine.RecordAnswer(ctx, engine.RecordAnswerParams{
		SessionID:      sessionID,
		QuestionID:     req.QuestionID,
		SelectedOption: strings.TrimSpace(req.SelectedOption),
		ResponseTimeMs: max(0, req.ResponseTimeMs),
		UserID:         userID,
	})
	if err != nil {
		if domain.IsCode(err, domain.CodeQuestionNotFound) {
			return nil, err
		}
		return nil, domain.NewInternalError("Failed to record answer", err)
	}

	metrics.AnswerRecorded(result.Correct, strings.TrimSpace(req.SelectedOption) == "")
	return &dto.SubmitAnswerResponse{Correct: result.Correct}, nil
}

func (s *testService) UnlockStatus(ctx context.Context, sessionID string) (*dto.UnlockStatusResponse, error) {
	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.UnlockStatusResponse{
		Unlocked:        session.Unlocked,
		Paid:            session.Paid,
		ShareCount:      session.ShareCount,
		AdViews:         session.AdViews,
		Email:           session.Email,
		SharesRemaining: max(0, s.unlock.RequiredShares-session.ShareCount),
		CountryCode:     session.CountryCode,
	}, nil
}

func (s *testService) RecordShare(ctx context.Context, sessionID string, req *dto.ShareRequest) (*dto.ShareResponse, error) {
	if req == nil {
		req = &dto.ShareRequest{}
	}
	platform := strings.TrimSpace(req.Platform)
	if platform == "" {
		platform = defaultSharePlatform
	}

	var resp *dto.ShareResponse
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		session, err := s.findSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := s.sessions.InsertShare(ctx, &domain.Share{
			SessionID:  session.ID,
			Platform:   platform,
			SharedWith: strings.TrimSpace(req.SharedWith),
		}); err != nil {
			return domain.NewInternalError("Failed to record share", err)
		}

		session.ShareCount++
		session.Unlocked = session.Unlocked || session.ShareCount >= s.unlock.RequiredShares
		if err := s.sessions.Update(ctx, session); err != nil {
			return domain.NewInternalError("Failed to update share count", err)
		}

		resp = &dto.ShareResponse{
			Success:         true,
			ShareCount:      session.ShareCount,
			Unlocked:        session.Unlocked,
			SharesRemaining: max(0, s.unlock.RequiredShares-session.ShareCount),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.UnlockEvent("share")
	return resp, nil
}

func (s *testService) RecordAdView(ctx context.Context, sessionID string, req *dto.AdViewRequest) (*dto.AdViewResponse, error) {
	if req == nil {
		req = &dto.AdViewRequest{}
	}
	provider := strings.TrimSpace(req.AdProvider)
	if provider == "" {
		provider = defaultAdProvider
	}

	var resp *dto.AdViewResponse
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		session, err := s.findSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := s.sessions.InsertAdView(ctx, &domain.AdView{
			SessionID:    session.ID,
			AdProvider:   provider,
			RevenueCents: s.unlock.AdRevenueCents,
		}); err != nil {
			return domain.NewInternalError("Failed to record ad view", err)
		}

		session.AdViews++
		// One ad follows each share, so both thresholds must be met.
		session.Unlocked = (session.AdViews >= s.unlock.RequiredAdViews && session.ShareCount >= s.unlock.RequiredShares) ||
			session.Paid || session.Unlocked
		if err := s.sessions.Update(ctx, session); err != nil {
			return domain.NewInternalError("Failed to update ad views", err)
		}

		resp = &dto.AdViewResponse{Success: true, AdViews: session.AdViews, Unlocked: session.Unlocked}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.UnlockEvent("ad_view")
	return resp, nil
}

func (s *testService) SaveEmail(ctx context.Context, sessionID string, req *dto.EmailRequest) (*dto.SuccessResponse, error) {
	email := ""
	if req != nil {
		email = strings.TrimSpace(req.Email)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("email", email)}
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		session, err := s.findSession(ctx, sessionID)
		if err != nil {
			return err
		}
		session.Email = email
		if err := s.sessions.Update(ctx, session); err != nil {
			return domain.NewInternalError("Failed to store email on session", err)
		}
		if err := s.emails.Upsert(ctx, &domain.EmailSubscription{
			Email:      email,
			SessionID:  session.ID,
			Source:     domain.EmailSourceReportUnlock,
			Subscribed: true,
		}); err != nil {
			return domain.NewInternalError("Failed to save email subscription", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.UnlockEvent("email")
	return &dto.SuccessResponse{Success: true}, nil
}

func (s *testService) findSession(ctx context.Context, sessionID string) (*domain.TestSession, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load test session", err)
	}
	if session == nil {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	return session, nil
}

func toQuestionResponse(q *domain.Question) *dto.QuestionResponse {
	return &dto.QuestionResponse{
		ID:         q.ID,
		Text:       q.Text,
		Options:    toOptionResponses(q.Options),
		Difficulty: q.Difficulty,
	}
}

func toOptionResponses(options []domain.Option) []dto.OptionResponse {
	out := make([]dto.OptionResponse, 0, len(options))
	for _, o := range options {
		out = append(out, dto.OptionResponse{ID: o.ID, Text: o.Text})
	}
	return out
}
