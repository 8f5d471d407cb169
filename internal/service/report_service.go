package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"adaptive-iq/internal/cache"
	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/dto"
	"adaptive-iq/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	noAnswersMessage   = "Test not started or no answers yet"
	defaultExplanation = "The correct answer follows the pattern or logical reasoning."
	skippedOptionText  = "(Skipped)"
	// appended unless the explanation already says why
	analysisHint = "This pattern requires careful analysis of the sequence or relationship."
)

// ReportService builds the results report and the incorrect-answer review of a session.
type ReportService interface {
	GetResults(ctx context.Context, sessionID string) (*dto.ResultsResponse, error)
	GetIncorrectAnswers(ctx context.Context, sessionID string) (*dto.IncorrectAnswersResponse, error)
}

type reportService struct {
	engine   AdaptiveEngine
	sessions domain.TestSessionRepository
	answers  domain.AnswerRepository
	cache    domain.Cache
	ttl      time.Duration
	sfGroup  singleflight.Group
}

// NewReportService creates a report service. A nil cache disables caching.
func NewReportService(
	eng AdaptiveEngine,
	sessions domain.TestSessionRepository,
	answers domain.AnswerRepository,
	c domain.Cache,
	ttl time.Duration,
) ReportService {
	return &reportService{
		engine:   eng,
		sessions: sessions,
		answers:  answers,
		cache:    c,
		ttl:      ttl,
	}
}

// sessionSnapshot is what both reports are built from.
type sessionSnapshot struct {
	session *domain.TestSession
	answers []*domain.Answer
	ability int
}

// load fetches the session, its answers (oldest first) and the ability score concurrently.
func (s *reportService) load(ctx context.Context, sessionID string, withAbility bool) (*sessionSnapshot, error) {
	snap := &sessionSnapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		session, err := s.sessions.FindByID(gctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		snap.session = session
		return nil
	})
	g.Go(func() error {
		answers, err := s.answers.ListBySession(gctx, sessionID, domain.SortAsc)
		if err != nil {
			return fmt.Errorf("failed to load answers: %w", err)
		}
		snap.answers = answers
		return nil
	})
	if withAbility {
		g.Go(func() error {
			ability, err := s.engine.CalculateAbility(gctx, sessionID)
			if err != nil {
				return fmt.Errorf("failed to calculate ability: %w", err)
			}
			snap.ability = ability
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("Failed to load session report data", err)
	}
	if snap.session == nil {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	return snap, nil
}

func (s *reportService) GetResults(ctx context.Context, sessionID string) (*dto.ResultsResponse, error) {
	key := cache.ResultsKey(sessionID)
	var cached dto.ResultsResponse
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	res, err, _ := s.sfGroup.Do(key, func() (interface{}, error) {
		// shared by every waiter on key, so one caller's cancellation must not fail the rest
		ctx := context.WithoutCancel(ctx)
		snap, err := s.load(ctx, sessionID, true)
		if err != nil {
			return nil, err
		}
		report := buildResults(snap)
		if snap.session.IsCompleted() && len(snap.answers) > 0 {
			s.toCache(ctx, key, report)
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*dto.ResultsResponse), nil
}

func (s *reportService) GetIncorrectAnswers(ctx context.Context, sessionID string) (*dto.IncorrectAnswersResponse, error) {
	key := cache.IncorrectKey(sessionID)
	var cached dto.IncorrectAnswersResponse
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	res, err, _ := s.sfGroup.Do(key, func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		snap, err := s.load(ctx, sessionID, false)
		if err != nil {
			return nil, err
		}
		review := buildIncorrectAnswers(snap.answers)
		if snap.session.IsCompleted() {
			s.toCache(ctx, key, review)
		}
		return review, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*dto.IncorrectAnswersResponse), nil
}

func buildResults(snap *sessionSnapshot) *dto.ResultsResponse {
	answers := snap.answers
	if len(answers) == 0 {
		return &dto.ResultsResponse{
			Error:             noAnswersMessage,
			Percentile:        50,
			IQCategory:        "Average",
			PersonalityTraits: []string{},
		}
	}

	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	percentile := IQToPercentile(snap.ability)

	return &dto.ResultsResponse{
		IQScore:           snap.ability,
		Percentile:        percentile,
		IQCategory:        IQCategory(percentile),
		Accuracy:          percent(accuracyOf(answers)),
		TotalQuestions:    len(answers),
		CorrectAnswers:    correct,
		PersonalityTraits: PersonalityTraits(answers),
		Strengths: dto.Strengths{
			Verbal:             percent(groupAccuracy(answers, verbalTags...)),
			Mathematical:       percent(groupAccuracy(answers, mathematicalTags...)),
			Logical:            percent(groupAccuracy(answers, logicalTags...)),
			PatternRecognition: percent(groupAccuracy(answers, patternTags...)),
		},
	}
}

func buildIncorrectAnswers(answers []*domain.Answer) *dto.IncorrectAnswersResponse {
	review := &dto.IncorrectAnswersResponse{IncorrectAnswers: []dto.IncorrectAnswerResponse{}}
	for _, a := range answers {
		if a.IsCorrect {
			continue
		}
		q := a.Question
		if q == nil {
			logger.Get().Warn("Skipping answer whose question no longer exists",
				zap.String("answerID", a.ID),
				zap.String("questionID", a.QuestionID))
			continue
		}

		correctText := q.OptionText(q.CorrectOption)
		if correctText == "" {
			correctText = q.CorrectOption
		}
		selectedText := q.OptionText(a.SelectedOption)

		explanation := q.Explanation
		if explanation == "" {
			explanation = defaultExplanation
		}
		if selectedText != "" {
			base := explanation
			explanation = fmt.Sprintf(`%s You selected "%s", but the correct answer is "%s".`, base, selectedText, correctText)
			if !strings.Contains(base, "why") {
				explanation += " " + analysisHint
			}
		}

		switch {
		case selectedText != "":
		case a.SelectedOption != "":
			selectedText = a.SelectedOption
		default:
			selectedText = skippedOptionText
		}

		review.IncorrectAnswers = append(review.IncorrectAnswers, dto.IncorrectAnswerResponse{
			QuestionID:         q.ID,
			QuestionText:       q.Text,
			Options:            toOptionResponses(q.Options),
			SelectedOption:     a.SelectedOption,
			SelectedOptionText: selectedText,
			CorrectOption:      q.CorrectOption,
			CorrectOptionText:  correctText,
			Difficulty:         q.Difficulty,
			Explanation:        explanation,
		})
	}
	return review
}

// fromCache reports whether key was found and decoded into dst. Cache failures are treated as misses.
func (s *reportService) fromCache(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		logger.Get().Warn("Discarding undecodable cached report", zap.String("key", key), zap.Error(err))
		return false
	}
	logger.Get().Debug("Report cache hit", zap.String("key", key))
	return true
}

func (s *reportService) toCache(ctx context.Context, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		logger.Get().Error("Failed to marshal report for caching", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Warn("Failed to cache report", zap.String("key", key), zap.Error(err))
	}
}
