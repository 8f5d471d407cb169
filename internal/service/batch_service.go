package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"adaptive-iq/internal/domain"

	"go.uber.org/zap"
)

// batchService implements the domain.BatchService interface.
type batchService struct {
	questions domain.QuestionRepository
	generator domain.QuestionGenerator
	tx        domain.TransactionManager
	logger    *zap.Logger
}

// NewBatchService creates a new instance of batchService. generator may be nil when only importing.
func NewBatchService(
	questions domain.QuestionRepository,
	generator domain.QuestionGenerator,
	tx domain.TransactionManager,
	logger *zap.Logger,
) domain.BatchService {
	return &batchService{
		questions: questions,
		generator: generator,
		tx:        tx,
		logger:    logger,
	}
}

// GenerateAndSave implements domain.BatchService.
// A failing difficulty is logged and skipped; the call only fails when nothing could be generated at all.
func (s *batchService) GenerateAndSave(ctx context.Context, domainName string, perDifficulty int) (int, error) {
	if s.generator == nil {
		return 0, fmt.Errorf("no question generator configured")
	}
	if perDifficulty <= 0 {
		perDifficulty = 2
	}
	s.logger.Info("Starting batch question generation",
		zap.String("domain", domainName),
		zap.Int("per_difficulty", perDifficulty),
		zap.Time("start_time", time.Now()))

	var candidates []*domain.Question
	var lastErr error
	failures := 0
	for d := domain.MinDifficulty; d <= domain.MaxDifficulty; d++ {
		generated, err := s.generator.GenerateQuestions(ctx, domainName, d, nil, perDifficulty)
		if err != nil {
			s.logger.Error("Failed to generate questions", zap.Int("difficulty", d), zap.Error(err))
			lastErr = err
			failures++
			continue
		}
		for _, g := range generated {
			if g != nil {
				candidates = append(candidates, g.ToQuestion(domainName))
			}
		}
	}
	if failures == domain.MaxDifficulty-domain.MinDifficulty+1 {
		return 0, fmt.Errorf("question generation failed for every difficulty: %w", lastErr)
	}

	return s.ImportQuestions(ctx, domainName, candidates)
}

// ImportQuestions implements domain.BatchService.
func (s *batchService) ImportQuestions(ctx context.Context, domainName string, questions []*domain.Question) (int, error) {
	existing, err := s.questions.ListByDomain(ctx, domainName)
	if err != nil {
		return 0, fmt.Errorf("failed to list existing questions: %w", err)
	}
	seen := make(map[string]bool, len(existing)+len(questions))
	for _, q := range existing {
		seen[normalizeQuestionText(q.Text)] = true
	}

	saved := 0
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for _, q := range questions {
			if q == nil {
				continue
			}
			q.Domain = domainName
			key := normalizeQuestionText(q.Text)
			if seen[key] {
				s.logger.Info("Skipping duplicate question", zap.String("text", q.Text))
				continue
			}
			if err := q.Validate(); err != nil {
				s.logger.Warn("Skipping invalid question", zap.String("text", q.Text), zap.Error(err))
				continue
			}
			if err := s.questions.Save(ctx, q); err != nil {
				return fmt.Errorf("failed to save question %q: %w", q.Text, err)
			}
			seen[key] = true
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Question import finished",
		zap.String("domain", domainName),
		zap.Int("offered", len(questions)),
		zap.Int("saved", saved))
	return saved, nil
}

// normalizeQuestionText lowercases and drops everything but letters and digits,
// so punctuation and spacing differences do not make a duplicate look new.
func normalizeQuestionText(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
