package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const promptTemplate = `You write multiple-choice IQ test questions. Respond with ONLY a JSON array of %d objects in the following format:
[
  {
    "text": "question text",
    "options": [{"id": "A", "text": "..."}, {"id": "B", "text": "..."}, {"id": "C", "text": "..."}, {"id": "D", "text": "..."}],
    "correct_option": "B",
    "difficulty": %d,
    "tags": ["sequence"],
    "explanation": "one or two sentences"
  }
]

Domain: %s
Difficulty: %d on a scale of 1 (easy) to 5 (very hard)
Preferred tags: %s

Rules:
1. Exactly one option is correct and correct_option is its id
2. Use between 4 and 5 options with ids A, B, C, D (E)
3. Tags come from: sequence, pattern, verbal, vocabulary, anagram, mathematical, logic, reasoning
4. Questions must be solvable from the text alone, no images`

// OllamaQuestionGenerator implements domain.QuestionGenerator on top of a langchaingo model.
type OllamaQuestionGenerator struct {
	model   llms.Model
	timeout time.Duration
}

// NewOllamaQuestionGenerator accepts any llms.Model; production wiring passes an *ollama.LLM.
func NewOllamaQuestionGenerator(model llms.Model, timeout time.Duration) domain.QuestionGenerator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OllamaQuestionGenerator{model: model, timeout: timeout}
}

// GenerateQuestions implements domain.QuestionGenerator.
// Candidates that fail validation are dropped, so fewer than count may come back.
func (g *OllamaQuestionGenerator) GenerateQuestions(ctx context.Context, domainName string, difficulty int, tags []string, count int) ([]*domain.GeneratedQuestion, error) {
	if count <= 0 {
		return nil, nil
	}
	if difficulty < domain.MinDifficulty || difficulty > domain.MaxDifficulty {
		return nil, domain.NewOutOfRangeError("difficulty", difficulty, domain.MinDifficulty, domain.MaxDifficulty)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := llms.GenerateFromSinglePrompt(ctx, g.model, buildPrompt(domainName, difficulty, tags, count), llms.WithTemperature(0.7))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Get().Error("LLM request timed out", zap.Error(err), zap.Duration("timeout", g.timeout))
		}
		return nil, domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}
	return acceptCandidates(raw, domainName, difficulty, count)
}

func buildPrompt(domainName string, difficulty int, tags []string, count int) string {
	preferred := "any"
	if len(tags) > 0 {
		preferred = strings.Join(tags, ", ")
	}
	return fmt.Sprintf(promptTemplate, count, difficulty, domainName, difficulty, preferred)
}

// acceptCandidates parses a model response and keeps the candidates that validate.
func acceptCandidates(raw, domainName string, difficulty, count int) ([]*domain.GeneratedQuestion, error) {
	l := logger.Get()
	l.Debug("Raw LLM response received", zap.String("raw_response", raw))

	candidates, err := parseCandidates(raw)
	if err != nil {
		l.Error("Failed to parse LLM response", zap.Error(err), zap.String("raw_response", raw))
		return nil, domain.NewLLMServiceError(err)
	}

	var valid []*domain.GeneratedQuestion
	for _, c := range candidates {
		if c == nil {
			continue
		}
		// the model sometimes drifts off the requested level
		c.Difficulty = difficulty
		c.CorrectOption = strings.ToUpper(strings.TrimSpace(c.CorrectOption))
		if err := c.ToQuestion(domainName).Validate(); err != nil {
			l.Warn("Dropping invalid generated question", zap.String("text", c.Text), zap.Error(err))
			continue
		}
		valid = append(valid, c)
	}

	l.Info("Generated questions",
		zap.String("domain", domainName),
		zap.Int("difficulty", difficulty),
		zap.Int("requested", count),
		zap.Int("accepted", len(valid)))
	return valid, nil
}

// parseCandidates extracts the JSON array from a model response.
// Reasoning models wrap their output in <think> blocks, which are stripped first.
func parseCandidates(raw string) ([]*domain.GeneratedQuestion, error) {
	cleaned := strings.TrimSpace(raw)
	if start := strings.Index(cleaned, "<think>"); start != -1 {
		if end := strings.Index(cleaned, "</think>"); end > start {
			cleaned = strings.TrimSpace(cleaned[:start] + cleaned[end+len("</think>"):])
		}
	}

	jsonStart := strings.Index(cleaned, "[")
	jsonEnd := strings.LastIndex(cleaned, "]")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return nil, fmt.Errorf("no JSON array found in LLM response")
	}

	var out []*domain.GeneratedQuestion
	if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON from LLM: %w", err)
	}
	return out, nil
}

var _ domain.QuestionGenerator = (*OllamaQuestionGenerator)(nil)
