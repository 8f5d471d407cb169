package quizgen

import (
	"context"
	"fmt"
	"time"

	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/logger"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"go.uber.org/zap"
)

const (
	anthropicSystemPrompt = "You are an item writer for adaptive IQ tests. You answer with JSON only."
	anthropicMaxTokens    = 4096
	anthropicAttempts     = 2
)

// MessageSender is the part of the Anthropic messages API the generator needs.
// *anthropic.MessageService satisfies it.
type MessageSender interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicQuestionGenerator implements domain.QuestionGenerator with the Anthropic messages API.
type AnthropicQuestionGenerator struct {
	messages MessageSender
	model    string
	timeout  time.Duration
	backoff  time.Duration
}

// NewAnthropicClient builds the production message sender for apiKey.
func NewAnthropicClient(apiKey string) MessageSender {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &client.Messages
}

func NewAnthropicQuestionGenerator(messages MessageSender, model string, timeout time.Duration) domain.QuestionGenerator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AnthropicQuestionGenerator{messages: messages, model: model, timeout: timeout, backoff: 2 * time.Second}
}

// GenerateQuestions implements domain.QuestionGenerator.
func (g *AnthropicQuestionGenerator) GenerateQuestions(ctx context.Context, domainName string, difficulty int, tags []string, count int) ([]*domain.GeneratedQuestion, error) {
	if count <= 0 {
		return nil, nil
	}
	if difficulty < domain.MinDifficulty || difficulty > domain.MaxDifficulty {
		return nil, domain.NewOutOfRangeError("difficulty", difficulty, domain.MinDifficulty, domain.MaxDifficulty)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   anthropicMaxTokens,
		Temperature: param.NewOpt(0.7),
		System:      []anthropic.TextBlockParam{{Text: anthropicSystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(domainName, difficulty, tags, count))),
		},
	}

	message, err := g.sendWithRetry(ctx, params)
	if err != nil {
		return nil, domain.NewLLMServiceError(err)
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, domain.NewLLMServiceError(fmt.Errorf("no text content in API response"))
	}
	return acceptCandidates(text, domainName, difficulty, count)
}

func (g *AnthropicQuestionGenerator) sendWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < anthropicAttempts; attempt++ {
		if attempt > 0 {
			logger.Get().Warn("Retrying Anthropic API call", zap.Int("attempt", attempt+1), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("anthropic API: %w", ctx.Err())
			case <-time.After(g.backoff):
			}
		}
		message, err := g.messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

var _ domain.QuestionGenerator = (*AnthropicQuestionGenerator)(nil)
