// Package engine implements the adaptive test core: it estimates a running
// ability score from a session's answers, maps it to a difficulty tier,
// picks the next unseen question and records answers.
package engine

import (
	"time"

	"adaptive-iq/internal/domain"
)

const (
	// MaxQuestionsPerSession is the default number of answers after which a session is complete.
	MaxQuestionsPerSession = 20

	BaselineAbility = 100
	MinAbility      = 70
	MaxAbility      = 160
)

// Engine is safe for concurrent use; it holds no per-session state.
type Engine struct {
	questions    domain.QuestionRepository
	answers      domain.AnswerRepository
	tx           domain.TransactionManager
	rng          RandomSource
	maxQuestions int
	now          func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithTransactionManager makes RecordAnswer insert the answer and bump exposure atomically.
func WithTransactionManager(tx domain.TransactionManager) Option {
	return func(e *Engine) {
		e.tx = tx
	}
}

// WithRandomSource replaces the default time-seeded source.
func WithRandomSource(rng RandomSource) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithMaxQuestions overrides the session cap. Non-positive values are ignored.
func WithMaxQuestions(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxQuestions = n
		}
	}
}

// WithClock sets the time source used for answer timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Engine over the given repositories.
func New(questions domain.QuestionRepository, answers domain.AnswerRepository, opts ...Option) *Engine {
	e := &Engine{
		questions:    questions,
		answers:      answers,
		rng:          NewRandomSource(time.Now().UnixNano()),
		maxQuestions: MaxQuestionsPerSession,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxQuestions returns the configured session cap.
func (e *Engine) MaxQuestions() int {
	return e.maxQuestions
}
