package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 5

	// DefaultDomain is the question bank used when a test does not name one.
	DefaultDomain = "IQ"
)

// Option is one answer choice of a multiple-choice question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a multiple-choice item of the question bank.
type Question struct {
	ID            string
	Text          string
	Options       []Option
	CorrectOption string
	Difficulty    int
	Domain        string
	Tags          []string
	Explanation   string
	ExposureCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewQuestion creates a new Question with zero exposure.
func NewQuestion(text string, options []Option, correctOption string, difficulty int, domainName string, tags []string, explanation string) *Question {
	now := time.Now()
	if domainName == "" {
		domainName = DefaultDomain
	}
	return &Question{
		Text:          text,
		Options:       options,
		CorrectOption: correctOption,
		Difficulty:    difficulty,
		Domain:        domainName,
		Tags:          tags,
		Explanation:   explanation,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate checks the invariants a question must satisfy before it is stored.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewInvalidInputError("question text is required")
	}
	if len(q.Options) < 2 {
		return NewInvalidInputError("question needs at least two options")
	}
	if q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty {
		return NewInvalidInputError(fmt.Sprintf("difficulty must be between %d and %d, got %d", MinDifficulty, MaxDifficulty, q.Difficulty))
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if o.ID == "" {
			return NewInvalidInputError("option id is required")
		}
		if seen[o.ID] {
			return NewInvalidInputError(fmt.Sprintf("duplicate option id %q", o.ID))
		}
		seen[o.ID] = true
	}
	if !seen[q.CorrectOption] {
		return NewInvalidInputError(fmt.Sprintf("correct option %q is not one of the options", q.CorrectOption))
	}
	return nil
}

// OptionText returns the text of the option with the given id, or "" when there is none.
func (q *Question) OptionText(optionID string) string {
	for _, o := range q.Options {
		if o.ID == optionID {
			return o.Text
		}
	}
	return ""
}

// HasTag reports whether the question carries any of the given tags.
func (q *Question) HasTag(tags ...string) bool {
	for _, t := range q.Tags {
		for _, want := range tags {
			if t == want {
				return true
			}
		}
	}
	return false
}
