package domain

import "time"

// Answer is one recorded response within a test session. Answers are never updated.
type Answer struct {
	ID             string
	SessionID      string
	UserID         string // empty for anonymous test takers
	QuestionID     string
	SelectedOption string // empty when the question was skipped
	IsCorrect      bool
	ResponseTimeMs int
	CreatedAt      time.Time

	// Question is populated by AnswerRepository.ListBySession.
	Question *Question
}

// Skipped reports whether no option was selected.
func (a *Answer) Skipped() bool {
	return a.SelectedOption == ""
}

// Difficulty returns the difficulty of the joined question, or 0 if it was not loaded.
func (a *Answer) Difficulty() int {
	if a.Question == nil {
		return 0
	}
	return a.Question.Difficulty
}
