package domain

import "context"

// SortOrder controls the created-at ordering of listed answers.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// QuestionFilter narrows QuestionRepository.FindMany.
// Zero difficulty bounds mean "unbounded".
type QuestionFilter struct {
	Domain        string
	ExcludeIDs    []string
	MinDifficulty int
	MaxDifficulty int
}

// QuestionRepository defines the interface for question bank persistence
type QuestionRepository interface {
	// FindByID returns nil, nil when the question does not exist.
	FindByID(ctx context.Context, id string) (*Question, error)

	// CountByDomain returns the number of questions in a domain.
	CountByDomain(ctx context.Context, domainName string) (int, error)

	// FindMany returns every question matching the filter.
	FindMany(ctx context.Context, filter QuestionFilter) ([]*Question, error)

	// ListByDomain returns all questions of a domain, oldest first.
	ListByDomain(ctx context.Context, domainName string) ([]*Question, error)

	// IncrementExposure adds exactly one to a question's exposure counter.
	IncrementExposure(ctx context.Context, id string) error

	// Save persists a new question and assigns its ID.
	Save(ctx context.Context, question *Question) error
}

// AnswerRepository defines the interface for answer persistence
type AnswerRepository interface {
	// Insert persists a new answer and assigns its ID when empty.
	Insert(ctx context.Context, answer *Answer) error

	// ListBySession returns the session's answers ordered by creation time, each joined with its question.
	ListBySession(ctx context.Context, sessionID string, order SortOrder) ([]*Answer, error)
}

// TestSessionRepository defines the interface for test session persistence
type TestSessionRepository interface {
	Create(ctx context.Context, session *TestSession) error

	// FindByID returns nil, nil when the session does not exist.
	FindByID(ctx context.Context, id string) (*TestSession, error)

	Update(ctx context.Context, session *TestSession) error

	InsertShare(ctx context.Context, share *Share) error

	InsertAdView(ctx context.Context, view *AdView) error
}

// EmailRepository stores collected email addresses.
type EmailRepository interface {
	// Upsert inserts the subscription or refreshes the existing row for the same address.
	Upsert(ctx context.Context, sub *EmailSubscription) error
}

// TransactionManager runs fn inside a database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
