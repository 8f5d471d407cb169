package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"adaptive-iq/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- in-memory question bank ---

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions map[string]*domain.Question
	order     []string
	findErr   error
}

func newFakeQuestionRepo(qs ...*domain.Question) *fakeQuestionRepo {
	r := &fakeQuestionRepo{questions: make(map[string]*domain.Question)}
	for _, q := range qs {
		r.add(q)
	}
	return r
}

func (r *fakeQuestionRepo) add(q *domain.Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q.Domain == "" {
		q.Domain = domain.DefaultDomain
	}
	r.questions[q.ID] = q
	r.order = append(r.order, q.ID)
}

func (r *fakeQuestionRepo) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.questions, id)
}

func (r *fakeQuestionRepo) exposure(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.questions[id].ExposureCount
}

func (r *fakeQuestionRepo) FindByID(_ context.Context, id string) (*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuestionRepo) CountByDomain(_ context.Context, domainName string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, q := range r.questions {
		if q.Domain == domainName {
			n++
		}
	}
	return n, nil
}

func (r *fakeQuestionRepo) FindMany(_ context.Context, f domain.QuestionFilter) ([]*domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	excluded := make(map[string]bool, len(f.ExcludeIDs))
	for _, id := range f.ExcludeIDs {
		excluded[id] = true
	}
	var out []*domain.Question
	for _, id := range r.order {
		q, ok := r.questions[id]
		if !ok || excluded[id] {
			continue
		}
		if f.Domain != "" && q.Domain != f.Domain {
			continue
		}
		if f.MinDifficulty > 0 && q.Difficulty < f.MinDifficulty {
			continue
		}
		if f.MaxDifficulty > 0 && q.Difficulty > f.MaxDifficulty {
			continue
		}
		cp := *q
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeQuestionRepo) ListByDomain(ctx context.Context, domainName string) ([]*domain.Question, error) {
	return r.FindMany(ctx, domain.QuestionFilter{Domain: domainName})
}

func (r *fakeQuestionRepo) IncrementExposure(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return errors.New("no such question")
	}
	q.ExposureCount++
	return nil
}

func (r *fakeQuestionRepo) Save(_ context.Context, q *domain.Question) error {
	r.add(q)
	return nil
}

// --- in-memory answer log ---

type fakeAnswerRepo struct {
	mu        sync.Mutex
	questions *fakeQuestionRepo
	answers   []*domain.Answer
	seq       int
	insertErr error
}

func newFakeAnswerRepo(questions *fakeQuestionRepo) *fakeAnswerRepo {
	return &fakeAnswerRepo{questions: questions}
}

func (r *fakeAnswerRepo) Insert(_ context.Context, a *domain.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.seq++
	if a.ID == "" {
		a.ID = fmt.Sprintf("ans-%d", r.seq)
	}
	cp := *a
	// Monotonic timestamps keep ordering stable regardless of the clock.
	cp.CreatedAt = time.Unix(0, 0).Add(time.Duration(r.seq) * time.Second)
	r.answers = append(r.answers, &cp)
	return nil
}

func (r *fakeAnswerRepo) ListBySession(ctx context.Context, sessionID string, order domain.SortOrder) ([]*domain.Answer, error) {
	r.mu.Lock()
	var out []*domain.Answer
	for _, a := range r.answers {
		if a.SessionID == sessionID {
			cp := *a
			out = append(out, &cp)
		}
	}
	r.mu.Unlock()

	for _, a := range out {
		q, _ := r.questions.FindByID(ctx, a.QuestionID)
		a.Question = q
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order == domain.SortDesc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeAnswerRepo) count(sessionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.answers {
		if a.SessionID == sessionID {
			n++
		}
	}
	return n
}

// --- transaction manager mock ---

type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// --- deterministic randomness ---

// firstPick never shuffles and always draws index 0.
type firstPick struct{}

func (firstPick) Intn(int) int                { return 0 }
func (firstPick) Shuffle(int, func(i, j int)) {}

func mkQuestion(id string, difficulty int, exposure int) *domain.Question {
	return &domain.Question{
		ID:            id,
		Text:          "question " + id,
		Options:       []domain.Option{{ID: "A", Text: "a"}, {ID: "B", Text: "b"}, {ID: "C", Text: "c"}, {ID: "D", Text: "d"}},
		CorrectOption: "A",
		Difficulty:    difficulty,
		Domain:        domain.DefaultDomain,
		ExposureCount: exposure,
	}
}
