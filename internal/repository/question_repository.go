package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/repository/models"
	"adaptive-iq/internal/util"

	"github.com/jmoiron/sqlx"
)

// Quoted lowercase aliases keep the scanned column names identical on Oracle and Postgres.
const questionColumns = `
		id "id",
		question_text "text",
		options_json "options_json",
		correct_option "correct_option",
		difficulty "difficulty",
		domain_name "domain",
		tags_json "tags_json",
		explanation "explanation",
		exposure_count "exposure_count",
		created_at "created_at",
		updated_at "updated_at"`

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx
type QuestionDatabaseAdapter struct {
	db DBTX
}

// NewQuestionDatabaseAdapter accepts either a *sqlx.DB or a *sqlx.Tx.
func NewQuestionDatabaseAdapter(db DBTX) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

// FindByID implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) FindByID(ctx context.Context, id string) (*domain.Question, error) {
	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`SELECT` + questionColumns + `
	FROM questions
	WHERE id = ?`)

	var row models.Question
	if err := exec.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by ID %s: %w", id, err)
	}
	return toDomainQuestion(&row), nil
}

// CountByDomain implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) CountByDomain(ctx context.Context, domainName string) (int, error) {
	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`SELECT COUNT(*) FROM questions WHERE domain_name = ?`)

	var count int
	if err := exec.GetContext(ctx, &count, query, domainName); err != nil {
		return 0, fmt.Errorf("failed to count questions for domain %s: %w", domainName, err)
	}
	return count, nil
}

// FindMany implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) FindMany(ctx context.Context, filter domain.QuestionFilter) ([]*domain.Question, error) {
	exec := GetExecutor(ctx, a.db)

	var conditions []string
	var args []interface{}
	if filter.Domain != "" {
		conditions = append(conditions, "domain_name = ?")
		args = append(args, filter.Domain)
	}
	if filter.MinDifficulty > 0 {
		conditions = append(conditions, "difficulty >= ?")
		args = append(args, filter.MinDifficulty)
	}
	if filter.MaxDifficulty > 0 {
		conditions = append(conditions, "difficulty <= ?")
		args = append(args, filter.MaxDifficulty)
	}
	if len(filter.ExcludeIDs) > 0 {
		conditions = append(conditions, "id NOT IN (?)")
		args = append(args, filter.ExcludeIDs)
	}

	query := `SELECT` + questionColumns + `
	FROM questions`
	if len(conditions) > 0 {
		query += "\n\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\tORDER BY created_at ASC, id ASC"

	// sqlx.In expands the exclusion slice into one placeholder per id.
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build question filter query: %w", err)
	}

	var rows []models.Question
	if err := exec.SelectContext(ctx, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to find questions: %w", err)
	}

	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, toDomainQuestion(&rows[i]))
	}
	return questions, nil
}

// ListByDomain implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) ListByDomain(ctx context.Context, domainName string) ([]*domain.Question, error) {
	return a.FindMany(ctx, domain.QuestionFilter{Domain: domainName})
}

// IncrementExposure implements domain.QuestionRepository.
// The increment happens in a single UPDATE so concurrent answers never lose a count.
func (a *QuestionDatabaseAdapter) IncrementExposure(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`UPDATE questions
	SET exposure_count = exposure_count + 1, updated_at = ?
	WHERE id = ?`)

	result, err := exec.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to increment exposure for question %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for question %s: %w", id, err)
	}
	if affected == 0 {
		return domain.NewQuestionNotFoundError(id)
	}
	return nil
}

// Save implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) Save(ctx context.Context, question *domain.Question) error {
	if question == nil {
		return fmt.Errorf("cannot save nil question")
	}
	row := toModelQuestion(question)
	if row.ID == "" {
		row.ID = util.NewULID()
	}
	now := time.Now()
	row.CreatedAt = now
	row.UpdatedAt = now

	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`INSERT INTO questions (
		id, question_text, options_json, correct_option, difficulty,
		domain_name, tags_json, explanation, exposure_count, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := exec.ExecContext(ctx, query,
		row.ID,
		row.Text,
		row.Options,
		row.CorrectOption,
		row.Difficulty,
		row.Domain,
		row.Tags,
		row.Explanation,
		row.ExposureCount,
		row.CreatedAt,
		row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save question: %w", err)
	}

	question.ID = row.ID
	question.CreatedAt = row.CreatedAt
	question.UpdatedAt = row.UpdatedAt
	return nil
}

func toDomainQuestion(row *models.Question) *domain.Question {
	if row == nil {
		return nil
	}
	options := make([]domain.Option, 0, len(row.Options))
	for _, o := range row.Options {
		options = append(options, domain.Option{ID: o.ID, Text: o.Text})
	}
	tags := []string(row.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &domain.Question{
		ID:            row.ID,
		Text:          row.Text,
		Options:       options,
		CorrectOption: row.CorrectOption,
		Difficulty:    row.Difficulty,
		Domain:        row.Domain,
		Tags:          tags,
		Explanation:   row.Explanation.String,
		ExposureCount: row.ExposureCount,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func toModelQuestion(q *domain.Question) *models.Question {
	if q == nil {
		return nil
	}
	options := make(models.OptionList, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, models.Option{ID: o.ID, Text: o.Text})
	}
	return &models.Question{
		ID:            q.ID,
		Text:          q.Text,
		Options:       options,
		CorrectOption: q.CorrectOption,
		Difficulty:    q.Difficulty,
		Domain:        q.Domain,
		Tags:          models.StringSlice(q.Tags),
		Explanation:   util.StringToNullString(q.Explanation),
		ExposureCount: q.ExposureCount,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}
