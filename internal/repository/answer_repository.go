package repository

import (
	"context"
	"fmt"
	"time"

	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/repository/models"
	"adaptive-iq/internal/util"
)

// AnswerDatabaseAdapter implements domain.AnswerRepository using sqlx
type AnswerDatabaseAdapter struct {
	db DBTX
}

func NewAnswerDatabaseAdapter(db DBTX) domain.AnswerRepository {
	return &AnswerDatabaseAdapter{db: db}
}

// Insert implements domain.AnswerRepository
func (a *AnswerDatabaseAdapter) Insert(ctx context.Context, answer *domain.Answer) error {
	if answer == nil {
		return fmt.Errorf("cannot insert nil answer")
	}
	if answer.ID == "" {
		answer.ID = util.NewULID()
	}
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now()
	}

	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`INSERT INTO answers (
		id, session_id, user_id, question_id, selected_option,
		is_correct, response_time_ms, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	// Oracle stores '' as NULL, so optional strings go through NullString both ways.
	_, err := exec.ExecContext(ctx, query,
		answer.ID,
		answer.SessionID,
		util.StringToNullString(answer.UserID),
		answer.QuestionID,
		util.StringToNullString(answer.SelectedOption),
		util.BoolToInt(answer.IsCorrect),
		answer.ResponseTimeMs,
		answer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert answer for session %s: %w", answer.SessionID, err)
	}
	return nil
}

// ListBySession implements domain.AnswerRepository
func (a *AnswerDatabaseAdapter) ListBySession(ctx context.Context, sessionID string, order domain.SortOrder) ([]*domain.Answer, error) {
	direction := "ASC"
	if order == domain.SortDesc {
		direction = "DESC"
	}

	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`SELECT
		a.id "id",
		a.session_id "session_id",
		a.user_id "user_id",
		a.question_id "question_id",
		a.selected_option "selected_option",
		a.is_correct "is_correct",
		a.response_time_ms "response_time_ms",
		a.created_at "created_at",
		q.question_text "q_text",
		q.options_json "q_options_json",
		q.correct_option "q_correct_option",
		q.difficulty "q_difficulty",
		q.domain_name "q_domain",
		q.tags_json "q_tags_json",
		q.explanation "q_explanation"
	FROM answers a
	LEFT JOIN questions q ON q.id = a.question_id
	WHERE a.session_id = ?
	ORDER BY a.created_at ` + direction + `, a.id ` + direction)

	var rows []models.AnswerRow
	if err := exec.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to list answers for session %s: %w", sessionID, err)
	}

	answers := make([]*domain.Answer, 0, len(rows))
	for i := range rows {
		answers = append(answers, toDomainAnswer(&rows[i]))
	}
	return answers, nil
}

func toDomainAnswer(row *models.AnswerRow) *domain.Answer {
	answer := &domain.Answer{
		ID:             row.ID,
		SessionID:      row.SessionID,
		UserID:         row.UserID.String,
		QuestionID:     row.QuestionID,
		SelectedOption: row.SelectedOption.String,
		IsCorrect:      row.IsCorrect != 0,
		ResponseTimeMs: row.ResponseTimeMs,
		CreatedAt:      row.CreatedAt,
	}
	// A NULL difficulty means the joined question no longer exists.
	if row.QDifficulty.Valid {
		options := make([]domain.Option, 0, len(row.QOptions))
		for _, o := range row.QOptions {
			options = append(options, domain.Option{ID: o.ID, Text: o.Text})
		}
		answer.Question = &domain.Question{
			ID:            row.QuestionID,
			Text:          row.QText.String,
			Options:       options,
			CorrectOption: row.QCorrectOption.String,
			Difficulty:    int(row.QDifficulty.Int64),
			Domain:        row.QDomain.String,
			Tags:          []string(row.QTags),
			Explanation:   row.QExplanation.String,
		}
	}
	return answer
}
