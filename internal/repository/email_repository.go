package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/util"
)

// EmailDatabaseAdapter implements domain.EmailRepository using sqlx
type EmailDatabaseAdapter struct {
	db DBTX
}

func NewEmailDatabaseAdapter(db DBTX) domain.EmailRepository {
	return &EmailDatabaseAdapter{db: db}
}

// Upsert implements domain.EmailRepository.
// Update first, insert when nothing matched; plain SQL that runs on both Oracle and Postgres.
func (a *EmailDatabaseAdapter) Upsert(ctx context.Context, sub *domain.EmailSubscription) error {
	if sub == nil {
		return fmt.Errorf("cannot upsert nil email subscription")
	}
	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	now := time.Now()
	sub.UpdatedAt = now

	exec := GetExecutor(ctx, a.db)
	updateQuery := exec.Rebind(`UPDATE email_subscriptions
	SET session_id = ?, source = ?, subscribed = ?, updated_at = ?
	WHERE email = ?`)

	result, err := exec.ExecContext(ctx, updateQuery,
		util.StringToNullString(sub.SessionID),
		sub.Source,
		util.BoolToInt(sub.Subscribed),
		sub.UpdatedAt,
		sub.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to update email subscription: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for email subscription: %w", err)
	}
	if affected > 0 {
		return nil
	}

	sub.CreatedAt = now
	insertQuery := exec.Rebind(`INSERT INTO email_subscriptions (
		email, session_id, source, subscribed, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?)`)

	_, err = exec.ExecContext(ctx, insertQuery,
		sub.Email,
		util.StringToNullString(sub.SessionID),
		sub.Source,
		util.BoolToInt(sub.Subscribed),
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert email subscription: %w", err)
	}
	return nil
}
