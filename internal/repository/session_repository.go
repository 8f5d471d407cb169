package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/repository/models"
	"adaptive-iq/internal/util"
)

// TestSessionDatabaseAdapter implements domain.TestSessionRepository using sqlx
type TestSessionDatabaseAdapter struct {
	db DBTX
}

func NewTestSessionDatabaseAdapter(db DBTX) domain.TestSessionRepository {
	return &TestSessionDatabaseAdapter{db: db}
}

// Create implements domain.TestSessionRepository
func (a *TestSessionDatabaseAdapter) Create(ctx context.Context, session *domain.TestSession) error {
	if session == nil {
		return fmt.Errorf("cannot create nil session")
	}
	if session.ID == "" {
		session.ID = util.NewULID()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	row := toModelTestSession(session)

	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`INSERT INTO test_sessions (
		id, domain_name, status, country_code, email, share_count,
		ad_views, paid, unlocked, created_at, updated_at, completed_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := exec.ExecContext(ctx, query,
		row.ID,
		row.Domain,
		row.Status,
		row.CountryCode,
		row.Email,
		row.ShareCount,
		row.AdViews,
		row.Paid,
		row.Unlocked,
		row.CreatedAt,
		row.UpdatedAt,
		row.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create test session: %w", err)
	}
	return nil
}

// FindByID implements domain.TestSessionRepository
func (a *TestSessionDatabaseAdapter) FindByID(ctx context.Context, id string) (*domain.TestSession, error) {
	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`SELECT
		id "id",
		domain_name "domain",
		status "status",
		country_code "country_code",
		email "email",
		share_count "share_count",
		ad_views "ad_views",
		paid "paid",
		unlocked "unlocked",
		created_at "created_at",
		updated_at "updated_at",
		completed_at "completed_at"
	FROM test_sessions
	WHERE id = ?`)

	var row models.TestSession
	if err := exec.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get test session %s: %w", id, err)
	}
	return toDomainTestSession(&row), nil
}

// Update implements domain.TestSessionRepository
func (a *TestSessionDatabaseAdapter) Update(ctx context.Context, session *domain.TestSession) error {
	if session == nil {
		return fmt.Errorf("cannot update nil session")
	}
	session.UpdatedAt = time.Now()
	row := toModelTestSession(session)

	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`UPDATE test_sessions SET
		status = ?,
		email = ?,
		share_count = ?,
		ad_views = ?,
		paid = ?,
		unlocked = ?,
		updated_at = ?,
		completed_at = ?
	WHERE id = ?`)

	result, err := exec.ExecContext(ctx, query,
		row.Status,
		row.Email,
		row.ShareCount,
		row.AdViews,
		row.Paid,
		row.Unlocked,
		row.UpdatedAt,
		row.CompletedAt,
		row.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update test session %s: %w", session.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for session %s: %w", session.ID, err)
	}
	if affected == 0 {
		return domain.NewSessionNotFoundError(session.ID)
	}
	return nil
}

// InsertShare implements domain.TestSessionRepository
func (a *TestSessionDatabaseAdapter) InsertShare(ctx context.Context, share *domain.Share) error {
	if share.ID == "" {
		share.ID = util.NewULID()
	}
	if share.CreatedAt.IsZero() {
		share.CreatedAt = time.Now()
	}

	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`INSERT INTO shares (id, session_id, platform, shared_with, created_at)
	VALUES (?, ?, ?, ?, ?)`)

	_, err := exec.ExecContext(ctx, query,
		share.ID,
		share.SessionID,
		share.Platform,
		util.StringToNullString(share.SharedWith),
		share.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert share for session %s: %w", share.SessionID, err)
	}
	return nil
}

// InsertAdView implements domain.TestSessionRepository
func (a *TestSessionDatabaseAdapter) InsertAdView(ctx context.Context, view *domain.AdView) error {
	if view.ID == "" {
		view.ID = util.NewULID()
	}
	if view.CreatedAt.IsZero() {
		view.CreatedAt = time.Now()
	}

	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`INSERT INTO ad_views (id, session_id, ad_provider, revenue_cents, created_at)
	VALUES (?, ?, ?, ?, ?)`)

	_, err := exec.ExecContext(ctx, query,
		view.ID,
		view.SessionID,
		view.AdProvider,
		view.RevenueCents,
		view.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ad view for session %s: %w", view.SessionID, err)
	}
	return nil
}

func toDomainTestSession(row *models.TestSession) *domain.TestSession {
	if row == nil {
		return nil
	}
	return &domain.TestSession{
		ID:          row.ID,
		Domain:      row.Domain,
		Status:      domain.SessionStatus(row.Status),
		CountryCode: row.CountryCode.String,
		Email:       row.Email.String,
		ShareCount:  row.ShareCount,
		AdViews:     row.AdViews,
		Paid:        row.Paid != 0,
		Unlocked:    row.Unlocked != 0,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		CompletedAt: util.NullTimeToPtr(row.CompletedAt),
	}
}

func toModelTestSession(s *domain.TestSession) *models.TestSession {
	if s == nil {
		return nil
	}
	return &models.TestSession{
		ID:          s.ID,
		Domain:      s.Domain,
		Status:      string(s.Status),
		CountryCode: util.StringToNullString(s.CountryCode),
		Email:       util.StringToNullString(s.Email),
		ShareCount:  s.ShareCount,
		AdViews:     s.AdViews,
		Paid:        util.BoolToInt(s.Paid),
		Unlocked:    util.BoolToInt(s.Unlocked),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		CompletedAt: util.TimePtrToNullTime(s.CompletedAt),
	}
}
