package domain

import (
	"strings"
	"time"
)

// SessionStatus is the lifecycle state of a test session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionCompleted  SessionStatus = "COMPLETED"
)

// TestSession is one run of the adaptive test.
type TestSession struct {
	ID          string
	Domain      string
	Status      SessionStatus
	CountryCode string
	Email       string
	ShareCount  int
	AdViews     int
	Paid        bool
	Unlocked    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// NewTestSession creates an in-progress session for the given question domain.
func NewTestSession(domainName, countryCode string) *TestSession {
	now := time.Now()
	if domainName == "" {
		domainName = DefaultDomain
	}
	return &TestSession{
		Domain:      domainName,
		Status:      SessionInProgress,
		CountryCode: strings.ToUpper(countryCode),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Complete marks the session completed. Completing twice keeps the first timestamp.
func (s *TestSession) Complete(at time.Time) {
	if s.Status == SessionCompleted {
		return
	}
	s.Status = SessionCompleted
	s.CompletedAt = &at
	s.UpdatedAt = at
}

// IsCompleted reports whether the session has finished.
func (s *TestSession) IsCompleted() bool {
	return s.Status == SessionCompleted
}

// Share records that a test taker shared their result.
type Share struct {
	ID         string
	SessionID  string
	Platform   string
	SharedWith string
	CreatedAt  time.Time
}

// AdView records one watched advertisement.
type AdView struct {
	ID           string
	SessionID    string
	AdProvider   string
	RevenueCents int
	CreatedAt    time.Time
}

// EmailSubscription is an address collected for report delivery.
type EmailSubscription struct {
	Email      string
	SessionID  string
	Source     string
	Subscribed bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const EmailSourceReportUnlock = "report_unlock"
