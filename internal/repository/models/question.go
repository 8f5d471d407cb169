package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a []string as a JSON text column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		// nil 슬라이스는 빈 JSON 배열 "[]"로 저장
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	return scanJSON(value, s, func() { *s = StringSlice{} })
}

// OptionList stores the answer choices of a question as a JSON text column.
type OptionList []Option

// Option mirrors domain.Option in the persisted JSON.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Value implements the driver.Valuer interface
func (o OptionList) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (o *OptionList) Scan(value interface{}) error {
	return scanJSON(value, o, func() { *o = OptionList{} })
}

// scanJSON decodes a JSON text column. NULL, "" and "null" become the empty value.
func scanJSON(value interface{}, dest interface{}, empty func()) error {
	if value == nil {
		empty()
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("JSON column Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		empty()
		return nil
	}
	return json.Unmarshal(bytesToParse, dest)
}

// Question is the row shape of the questions table.
type Question struct {
	ID            string         `db:"id"`
	Text          string         `db:"text"`
	Options       OptionList     `db:"options_json"`
	CorrectOption string         `db:"correct_option"`
	Difficulty    int            `db:"difficulty"`
	Domain        string         `db:"domain"`
	Tags          StringSlice    `db:"tags_json"`
	Explanation   sql.NullString `db:"explanation"`
	ExposureCount int            `db:"exposure_count"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// AnswerRow is an answers row LEFT JOINed with its question.
type AnswerRow struct {
	ID             string         `db:"id"`
	SessionID      string         `db:"session_id"`
	UserID         sql.NullString `db:"user_id"`
	QuestionID     string         `db:"question_id"`
	SelectedOption sql.NullString `db:"selected_option"`
	IsCorrect      int            `db:"is_correct"`
	ResponseTimeMs int            `db:"response_time_ms"`
	CreatedAt      time.Time      `db:"created_at"`

	QText          sql.NullString `db:"q_text"`
	QOptions       OptionList     `db:"q_options_json"`
	QCorrectOption sql.NullString `db:"q_correct_option"`
	QDifficulty    sql.NullInt64  `db:"q_difficulty"`
	QDomain        sql.NullString `db:"q_domain"`
	QTags          StringSlice    `db:"q_tags_json"`
	QExplanation   sql.NullString `db:"q_explanation"`
}

// TestSession is the row shape of the test_sessions table.
type TestSession struct {
	ID          string         `db:"id"`
	Domain      string         `db:"domain"`
	Status      string         `db:"status"`
	CountryCode sql.NullString `db:"country_code"`
	Email       sql.NullString `db:"email"`
	ShareCount  int            `db:"share_count"`
	AdViews     int            `db:"ad_views"`
	Paid        int            `db:"paid"`
	Unlocked    int            `db:"unlocked"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	CompletedAt sql.NullTime   `db:"completed_at"`
}
