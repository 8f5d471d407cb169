package dto

// StartTestRequest represents the body of POST /api/tests
// @Description Request body for starting a test session
type StartTestRequest struct {
	Domain      string `json:"domain,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

// StartTestResponse represents a newly created session
type StartTestResponse struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
}

// OptionResponse is one answer choice. The correct option is never sent before answering.
type OptionResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuestionResponse represents a question served to the test taker
// @Description Question information
type QuestionResponse struct {
	ID         string           `json:"id"`
	Text       string           `json:"text"`
	Options    []OptionResponse `json:"options"`
	Difficulty int              `json:"difficulty"`
}

// NextQuestionResponse is either a question or the completion marker
type NextQuestionResponse struct {
	Done     bool              `json:"done,omitempty"`
	Message  string            `json:"message,omitempty"`
	Answered int               `json:"answered,omitempty"`
	Question *QuestionResponse `json:"question,omitempty"`
}

// SubmitAnswerRequest represents a test taker's answer
// @Description Request body for submitting an answer. An empty selected_option counts as skipped.
type SubmitAnswerRequest struct {
	QuestionID     string `json:"question_id"`
	SelectedOption string `json:"selected_option,omitempty"`
	ResponseTimeMs int    `json:"response_time_ms,omitempty"`
}

// SubmitAnswerResponse reports whether the answer was correct
type SubmitAnswerResponse struct {
	Correct bool `json:"correct"`
}

// UnlockStatusResponse describes how far the session is from an unlocked report
type UnlockStatusResponse struct {
	Unlocked        bool   `json:"unlocked"`
	Paid            bool   `json:"paid"`
	ShareCount      int    `json:"share_count"`
	AdViews         int    `json:"ad_views"`
	Email           string `json:"email,omitempty"`
	SharesRemaining int    `json:"shares_remaining"`
	CountryCode     string `json:"country_code,omitempty"`
}

// ShareRequest represents the body of POST /api/tests/:id/share
type ShareRequest struct {
	Platform   string `json:"platform,omitempty"`
	SharedWith string `json:"shared_with,omitempty"`
}

type ShareResponse struct {
	Success         bool `json:"success"`
	ShareCount      int  `json:"share_count"`
	Unlocked        bool `json:"unlocked"`
	SharesRemaining int  `json:"shares_remaining"`
}

// AdViewRequest represents the body of POST /api/tests/:id/ad
type AdViewRequest struct {
	AdProvider string `json:"ad_provider,omitempty"`
}

type AdViewResponse struct {
	Success  bool `json:"success"`
	AdViews  int  `json:"ad_views"`
	Unlocked bool `json:"unlocked"`
}

// EmailRequest represents the body of POST /api/tests/:id/email
type EmailRequest struct {
	Email string `json:"email"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Details interface{} `json:"details,omitempty"`
}
