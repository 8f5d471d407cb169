package validation

import (
	"regexp"
	"strings"

	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/dto"
)

const (
	maxOptionIDLength = 8
	maxResponseTimeMs = 60 * 60 * 1000
	maxFreeTextLength = 100
	maxEmailLength    = 254
)

var (
	idPattern          = regexp.MustCompile(`^[0-9A-Za-z_-]{1,64}$`)
	domainNamePattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,50}$`)
	countryCodePattern = regexp.MustCompile(`^[a-zA-Z]{2}$`)
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSessionID validates the :id path parameter.
// Well-formed ids that do not exist are left to the service, which answers 404.
func (v *Validator) ValidateSessionID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError("id"))
	} else if !isValidID(id) {
		errors = append(errors, domain.NewInvalidFormatError("id", id))
	}
	return errors
}

// ValidateStartTestRequest validates the optional domain and country code
func (v *Validator) ValidateStartTestRequest(req *dto.StartTestRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if req == nil {
		return errors
	}

	if d := strings.TrimSpace(req.Domain); d != "" && !domainNamePattern.MatchString(d) {
		errors = append(errors, domain.NewInvalidFormatError("domain", req.Domain))
	}
	if cc := strings.TrimSpace(req.CountryCode); cc != "" && !countryCodePattern.MatchString(cc) {
		errors = append(errors, domain.NewInvalidFormatError("country_code", req.CountryCode))
	}
	return errors
}

// ValidateSubmitAnswerRequest validates an answer body.
// An empty selected_option is a skip, not an error.
func (v *Validator) ValidateSubmitAnswerRequest(req *dto.SubmitAnswerRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.QuestionID) == "" {
		errors = append(errors, domain.NewMissingFieldError("question_id"))
	} else if !isValidID(req.QuestionID) {
		errors = append(errors, domain.NewInvalidFormatError("question_id", req.QuestionID))
	}

	if len(req.SelectedOption) > maxOptionIDLength {
		errors = append(errors, domain.NewOutOfRangeError("selected_option", len(req.SelectedOption), 0, maxOptionIDLength))
	}

	if req.ResponseTimeMs < 0 || req.ResponseTimeMs > maxResponseTimeMs {
		errors = append(errors, domain.NewOutOfRangeError("response_time_ms", req.ResponseTimeMs, 0, maxResponseTimeMs))
	}

	return errors
}

// ValidateShareRequest validates the free-text share fields
func (v *Validator) ValidateShareRequest(req *dto.ShareRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if len(req.Platform) > maxFreeTextLength {
		errors = append(errors, domain.NewOutOfRangeError("platform", len(req.Platform), 0, maxFreeTextLength))
	}
	if len(req.SharedWith) > maxFreeTextLength {
		errors = append(errors, domain.NewOutOfRangeError("shared_with", len(req.SharedWith), 0, maxFreeTextLength))
	}
	return errors
}

// ValidateAdViewRequest validates the ad provider name
func (v *Validator) ValidateAdViewRequest(req *dto.AdViewRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if len(req.AdProvider) > maxFreeTextLength {
		errors = append(errors, domain.NewOutOfRangeError("ad_provider", len(req.AdProvider), 0, maxFreeTextLength))
	}
	return errors
}

// ValidateEmailRequest only checks presence and length; the "@" rule belongs to the service.
func (v *Validator) ValidateEmailRequest(req *dto.EmailRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	email := strings.TrimSpace(req.Email)
	if email == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	} else if len(email) > maxEmailLength {
		errors = append(errors, domain.NewOutOfRangeError("email", len(email), 3, maxEmailLength))
	}
	return errors
}

// isValidID accepts ULIDs and any other short url-safe identifier.
func isValidID(s string) bool {
	return idPattern.MatchString(s)
}
