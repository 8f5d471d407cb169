package validation

import (
	"strings"
	"testing"

	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/dto"
	"adaptive-iq/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestValidateSessionID(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateSessionID(util.NewULID()))
	assert.Empty(t, v.ValidateSessionID("legacy-session_1"))

	errs := v.ValidateSessionID("")
	if assert.Len(t, errs, 1) {
		assert.Equal(t, domain.CodeMissingField, errs[0].Code)
	}

	errs = v.ValidateSessionID("../../etc/passwd")
	if assert.Len(t, errs, 1) {
		assert.Equal(t, domain.CodeInvalidFormat, errs[0].Code)
	}
}

func TestValidateStartTestRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateStartTestRequest(nil))
	assert.Empty(t, v.ValidateStartTestRequest(&dto.StartTestRequest{}))
	assert.Empty(t, v.ValidateStartTestRequest(&dto.StartTestRequest{Domain: "IQ", CountryCode: "kr"}))

	errs := v.ValidateStartTestRequest(&dto.StartTestRequest{Domain: "IQ; DROP TABLE", CountryCode: "KOR"})
	assert.Len(t, errs, 2)
}

func TestValidateSubmitAnswerRequest(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		req    dto.SubmitAnswerRequest
		fields []string
	}{
		{"Valid", dto.SubmitAnswerRequest{QuestionID: util.NewULID(), SelectedOption: "B", ResponseTimeMs: 3500}, nil},
		{"SkipIsValid", dto.SubmitAnswerRequest{QuestionID: util.NewULID()}, nil},
		{"MissingQuestion", dto.SubmitAnswerRequest{SelectedOption: "A"}, []string{"question_id"}},
		{"LongOption", dto.SubmitAnswerRequest{QuestionID: "Q1", SelectedOption: strings.Repeat("A", 9)}, []string{"selected_option"}},
		{"NegativeTime", dto.SubmitAnswerRequest{QuestionID: "Q1", ResponseTimeMs: -1}, []string{"response_time_ms"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			errs := v.ValidateSubmitAnswerRequest(&req)
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidateUnlockRequests(t *testing.T) {
	v := NewValidator()
	long := strings.Repeat("x", 101)

	assert.Empty(t, v.ValidateShareRequest(&dto.ShareRequest{Platform: "kakao"}))
	assert.Len(t, v.ValidateShareRequest(&dto.ShareRequest{Platform: long, SharedWith: long}), 2)

	assert.Empty(t, v.ValidateAdViewRequest(&dto.AdViewRequest{}))
	assert.Len(t, v.ValidateAdViewRequest(&dto.AdViewRequest{AdProvider: long}), 1)

	assert.Empty(t, v.ValidateEmailRequest(&dto.EmailRequest{Email: "a@b.c"}))
	assert.Empty(t, v.ValidateEmailRequest(&dto.EmailRequest{Email: "no-at-sign"}), "format is checked by the service")
	assert.Len(t, v.ValidateEmailRequest(&dto.EmailRequest{Email: "  "}), 1)
}
