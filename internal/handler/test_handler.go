package handler

import (
	"adaptive-iq/internal/domain"
	"adaptive-iq/internal/dto"
	"adaptive-iq/internal/logger"
	"adaptive-iq/internal/middleware"
	"adaptive-iq/internal/service"
	"adaptive-iq/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TestHandler handles the test-taking flow and the report unlock actions
type TestHandler struct {
	service   service.TestService
	validator *validation.Validator
}

// NewTestHandler creates a new TestHandler instance
func NewTestHandler(service service.TestService, validator *validation.Validator) *TestHandler {
	return &TestHandler{
		service:   service,
		validator: validator,
	}
}

// parseOptionalBody decodes the JSON body into dst; an empty body keeps dst's zero value.
func parseOptionalBody(c *fiber.Ctx, dst interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dst); err != nil {
		logger.Get().Debug("Failed to parse request body", zap.String("path", c.Path()), zap.Error(err))
		return domain.NewInvalidInputError("Request body is not valid JSON")
	}
	return nil
}

// StartTest godoc
// @Summary Start a test session
// @Description Creates a new IN_PROGRESS session. Domain defaults to "IQ".
// @Tags tests
// @Accept json
// @Produce json
// @Param request body dto.StartTestRequest false "Session options"
// @Success 200 {object} dto.StartTestResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests [post]
func (h *TestHandler) StartTest(c *fiber.Ctx) error {
	var req dto.StartTestRequest
	// an unreadable body starts a default session
	if err := parseOptionalBody(c, &req); err != nil {
		req = dto.StartTestRequest{}
	}
	if errs := h.validator.ValidateStartTestRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.StartTest(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// NextQuestion godoc
// @Summary Get the next question
// @Description Returns the next adaptive question, or done=true once the test is over
// @Tags tests
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.NextQuestionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests/{id}/next [get]
func (h *TestHandler) NextQuestion(c *fiber.Ctx) error {
	resp, err := h.service.NextQuestion(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitAnswer godoc
// @Summary Submit an answer
// @Description Grades and stores the answer. An empty selected_option records a skip.
// @Tags tests
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.SubmitAnswerRequest true "Answer"
// @Param Authorization header string false "Optional bearer token"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests/{id}/answer [post]
func (h *TestHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.ValidateSubmitAnswerRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.SubmitAnswer(c.UserContext(), middleware.SessionID(c), middleware.UserID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UnlockStatus godoc
// @Summary Get report unlock progress
// @Tags unlock
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.UnlockStatusResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tests/{id}/unlock-status [get]
func (h *TestHandler) UnlockStatus(c *fiber.Ctx) error {
	resp, err := h.service.UnlockStatus(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// RecordShare godoc
// @Summary Record a share
// @Description Counts a share towards unlocking the full report
// @Tags unlock
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.ShareRequest false "Share details"
// @Success 200 {object} dto.ShareResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tests/{id}/share [post]
func (h *TestHandler) RecordShare(c *fiber.Ctx) error {
	var req dto.ShareRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.ValidateShareRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.RecordShare(c.UserContext(), middleware.SessionID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// RecordAdView godoc
// @Summary Record a watched ad
// @Tags unlock
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AdViewRequest false "Ad details"
// @Success 200 {object} dto.AdViewResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tests/{id}/ad [post]
func (h *TestHandler) RecordAdView(c *fiber.Ctx) error {
	var req dto.AdViewRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.ValidateAdViewRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.RecordAdView(c.UserContext(), middleware.SessionID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SaveEmail godoc
// @Summary Store an email for report delivery
// @Tags unlock
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.EmailRequest true "Email"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tests/{id}/email [post]
func (h *TestHandler) SaveEmail(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := parseOptionalBody(c, &req); err != nil {
		return err
	}
	if errs := h.validator.ValidateEmailRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.SaveEmail(c.UserContext(), middleware.SessionID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
