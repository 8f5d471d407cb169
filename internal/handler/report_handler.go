package handler

import (
	"adaptive-iq/internal/middleware"
	"adaptive-iq/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves the results report and the incorrect-answer review
type ReportHandler struct {
	service service.ReportService
}

// NewReportHandler creates a new ReportHandler instance
func NewReportHandler(service service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GetResults godoc
// @Summary Get the results report
// @Description IQ score, percentile, category, accuracy, traits and strengths of a session
// @Tags reports
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ResultsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests/{id}/results [get]
func (h *ReportHandler) GetResults(c *fiber.Ctx) error {
	resp, err := h.service.GetResults(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetIncorrectAnswers godoc
// @Summary Review incorrect answers
// @Tags reports
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.IncorrectAnswersResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tests/{id}/incorrect [get]
func (h *ReportHandler) GetIncorrectAnswers(c *fiber.Ctx) error {
	resp, err := h.service.GetIncorrectAnswers(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
