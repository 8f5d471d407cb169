package handler

import (
	"adaptive-iq/internal/middleware"
	"adaptive-iq/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the test and report endpoints under api.
// authService may be nil, in which case every request is anonymous.
func RegisterRoutes(api fiber.Router, tests *TestHandler, reports *ReportHandler, vm *middleware.ValidationMiddleware, authService service.AuthService) {
	api.Post("/tests", tests.StartTest)

	session := api.Group("/tests/:id", vm.ValidateSessionID())
	session.Get("/next", tests.NextQuestion)
	session.Post("/answer", middleware.OptionalAuth(authService), tests.SubmitAnswer)
	session.Get("/unlock-status", tests.UnlockStatus)
	session.Post("/share", tests.RecordShare)
	session.Post("/ad", tests.RecordAdView)
	session.Post("/email", tests.SaveEmail)

	session.Get("/results", reports.GetResults)
	session.Get("/incorrect", reports.GetIncorrectAnswers)
}
