package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector of this service. A private registry keeps tests isolated
// from the process-wide default one.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	questionsServed = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iq_questions_served_total",
			Help: "Questions served by the adaptive selector",
		},
		[]string{"difficulty", "fallback"},
	)

	answersRecorded = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iq_answers_recorded_total",
			Help: "Answers recorded, by outcome",
		},
		[]string{"outcome"}, // correct / incorrect / skipped
	)

	sessionsCompleted = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iq_sessions_completed_total",
			Help: "Sessions that reached completion",
		},
		[]string{"reason"},
	)

	finalAbility = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "iq_final_ability_score",
			Help:    "Ability score at session completion",
			Buckets: prometheus.LinearBuckets(70, 10, 10),
		},
	)

	unlockEvents = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iq_unlock_events_total",
			Help: "Share, ad view and email events on the report unlock flow",
		},
		[]string{"event"},
	)

	requestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func QuestionServed(difficulty int, fallback bool) {
	questionsServed.WithLabelValues(strconv.Itoa(difficulty), strconv.FormatBool(fallback)).Inc()
}

func AnswerRecorded(correct, skipped bool) {
	outcome := "incorrect"
	switch {
	case skipped:
		outcome = "skipped"
	case correct:
		outcome = "correct"
	}
	answersRecorded.WithLabelValues(outcome).Inc()
}

func SessionCompleted(reason string, ability int) {
	sessionsCompleted.WithLabelValues(reason).Inc()
	finalAbility.Observe(float64(ability))
}

func UnlockEvent(event string) {
	unlockEvents.WithLabelValues(event).Inc()
}

// Middleware records request latency per route template, not per raw path.
// Errors go through the app's ErrorHandler here so the recorded status is the one sent.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}
		status := strconv.Itoa(c.Response().StatusCode())
		requestDuration.WithLabelValues(c.Method(), c.Route().Path, status).
			Observe(time.Since(start).Seconds())
		return nil
	}
}

// Handler serves the Prometheus exposition format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
