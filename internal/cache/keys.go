package cache

import "strings"

const (
	GlobalKeyPrefix = "adaptiveiq"

	reportService = "report"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// ResultsKey is the key of a completed session's results report.
func ResultsKey(sessionID string) string {
	return GenerateCacheKey(reportService, "results", sessionID)
}

// IncorrectKey is the key of a completed session's incorrect-answer review.
func IncorrectKey(sessionID string) string {
	return GenerateCacheKey(reportService, "incorrect", sessionID)
}
