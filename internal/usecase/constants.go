package usecase

import "time"

const (
	// DefaultPageSize is used when no limit is given.
	DefaultPageSize = 20

	// MaxPageSize caps list queries.
	MaxPageSize = 100

	// SummaryCacheTTL bounds how stale a cached month summary can get.
	SummaryCacheTTL = 5 * time.Minute

	// RecurringBatchSize caps how many due templates one worker pass
	// materializes.
	RecurringBatchSize = 100
)
