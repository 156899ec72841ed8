package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a posting transaction so a stuck
	// client cannot hold account row locks indefinitely.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// TrialBalanceCacheTTL is how long the trial balance report is cached.
	TrialBalanceCacheTTL = 30 * time.Second
)
