package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobudget/internal/domain"
)

// RecurringUseCase materializes recurring transaction templates. A
// transaction with Recurring > 0 is a template; every Recurring days the
// worker clones it into a fresh one-off transaction and bumps the
// template's UpdatedAt so it is not picked up again until the next
// interval elapses.
type RecurringUseCase struct {
	transactionRepo TransactionRepository
	idGen           IDGenerator
	clock           Clock
	logger          zerolog.Logger
	interval        time.Duration
}

// NewRecurringUseCase creates a new RecurringUseCase. The interval
// controls how often the worker polls for due templates.
func NewRecurringUseCase(
	transactionRepo TransactionRepository,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
	interval time.Duration,
) *RecurringUseCase {
	return &RecurringUseCase{
		transactionRepo: transactionRepo,
		idGen:           idGen,
		clock:           clock,
		logger:          logger,
		interval:        interval,
	}
}

// Run polls for due templates until the context is cancelled.
func (uc *RecurringUseCase) Run(ctx context.Context) {
	ticker := time.NewTicker(uc.interval)
	defer ticker.Stop()

	uc.logger.Info().Dur("interval", uc.interval).Msg("recurring transaction worker started")

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info().Msg("recurring transaction worker stopped")
			return
		case <-ticker.C:
			if _, err := uc.ProcessDue(ctx); err != nil {
				uc.logger.Error().Err(err).Msg("failed to process recurring transactions")
			}
		}
	}
}

// ProcessDue materializes one batch of due templates and returns how many
// were processed. Per-template failures are logged and skipped so one bad
// row cannot stall the rest of the batch.
func (uc *RecurringUseCase) ProcessDue(ctx context.Context) (int, error) {
	now := uc.clock.Now()

	due, err := uc.transactionRepo.ListRecurringDue(ctx, now, RecurringBatchSize)
	if err != nil {
		return 0, err
	}

	processed := 0

	for _, template := range due {
		if err := uc.materialize(ctx, template, now); err != nil {
			uc.logger.Error().
				Err(err).
				Str("transaction_id", template.ID).
				Msg("failed to materialize recurring transaction")

			continue
		}

		processed++
	}

	if processed > 0 {
		uc.logger.Info().Int("count", processed).Msg("materialized recurring transactions")
	}

	return processed, nil
}

func (uc *RecurringUseCase) materialize(ctx context.Context, template *domain.Transaction, now time.Time) error {
	clone := domain.NewTransaction(uc.idGen.Generate(), domain.TransactionProps{
		UserID:      template.UserID,
		Amount:      template.Amount,
		Type:        template.Type,
		Recurring:   0,
		Name:        template.Name,
		Description: template.Description,
	}, now)

	if err := uc.transactionRepo.Create(ctx, clone); err != nil {
		return err
	}

	// Bumping UpdatedAt restarts the template's interval.
	template.UpdatedAt = now

	return uc.transactionRepo.Update(ctx, template)
}
