package jobs

import (
	"context"
	"time"

	"parkwise-backend/internal/logger"
)

// SendOverstayReminders emails customers whose active reservation is past its
// expected exit time. The reservation stays active; billing keeps accruing
// until a real checkout.
func (jr *JobRunner) SendOverstayReminders() {
	jr.runWithRecovery("SendOverstayReminders", func() {
		ctx := context.Background()

		overstayed, err := jr.store.ListActivePastExpectedExit(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to list overstayed reservations", "error", err)
			return
		}

		count := 0
		for _, rsv := range overstayed {
			customer, err := jr.store.CustomerRepository.GetByID(ctx, rsv.CustomerID)
			if err != nil {
				logger.Error("Failed to load customer for overstay reminder", "reservation_id", rsv.ID, "error", err)
				continue
			}
			spot, err := jr.store.SpotRepository.GetByID(ctx, rsv.SpotID)
			if err != nil {
				logger.Error("Failed to load spot for overstay reminder", "reservation_id", rsv.ID, "error", err)
				continue
			}
			if err := jr.services.Email.SendOverstayReminder(ctx, customer.Email, customer.Name, spot.Number, *rsv.ExpectedExitTime); err != nil {
				logger.Error("Failed to send overstay reminder", "reservation_id", rsv.ID, "error", err)
				continue
			}
			count++
		}

		logger.Info("Sent overstay reminders", "count", count)
	})
}

// PurgeIdempotencyKeys deletes idempotency-key mappings older than the
// configured TTL. Past that window a retried request is a new request.
func (jr *JobRunner) PurgeIdempotencyKeys() {
	jr.runWithRecovery("PurgeIdempotencyKeys", func() {
		ctx := context.Background()

		ttl := time.Duration(jr.config.Scheduler.IdempotencyKeyTTLDays) * 24 * time.Hour
		cutoff := time.Now().UTC().Add(-ttl)

		deleted, err := jr.store.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to purge idempotency keys", "error", err)
			return
		}
		logger.Info("Purged idempotency keys", "deleted", deleted, "cutoff", cutoff)
	})
}
