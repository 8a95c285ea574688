package jobs

import (
	"context"

	"tracklet-backend/internal/logger"
)

// MarkOverdueRentals moves ACTIVE orders past their rental end to OVERDUE.
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()

		ids, err := jr.services.Rental.MarkOverdue(ctx)
		if err != nil {
			logger.Error("Failed to mark overdue rentals", "error", err)
			return
		}

		logger.Info("Marked rentals as overdue", "count", len(ids))
		for _, id := range ids {
			logger.Debug("Marked rental as overdue", "order_id", id)
		}
	})
}

// SendOverdueReminders emails a reminder for every OVERDUE order. A failed
// delivery is logged and the remaining orders are still processed.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		orders, err := jr.services.Rental.OverdueOrders(ctx)
		if err != nil {
			logger.Error("Failed to load overdue rentals", "error", err)
			return
		}

		sent, failed := 0, 0
		for _, order := range orders {
			if err := jr.services.Notifier.SendOverdueReminder(ctx, order); err != nil {
				logger.Error("Failed to send overdue reminder", "order_id", order.ID, "reference", order.Reference, "error", err)
				failed++
				continue
			}
			sent++
		}

		logger.Info("Sent overdue reminders", "sent", sent, "failed", failed)
	})
}
