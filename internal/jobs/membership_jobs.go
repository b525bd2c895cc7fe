package jobs

import (
	"context"
	"time"

	"unify-backend/internal/logger"
)

const reconcileTimeout = 10 * time.Minute

// ReconcileMembership rewrites memberCount and registeredChapters wherever
// they disagree with the approved registrations.
func (jr *JobRunner) ReconcileMembership() {
	jr.runWithRecovery("ReconcileMembership", func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()

		report, err := jr.services.Reconcile.ReconcileMembership(ctx)
		if report != nil {
			logger.Info("Membership reconciled",
				"chaptersChecked", report.ChaptersChecked,
				"chaptersFixed", report.ChaptersFixed,
				"usersChecked", report.UsersChecked,
				"usersFixed", report.UsersFixed,
			)
		}
		if err != nil {
			logger.Error("Failed to reconcile membership", "error", err)
		}
	})
}
