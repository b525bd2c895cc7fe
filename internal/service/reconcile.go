package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
	"unify-backend/internal/metrics"
	"unify-backend/internal/repository"
)

type reconcileService struct {
	store   *repository.Store
	metrics *metrics.Metrics
}

func NewReconcileService(store *repository.Store, m *metrics.Metrics) ReconcileService {
	return &reconcileService{store: store, metrics: m}
}

// ReconcileMembership recomputes memberCount and registeredChapters from the
// approved registrations and rewrites whichever has drifted. A failed write is
// reported at the end and does not stop the pass.
func (s *reconcileService) ReconcileMembership(ctx context.Context) (*ReconcileReport, error) {
	logger.EnterMethod("reconcileService.ReconcileMembership")

	approved, err := s.store.Registrations.ListByStatus(ctx, domain.RegistrationStatusApproved)
	if err != nil {
		logger.ExitMethodWithError("reconcileService.ReconcileMembership", err, "reason", "list approved")
		return nil, err
	}
	counts := make(map[string]int)
	names := make(map[string]map[string]bool)
	for _, r := range approved {
		counts[r.ChapterID]++
		if names[r.UserID] == nil {
			names[r.UserID] = make(map[string]bool)
		}
		names[r.UserID][r.ChapterName] = true
	}

	report := &ReconcileReport{}
	var errs []error

	chapters, err := s.store.Chapters.List(ctx)
	if err != nil {
		logger.ExitMethodWithError("reconcileService.ReconcileMembership", err, "reason", "list chapters")
		return nil, err
	}
	for _, c := range chapters {
		report.ChaptersChecked++
		want := counts[c.ChapterID]
		if c.MemberCount == want {
			continue
		}
		logger.WarnContext(ctx, "Member count drift", "chapterID", c.ChapterID, "stored", c.MemberCount, "approved", want)
		s.metrics.IncrementDrift("member_count")
		if err := s.store.Chapters.SetMemberCount(ctx, c.ChapterID, want); err != nil {
			errs = append(errs, fmt.Errorf("chapter %s: %w", c.ChapterID, err))
			continue
		}
		report.ChaptersFixed++
	}

	users, err := s.store.Users.List(ctx)
	if err != nil {
		logger.ExitMethodWithError("reconcileService.ReconcileMembership", err, "reason", "list users")
		return nil, err
	}
	for _, u := range users {
		report.UsersChecked++
		want := sortedKeys(names[u.UserID])
		have := dedupeSorted(u.RegisteredChapters)
		if slices.Equal(want, have) {
			continue
		}
		logger.WarnContext(ctx, "Registered chapters drift", "userID", u.UserID, "stored", have, "approved", want)
		s.metrics.IncrementDrift("registered_chapters")
		if err := s.store.Users.SetRegisteredChapters(ctx, u.UserID, want); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", u.UserID, err))
			continue
		}
		report.UsersFixed++
	}

	if err := errors.Join(errs...); err != nil {
		logger.ExitMethodWithError("reconcileService.ReconcileMembership", err, "failed", len(errs))
		return report, err
	}
	logger.ExitMethod("reconcileService.ReconcileMembership",
		"chaptersFixed", report.ChaptersFixed, "usersFixed", report.UsersFixed)
	return report, nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func dedupeSorted(vals []string) []string {
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return sortedKeys(set)
}
