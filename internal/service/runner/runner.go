package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/fdapulse/shortage-etl/internal/domain"
	"github.com/fdapulse/shortage-etl/internal/pkg/logger"
	"github.com/fdapulse/shortage-etl/internal/service/aggregate"
	"github.com/fdapulse/shortage-etl/internal/service/classifier"
	"github.com/fdapulse/shortage-etl/internal/service/episodes"
	"github.com/fdapulse/shortage-etl/internal/service/reconciler"
)

// Result is one run's complete derived output. It is produced atomically:
// either every set is populated from the same canonical input or the run
// fails with no partial output.
type Result struct {
	Canonical []domain.ShortageRecord
	Episodes  []domain.Episode
	Weekly    []domain.PeriodSummary
	Monthly   []domain.PeriodSummary
	Warnings  []domain.Warning
}

type Service struct {
	reconciler *reconciler.Reconciler
}

func NewService(rec *reconciler.Reconciler) *Service {
	return &Service{reconciler: rec}
}

// Run performs one full classify → reconcile → episode-build → aggregate
// pass over the given record sets. Pure over in-memory sets; safe to re-run
// on the same inputs after a failed persistence commit.
func (s *Service) Run(ctx context.Context, fresh, archived []domain.ShortageRecord, now time.Time) (*Result, error) {
	// Classification must precede episode building; re-deriving it for
	// archived records keeps old rows consistent with the current
	// vocabulary.
	for i := range fresh {
		classifier.ClassifyRecord(&fresh[i])
	}
	for i := range archived {
		classifier.ClassifyRecord(&archived[i])
	}

	canonical, warnings, err := s.reconciler.Reconcile(fresh, archived)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	eps := episodes.Build(canonical, now)
	weekly := aggregate.Aggregate(eps, domain.BucketWeekly)
	monthly := aggregate.Aggregate(eps, domain.BucketMonthly)

	logger.Infof(ctx, "run derived %d canonical records, %d episodes, %d weekly and %d monthly summaries",
		len(canonical), len(eps), len(weekly), len(monthly))
	for _, w := range warnings {
		logger.Warnf(ctx, "data quality [%s]: %s", w.Code, w.Message)
	}

	return &Result{
		Canonical: canonical,
		Episodes:  eps,
		Weekly:    weekly,
		Monthly:   monthly,
		Warnings:  warnings,
	}, nil
}
