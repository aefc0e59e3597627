package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/fdapulse/shortage-etl/internal/domain"
)

var summaryColumns = []string{
	"bucket_type", "period_start", "availability_status", "episode_count",
	"company_count", "avg_duration_days", "with_estimated_resupply",
	"with_actual_resupply", "has_resupply_info",
}

type ListSummariesOpts struct {
	Bucket domain.BucketType
}

// ReplaceSummaries swaps in the full regenerated summary set; callers pass
// weekly and monthly rows together.
func (s *store) ReplaceSummaries(ctx context.Context, summaries []domain.PeriodSummary) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "truncate table "+tableSummaries); err != nil {
		return fmt.Errorf("truncate summaries: %w", err)
	}

	if len(summaries) > 0 {
		query := builder().Insert(tableSummaries).Columns(summaryColumns...)
		for i := range summaries {
			sum := &summaries[i]
			query = query.Values(
				sum.BucketType, sum.PeriodStart, sum.AvailabilityStatus, sum.EpisodeCount,
				sum.CompanyCount, sum.AvgDurationDays, sum.EstimatedResupply,
				sum.ActualResupply, sum.HasResupplyInfo,
			)
		}

		sql, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert summaries: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *store) ListSummaries(ctx context.Context, opts ListSummariesOpts) ([]domain.PeriodSummary, error) {
	query := builder().Select(summaryColumns...).
		From(tableSummaries).
		OrderBy("period_start, availability_status")

	if opts.Bucket != "" {
		query = query.Where(sq.Eq{"bucket_type": opts.Bucket})
	}

	rows, err := s.pool.Queryx(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var selected []domain.PeriodSummary
	for rows.Next() {
		var sum domain.PeriodSummary
		err := rows.Scan(
			&sum.BucketType, &sum.PeriodStart, &sum.AvailabilityStatus, &sum.EpisodeCount,
			&sum.CompanyCount, &sum.AvgDurationDays, &sum.EstimatedResupply,
			&sum.ActualResupply, &sum.HasResupplyInfo,
		)
		if err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		selected = append(selected, sum)
	}

	return selected, rows.Err()
}
