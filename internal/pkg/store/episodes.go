package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/fdapulse/shortage-etl/internal/domain"
)

var episodeColumns = []string{
	"generic_name", "company_name", "presentation", "therapeutic_category",
	"availability_status", "episode_start_date", "episode_end_date",
	"episode_duration_days", "estimated_resupply_date", "actual_resupply_date",
	"drug_display_name", "status_color",
}

type ListEpisodesOpts struct {
	GenericName string
	From        *time.Time
	To          *time.Time
}

// ReplaceEpisodes swaps in the full regenerated episode set.
func (s *store) ReplaceEpisodes(ctx context.Context, episodes []domain.Episode) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "truncate table "+tableEpisodes); err != nil {
		return fmt.Errorf("truncate episodes: %w", err)
	}

	const chunkSize = 1000
	for offset := 0; offset < len(episodes); offset += chunkSize {
		end := offset + chunkSize
		if end > len(episodes) {
			end = len(episodes)
		}

		query := builder().Insert(tableEpisodes).Columns(episodeColumns...)
		for i := offset; i < end; i++ {
			ep := &episodes[i]
			query = query.Values(
				ep.GenericName, ep.CompanyName, ep.Presentation, ep.TherapeuticCategory,
				ep.AvailabilityStatus, ep.StartDate, ep.EndDate,
				ep.DurationDays, ep.EstimatedResupply, ep.ActualResupply,
				ep.DrugDisplayName, ep.StatusColor,
			)
		}

		sql, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert episodes: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *store) ListEpisodes(ctx context.Context, opts ListEpisodesOpts) ([]domain.Episode, error) {
	query := builder().Select(episodeColumns...).
		From(tableEpisodes).
		OrderBy("generic_name, company_name, presentation, episode_start_date")

	if opts.GenericName != "" {
		query = query.Where(sq.Eq{"generic_name": opts.GenericName})
	}
	if opts.From != nil {
		query = query.Where(sq.GtOrEq{"episode_end_date": *opts.From})
	}
	if opts.To != nil {
		query = query.Where(sq.LtOrEq{"episode_start_date": *opts.To})
	}

	rows, err := s.pool.Queryx(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var selected []domain.Episode
	for rows.Next() {
		var ep domain.Episode
		err := rows.Scan(
			&ep.GenericName, &ep.CompanyName, &ep.Presentation, &ep.TherapeuticCategory,
			&ep.AvailabilityStatus, &ep.StartDate, &ep.EndDate,
			&ep.DurationDays, &ep.EstimatedResupply, &ep.ActualResupply,
			&ep.DrugDisplayName, &ep.StatusColor,
		)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		selected = append(selected, ep)
	}

	return selected, rows.Err()
}

func (s *store) ListDrugs(ctx context.Context) ([]string, error) {
	query := builder().Select("distinct generic_name").
		From(tableEpisodes).
		OrderBy("generic_name")

	rows, err := s.pool.Queryx(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list drugs: %w", err)
	}
	defer rows.Close()

	var drugs []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan drug: %w", err)
		}
		drugs = append(drugs, name)
	}

	return drugs, rows.Err()
}

// ListRankings aggregates persisted episodes into the per-drug shortage
// rankings the dashboard's bar chart consumes.
func (s *store) ListRankings(ctx context.Context) ([]domain.DrugRanking, error) {
	query := builder().Select(
		"generic_name",
		"company_name",
		"therapeutic_category",
		"sum(episode_duration_days) as total_days",
		"count(*) as total_episodes",
		"count(*) filter (where availability_status = 'active_shortage') as shortage_episodes",
		"coalesce(sum(episode_duration_days) filter (where availability_status = 'active_shortage'), 0) as shortage_days",
	).
		From(tableEpisodes).
		GroupBy("generic_name", "company_name", "therapeutic_category").
		OrderBy("shortage_days desc")

	rows, err := s.pool.Queryx(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}
	defer rows.Close()

	var selected []domain.DrugRanking
	for rows.Next() {
		var r domain.DrugRanking
		err := rows.Scan(
			&r.GenericName, &r.CompanyName, &r.TherapeuticCategory,
			&r.TotalDays, &r.TotalEpisodes, &r.ShortageEpisodes, &r.ShortageDays,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ranking: %w", err)
		}

		if r.TotalDays > 0 {
			r.ShortagePct = decimal.NewFromInt(int64(r.ShortageDays)).
				Div(decimal.NewFromInt(int64(r.TotalDays))).
				Mul(decimal.NewFromInt(100)).
				Round(2).
				InexactFloat64()
		}
		selected = append(selected, r)
	}

	return selected, rows.Err()
}
