package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fdapulse/shortage-etl/internal/domain"
)

// The canonical table carries the superset of both archive schema variants;
// the variant-2 columns (shortage_status, status_change_date) stay null
// under variant 1. Which columns feed the dedup key is decided by config,
// not here.
const schemaDDL = `
create table if not exists drug_shortage_records (
	id                      text        not null,
	generic_name            text        not null default '',
	company_name            text        not null default '',
	presentation            text        not null default '',
	therapeutic_category    text        not null default '',
	update_type             text        not null default '',
	status                  text        not null default '',
	availability            text        not null default '',
	resolved_note           text,
	reason_for_shortage     text,
	related_info            text,
	ndc                     text,
	update_date             date,
	change_date             date,
	date_discontinued       date,
	estimated_resupply_date date,
	actual_resupply_date    date,
	shortage_status         text,
	status_change_date      date,
	availability_status     text        not null,
	data_source             text        not null,
	created_at              timestamptz not null default now()
);
create index if not exists idx_records_group
	on drug_shortage_records (generic_name, company_name, presentation);
create index if not exists idx_records_update_date
	on drug_shortage_records (update_date);

create table if not exists drug_shortage_episodes (
	generic_name            text    not null,
	company_name            text    not null,
	presentation            text    not null,
	therapeutic_category    text    not null,
	availability_status     text    not null,
	episode_start_date      date    not null,
	episode_end_date        date    not null,
	episode_duration_days   integer not null,
	estimated_resupply_date date,
	actual_resupply_date    date,
	drug_display_name       text    not null,
	status_color            text    not null
);
create index if not exists idx_episodes_generic_name
	on drug_shortage_episodes (generic_name);
create index if not exists idx_episodes_start_date
	on drug_shortage_episodes (episode_start_date);

create table if not exists drug_shortage_summaries (
	bucket_type             text             not null,
	period_start            date             not null,
	availability_status     text             not null,
	episode_count           integer          not null,
	company_count           integer          not null,
	avg_duration_days       double precision not null,
	with_estimated_resupply integer          not null,
	with_actual_resupply    integer          not null,
	has_resupply_info       boolean          not null
);
create index if not exists idx_summaries_bucket
	on drug_shortage_summaries (bucket_type, period_start);
`

func (s *store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

var recordColumns = []string{
	"id", "generic_name", "company_name", "presentation", "therapeutic_category",
	"update_type", "status", "availability", "resolved_note", "reason_for_shortage",
	"related_info", "ndc", "update_date", "change_date", "date_discontinued",
	"estimated_resupply_date", "actual_resupply_date", "shortage_status",
	"status_change_date", "availability_status", "data_source", "created_at",
}

func recordValues(r *domain.ShortageRecord) []interface{} {
	return []interface{}{
		r.ID, r.GenericName, r.CompanyName, r.Presentation, r.TherapeuticCategory,
		r.UpdateType, r.Status, r.Availability, r.ResolvedNote, r.ReasonForShortage,
		r.RelatedInfo, r.NDC, r.UpdateDate, r.ChangeDate, r.DateDiscontinued,
		r.EstimatedResupply, r.ActualResupply, r.ShortageStatus,
		r.StatusChangeDate, r.AvailabilityStatus, r.DataSource, r.CreatedAt,
	}
}

func scanRecord(rows pgx.Rows) (domain.ShortageRecord, error) {
	var r domain.ShortageRecord
	err := rows.Scan(
		&r.ID, &r.GenericName, &r.CompanyName, &r.Presentation, &r.TherapeuticCategory,
		&r.UpdateType, &r.Status, &r.Availability, &r.ResolvedNote, &r.ReasonForShortage,
		&r.RelatedInfo, &r.NDC, &r.UpdateDate, &r.ChangeDate, &r.DateDiscontinued,
		&r.EstimatedResupply, &r.ActualResupply, &r.ShortageStatus,
		&r.StatusChangeDate, &r.AvailabilityStatus, &r.DataSource, &r.CreatedAt,
	)
	return r, err
}

func (s *store) ReadArchive(ctx context.Context) ([]domain.ShortageRecord, error) {
	query := builder().Select(recordColumns...).
		From(tableRecords).
		OrderBy("update_date, id")

	rows, err := s.pool.Queryx(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	defer rows.Close()

	var selected []domain.ShortageRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		selected = append(selected, rec)
	}

	return selected, rows.Err()
}

// WriteCanonical replaces the stored canonical set with the run's output in
// one transaction, so a failed run never leaves a partial set behind.
func (s *store) WriteCanonical(ctx context.Context, records []domain.ShortageRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "truncate table "+tableRecords); err != nil {
		return fmt.Errorf("truncate records: %w", err)
	}

	// chunked multi-value inserts keep us under the Postgres parameter cap
	const chunkSize = 500
	for offset := 0; offset < len(records); offset += chunkSize {
		end := offset + chunkSize
		if end > len(records) {
			end = len(records)
		}

		query := builder().Insert(tableRecords).Columns(recordColumns...)
		for i := offset; i < end; i++ {
			query = query.Values(recordValues(&records[i])...)
		}

		sql, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert records: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *store) LatestUpdateDate(ctx context.Context) (*time.Time, error) {
	query := builder().Select("max(update_date)").From(tableRecords)

	rows, err := s.pool.Queryx(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("latest update date: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, wrapErr(pgx.ErrNoRows)
	}

	var latest *time.Time
	if err := rows.Scan(&latest); err != nil {
		return nil, fmt.Errorf("scan latest: %w", err)
	}

	return latest, rows.Err()
}
