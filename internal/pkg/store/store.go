package store

import (
	"context"
	"time"

	"github.com/fdapulse/shortage-etl/internal/domain"
	"github.com/fdapulse/shortage-etl/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	EnsureSchema(ctx context.Context) error

	ReadArchive(ctx context.Context) ([]domain.ShortageRecord, error)
	WriteCanonical(ctx context.Context, records []domain.ShortageRecord) error
	LatestUpdateDate(ctx context.Context) (*time.Time, error)

	ReplaceEpisodes(ctx context.Context, episodes []domain.Episode) error
	ReplaceSummaries(ctx context.Context, summaries []domain.PeriodSummary) error

	ListEpisodes(ctx context.Context, opts ListEpisodesOpts) ([]domain.Episode, error)
	ListSummaries(ctx context.Context, opts ListSummariesOpts) ([]domain.PeriodSummary, error)
	ListDrugs(ctx context.Context) ([]string, error)
	ListRankings(ctx context.Context) ([]domain.DrugRanking, error)
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}
