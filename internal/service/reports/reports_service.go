package reports

import (
	"context"
	"fmt"

	"github.com/fdapulse/shortage-etl/internal/domain"
	"github.com/fdapulse/shortage-etl/internal/pkg/store"
)

// Service exposes the persisted run output to the dashboard API.
type Service struct {
	store store.Store
}

func NewReportsService(st store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) ListEpisodes(ctx context.Context, opts store.ListEpisodesOpts) ([]domain.Episode, error) {
	episodes, err := s.store.ListEpisodes(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListEpisodes: %w", err)
	}
	return episodes, nil
}

func (s *Service) ListSummaries(ctx context.Context, opts store.ListSummariesOpts) ([]domain.PeriodSummary, error) {
	summaries, err := s.store.ListSummaries(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListSummaries: %w", err)
	}
	return summaries, nil
}

func (s *Service) ListDrugs(ctx context.Context) ([]string, error) {
	drugs, err := s.store.ListDrugs(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListDrugs: %w", err)
	}
	return drugs, nil
}

func (s *Service) ListRankings(ctx context.Context) ([]domain.DrugRanking, error) {
	rankings, err := s.store.ListRankings(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListRankings: %w", err)
	}
	return rankings, nil
}
