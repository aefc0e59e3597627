package etl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fdapulse/shortage-etl/internal/domain"
	"github.com/fdapulse/shortage-etl/internal/domain/dto"
	"github.com/fdapulse/shortage-etl/internal/pkg/constants"
	"github.com/fdapulse/shortage-etl/internal/pkg/logger"
	"github.com/fdapulse/shortage-etl/internal/pkg/store"
	"github.com/fdapulse/shortage-etl/internal/pkg/utils"
	"github.com/fdapulse/shortage-etl/internal/service/fetcher"
	"github.com/fdapulse/shortage-etl/internal/service/runner"
)

// Feed delivers raw shortage reports for a date window.
type Feed interface {
	FetchWindow(ctx context.Context, start, end time.Time) ([]dto.FeedRecord, error)
}

// Service wires the external collaborators (feed, archive store) around the
// core reconcile-and-derive run.
type Service struct {
	feed     Feed
	bulletin Feed
	store    store.Store
	runner   *runner.Service
	daysBack int
}

func NewService(feed, bulletin Feed, st store.Store, run *runner.Service, daysBack int) *Service {
	return &Service{
		feed:     feed,
		bulletin: bulletin,
		store:    st,
		runner:   run,
		daysBack: daysBack,
	}
}

// RunOnce executes one full fetch → derive → persist pass. Feed or
// persistence failures abort the run; data-quality warnings are logged and
// the run continues.
func (s *Service) RunOnce(ctx context.Context, now time.Time) (*runner.Result, error) {
	ctx = logger.WithRunID(ctx, uuid.NewString())

	start, end := fetcher.Window(now, s.daysBack)
	raw, err := s.feed.FetchWindow(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	// the bulletin is a best-effort secondary source
	if s.bulletin != nil {
		extra, err := s.bulletin.FetchWindow(ctx, start, end)
		if err != nil {
			logger.Warnf(ctx, "bulletin fetch failed, continuing with primary feed: %s", err.Error())
		} else {
			raw = append(raw, extra...)
		}
	}

	fresh, ingestWarnings := dto.ToDomainAll(raw, now)
	for _, w := range ingestWarnings {
		logger.Warnf(ctx, "ingest [%s]: %s", w.Code, w.Message)
	}

	archived, err := s.store.ReadArchive(ctx)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	latest, err := s.store.LatestUpdateDate(ctx)
	switch {
	case errors.Is(err, constants.ErrDBNotFound):
		logger.Info(ctx, "archive is empty, first run")
	case err != nil:
		return nil, fmt.Errorf("latest update date: %w", err)
	case latest != nil:
		logger.Infof(ctx, "archive holds %d records through %s", len(archived), utils.FormatDate(latest))
	}

	res, err := s.runner.Run(ctx, fresh, archived, now)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(ingestWarnings, res.Warnings...)

	if err := s.store.WriteCanonical(ctx, res.Canonical); err != nil {
		return nil, fmt.Errorf("write canonical: %w", err)
	}
	if err := s.store.ReplaceEpisodes(ctx, res.Episodes); err != nil {
		return nil, fmt.Errorf("write episodes: %w", err)
	}

	summaries := make([]domain.PeriodSummary, 0, len(res.Weekly)+len(res.Monthly))
	summaries = append(summaries, res.Weekly...)
	summaries = append(summaries, res.Monthly...)
	if err := s.store.ReplaceSummaries(ctx, summaries); err != nil {
		return nil, fmt.Errorf("write summaries: %w", err)
	}

	logger.Info(ctx, "etl run committed")
	return res, nil
}

// RunWeekly blocks and executes RunOnce once a week at the given weekday
// and hour (UTC). A failed run is logged and retried at the next tick.
func (s *Service) RunWeekly(ctx context.Context, weekday time.Weekday, hour int) error {
	for {
		next := nextRun(time.Now().UTC(), weekday, hour)
		logger.Infof(ctx, "next weekly run scheduled for %s", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case now := <-timer.C:
			if _, err := s.RunOnce(ctx, now.UTC()); err != nil {
				logger.Errorf(ctx, "weekly run failed: %s", err.Error())
			}
		}
	}
}

func nextRun(now time.Time, weekday time.Weekday, hour int) time.Time {
	delta := (int(weekday) - int(now.Weekday()) + 7) % 7
	candidate := utils.Day(now).AddDate(0, 0, delta).Add(time.Duration(hour) * time.Hour)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
