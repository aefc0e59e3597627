package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fdapulse/shortage-etl/internal/domain"
	"github.com/fdapulse/shortage-etl/internal/pkg/utils"
)

type bucketKey struct {
	period time.Time
	status domain.AvailabilityStatus
}

type accumulator struct {
	count     int
	totalDays int64
	companies map[string]struct{}
	estimated int
	actual    int
}

// Aggregate rolls episodes up into fixed calendar buckets keyed by
// (period_start, availability_status). Weeks start on Monday; months on the
// first. Episodes with a zero start date or an unknown bucket type are
// excluded from every bucket.
func Aggregate(episodes []domain.Episode, bucket domain.BucketType) []domain.PeriodSummary {
	if bucket != domain.BucketWeekly && bucket != domain.BucketMonthly {
		return nil
	}

	acc := make(map[bucketKey]*accumulator)
	var order []bucketKey

	for _, ep := range episodes {
		if ep.StartDate.IsZero() {
			continue
		}

		key := bucketKey{
			period: TruncateToBucket(ep.StartDate, bucket),
			status: ep.AvailabilityStatus,
		}

		a, ok := acc[key]
		if !ok {
			a = &accumulator{companies: make(map[string]struct{})}
			acc[key] = a
			order = append(order, key)
		}

		a.count++
		a.totalDays += int64(ep.DurationDays)
		a.companies[ep.CompanyName] = struct{}{}
		if ep.EstimatedResupply != nil {
			a.estimated++
		}
		if ep.ActualResupply != nil {
			a.actual++
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if !order[i].period.Equal(order[j].period) {
			return order[i].period.Before(order[j].period)
		}
		return order[i].status < order[j].status
	})

	out := make([]domain.PeriodSummary, 0, len(order))
	for _, key := range order {
		a := acc[key]
		avg := decimal.NewFromInt(a.totalDays).
			Div(decimal.NewFromInt(int64(a.count))).
			Round(2).
			InexactFloat64()

		out = append(out, domain.PeriodSummary{
			BucketType:         bucket,
			PeriodStart:        key.period,
			AvailabilityStatus: key.status,
			EpisodeCount:       a.count,
			CompanyCount:       len(a.companies),
			AvgDurationDays:    avg,
			EstimatedResupply:  a.estimated,
			ActualResupply:     a.actual,
			HasResupplyInfo:    a.estimated+a.actual > 0,
		})
	}

	return out
}

// TruncateToBucket maps a date to the start of its calendar week (Monday)
// or month.
func TruncateToBucket(t time.Time, bucket domain.BucketType) time.Time {
	d := utils.Day(t)
	switch bucket {
	case domain.BucketWeekly:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case domain.BucketMonthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}
