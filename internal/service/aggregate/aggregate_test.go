package aggregate

import (
	"testing"
	"time"

	"github.com/fdapulse/shortage-etl/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func episode(company string, start time.Time, days int, status domain.AvailabilityStatus) domain.Episode {
	return domain.Episode{
		GenericName:        "cisplatin",
		CompanyName:        company,
		Presentation:       "10mg vial",
		AvailabilityStatus: status,
		StartDate:          start,
		EndDate:            start.AddDate(0, 0, days),
		DurationDays:       days,
	}
}

func TestTruncateToBucketWeekly(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{day(2024, time.March, 11), day(2024, time.March, 11)}, // Monday maps to itself
		{day(2024, time.March, 13), day(2024, time.March, 11)}, // Wednesday
		{day(2024, time.March, 17), day(2024, time.March, 11)}, // Sunday belongs to the preceding Monday
	}
	for _, tt := range tests {
		if got := TruncateToBucket(tt.in, domain.BucketWeekly); !got.Equal(tt.want) {
			t.Errorf("TruncateToBucket(%s, weekly) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestTruncateToBucketMonthly(t *testing.T) {
	if got := TruncateToBucket(day(2024, time.March, 17), domain.BucketMonthly); !got.Equal(day(2024, time.March, 1)) {
		t.Fatalf("TruncateToBucket = %s, want 2024-03-01", got)
	}
}

func TestAggregateRejectsUnknownBucket(t *testing.T) {
	eps := []domain.Episode{episode("Acme", day(2024, time.March, 11), 5, domain.StatusActiveShortage)}
	if got := Aggregate(eps, domain.BucketType("daily")); got != nil {
		t.Fatalf("Aggregate accepted unknown bucket: %+v", got)
	}
}

func TestAggregateGroupsByPeriodAndStatus(t *testing.T) {
	eps := []domain.Episode{
		episode("Acme", day(2024, time.March, 11), 4, domain.StatusActiveShortage),
		episode("Globex", day(2024, time.March, 13), 6, domain.StatusActiveShortage), // same week
		episode("Acme", day(2024, time.March, 12), 3, domain.StatusResolved),        // same week, different status
		episode("Acme", day(2024, time.March, 18), 2, domain.StatusActiveShortage),  // next week
	}

	sums := Aggregate(eps, domain.BucketWeekly)
	if len(sums) != 3 {
		t.Fatalf("got %d summary rows, want 3", len(sums))
	}

	first := sums[0]
	if !first.PeriodStart.Equal(day(2024, time.March, 11)) || first.AvailabilityStatus != domain.StatusActiveShortage {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.EpisodeCount != 2 {
		t.Errorf("episode count = %d, want 2", first.EpisodeCount)
	}
	if first.CompanyCount != 2 {
		t.Errorf("company count = %d, want 2", first.CompanyCount)
	}
	if first.AvgDurationDays != 5 {
		t.Errorf("avg duration = %v, want 5", first.AvgDurationDays)
	}
}

func TestAggregateConservesEpisodes(t *testing.T) {
	eps := []domain.Episode{
		episode("Acme", day(2024, time.January, 3), 5, domain.StatusActiveShortage),
		episode("Acme", day(2024, time.February, 20), 7, domain.StatusResolved),
		episode("Globex", day(2024, time.February, 21), 2, domain.StatusOther),
		episode("Globex", day(2024, time.March, 1), 9, domain.StatusActiveShortage),
	}

	for _, bucket := range []domain.BucketType{domain.BucketWeekly, domain.BucketMonthly} {
		total := 0
		for _, s := range Aggregate(eps, bucket) {
			total += s.EpisodeCount
		}
		if total != len(eps) {
			t.Errorf("%s: counted %d episodes across buckets, want %d", bucket, total, len(eps))
		}
	}
}

func TestAggregateSkipsZeroStartDates(t *testing.T) {
	eps := []domain.Episode{
		{CompanyName: "Acme", AvailabilityStatus: domain.StatusActiveShortage, DurationDays: 5},
	}
	if sums := Aggregate(eps, domain.BucketWeekly); len(sums) != 0 {
		t.Fatalf("zero start date produced %d rows, want 0", len(sums))
	}
}

func TestAggregateRoundsAverage(t *testing.T) {
	eps := []domain.Episode{
		episode("Acme", day(2024, time.March, 11), 1, domain.StatusActiveShortage),
		episode("Globex", day(2024, time.March, 12), 2, domain.StatusActiveShortage),
		episode("Initech", day(2024, time.March, 13), 2, domain.StatusActiveShortage),
	}

	sums := Aggregate(eps, domain.BucketWeekly)
	if len(sums) != 1 {
		t.Fatalf("got %d rows, want 1", len(sums))
	}
	if sums[0].AvgDurationDays != 1.67 {
		t.Fatalf("avg = %v, want 1.67", sums[0].AvgDurationDays)
	}
}

func TestAggregateResupplyCounters(t *testing.T) {
	est := day(2024, time.April, 1)
	act := day(2024, time.April, 10)

	withEst := episode("Acme", day(2024, time.March, 11), 4, domain.StatusActiveShortage)
	withEst.EstimatedResupply = &est
	withBoth := episode("Globex", day(2024, time.March, 12), 4, domain.StatusActiveShortage)
	withBoth.EstimatedResupply = &est
	withBoth.ActualResupply = &act
	bare := episode("Initech", day(2024, time.March, 13), 4, domain.StatusActiveShortage)

	sums := Aggregate([]domain.Episode{withEst, withBoth, bare}, domain.BucketWeekly)
	if len(sums) != 1 {
		t.Fatalf("got %d rows, want 1", len(sums))
	}
	s := sums[0]
	if s.EstimatedResupply != 2 || s.ActualResupply != 1 {
		t.Errorf("resupply counters = %d/%d, want 2/1", s.EstimatedResupply, s.ActualResupply)
	}
	if !s.HasResupplyInfo {
		t.Error("HasResupplyInfo = false, want true")
	}

	none := Aggregate([]domain.Episode{bare}, domain.BucketWeekly)
	if none[0].HasResupplyInfo {
		t.Error("HasResupplyInfo = true for a bucket with no resupply dates")
	}
}

func TestAggregateOutputIsSorted(t *testing.T) {
	eps := []domain.Episode{
		episode("Acme", day(2024, time.March, 18), 2, domain.StatusResolved),
		episode("Acme", day(2024, time.March, 11), 2, domain.StatusResolved),
		episode("Acme", day(2024, time.March, 11), 2, domain.StatusActiveShortage),
	}

	sums := Aggregate(eps, domain.BucketWeekly)
	for i := 1; i < len(sums); i++ {
		prev, cur := sums[i-1], sums[i]
		if cur.PeriodStart.Before(prev.PeriodStart) {
			t.Fatalf("rows out of order: %s before %s", cur.PeriodStart, prev.PeriodStart)
		}
		if cur.PeriodStart.Equal(prev.PeriodStart) && cur.AvailabilityStatus < prev.AvailabilityStatus {
			t.Fatalf("statuses out of order within %s", cur.PeriodStart)
		}
	}
}
