package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fdapulse/shortage-etl/internal/domain"
	"github.com/fdapulse/shortage-etl/internal/pkg/constants"
	"github.com/fdapulse/shortage-etl/internal/service/reconciler"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func mustService(t *testing.T) *Service {
	t.Helper()
	rec, err := reconciler.New(reconciler.Config{})
	if err != nil {
		t.Fatalf("reconciler.New: %v", err)
	}
	return NewService(rec)
}

func TestRunProducesAllDerivedSets(t *testing.T) {
	svc := mustService(t)
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)

	fresh := []domain.ShortageRecord{
		{
			ID:           "f1",
			GenericName:  "cisplatin",
			CompanyName:  "Acme",
			Presentation: "10mg vial",
			Status:       "Current Shortage",
			UpdateDate:   day(2024, time.March, 1),
		},
		{
			ID:           "f2",
			GenericName:  "cisplatin",
			CompanyName:  "Acme",
			Presentation: "10mg vial",
			Status:       "Resolved",
			UpdateDate:   day(2024, time.March, 10),
		},
	}

	res, err := svc.Run(context.Background(), fresh, nil, now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Canonical) != 2 {
		t.Errorf("canonical = %d records, want 2", len(res.Canonical))
	}
	for _, rec := range res.Canonical {
		if rec.AvailabilityStatus == "" {
			t.Errorf("record %s left unclassified", rec.ID)
		}
	}
	if len(res.Episodes) != 2 {
		t.Errorf("episodes = %d, want 2", len(res.Episodes))
	}
	if len(res.Weekly) == 0 || len(res.Monthly) == 0 {
		t.Errorf("summaries missing: %d weekly, %d monthly", len(res.Weekly), len(res.Monthly))
	}
}

func TestRunClassifiesArchivedRecordsToo(t *testing.T) {
	svc := mustService(t)
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)

	archived := []domain.ShortageRecord{
		{
			ID:          "a1",
			GenericName: "methotrexate",
			CompanyName: "Globex",
			Status:      "Current Shortage",
			UpdateDate:  day(2024, time.February, 1),
		},
	}

	res, err := svc.Run(context.Background(), nil, archived, now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Canonical[0].AvailabilityStatus != domain.StatusActiveShortage {
		t.Fatalf("archived record classified as %q", res.Canonical[0].AvailabilityStatus)
	}
}

func TestRunHaltsOnInconsistentDuplicates(t *testing.T) {
	svc := mustService(t)
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)

	a := domain.ShortageRecord{
		ID: "f1", GenericName: "cisplatin", CompanyName: "Acme",
		Status: "Current Shortage", UpdateDate: day(2024, time.March, 1),
	}
	b := a
	b.ID = "a1"
	b.ResolvedNote = nil
	b.AvailabilityStatus = domain.StatusResolved

	// b's raw fields match a's, so classification overwrites the mismatch
	res, err := svc.Run(context.Background(), []domain.ShortageRecord{a}, []domain.ShortageRecord{b}, now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Canonical) != 1 {
		t.Fatalf("canonical = %d, want the duplicate collapsed", len(res.Canonical))
	}

	// with a disjoint dedup key the disagreement becomes fatal
	rec, err := reconciler.New(reconciler.Config{DedupFields: []string{"generic_name", "company_name"}})
	if err != nil {
		t.Fatalf("reconciler.New: %v", err)
	}
	strict := NewService(rec)

	c := a
	c.ID = "a2"
	c.Status = "Resolved"
	_, err = strict.Run(context.Background(), []domain.ShortageRecord{a}, []domain.ShortageRecord{c}, now)
	if !errors.Is(err, constants.ErrInconsistentDuplicate) {
		t.Fatalf("err = %v, want ErrInconsistentDuplicate", err)
	}
}

func TestRunIsRepeatable(t *testing.T) {
	svc := mustService(t)
	now := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)

	fresh := []domain.ShortageRecord{
		{
			ID: "f1", GenericName: "cisplatin", CompanyName: "Acme",
			Status: "Current Shortage", UpdateDate: day(2024, time.March, 1),
		},
	}

	first, err := svc.Run(context.Background(), fresh, nil, now)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := svc.Run(context.Background(), fresh, first.Canonical, now)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if len(second.Canonical) != len(first.Canonical) {
		t.Errorf("canonical grew on re-run: %d -> %d", len(first.Canonical), len(second.Canonical))
	}
	if len(second.Episodes) != len(first.Episodes) {
		t.Errorf("episodes changed on re-run: %d -> %d", len(first.Episodes), len(second.Episodes))
	}
}
