package episodes

import (
	"sort"
	"time"

	"github.com/fdapulse/shortage-etl/internal/domain"
	"github.com/fdapulse/shortage-etl/internal/pkg/utils"
)

// Build converts the canonical, classified record set into non-overlapping
// time episodes per drug/manufacturer/presentation group.
//
// Records without an update_date cannot be placed on a timeline and are
// skipped. Discontinued records are skipped too: discontinuation is a
// terminal marker, not an episode-bearing state.
//
// Within a group, records sort by update_date ascending; same-day records
// break ties by record id ascending, which is the documented deterministic
// ordering. Each record opens an episode ending at the next record's
// update_date, or at the processing date for the last record (still in
// effect). Zero-duration episodes from same-day consecutive observations
// are dropped.
func Build(records []domain.ShortageRecord, now time.Time) []domain.Episode {
	groups := make(map[domain.GroupKey][]domain.ShortageRecord)
	var order []domain.GroupKey

	for _, rec := range records {
		if rec.UpdateDate == nil {
			continue
		}
		if rec.AvailabilityStatus == domain.StatusDiscontinued {
			continue
		}

		key := rec.GroupKey()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	today := utils.Day(now)
	var out []domain.Episode

	for _, key := range order {
		seq := groups[key]
		sort.SliceStable(seq, func(i, j int) bool {
			di, dj := *seq[i].UpdateDate, *seq[j].UpdateDate
			if !di.Equal(dj) {
				return di.Before(dj)
			}
			return seq[i].ID < seq[j].ID
		})

		for i := range seq {
			start := utils.Day(*seq[i].UpdateDate)
			end := today
			if i+1 < len(seq) {
				end = utils.Day(*seq[i+1].UpdateDate)
			}

			duration := utils.DaysBetween(start, end)
			if duration <= 0 {
				continue
			}

			ep := domain.Episode{
				GenericName:         seq[i].GenericName,
				CompanyName:         seq[i].CompanyName,
				Presentation:        seq[i].Presentation,
				TherapeuticCategory: seq[i].TherapeuticCategory,
				AvailabilityStatus:  seq[i].AvailabilityStatus,
				StartDate:           start,
				EndDate:             end,
				DurationDays:        duration,
				EstimatedResupply:   seq[i].EstimatedResupply,
				ActualResupply:      seq[i].ActualResupply,
			}
			out = append(out, decorate(ep))
		}
	}

	return out
}
