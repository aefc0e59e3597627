package classifier

import (
	"strings"
	"time"

	"github.com/fdapulse/shortage-etl/internal/domain"
)

type input struct {
	status           string
	availability     string
	resolvedNote     *string
	dateDiscontinued *time.Time
}

// rules map raw feed vocabulary to the fixed availability statuses. They
// are evaluated in order and the first match wins: a record carrying both a
// discontinuation marker and a resolution note is discontinued. Unmatched
// input falls through to StatusOther, so classification is total.
var rules = []struct {
	match  func(input) bool
	status domain.AvailabilityStatus
}{
	{
		match: func(in input) bool {
			return in.dateDiscontinued != nil || containsFold(in.status, "discontinued")
		},
		status: domain.StatusDiscontinued,
	},
	{
		match: func(in input) bool {
			return hasText(in.resolvedNote) || containsFold(in.status, "resolved")
		},
		status: domain.StatusResolved,
	},
	{
		match: func(in input) bool {
			return containsFold(in.status, "shortage")
		},
		status: domain.StatusActiveShortage,
	},
}

// Classify maps raw status fields into the availability vocabulary.
func Classify(status, availability string, resolvedNote *string, dateDiscontinued *time.Time) domain.AvailabilityStatus {
	in := input{
		status:           status,
		availability:     availability,
		resolvedNote:     resolvedNote,
		dateDiscontinued: dateDiscontinued,
	}

	for _, rule := range rules {
		if rule.match(in) {
			return rule.status
		}
	}

	return domain.StatusOther
}

// ClassifyRecord fills the derived availability_status field in place.
func ClassifyRecord(r *domain.ShortageRecord) {
	r.AvailabilityStatus = Classify(r.Status, r.Availability, r.ResolvedNote, r.DateDiscontinued)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

func hasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
