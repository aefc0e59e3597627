package reconciler

import (
	"fmt"
	"strings"

	"github.com/fdapulse/shortage-etl/internal/domain"
	"github.com/fdapulse/shortage-etl/internal/pkg/constants"
	"github.com/fdapulse/shortage-etl/internal/pkg/utils"
)

// fieldAccessors renders each dedup-key field as a string token. Nil
// pointers and empty strings deliberately produce the same token, so a
// record differing only in null vs "" still collides with its duplicate.
var fieldAccessors = map[string]func(*domain.ShortageRecord) string{
	"generic_name":         func(r *domain.ShortageRecord) string { return r.GenericName },
	"company_name":         func(r *domain.ShortageRecord) string { return r.CompanyName },
	"presentation":         func(r *domain.ShortageRecord) string { return r.Presentation },
	"therapeutic_category": func(r *domain.ShortageRecord) string { return r.TherapeuticCategory },
	"update_type":          func(r *domain.ShortageRecord) string { return r.UpdateType },
	"status":               func(r *domain.ShortageRecord) string { return r.Status },
	"availability":         func(r *domain.ShortageRecord) string { return r.Availability },
	"resolved_note":        func(r *domain.ShortageRecord) string { return deref(r.ResolvedNote) },
	"reason_for_shortage":  func(r *domain.ShortageRecord) string { return deref(r.ReasonForShortage) },
	"related_info":         func(r *domain.ShortageRecord) string { return deref(r.RelatedInfo) },
	"ndc":                  func(r *domain.ShortageRecord) string { return deref(r.NDC) },
	"shortage_status":      func(r *domain.ShortageRecord) string { return deref(r.ShortageStatus) },
	"update_date":          func(r *domain.ShortageRecord) string { return utils.FormatDate(r.UpdateDate) },
	"change_date":          func(r *domain.ShortageRecord) string { return utils.FormatDate(r.ChangeDate) },
	"date_discontinued":    func(r *domain.ShortageRecord) string { return utils.FormatDate(r.DateDiscontinued) },
	"status_change_date":   func(r *domain.ShortageRecord) string { return utils.FormatDate(r.StatusChangeDate) },
}

// DefaultFieldSet is the archive schema-v1 dedup key: every descriptive,
// status and temporal field, excluding id, created_at and data_source.
var DefaultFieldSet = []string{
	"generic_name",
	"company_name",
	"presentation",
	"therapeutic_category",
	"update_type",
	"status",
	"availability",
	"resolved_note",
	"reason_for_shortage",
	"update_date",
	"change_date",
	"date_discontinued",
}

// VariantFieldSet extends the key with the columns present only in the
// integer-keyed archive schema.
var VariantFieldSet = append(append([]string{}, DefaultFieldSet...),
	"shortage_status", "status_change_date")

type Config struct {
	// DedupFields names the key fields in key order; empty means
	// DefaultFieldSet. Driven by archive.dedup_fields so the key adapts to
	// whichever archive schema variant is in use.
	DedupFields []string
}

type Reconciler struct {
	fields []string
}

func New(cfg Config) (*Reconciler, error) {
	fields := cfg.DedupFields
	if len(fields) == 0 {
		fields = DefaultFieldSet
	}

	for _, f := range fields {
		if _, ok := fieldAccessors[f]; !ok {
			return nil, fmt.Errorf("unknown dedup field %q", f)
		}
	}

	return &Reconciler{fields: fields}, nil
}

// Key renders a record's deduplication key.
func (r *Reconciler) Key(rec *domain.ShortageRecord) string {
	tokens := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		tokens = append(tokens, fieldAccessors[f](rec))
	}
	return strings.Join(tokens, "|")
}

// candidate pairs a record with the set it arrived in. Selection ranks by
// origin, not by the record's persisted data_source tag: the archive keeps
// each winner's own tag, so an archived row may still read "fresh".
type candidate struct {
	rec    domain.ShortageRecord
	origin domain.DataSource
}

// betterCandidate reports whether a beats b for the same dedup key: the
// fresh set ranks before the archived set, ties break by newest created_at.
func betterCandidate(a, b *candidate) bool {
	if a.origin != b.origin {
		return a.origin == domain.SourceFresh
	}
	return a.rec.CreatedAt.After(b.rec.CreatedAt)
}

// Reconcile merges freshly fetched and archived record sets into one
// duplicate-free canonical set. The winning record keeps its own
// data_source and created_at; only records arriving untagged are stamped
// with their origin set, so re-reconciling an already-canonical set with an
// empty counterpart returns it unchanged. Records whose key fields are all
// absent are still grouped (under the empty key) but surfaced as a warning.
func (r *Reconciler) Reconcile(fresh, archived []domain.ShortageRecord) ([]domain.ShortageRecord, []domain.Warning, error) {
	groups := make(map[string][]candidate, len(fresh)+len(archived))
	var order []string

	add := func(rec domain.ShortageRecord, origin domain.DataSource) {
		if rec.DataSource == "" {
			rec.DataSource = origin
		}
		key := r.Key(&rec)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], candidate{rec: rec, origin: origin})
	}

	for _, rec := range fresh {
		add(rec, domain.SourceFresh)
	}
	for _, rec := range archived {
		add(rec, domain.SourceArchived)
	}

	canonical := make([]domain.ShortageRecord, 0, len(order))
	var warnings []domain.Warning
	emptyKey := strings.Repeat("|", len(r.fields)-1)

	for _, key := range order {
		candidates := groups[key]

		for _, c := range candidates[1:] {
			if c.rec.AvailabilityStatus != candidates[0].rec.AvailabilityStatus {
				return nil, nil, fmt.Errorf("key %q held by records %s and %s: %w",
					key, candidates[0].rec.ID, c.rec.ID, constants.ErrInconsistentDuplicate)
			}
		}

		best := candidates[0]
		for _, c := range candidates[1:] {
			if betterCandidate(&c, &best) {
				best = c
			}
		}
		canonical = append(canonical, best.rec)

		if key == emptyKey {
			warnings = append(warnings, domain.Warning{
				Code:    constants.WarnEmptyDedupKey,
				Message: fmt.Sprintf("%d record(s) with every dedup-key field absent", len(candidates)),
			})
		}
	}

	return canonical, warnings, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
