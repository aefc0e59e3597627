package dto

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/fdapulse/shortage-etl/internal/domain"
	"github.com/fdapulse/shortage-etl/internal/pkg/constants"
	"github.com/fdapulse/shortage-etl/internal/pkg/utils"
)

// FeedRecord mirrors one result object from the regulatory shortage feed.
// All temporal fields arrive as strings and may be empty.
type FeedRecord struct {
	ID                    string   `json:"id"`
	GenericName           string   `json:"generic_name"`
	CompanyName           string   `json:"company_name"`
	Presentation          string   `json:"presentation"`
	UpdateType            string   `json:"update_type"`
	UpdateDate            string   `json:"update_date"`
	Availability          string   `json:"availability"`
	RelatedInfo           string   `json:"related_info"`
	ResolvedNote          string   `json:"resolved_note"`
	ReasonForShortage     string   `json:"reason_for_shortage"`
	TherapeuticCategory   []string `json:"therapeutic_category"`
	Status                string   `json:"status"`
	ChangeDate            string   `json:"change_date"`
	DateDiscontinued      string   `json:"date_discontinued"`
	PackageNDC            string   `json:"package_ndc"`
	EstimatedResupplyDate string   `json:"estimated_resupply_date"`
	ActualResupplyDate    string   `json:"actual_resupply_date"`
	ShortageStatus        string   `json:"shortage_status"`
	StatusChangeDate      string   `json:"status_change_date"`
}

// ToDomain normalizes one raw feed object before it enters the core:
// empty-string dates become absent, unparsable dates become absent plus a
// warning, and a missing feed id is replaced with a stable content hash.
func (f *FeedRecord) ToDomain(createdAt time.Time) (domain.ShortageRecord, []domain.Warning) {
	var warnings []domain.Warning

	date := func(field, raw string) *time.Time {
		t, err := utils.ParseDate(raw)
		if err != nil {
			warnings = append(warnings, domain.Warning{
				Code:    constants.WarnUnparsableDate,
				Message: fmt.Sprintf("%s: %s", field, err.Error()),
			})
			return nil
		}
		return t
	}

	rec := domain.ShortageRecord{
		ID:                  strings.TrimSpace(f.ID),
		GenericName:         strings.TrimSpace(f.GenericName),
		CompanyName:         strings.TrimSpace(f.CompanyName),
		Presentation:        strings.TrimSpace(f.Presentation),
		TherapeuticCategory: firstCategory(f.TherapeuticCategory),
		UpdateType:          strings.TrimSpace(f.UpdateType),
		Status:              strings.TrimSpace(f.Status),
		Availability:        strings.TrimSpace(f.Availability),
		ResolvedNote:        optional(f.ResolvedNote),
		ReasonForShortage:   optional(f.ReasonForShortage),
		RelatedInfo:         optional(f.RelatedInfo),
		NDC:                 optional(f.PackageNDC),
		ShortageStatus:      optional(f.ShortageStatus),
		UpdateDate:          date("update_date", f.UpdateDate),
		ChangeDate:          date("change_date", f.ChangeDate),
		DateDiscontinued:    date("date_discontinued", f.DateDiscontinued),
		EstimatedResupply:   date("estimated_resupply_date", f.EstimatedResupplyDate),
		ActualResupply:      date("actual_resupply_date", f.ActualResupplyDate),
		StatusChangeDate:    date("status_change_date", f.StatusChangeDate),
		DataSource:          domain.SourceFresh,
		CreatedAt:           createdAt,
	}

	if rec.ID == "" {
		rec.ID = contentID(f)
		warnings = append(warnings, domain.Warning{
			Code:    constants.WarnMissingFeedID,
			Message: fmt.Sprintf("feed record without id, assigned %s", rec.ID),
		})
	}

	if rec.GenericName == "" && rec.CompanyName == "" && rec.Presentation == "" {
		warnings = append(warnings, domain.Warning{
			Code:    constants.WarnMissingGroupKey,
			Message: fmt.Sprintf("record %s has no descriptive fields", rec.ID),
		})
	}

	return rec, warnings
}

// ToDomainAll converts a fetched page of feed objects, collecting the
// per-record data-quality warnings.
func ToDomainAll(records []FeedRecord, createdAt time.Time) ([]domain.ShortageRecord, []domain.Warning) {
	out := make([]domain.ShortageRecord, 0, len(records))
	var warnings []domain.Warning

	for i := range records {
		rec, w := records[i].ToDomain(createdAt)
		out = append(out, rec)
		warnings = append(warnings, w...)
	}

	return out, warnings
}

// contentID derives a stable identifier from the fields that make a feed
// record unique, for records the feed ships without an id.
func contentID(f *FeedRecord) string {
	content := strings.Join([]string{
		f.GenericName,
		f.CompanyName,
		f.Presentation,
		f.UpdateDate,
		f.PackageNDC,
	}, "|")

	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])[:12]
}

func firstCategory(categories []string) string {
	if len(categories) == 0 {
		return ""
	}
	return strings.TrimSpace(categories[0])
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
