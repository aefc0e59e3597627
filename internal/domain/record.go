package domain

import "time"

type DataSource string

const (
	SourceFresh    DataSource = "fresh"
	SourceArchived DataSource = "archived"
)

type AvailabilityStatus string

const (
	StatusDiscontinued   AvailabilityStatus = "discontinued"
	StatusResolved       AvailabilityStatus = "resolved"
	StatusActiveShortage AvailabilityStatus = "active_shortage"
	StatusOther          AvailabilityStatus = "other"
)

// ShortageRecord is one observation of a drug's shortage status at a point
// in time, as stored in the canonical table.
type ShortageRecord struct {
	ID                  string             `db:"id" json:"id"`
	GenericName         string             `db:"generic_name" json:"generic_name"`
	CompanyName         string             `db:"company_name" json:"company_name"`
	Presentation        string             `db:"presentation" json:"presentation"`
	TherapeuticCategory string             `db:"therapeutic_category" json:"therapeutic_category"`
	UpdateType          string             `db:"update_type" json:"update_type"`
	Status              string             `db:"status" json:"status"`
	Availability        string             `db:"availability" json:"availability"`
	ResolvedNote        *string            `db:"resolved_note" json:"resolved_note,omitempty"`
	ReasonForShortage   *string            `db:"reason_for_shortage" json:"reason_for_shortage,omitempty"`
	RelatedInfo         *string            `db:"related_info" json:"related_info,omitempty"`
	NDC                 *string            `db:"ndc" json:"ndc,omitempty"`
	UpdateDate          *time.Time         `db:"update_date" json:"update_date,omitempty"`
	ChangeDate          *time.Time         `db:"change_date" json:"change_date,omitempty"`
	DateDiscontinued    *time.Time         `db:"date_discontinued" json:"date_discontinued,omitempty"`
	EstimatedResupply   *time.Time         `db:"estimated_resupply_date" json:"estimated_resupply_date,omitempty"`
	ActualResupply      *time.Time         `db:"actual_resupply_date" json:"actual_resupply_date,omitempty"`
	ShortageStatus      *string            `db:"shortage_status" json:"shortage_status,omitempty"`
	StatusChangeDate    *time.Time         `db:"status_change_date" json:"status_change_date,omitempty"`
	AvailabilityStatus  AvailabilityStatus `db:"availability_status" json:"availability_status"`
	DataSource          DataSource         `db:"data_source" json:"data_source"`
	CreatedAt           time.Time          `db:"created_at" json:"created_at"`
}

// GroupKey identifies one drug/manufacturer/presentation timeline.
type GroupKey struct {
	GenericName  string
	CompanyName  string
	Presentation string
}

func (r *ShortageRecord) GroupKey() GroupKey {
	return GroupKey{
		GenericName:  r.GenericName,
		CompanyName:  r.CompanyName,
		Presentation: r.Presentation,
	}
}

// Warning is a non-fatal data-quality signal returned alongside results.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
