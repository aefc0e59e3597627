package domain

import "time"

// Episode is a maximal contiguous interval during which one
// drug/manufacturer/presentation group held a single availability status.
// Episodes are regenerated wholesale on every run.
type Episode struct {
	GenericName         string             `db:"generic_name" json:"generic_name"`
	CompanyName         string             `db:"company_name" json:"company_name"`
	Presentation        string             `db:"presentation" json:"presentation"`
	TherapeuticCategory string             `db:"therapeutic_category" json:"therapeutic_category"`
	AvailabilityStatus  AvailabilityStatus `db:"availability_status" json:"availability_status"`
	StartDate           time.Time          `db:"episode_start_date" json:"episode_start_date"`
	EndDate             time.Time          `db:"episode_end_date" json:"episode_end_date"`
	DurationDays        int                `db:"episode_duration_days" json:"episode_duration_days"`
	EstimatedResupply   *time.Time         `db:"estimated_resupply_date" json:"estimated_resupply_date,omitempty"`
	ActualResupply      *time.Time         `db:"actual_resupply_date" json:"actual_resupply_date,omitempty"`

	// Presentation hints for the timeline renderer.
	DrugDisplayName string `db:"drug_display_name" json:"drug_display_name"`
	StatusColor     string `db:"status_color" json:"status_color"`
}

type BucketType string

const (
	BucketWeekly  BucketType = "weekly"
	BucketMonthly BucketType = "monthly"
)

// PeriodSummary is one aggregate row per (bucket, period, status).
type PeriodSummary struct {
	BucketType         BucketType         `db:"bucket_type" json:"bucket_type"`
	PeriodStart        time.Time          `db:"period_start" json:"period_start"`
	AvailabilityStatus AvailabilityStatus `db:"availability_status" json:"availability_status"`
	EpisodeCount       int                `db:"episode_count" json:"episode_count"`
	CompanyCount       int                `db:"company_count" json:"company_count"`
	AvgDurationDays    float64            `db:"avg_duration_days" json:"avg_duration_days"`
	EstimatedResupply  int                `db:"with_estimated_resupply" json:"with_estimated_resupply"`
	ActualResupply     int                `db:"with_actual_resupply" json:"with_actual_resupply"`
	HasResupplyInfo    bool               `db:"has_resupply_info" json:"has_resupply_info"`
}

// DrugRanking is a per-drug aggregate consumed by the dashboard rankings
// chart. Computed in the store from persisted episodes.
type DrugRanking struct {
	GenericName         string  `db:"generic_name" json:"generic_name"`
	CompanyName         string  `db:"company_name" json:"company_name"`
	TherapeuticCategory string  `db:"therapeutic_category" json:"therapeutic_category"`
	TotalDays           int     `db:"total_days" json:"total_days"`
	TotalEpisodes       int     `db:"total_episodes" json:"total_episodes"`
	ShortageEpisodes    int     `db:"shortage_episodes" json:"shortage_episodes"`
	ShortageDays        int     `db:"shortage_days" json:"shortage_days"`
	ShortagePct         float64 `db:"shortage_pct" json:"shortage_pct"`
}
