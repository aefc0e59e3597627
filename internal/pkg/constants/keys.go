package constants

// viper keys
const (
	ViperDatabaseDSN     = "database.dsn"
	ViperFeedBaseURL     = "feed.base_url"
	ViperFeedDaysBack    = "feed.days_back"
	ViperFeedPageLimit   = "feed.page_limit"
	ViperBulletinURL     = "feed.bulletin_url"
	ViperArchiveSchema   = "archive.schema"
	ViperDedupFields     = "archive.dedup_fields"
	ViperAPIAddr         = "api.addr"
	ViperSecretKey       = "api.secret"
	ViperAllowedOrigins  = "api.allowed_origins"
	ViperLogLevel        = "log.level"
	ViperWeeklyRunDay    = "scheduler.weekday"
	ViperWeeklyRunHour   = "scheduler.hour"
)

const CookieKeySecretToken = "secret_token"

// warning codes surfaced by the core
const (
	WarnEmptyDedupKey    = "empty_dedup_key"
	WarnUnparsableDate   = "unparsable_date"
	WarnMissingGroupKey  = "missing_group_key"
	WarnMissingFeedID    = "missing_feed_id"
)
