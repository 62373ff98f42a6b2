package constants

import "time"

const (
	SearchCacheTTL = 5 * time.Minute
	LeagueCacheTTL = 5 * time.Minute
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 60 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

// match filters
const (
	MinDurationSeconds = 120
	MinLadderGames     = 5
	EligibilityGames   = 35
)

// fan-out widths
const (
	SoSConcurrency    = 25
	DetailConcurrency = 32
	LeagueConcurrency = 32
)

const (
	SearchPageSize       = 20
	MinSearchQueryLength = 2
	MatchPageSize        = 100
	MaxMatchPages        = 50
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)
