// Package constants provides shared constants used throughout the govmatch codebase.
// This includes matching thresholds, limits, file permissions and file names that
// should be consistent across the engine, the report writers and the CLI.
package constants

import "time"

// Score constants define the thresholds of the matching policy (0-100 scale).
const (
	// MaxScore is the score assigned to exact slug hits and manual overrides
	MaxScore = 100.0

	// SlugAcceptScore is the minimum slug similarity for a slug lookup to return a candidate
	SlugAcceptScore = 70.0

	// SnapshotTitleFloor is the minimum title score considered for snapshot records
	SnapshotTitleFloor = 55.0

	// SnapshotLinkFloor is the minimum link score accepted as a low-confidence snapshot match
	SnapshotLinkFloor = 60.0

	// SnapshotHighConfidence is the score at which a snapshot match is considered confirmed
	SnapshotHighConfidence = 70.0

	// TallyTitleFloor is the minimum title score considered for tally records
	TallyTitleFloor = 60.0

	// TallyLinkScore is the minimum link score for a tally link match to be used
	TallyLinkScore = 70.0

	// TallyHighConfidence is the score at which a tally match is considered confirmed
	TallyHighConfidence = 75.0

	// PartialRatioWeight discounts the best-substring metric in the combined title score
	PartialRatioWeight = 0.95

	// TokenSetRatioWeight discounts the token-set metric in the combined title score
	TokenSetRatioWeight = 0.90
)

// Classification constants.
const (
	// MinTitleLength is the shortest trimmed tally title that is not treated as garbage
	MinTitleLength = 3

	// DefaultForumDomain is the forum whose topic links are extracted from record bodies
	DefaultForumDomain = "forum.arbitrum.foundation"
)

// Limit constants define various limits and capacities
const (
	// DefaultWorkers is the default size of the matching worker pool
	DefaultWorkers = 4

	// MaxWorkers caps the matching worker pool
	MaxWorkers = 64

	// PromptDescriptionLimit is the number of characters of a description kept in a prompt
	PromptDescriptionLimit = 2000

	// MatchedSlugDisplayLength is how much of a matched slug the review tables show
	MatchedSlugDisplayLength = 30

	// ReviewSampleSize is the number of entries listed per section in the console review
	ReviewSampleSize = 10
)

// Timeout constants for the external verification service.
const (
	// VerifyRequestTimeout bounds a single verification call
	VerifyRequestTimeout = 60 * time.Second

	// DefaultVerifyRate is the default number of verification requests per second
	DefaultVerifyRate = 1.0
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Output file names written by the match and prompts commands.
const (
	SnapshotOutputFile = "snapshot_stage_final.json"
	TallyOutputFile    = "tally_stage_final.json"
	ReviewReportBase   = "review_report_final"
	SnapshotPromptFile = "snapshot_prompts.json"
	TallyPromptFile    = "tally_prompts.json"
	VerdictsFile       = "verdicts.json"
)
