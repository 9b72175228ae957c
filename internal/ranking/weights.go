package ranking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Recency windows for the time-based signals.
const (
	// JobRecencyWindow is how long a job posting counts as recent.
	JobRecencyWindow = 7 * 24 * time.Hour
	// PersonActivityWindow is how long a user counts as recently active.
	PersonActivityWindow = 30 * 24 * time.Hour
	// PostFreshnessWindow is how long a post earns the freshness bonus.
	PostFreshnessWindow = 24 * time.Hour
)

// JobWeights defines the signal weights for job recommendations.
type JobWeights struct {
	SkillMatch         float64 `json:"skill_match"`          // Per matching skill (default: 20)
	LocationAffinity   float64 `json:"location_affinity"`    // City, state, or remote match (default: 30)
	ExperienceFit      float64 `json:"experience_fit"`       // Viewer experience within the posting's range (default: 25)
	PostedByConnection float64 `json:"posted_by_connection"` // Posting authored by a direct connection (default: 40)
	Recency            float64 `json:"recency"`              // Posted within JobRecencyWindow (default: 15)
	Verified           float64 `json:"verified"`             // Verified posting (default: 10)
	PopularityPer100   float64 `json:"popularity_per_100"`   // Per 100 views, unbounded but dampened (default: 5)
}

// PersonWeights defines the signal weights for people suggestions.
type PersonWeights struct {
	SkillMatch          float64 `json:"skill_match"`          // Per shared skill (default: 15)
	LocationAffinity    float64 `json:"location_affinity"`    // City or state match (default: 30)
	SecondDegree        float64 `json:"second_degree"`        // Connection-of-connection (default: 50)
	IndustryMatch       float64 `json:"industry_match"`       // Same non-empty industry (default: 25)
	RoleComplementarity float64 `json:"role_complementarity"` // Seeker paired with a hiring-side role (default: 20)
	Recency             float64 `json:"recency"`              // Active within PersonActivityWindow (default: 5)
	Verified            float64 `json:"verified"`             // Identity-verified user (default: 10)
}

// FeedWeights defines the signal weights for the home feed.
type FeedWeights struct {
	Like             float64 `json:"like"`              // Per like (default: 2)
	Comment          float64 `json:"comment"`           // Per comment (default: 3)
	ConnectionAuthor float64 `json:"connection_author"` // Author is a direct connection (default: 50)
	FollowedAuthor   float64 `json:"followed_author"`   // Author is followed, connection wins if both (default: 30)
	Freshness        float64 `json:"freshness"`         // Posted within PostFreshnessWindow (default: 20)
	Media            float64 `json:"media"`             // Post carries media (default: 10)
}

// Weights holds the weight tables for all three modes.
type Weights struct {
	Job    JobWeights    `json:"job"`
	Person PersonWeights `json:"person"`
	Feed   FeedWeights   `json:"feed"`
}

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string  `json:"version"` // Config version for future compatibility
	Weights Weights `json:"weights"` // Weight configurations
}

// DefaultWeights returns the product's hand-tuned weight tables. The relative
// scale of these values is a given contract the ranker replicates, not a set
// of values to re-tune.
func DefaultWeights() *Weights {
	return &Weights{
		Job: JobWeights{
			SkillMatch:         20,
			LocationAffinity:   30,
			ExperienceFit:      25,
			PostedByConnection: 40,
			Recency:            15,
			Verified:           10,
			PopularityPer100:   5,
		},
		Person: PersonWeights{
			SkillMatch:          15,
			LocationAffinity:    30,
			SecondDegree:        50,
			IndustryMatch:       25,
			RoleComplementarity: 20,
			Recency:             5,
			Verified:            10,
		},
		Feed: FeedWeights{
			Like:             2,
			Comment:          3,
			ConnectionAuthor: 50,
			FollowedAuthor:   30,
			Freshness:        20,
			Media:            10,
		},
	}
}

// LoadCalibration loads ranking weights from a JSON calibration file.
// Partial configurations are merged with defaults for graceful degradation.
// On any error the defaults are returned alongside the error so callers can
// log and continue.
func LoadCalibration(filePath string) (*Weights, error) {
	if filePath == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read ranking calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse ranking calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	defaults := DefaultWeights()
	merged := MergeCalibration(defaults, &config.Weights)
	logCalibrationOverrides(defaults, merged)

	return merged, nil
}

// MergeCalibration merges override weights into base weights. Only non-zero
// override values are applied, which allows partial calibration files.
func MergeCalibration(base *Weights, override *Weights) *Weights {
	if base == nil {
		return DefaultWeights()
	}
	if override == nil {
		result := *base
		return &result
	}

	result := *base

	result.Job.SkillMatch = pick(base.Job.SkillMatch, override.Job.SkillMatch)
	result.Job.LocationAffinity = pick(base.Job.LocationAffinity, override.Job.LocationAffinity)
	result.Job.ExperienceFit = pick(base.Job.ExperienceFit, override.Job.ExperienceFit)
	result.Job.PostedByConnection = pick(base.Job.PostedByConnection, override.Job.PostedByConnection)
	result.Job.Recency = pick(base.Job.Recency, override.Job.Recency)
	result.Job.Verified = pick(base.Job.Verified, override.Job.Verified)
	result.Job.PopularityPer100 = pick(base.Job.PopularityPer100, override.Job.PopularityPer100)

	result.Person.SkillMatch = pick(base.Person.SkillMatch, override.Person.SkillMatch)
	result.Person.LocationAffinity = pick(base.Person.LocationAffinity, override.Person.LocationAffinity)
	result.Person.SecondDegree = pick(base.Person.SecondDegree, override.Person.SecondDegree)
	result.Person.IndustryMatch = pick(base.Person.IndustryMatch, override.Person.IndustryMatch)
	result.Person.RoleComplementarity = pick(base.Person.RoleComplementarity, override.Person.RoleComplementarity)
	result.Person.Recency = pick(base.Person.Recency, override.Person.Recency)
	result.Person.Verified = pick(base.Person.Verified, override.Person.Verified)

	result.Feed.Like = pick(base.Feed.Like, override.Feed.Like)
	result.Feed.Comment = pick(base.Feed.Comment, override.Feed.Comment)
	result.Feed.ConnectionAuthor = pick(base.Feed.ConnectionAuthor, override.Feed.ConnectionAuthor)
	result.Feed.FollowedAuthor = pick(base.Feed.FollowedAuthor, override.Feed.FollowedAuthor)
	result.Feed.Freshness = pick(base.Feed.Freshness, override.Feed.Freshness)
	result.Feed.Media = pick(base.Feed.Media, override.Feed.Media)

	return &result
}

// pick returns the override when it is non-zero, otherwise the base value.
func pick(base, override float64) float64 {
	if override != 0 {
		return override
	}
	return base
}

// logCalibrationOverrides logs which weights were overridden from defaults.
func logCalibrationOverrides(defaults *Weights, loaded *Weights) {
	fields := []struct {
		name string
		def  float64
		got  float64
	}{
		{"job.skill_match", defaults.Job.SkillMatch, loaded.Job.SkillMatch},
		{"job.location_affinity", defaults.Job.LocationAffinity, loaded.Job.LocationAffinity},
		{"job.experience_fit", defaults.Job.ExperienceFit, loaded.Job.ExperienceFit},
		{"job.posted_by_connection", defaults.Job.PostedByConnection, loaded.Job.PostedByConnection},
		{"job.recency", defaults.Job.Recency, loaded.Job.Recency},
		{"job.verified", defaults.Job.Verified, loaded.Job.Verified},
		{"job.popularity_per_100", defaults.Job.PopularityPer100, loaded.Job.PopularityPer100},
		{"person.skill_match", defaults.Person.SkillMatch, loaded.Person.SkillMatch},
		{"person.location_affinity", defaults.Person.LocationAffinity, loaded.Person.LocationAffinity},
		{"person.second_degree", defaults.Person.SecondDegree, loaded.Person.SecondDegree},
		{"person.industry_match", defaults.Person.IndustryMatch, loaded.Person.IndustryMatch},
		{"person.role_complementarity", defaults.Person.RoleComplementarity, loaded.Person.RoleComplementarity},
		{"person.recency", defaults.Person.Recency, loaded.Person.Recency},
		{"person.verified", defaults.Person.Verified, loaded.Person.Verified},
		{"feed.like", defaults.Feed.Like, loaded.Feed.Like},
		{"feed.comment", defaults.Feed.Comment, loaded.Feed.Comment},
		{"feed.connection_author", defaults.Feed.ConnectionAuthor, loaded.Feed.ConnectionAuthor},
		{"feed.followed_author", defaults.Feed.FollowedAuthor, loaded.Feed.FollowedAuthor},
		{"feed.freshness", defaults.Feed.Freshness, loaded.Feed.Freshness},
		{"feed.media", defaults.Feed.Media, loaded.Feed.Media},
	}

	var overrides []string
	for _, f := range fields {
		if f.got != f.def {
			overrides = append(overrides, fmt.Sprintf("%s: %.2f -> %.2f", f.name, f.def, f.got))
		}
	}

	if len(overrides) > 0 {
		slog.Info("loaded ranking calibration with overrides", "overrides", overrides)
	} else {
		slog.Info("loaded ranking calibration (using all defaults)")
	}
}
