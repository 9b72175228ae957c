package ranking

import (
	"strings"
	"time"
)

// Signal names used as breakdown keys. Each signal is an independently
// computed, non-negative contribution to a candidate's score; absence of data
// yields 0, never a negative or undefined contribution.
const (
	SignalSkillOverlap        = "skill_overlap"
	SignalLocationAffinity    = "location_affinity"
	SignalExperienceFit       = "experience_fit"
	SignalGraphProximity      = "graph_proximity"
	SignalIndustryMatch       = "industry_match"
	SignalRoleComplementarity = "role_complementarity"
	SignalRecency             = "recency"
	SignalVerificationTrust   = "verification_trust"
	SignalPopularity          = "popularity"
	SignalSocialEngagement    = "social_engagement"
	SignalAuthorProximity     = "author_proximity"
	SignalFreshnessBonus      = "freshness_bonus"
	SignalMediaBonus          = "media_bonus"
)

// ScoreJob computes the job-mode score for one (viewer, job) pair.
// Pure: the result depends only on the arguments. The returned breakdown
// contains the non-zero contributions keyed by signal name.
func ScoreJob(v *ViewerContext, job *JobCandidate, w JobWeights, now time.Time) (float64, map[string]float64) {
	b := make(map[string]float64)

	if n := skillOverlap(v.Skills, job.RequiredSkills, job.Keywords); n > 0 {
		b[SignalSkillOverlap] = float64(n) * w.SkillMatch
	}

	if locationMatches(v, job.City, job.State) || job.IsRemote {
		b[SignalLocationAffinity] = w.LocationAffinity
	}

	if job.ExperienceMin != nil && job.ExperienceMax != nil &&
		v.ExperienceYears >= *job.ExperienceMin && v.ExperienceYears <= *job.ExperienceMax {
		b[SignalExperienceFit] = w.ExperienceFit
	}

	if v.DirectConnections.Contains(job.PostedBy) {
		b[SignalGraphProximity] = w.PostedByConnection
	}

	if withinWindow(job.CreatedAt, now, JobRecencyWindow) {
		b[SignalRecency] = w.Recency
	}

	if job.IsVerified {
		b[SignalVerificationTrust] = w.Verified
	}

	if job.ViewCount > 0 {
		b[SignalPopularity] = float64(job.ViewCount) / 100.0 * w.PopularityPer100
	}

	return sum(b), b
}

// ScorePerson computes the people-mode score for one (viewer, person) pair.
// secondDegree is the already-expanded connection-of-connection set; it is
// resolved once per request before scoring and treated as immutable here.
func ScorePerson(v *ViewerContext, p *PersonCandidate, secondDegree Set, w PersonWeights, now time.Time) (float64, map[string]float64) {
	b := make(map[string]float64)

	if n := skillOverlap(v.Skills, p.Skills, nil); n > 0 {
		b[SignalSkillOverlap] = float64(n) * w.SkillMatch
	}

	if locationMatches(v, p.City, p.State) {
		b[SignalLocationAffinity] = w.LocationAffinity
	}

	if secondDegree.Contains(p.ID) {
		b[SignalGraphProximity] = w.SecondDegree
	}

	if v.Industry != "" && p.Industry != "" && strings.EqualFold(v.Industry, p.Industry) {
		b[SignalIndustryMatch] = w.IndustryMatch
	}

	if rolesComplement(v.Role, p.Role) {
		b[SignalRoleComplementarity] = w.RoleComplementarity
	}

	if withinWindow(p.LastActiveAt, now, PersonActivityWindow) {
		b[SignalRecency] = w.Recency
	}

	if p.IsIdentityVerified {
		b[SignalVerificationTrust] = w.Verified
	}

	return sum(b), b
}

// ScorePost computes the feed-mode score for one (viewer, post) pair.
func ScorePost(v *ViewerContext, p *PostCandidate, w FeedWeights, now time.Time) (float64, map[string]float64) {
	b := make(map[string]float64)

	if engagement := float64(p.LikeCount)*w.Like + float64(p.CommentCount)*w.Comment; engagement > 0 {
		b[SignalSocialEngagement] = engagement
	}

	// Connection wins over following; the two bonuses are never summed.
	switch {
	case v.DirectConnections.Contains(p.AuthorID):
		b[SignalAuthorProximity] = w.ConnectionAuthor
	case v.Following.Contains(p.AuthorID):
		b[SignalAuthorProximity] = w.FollowedAuthor
	}

	if withinWindow(p.CreatedAt, now, PostFreshnessWindow) {
		b[SignalFreshnessBonus] = w.Freshness
	}

	if p.HasMedia {
		b[SignalMediaBonus] = w.Media
	}

	return sum(b), b
}

// skillOverlap counts viewer skills present in the union of the candidate's
// skill lists, matched case-insensitively. An empty viewer skill set
// contributes nothing.
func skillOverlap(viewerSkills Set, candidateSkills, extra []string) int {
	if len(viewerSkills) == 0 || len(candidateSkills)+len(extra) == 0 {
		return 0
	}

	wanted := make(Set, len(candidateSkills)+len(extra))
	for _, s := range candidateSkills {
		wanted[strings.ToLower(s)] = struct{}{}
	}
	for _, s := range extra {
		wanted[strings.ToLower(s)] = struct{}{}
	}

	count := 0
	for skill := range viewerSkills {
		if wanted.Contains(strings.ToLower(skill)) {
			count++
		}
	}
	return count
}

// locationMatches reports whether the viewer and candidate share a city or a
// state. The bonus is binary and non-stacking: a city match and a state match
// never both apply. Empty fields on either side never match.
func locationMatches(v *ViewerContext, city, state string) bool {
	if v.City != "" && city != "" && strings.EqualFold(v.City, city) {
		return true
	}
	if v.State != "" && state != "" && strings.EqualFold(v.State, state) {
		return true
	}
	return false
}

// rolesComplement reports whether one side is a seeker and the other a
// hiring-side role.
func rolesComplement(viewerRole, candidateRole string) bool {
	return (viewerRole == RoleSeeker && hiringRole(candidateRole)) ||
		(hiringRole(viewerRole) && candidateRole == RoleSeeker)
}

func hiringRole(role string) bool {
	return role == RoleEmployer || role == RoleRecruiter
}

// withinWindow reports whether t falls inside the recent window ending at now.
// A zero or future-dated timestamp is not recent, so missing data degrades to
// no bonus rather than an error.
func withinWindow(t, now time.Time, window time.Duration) bool {
	if t.IsZero() {
		return false
	}
	age := now.Sub(t)
	return age >= 0 && age < window
}

func sum(breakdown map[string]float64) float64 {
	var total float64
	for _, contribution := range breakdown {
		total += contribution
	}
	return total
}
