package ranking

import (
	"context"
	"errors"
	"time"
)

// Mode identifies which call site is invoking the engine. It selects the
// active signal set, the weight table, and the zero-score inclusion policy.
type Mode string

const (
	// ModeJobs ranks open jobs for the job recommendation endpoint.
	ModeJobs Mode = "jobs"
	// ModePeople ranks active users for the people suggestion endpoint.
	ModePeople Mode = "people"
	// ModeFeed ranks visible posts for the home feed.
	ModeFeed Mode = "feed"
)

// Valid reports whether the mode is one of jobs, people, or feed.
func (m Mode) Valid() bool {
	switch m {
	case ModeJobs, ModePeople, ModeFeed:
		return true
	default:
		return false
	}
}

// IncludesZeroScores reports whether candidates with score 0 stay in the
// result. The feed must never be empty solely due to low engagement signals,
// so feed mode keeps everything; recommendation modes drop non-matches.
func (m Mode) IncludesZeroScores() bool {
	return m == ModeFeed
}

// Set is a string membership set used for skills and graph edges.
type Set map[string]struct{}

// NewSet builds a Set from the given values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Contains reports whether v is a member of the set. A nil set contains nothing.
func (s Set) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

// Viewer role constants. RoleComplementarity pairs seekers with hiring-side
// roles and vice versa.
const (
	RoleSeeker    = "seeker"
	RoleEmployer  = "employer"
	RoleRecruiter = "recruiter"
)

// ViewerContext is the acting user's profile snapshot at ranking time.
// It is built fresh per request and treated as immutable for the duration of
// one ranking call; staleness only affects ranking quality, not correctness.
type ViewerContext struct {
	ID                string
	Skills            Set
	City              string
	State             string
	ExperienceYears   int
	Industry          string
	Role              string
	DirectConnections Set
	Following         Set
}

// Candidate is one rankable item scored against a viewer.
type Candidate interface {
	// CandidateID returns the stable identifier used for the deterministic
	// id tie-break.
	CandidateID() string
	// ActivityTime returns the timestamp used for the recency tie-break:
	// createdAt for jobs and posts, lastActiveAt for people.
	ActivityTime() time.Time
}

// JobCandidate is an open job posting scored in ModeJobs.
// ExperienceMin/ExperienceMax are nil when the posting carries no experience
// range; a missing range never matches the ExperienceFit signal.
type JobCandidate struct {
	ID             string
	RequiredSkills []string
	Keywords       []string
	City           string
	State          string
	IsRemote       bool
	ExperienceMin  *int
	ExperienceMax  *int
	PostedBy       string
	CreatedAt      time.Time
	ViewCount      int
	IsVerified     bool
}

func (j *JobCandidate) CandidateID() string     { return j.ID }
func (j *JobCandidate) ActivityTime() time.Time { return j.CreatedAt }

// PersonCandidate is an active user scored in ModePeople.
type PersonCandidate struct {
	ID                 string
	Skills             []string
	City               string
	State              string
	Industry           string
	Role               string
	IsIdentityVerified bool
	LastActiveAt       time.Time
}

func (p *PersonCandidate) CandidateID() string     { return p.ID }
func (p *PersonCandidate) ActivityTime() time.Time { return p.LastActiveAt }

// PostCandidate is a visible post scored in ModeFeed.
type PostCandidate struct {
	ID           string
	AuthorID     string
	CreatedAt    time.Time
	LikeCount    int
	CommentCount int
	HasMedia     bool
}

func (p *PostCandidate) CandidateID() string     { return p.ID }
func (p *PostCandidate) ActivityTime() time.Time { return p.CreatedAt }

// ScoredCandidate pairs a candidate with its computed score and the
// per-signal breakdown. The breakdown exists for explainability and testing
// only and is never persisted; it contains only non-zero contributions.
type ScoredCandidate struct {
	Candidate Candidate
	Score     float64
	Breakdown map[string]float64
}

// RankRequest carries everything one ranking call needs. Now is the explicit
// reference time for recency-style signals.
type RankRequest struct {
	Viewer     *ViewerContext
	Candidates []Candidate
	Now        time.Time
	Limit      int
	Offset     int
	Mode       Mode
}

// RankedPage is the ordered, paginated result of one ranking call.
// Message is set for the terminal empty-result business state in
// recommendation modes; it is not an error.
type RankedPage struct {
	Items                     []ScoredCandidate
	TotalCandidatesConsidered int
	Message                   string
}

// EmptyResultMessage is surfaced to the end user when a recommendation mode
// produces no candidate with a positive score.
const EmptyResultMessage = "No recommendations matched your profile yet. Add skills, location, and experience to your profile to get better matches."

// Validation errors. These indicate caller contract violations and are never
// coerced silently.
var (
	ErrNilRequest          = errors.New("rank request is required")
	ErrNilViewer           = errors.New("viewer context is required")
	ErrInvalidMode         = errors.New("invalid ranking mode")
	ErrNegativeLimit       = errors.New("limit must not be negative")
	ErrNegativeOffset      = errors.New("offset must not be negative")
	ErrCandidateMode       = errors.New("candidate type does not match request mode")
	ErrGraphSourceRequired = errors.New("people mode requires a graph source")
)

// SecondDegreeSource resolves the viewer's second-degree connection set: the
// users connected to at least one of the viewer's direct connections,
// excluding everyone in the exclude set. A failure here is an external
// dependency error and must propagate; silently treating it as "no
// connections" would systematically under-rank the pool.
type SecondDegreeSource interface {
	SecondDegree(ctx context.Context, direct Set, exclude Set) (Set, error)
}
