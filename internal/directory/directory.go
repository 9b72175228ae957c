// Package directory resolves user profiles into the viewer context that
// personalizes ranking. A profile collects everything the scorers read about
// the requesting user: skills, location, experience, industry, role, and the
// user's direct connections and followed accounts.
//
// Unknown users resolve to an empty profile rather than an error, so ranking
// degrades to its graceful sparse-profile behavior instead of failing the
// request.
package directory

import (
	"context"
	"sync"
	"time"

	"github.com/dev-olayemi/jobbank/internal/ranking"
)

// Profile is the stored view of a user that ranking personalizes against.
type Profile struct {
	UserID          string    `json:"userId"`
	Skills          []string  `json:"skills"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	ExperienceYears int       `json:"experienceYears"`
	Industry        string    `json:"industry"`
	Role            string    `json:"role"`
	Connections     []string  `json:"connections"`
	Following       []string  `json:"following"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ViewerContext converts the profile into the form the ranking engine reads.
func (p *Profile) ViewerContext() *ranking.ViewerContext {
	return &ranking.ViewerContext{
		ID:                p.UserID,
		Skills:            ranking.NewSet(p.Skills...),
		City:              p.City,
		State:             p.State,
		ExperienceYears:   p.ExperienceYears,
		Industry:          p.Industry,
		Role:              p.Role,
		DirectConnections: ranking.NewSet(p.Connections...),
		Following:         ranking.NewSet(p.Following...),
	}
}

// Directory looks up user profiles.
type Directory interface {
	// GetProfile returns the profile for the given user. Unknown users get
	// an empty profile carrying only the user ID.
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}

// InMemoryDirectory is a thread-safe in-memory Directory.
type InMemoryDirectory struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewInMemoryDirectory creates an empty in-memory directory.
func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		profiles: make(map[string]*Profile),
	}
}

// PutProfile stores or replaces a profile.
func (d *InMemoryDirectory) PutProfile(profile *Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[profile.UserID] = profile
}

// GetProfile returns a copy of the stored profile, or an empty profile for
// unknown users.
func (d *InMemoryDirectory) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stored, ok := d.profiles[userID]
	if !ok {
		return &Profile{UserID: userID}, nil
	}

	p := *stored
	p.Skills = append([]string(nil), stored.Skills...)
	p.Connections = append([]string(nil), stored.Connections...)
	p.Following = append([]string(nil), stored.Following...)
	return &p, nil
}
