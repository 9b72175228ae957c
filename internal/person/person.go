// Package person provides models and repositories for member profiles that
// feed the people-you-may-know ranker.
package person

import (
	"errors"
	"time"

	"github.com/dev-olayemi/jobbank/internal/ranking"
)

// ErrPersonNotFound is returned when a profile does not exist.
var ErrPersonNotFound = errors.New("person not found")

// Person represents a member profile visible to other members.
type Person struct {
	ID                 string    `json:"id"`
	DisplayName        string    `json:"display_name"`
	Skills             []string  `json:"skills"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	Industry           string    `json:"industry"`
	Role               string    `json:"role"`
	IsIdentityVerified bool      `json:"is_identity_verified"`
	IsHidden           bool      `json:"is_hidden"`
	LastActiveAt       time.Time `json:"last_active_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Candidate converts the person into the form the ranking engine scores.
func (p *Person) Candidate() *ranking.PersonCandidate {
	return &ranking.PersonCandidate{
		ID:                 p.ID,
		Skills:             p.Skills,
		City:               p.City,
		State:              p.State,
		Industry:           p.Industry,
		Role:               p.Role,
		IsIdentityVerified: p.IsIdentityVerified,
		LastActiveAt:       p.LastActiveAt,
	}
}
