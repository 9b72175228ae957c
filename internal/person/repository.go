package person

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PersonRepository defines the interface for member profile operations.
type PersonRepository interface {
	// Upsert inserts or replaces a profile keyed by its ID.
	Upsert(ctx context.Context, person *Person) error

	// GetByID retrieves a profile by its ID.
	GetByID(ctx context.Context, id string) (*Person, error)

	// Touch updates a profile's last activity time.
	Touch(ctx context.Context, id string, at time.Time) error

	// ListVisible returns all non-hidden profiles except excludeID.
	// The result is the candidate pool for people suggestions; the viewer is
	// never in their own pool.
	ListVisible(ctx context.Context, excludeID string) ([]*Person, error)
}

// InMemoryPersonRepository is a thread-safe in-memory implementation of PersonRepository.
type InMemoryPersonRepository struct {
	mu     sync.RWMutex
	people map[string]*Person
}

// NewInMemoryPersonRepository creates a new in-memory person repository.
func NewInMemoryPersonRepository() *InMemoryPersonRepository {
	return &InMemoryPersonRepository{
		people: make(map[string]*Person),
	}
}

// Upsert inserts or replaces a profile keyed by its ID.
func (r *InMemoryPersonRepository) Upsert(ctx context.Context, person *Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if person.ID == "" {
		person.ID = uuid.New().String()
	}
	if existing, ok := r.people[person.ID]; ok {
		person.CreatedAt = existing.CreatedAt
	} else if person.CreatedAt.IsZero() {
		person.CreatedAt = now
	}
	person.UpdatedAt = now

	r.people[person.ID] = copyPerson(person)
	return nil
}

// GetByID retrieves a profile by its ID.
func (r *InMemoryPersonRepository) GetByID(ctx context.Context, id string) (*Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	person, ok := r.people[id]
	if !ok {
		return nil, ErrPersonNotFound
	}
	return copyPerson(person), nil
}

// Touch updates a profile's last activity time.
func (r *InMemoryPersonRepository) Touch(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	person, ok := r.people[id]
	if !ok {
		return ErrPersonNotFound
	}
	person.LastActiveAt = at
	return nil
}

// ListVisible returns all non-hidden profiles except excludeID.
func (r *InMemoryPersonRepository) ListVisible(ctx context.Context, excludeID string) ([]*Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*Person, 0, len(r.people))
	for _, person := range r.people {
		if person.IsHidden {
			continue
		}
		if person.ID == excludeID {
			continue
		}
		results = append(results, copyPerson(person))
	}
	return results, nil
}

func copyPerson(person *Person) *Person {
	c := *person
	c.Skills = append([]string(nil), person.Skills...)
	return &c
}
