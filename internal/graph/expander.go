// Package graph provides the connection-graph expansion used by people
// suggestions: resolving the viewer's second-degree connection set from a
// connection store.
package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/dev-olayemi/jobbank/internal/ranking"
)

// ErrStoreUnavailable marks a connection store failure. It is a retryable
// external-dependency error; callers must not interpret it as "viewer has no
// connections".
var ErrStoreUnavailable = errors.New("connection store unavailable")

// ConnectionStore answers "who connects to any of these IDs" over the
// undirected connection relation.
type ConnectionStore interface {
	// ConnectionsOf returns, for each requested ID, the IDs directly
	// connected to it. IDs with no connections may be absent from the result.
	ConnectionsOf(ctx context.Context, ids []string) (map[string][]string, error)
}

// Expander computes second-degree connection sets. It performs exactly one
// store read per expansion; the result is an immutable snapshot the caller
// scores against.
type Expander struct {
	store ConnectionStore
}

// NewExpander creates an Expander backed by the given store.
func NewExpander(store ConnectionStore) *Expander {
	return &Expander{store: store}
}

// SecondDegree returns the IDs connected to at least one member of direct,
// excluding everything in exclude. This is a one-hop expansion beyond the
// direct connection set, not a transitive closure.
//
// A viewer with zero connections yields an empty set, not an error. The
// returned set is disjoint from both direct and exclude.
func (e *Expander) SecondDegree(ctx context.Context, direct ranking.Set, exclude ranking.Set) (ranking.Set, error) {
	if len(direct) == 0 {
		return ranking.Set{}, nil
	}

	ids := make([]string, 0, len(direct))
	for id := range direct {
		ids = append(ids, id)
	}

	neighbors, err := e.store.ConnectionsOf(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	result := make(ranking.Set)
	for _, connected := range neighbors {
		for _, id := range connected {
			if direct.Contains(id) || exclude.Contains(id) {
				continue
			}
			result[id] = struct{}{}
		}
	}
	return result, nil
}
