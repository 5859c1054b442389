// Package assign selects an assignee for new work using current open
// workload as the ranking key. One selector serves every entity type that
// auto-assigns; callers plug in their own candidate source.
package assign

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Candidate is one eligible staff member as observed at selection time.
type Candidate struct {
	ID        uuid.UUID
	FullName  string
	Email     string
	OpenCount int
	CreatedAt time.Time
}

// Source yields the eligible candidates for a region together with their
// open workload counts. Implementations re-read the counts on every call
// instead of caching them, so a selection always ranks against fresh data.
type Source interface {
	CandidatesByRegion(ctx context.Context, region string) ([]Candidate, error)
}

// Selector picks exactly one candidate per call with a greedy least-workload
// heuristic. Two concurrent selections can read the same counts and both
// pick the same candidate; workload balance is a soft goal, so that
// transient imbalance is accepted rather than locked against.
type Selector struct {
	source Source
}

// NewSelector returns a selector over the given candidate source.
func NewSelector(source Source) *Selector {
	return &Selector{source: source}
}

// Select returns the least-loaded eligible candidate for region, or nil when
// assignment should be skipped: region absent, or nobody eligible. A nil
// candidate is a valid outcome, not an error; the work simply stays
// unassigned until someone assigns it manually. Ties on workload go to the
// earliest-created account.
func (s *Selector) Select(ctx context.Context, region *string) (*Candidate, error) {
	if region == nil || *region == "" {
		return nil, nil
	}

	candidates, err := s.source.CandidatesByRegion(ctx, *region)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].OpenCount != candidates[j].OpenCount {
			return candidates[i].OpenCount < candidates[j].OpenCount
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	return &candidates[0], nil
}
