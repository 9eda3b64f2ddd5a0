package rights

import (
	"sort"

	"github.com/mixtide/pulse/internal/domain/model"
)

// EmptyPoolPolicy controls what the gate returns when no candidate is
// rights-safe. The historical behavior is fail-open: promotion degrades to
// the unfiltered pool rather than halting. Fail-closed returns an empty
// pool instead.
type EmptyPoolPolicy string

// Gate policies.
const (
	FailOpen   EmptyPoolPolicy = "fail-open"
	FailClosed EmptyPoolPolicy = "fail-closed"
)

// ParsePolicy maps a config string to a policy, defaulting to fail-open.
func ParsePolicy(s string) EmptyPoolPolicy {
	if s == string(FailClosed) {
		return FailClosed
	}
	return FailOpen
}

// Candidate pairs a catalog item with its rights assessment.
type Candidate struct {
	Item       model.CatalogItem
	Assessment Assessment
}

// Gate filters candidates down to rights-safe items sorted descending by
// assessment score. With an empty safe pool it applies the policy: the
// original pool (fail-open, input order preserved) or nothing (fail-closed).
func Gate(pool []Candidate, policy EmptyPoolPolicy) []Candidate {
	safe := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if c.Assessment.Safe() {
			safe = append(safe, c)
		}
	}
	if len(safe) == 0 {
		if policy == FailClosed {
			return nil
		}
		out := make([]Candidate, len(pool))
		copy(out, pool)
		return out
	}
	sort.SliceStable(safe, func(i, j int) bool {
		return safe[i].Assessment.Score > safe[j].Assessment.Score
	})
	return safe
}
