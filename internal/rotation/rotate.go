// Package rotation suggests a substitute salesperson for each lost lead,
// drawn from the other owners observed in the same batch.
package rotation

import (
	"math/rand/v2"
	"sort"

	"github.com/contourline/leadscore-cli/internal/model"
	"github.com/contourline/leadscore-cli/internal/table"
)

// SuggestOwner picks a replacement for current uniformly at random from
// owners, excluding current itself and sentinel values. An empty candidate
// set returns current unchanged.
func SuggestOwner(current string, owners []string) string {
	candidates := candidatePool(current, owners)
	if len(candidates) == 0 {
		return current
	}
	return candidates[rand.IntN(len(candidates))]
}

// Assign derives the owner pool from the batch itself and sets a suggested
// owner on every lead. The pool is per batch, not a global directory.
func Assign(leads []*model.Lead) {
	owners := make([]string, 0, len(leads))
	for _, lead := range leads {
		owners = append(owners, lead.Owner)
	}
	for _, lead := range leads {
		lead.SuggestedOwner = SuggestOwner(lead.Owner, owners)
	}
}

// candidatePool returns the distinct non-sentinel owners besides current,
// sorted for deterministic selection under a seeded source.
func candidatePool(current string, owners []string) []string {
	seen := make(map[string]bool)
	var pool []string
	for _, o := range owners {
		if o == "" || o == table.MissingCell || o == current || seen[o] {
			continue
		}
		seen[o] = true
		pool = append(pool, o)
	}
	sort.Strings(pool)
	return pool
}
