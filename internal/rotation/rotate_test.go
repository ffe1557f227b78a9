package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contourline/leadscore-cli/internal/model"
	"github.com/contourline/leadscore-cli/internal/table"
)

func TestSuggestOwner_NeverReturnsCurrent(t *testing.T) {
	owners := []string{"Alice", "Bob", "Carol"}
	for range 200 {
		got := SuggestOwner("Alice", owners)
		assert.NotEqual(t, "Alice", got)
		assert.Contains(t, []string{"Bob", "Carol"}, got)
	}
}

func TestSuggestOwner_SingleOwnerUnchanged(t *testing.T) {
	assert.Equal(t, "Alice", SuggestOwner("Alice", []string{"Alice"}))
	assert.Equal(t, "Alice", SuggestOwner("Alice", []string{"Alice", "Alice"}))
}

func TestSuggestOwner_SentinelsExcluded(t *testing.T) {
	owners := []string{"Alice", "", table.MissingCell, "Bob"}
	for range 100 {
		assert.Equal(t, "Bob", SuggestOwner("Alice", owners))
	}
}

func TestSuggestOwner_EmptyPool(t *testing.T) {
	assert.Equal(t, "Alice", SuggestOwner("Alice", nil))
	assert.Equal(t, "Alice", SuggestOwner("Alice", []string{"", table.MissingCell}))
}

func TestAssign_PoolIsPerBatch(t *testing.T) {
	leads := []*model.Lead{
		{Name: "l1", Owner: "Alice"},
		{Name: "l2", Owner: "Bob"},
		{Name: "l3", Owner: "Alice"},
	}
	Assign(leads)

	for _, lead := range leads {
		assert.NotEmpty(t, lead.SuggestedOwner)
		assert.NotEqual(t, lead.Owner, lead.SuggestedOwner)
		assert.Contains(t, []string{"Alice", "Bob"}, lead.SuggestedOwner)
	}
}

func TestAssign_SingleDistinctOwner(t *testing.T) {
	leads := []*model.Lead{
		{Name: "l1", Owner: "Alice"},
		{Name: "l2", Owner: "Alice"},
	}
	Assign(leads)
	assert.Equal(t, "Alice", leads[0].SuggestedOwner)
	assert.Equal(t, "Alice", leads[1].SuggestedOwner)
}
