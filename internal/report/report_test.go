package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contourline/leadscore-cli/internal/model"
)

func lead(name, reason string, value float64) *model.Lead {
	return &model.Lead{Name: name, Reason: reason, Value: value}
}

func TestFilterJunk(t *testing.T) {
	leads := []*model.Lead{
		lead("a", "Preço alto", 100),
		lead("b", "Lead duplicado", 200),
		lead("c", "TESTE interno", 300),
		lead("d", "Cliente repetido", 400),
		lead("e", "Sem orçamento", 500),
	}

	kept, removed := FilterJunk(leads)
	require.Len(t, kept, 2)
	require.Len(t, removed, 3)
	assert.Equal(t, "a", kept[0].Name)
	assert.Equal(t, "e", kept[1].Name)
}

func TestFilterJunk_NothingToRemove(t *testing.T) {
	leads := []*model.Lead{lead("a", "Preço", 1)}
	kept, removed := FilterJunk(leads)
	assert.Len(t, kept, 1)
	assert.Empty(t, removed)
}

func TestSummarize(t *testing.T) {
	kept := []*model.Lead{
		lead("a", "Preço", 100),
		lead("b", "Preço", 50),
		lead("c", "Prazo", 900),
	}

	s := Summarize(5, kept, 0)
	assert.Equal(t, 5, s.TotalLeads)
	assert.Equal(t, 2, s.Removed)
	assert.Equal(t, 1050.0, s.CapitalAtRisk)

	// Reasons ranked by value at risk, descending.
	require.Len(t, s.Reasons, 2)
	assert.Equal(t, ReasonStat{Reason: "Prazo", Count: 1, Value: 900}, s.Reasons[0])
	assert.Equal(t, ReasonStat{Reason: "Preço", Count: 2, Value: 150}, s.Reasons[1])
}

func TestSummarize_TopReasonsCap(t *testing.T) {
	kept := []*model.Lead{
		lead("a", "r1", 10),
		lead("b", "r2", 30),
		lead("c", "r3", 20),
	}
	s := Summarize(3, kept, 2)
	require.Len(t, s.Reasons, 2)
	assert.Equal(t, "r2", s.Reasons[0].Reason)
	assert.Equal(t, "r3", s.Reasons[1].Reason)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(0, nil, 8)
	assert.Equal(t, 0, s.TotalLeads)
	assert.Equal(t, 0.0, s.CapitalAtRisk)
	assert.Empty(t, s.Reasons)
}
