// Package report cleans a lost-leads batch and summarizes the money behind
// it: capital at risk and the reasons deals were lost.
package report

import (
	"regexp"
	"sort"

	"github.com/contourline/leadscore-cli/internal/model"
)

// junkReason flags duplicate and test records masquerading as lost deals.
var junkReason = regexp.MustCompile(`(?i)dupli|teste|cliente|repetido`)

// FilterJunk splits leads into kept and removed by matching the loss reason
// against the junk pattern. Input order is preserved in both slices.
func FilterJunk(leads []*model.Lead) (kept, removed []*model.Lead) {
	for _, lead := range leads {
		if junkReason.MatchString(lead.Reason) {
			removed = append(removed, lead)
		} else {
			kept = append(kept, lead)
		}
	}
	return kept, removed
}

// ReasonStat aggregates one loss reason across the batch.
type ReasonStat struct {
	Reason string  `json:"reason"`
	Count  int     `json:"count"`
	Value  float64 `json:"value"`
}

// Summary is the pre-scoring financial snapshot of a batch.
type Summary struct {
	TotalLeads    int          `json:"total_leads"`
	Removed       int          `json:"removed"`
	CapitalAtRisk float64      `json:"capital_at_risk"`
	Reasons       []ReasonStat `json:"reasons"`
}

// Summarize builds the snapshot over the cleaned batch. total is the raw
// row count before junk removal. Reasons are ordered by value at risk,
// descending, capped at topReasons (0 means no cap).
func Summarize(total int, kept []*model.Lead, topReasons int) Summary {
	s := Summary{
		TotalLeads: total,
		Removed:    total - len(kept),
	}

	byReason := make(map[string]*ReasonStat)
	var order []string
	for _, lead := range kept {
		s.CapitalAtRisk += lead.Value
		stat, ok := byReason[lead.Reason]
		if !ok {
			stat = &ReasonStat{Reason: lead.Reason}
			byReason[lead.Reason] = stat
			order = append(order, lead.Reason)
		}
		stat.Count++
		stat.Value += lead.Value
	}

	for _, reason := range order {
		s.Reasons = append(s.Reasons, *byReason[reason])
	}
	sort.SliceStable(s.Reasons, func(i, j int) bool {
		return s.Reasons[i].Value > s.Reasons[j].Value
	})
	if topReasons > 0 && len(s.Reasons) > topReasons {
		s.Reasons = s.Reasons[:topReasons]
	}
	return s
}
