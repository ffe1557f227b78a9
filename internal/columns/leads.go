package columns

import (
	"github.com/contourline/leadscore-cli/internal/brl"
	"github.com/contourline/leadscore-cli/internal/model"
	"github.com/contourline/leadscore-cli/internal/table"
)

// Leads converts table rows into typed lead records using this mapping,
// coercing the monetary and date columns. Unmapped semantic fields default
// to the missing-cell sentinel (text) or zero (value/date).
func (m Mapping) Leads(t *table.Table) []*model.Lead {
	leads := make([]*model.Lead, 0, t.Len())
	for _, row := range t.Rows {
		lead := &model.Lead{
			Name:    cell(row, m.Name),
			Owner:   cell(row, m.Owner),
			Product: cell(row, m.Product),
			Reason:  cell(row, m.Reason),
			Status:  model.ScoreStatusPending,
			Fields:  residual(row, m),
		}
		if m.Value != "" {
			lead.Value = brl.ParseCurrency(row[m.Value])
		}
		if m.Date != "" {
			lead.Date, lead.HasDate = brl.ParseDate(row[m.Date])
		}
		leads = append(leads, lead)
	}
	return leads
}

func cell(row map[string]string, col string) string {
	if col == "" {
		return table.MissingCell
	}
	if v, ok := row[col]; ok {
		return v
	}
	return table.MissingCell
}

// residual keeps the source columns not claimed by a semantic field, so
// arbitrary input schemas survive the pipeline.
func residual(row map[string]string, m Mapping) map[string]string {
	mapped := map[string]bool{
		m.Name: true, m.Reason: true, m.Value: true,
		m.Owner: true, m.Product: true, m.Date: true,
	}
	out := make(map[string]string)
	for col, val := range row {
		if !mapped[col] {
			out[col] = val
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
