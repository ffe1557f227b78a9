// Package export renders scored leads as a locale-correct semicolon CSV for
// download into comma-decimal spreadsheets.
package export

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/contourline/leadscore-cli/internal/brl"
	"github.com/contourline/leadscore-cli/internal/model"
)

// Options tunes the export.
type Options struct {
	// MinScore drops leads scoring below the threshold. Failed items carry
	// score 0 and are dropped with it when the threshold is positive.
	MinScore int
}

// header keeps the column names the sales team's spreadsheets already use,
// plus the rotation suggestion and the request status.
var header = []string{
	"Lead",
	"Vendedor",
	"Vendedor Sugerido",
	"Equipamento",
	"Motivo",
	"Valor Potencial",
	"Nota (0-5)",
	"Aderência (%)",
	"Status",
	"Justificativa",
}

// Write renders leads as semicolon-delimited UTF-8 text with a byte-order
// mark. Monetary and decimal columns get the comma-decimal swap exactly
// once, here; upstream stages keep canonical numeric values.
func Write(w io.Writer, leads []*model.Lead, opts Options) error {
	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return eris.Wrap(err, "export: write BOM")
	}

	filtered := filterAndSort(leads, opts.MinScore)

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, lead := range filtered {
		row := []string{
			lead.Name,
			lead.Owner,
			lead.SuggestedOwner,
			lead.Product,
			lead.Reason,
			brl.FormatCurrency(lead.Value),
			brl.FormatDecimal(lead.Rating),
			strconv.Itoa(lead.Score),
			string(lead.Status),
			lead.Rationale,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush")
}

// filterAndSort applies the minimum-score cut and orders by rating then
// potential value, both descending, then by recency with undated records
// last. The input slice is not reordered.
func filterAndSort(leads []*model.Lead, minScore int) []*model.Lead {
	out := make([]*model.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.Score >= minScore {
			out = append(out, lead)
		}
	}
	now := time.Now()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return brl.DaysSince(out[i].Date, now) < brl.DaysSince(out[j].Date, now)
	})
	return out
}
