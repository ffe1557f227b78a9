// Package columns maps semantic pipeline fields onto arbitrary source column
// names. The keyword lists that used to drift between call sites live in one
// declarative table here.
package columns

import (
	"strings"

	"github.com/contourline/leadscore-cli/internal/table"
)

// Field names a semantic column the pipeline computes with.
type Field string

const (
	FieldName    Field = "name"
	FieldReason  Field = "reason"
	FieldValue   Field = "value"
	FieldOwner   Field = "owner"
	FieldProduct Field = "product"
	FieldDate    Field = "date"
)

// fallbackPolicy says what Resolve does when no source column matches.
type fallbackPolicy int

const (
	// fallbackNone leaves the field unmapped; callers must tolerate absence.
	fallbackNone fallbackPolicy = iota
	// fallbackSynthesize adds a constant column so the pipeline never blocks
	// on missing metadata.
	fallbackSynthesize
)

// rule binds a semantic field to its candidate keywords and fallback.
type rule struct {
	field    Field
	keywords []string
	fallback fallbackPolicy
	synth    string // synthesized column name when fallback is synthesize
}

// defaultRules covers the column-name vocabulary seen across Brazilian and
// English CRM exports. Order within a keyword list is candidate precedence;
// matching is case-insensitive substring against the column name.
var defaultRules = []rule{
	{field: FieldName, keywords: []string{"nome", "cliente", "name", "customer"}, fallback: fallbackSynthesize, synth: "Lead"},
	{field: FieldReason, keywords: []string{"motivo", "reason"}, fallback: fallbackSynthesize, synth: "Motivo"},
	{field: FieldValue, keywords: []string{"valor", "value", "amount"}, fallback: fallbackNone},
	{field: FieldOwner, keywords: []string{"vendedor", "responsável", "responsavel", "owner", "proprietário"}, fallback: fallbackSynthesize, synth: "Vendedor_Resp"},
	{field: FieldProduct, keywords: []string{"produto", "equipamento", "item", "tecnologia", "product"}, fallback: fallbackSynthesize, synth: "Equipamento_Interesse"},
	{field: FieldDate, keywords: []string{"data", "date", "criado", "created"}, fallback: fallbackNone},
}

// Infer returns the first column, in table order, whose lowercased name
// contains one of the field's keywords.
func Infer(cols []string, field Field) (string, bool) {
	return inferWith(cols, keywordsFor(field, nil))
}

func inferWith(cols []string, keywords []string) (string, bool) {
	for _, col := range cols {
		lower := strings.ToLower(col)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return col, true
			}
		}
	}
	return "", false
}

func keywordsFor(field Field, overrides Overrides) []string {
	if kws, ok := overrides[string(field)]; ok && len(kws) > 0 {
		return kws
	}
	for _, r := range defaultRules {
		if r.field == field {
			return r.keywords
		}
	}
	return nil
}

// Mapping is the resolved semantic-field → source-column assignment for one
// table. Unmapped optional fields hold the empty string.
type Mapping struct {
	Name    string
	Reason  string
	Value   string
	Owner   string
	Product string
	Date    string
}

// Resolve applies every rule to the table, synthesizing constant columns for
// required fields that have no source match. The table is mutated when a
// fallback column is added.
func Resolve(t *table.Table, overrides Overrides) Mapping {
	var m Mapping
	for _, r := range defaultRules {
		col, ok := inferWith(t.Columns, keywordsFor(r.field, overrides))
		if !ok && r.fallback == fallbackSynthesize {
			col = r.synth
			t.AddColumn(col, table.MissingCell)
			ok = true
		}
		if !ok {
			continue
		}
		switch r.field {
		case FieldName:
			m.Name = col
		case FieldReason:
			m.Reason = col
		case FieldValue:
			m.Value = col
		case FieldOwner:
			m.Owner = col
		case FieldProduct:
			m.Product = col
		case FieldDate:
			m.Date = col
		}
	}
	return m
}
