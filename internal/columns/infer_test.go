package columns

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contourline/leadscore-cli/internal/table"
)

func loadTable(t *testing.T, csv string) *table.Table {
	t.Helper()
	tbl, err := table.ReadCSV(strings.NewReader(csv), "test.csv")
	require.NoError(t, err)
	return tbl
}

func TestInfer_CaseInsensitiveSubstring(t *testing.T) {
	cols := []string{"ID", "Nome do Cliente", "Valor da Proposta", "Vendedor Responsável"}

	col, ok := Infer(cols, FieldName)
	require.True(t, ok)
	assert.Equal(t, "Nome do Cliente", col)

	col, ok = Infer(cols, FieldValue)
	require.True(t, ok)
	assert.Equal(t, "Valor da Proposta", col)

	col, ok = Infer(cols, FieldOwner)
	require.True(t, ok)
	assert.Equal(t, "Vendedor Responsável", col)
}

func TestInfer_FirstMatchInTableOrder(t *testing.T) {
	cols := []string{"Nome Fantasia", "Nome do Contato"}
	col, ok := Infer(cols, FieldName)
	require.True(t, ok)
	assert.Equal(t, "Nome Fantasia", col)
}

func TestInfer_NoMatch(t *testing.T) {
	_, ok := Infer([]string{"a", "b"}, FieldValue)
	assert.False(t, ok)
}

func TestResolve_SynthesizesFallbacks(t *testing.T) {
	tbl := loadTable(t, "Nome,Valor\nAcme,100\n")
	m := Resolve(tbl, nil)

	assert.Equal(t, "Nome", m.Name)
	assert.Equal(t, "Valor", m.Value)
	// Missing owner/product/reason get synthesized constant columns.
	assert.Equal(t, "Vendedor_Resp", m.Owner)
	assert.Equal(t, "Equipamento_Interesse", m.Product)
	assert.Equal(t, "Motivo", m.Reason)
	assert.Equal(t, table.MissingCell, tbl.Rows[0]["Vendedor_Resp"])

	// Optional fields stay unmapped rather than synthesized.
	assert.Empty(t, m.Date)
}

func TestResolve_Overrides(t *testing.T) {
	tbl := loadTable(t, "Representante,Nome\nMaria,Acme\n")
	m := Resolve(tbl, Overrides{"owner": {"representante"}})
	assert.Equal(t, "Representante", m.Owner)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("owner:\n  - representante\n"), 0o644))

	o, err := LoadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"representante"}, o["owner"])
}

func TestLoadOverrides_MissingFile(t *testing.T) {
	o, err := LoadOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestMapping_Leads(t *testing.T) {
	tbl := loadTable(t, "Nome,Motivo,Valor,Vendedor,Data,Obs\nAcme,Preço,\"R$ 1.500,00\",Ana,15/03/2024,nota\n")
	m := Resolve(tbl, nil)
	leads := m.Leads(tbl)

	require.Len(t, leads, 1)
	lead := leads[0]
	assert.Equal(t, "Acme", lead.Name)
	assert.Equal(t, "Preço", lead.Reason)
	assert.Equal(t, 1500.0, lead.Value)
	assert.Equal(t, "Ana", lead.Owner)
	require.True(t, lead.HasDate)
	assert.Equal(t, time.March, lead.Date.Month())
	assert.Equal(t, "nota", lead.Fields["Obs"])
}

func TestMapping_Leads_ValueDefaultsToZero(t *testing.T) {
	tbl := loadTable(t, "Nome,Valor\nAcme,garbage\nGlobex,\n")
	m := Resolve(tbl, nil)
	leads := m.Leads(tbl)

	require.Len(t, leads, 2)
	assert.Equal(t, 0.0, leads[0].Value)
	assert.Equal(t, 0.0, leads[1].Value)
}
