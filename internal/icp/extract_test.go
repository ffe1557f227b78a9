package icp

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contourline/leadscore-cli/internal/model"
	"github.com/contourline/leadscore-cli/internal/table"
)

type stubCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func wonTable(t *testing.T, csvText, source string) *table.Table {
	t.Helper()
	tbl, err := table.ReadCSV(strings.NewReader(csvText), source)
	require.NoError(t, err)
	return tbl
}

func TestExtract_SamplesTopValueDeals(t *testing.T) {
	tbl := wonTable(t, `Cliente,Produto,Valor
Small,Laser,"R$ 1.000,00"
Big,Laser,"R$ 900.000,00"
Mid,Ultrassom,"R$ 50.000,00"
`, "ganhos.csv")

	stub := &stubCompleter{reply: "Perfil: clínicas de médio porte."}
	ext := New(stub, Config{SampleSize: 2}, nil)

	profile, err := ext.Extract(context.Background(), "estetica", tbl)
	require.NoError(t, err)
	require.Len(t, stub.prompts, 1)

	prompt := stub.prompts[0]
	assert.Contains(t, prompt, "customer=Big")
	assert.Contains(t, prompt, "customer=Mid")
	assert.NotContains(t, prompt, "customer=Small")
	// Highest value first.
	assert.Less(t, strings.Index(prompt, "customer=Big"), strings.Index(prompt, "customer=Mid"))

	assert.Equal(t, "estetica", profile.Category)
	assert.Equal(t, "Perfil: clínicas de médio porte.", profile.Text)
	assert.Equal(t, []string{"ganhos.csv"}, profile.SourceFiles)
	assert.NotEmpty(t, profile.ID)
	assert.False(t, profile.CreatedAt.IsZero())
}

func TestExtract_ProductFrequencyHint(t *testing.T) {
	tbl := wonTable(t, `Cliente,Produto,Valor
a,Laser,"100"
b,Laser,"100"
c,Ultrassom,"100"
d,Criolipólise,"100"
`, "won.csv")

	stub := &stubCompleter{reply: "perfil"}
	ext := New(stub, Config{TopProducts: 2}, nil)

	_, err := ext.Extract(context.Background(), "", tbl)
	require.NoError(t, err)

	prompt := stub.prompts[0]
	assert.Contains(t, prompt, "most frequent products: Laser, ")
	assert.NotContains(t, prompt, "Criolipólise,")
}

func TestExtract_MergesMultipleTables(t *testing.T) {
	t1 := wonTable(t, "Cliente,Valor\na,100\n", "q1.csv")
	t2 := wonTable(t, "Cliente,Valor\nb,200\n", "q2.csv")

	stub := &stubCompleter{reply: "perfil"}
	ext := New(stub, Config{}, nil)

	profile, err := ext.Extract(context.Background(), "", t1, t2)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1.csv", "q2.csv"}, profile.SourceFiles)
	assert.Contains(t, stub.prompts[0], "customer=a")
	assert.Contains(t, stub.prompts[0], "customer=b")
}

func TestExtract_DefaultCategory(t *testing.T) {
	tbl := wonTable(t, "Cliente,Valor\na,100\n", "won.csv")
	ext := New(&stubCompleter{reply: "perfil"}, Config{}, nil)

	profile, err := ext.Extract(context.Background(), "", tbl)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategory, profile.Category)
}

func TestExtract_FailureSurfaces(t *testing.T) {
	tbl := wonTable(t, "Cliente,Valor\na,100\n", "won.csv")
	ext := New(&stubCompleter{err: eris.New("api down")}, Config{}, nil)

	_, err := ext.Extract(context.Background(), "", tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract profile")
}

func TestExtract_EmptyInputs(t *testing.T) {
	ext := New(&stubCompleter{reply: "perfil"}, Config{}, nil)

	_, err := ext.Extract(context.Background(), "")
	assert.Error(t, err)

	empty := &table.Table{Source: "empty.csv", Columns: []string{"Cliente"}}
	_, err = ext.Extract(context.Background(), "", empty)
	assert.Error(t, err)
}

func TestExtract_EmptyModelReply(t *testing.T) {
	tbl := wonTable(t, "Cliente,Valor\na,100\n", "won.csv")
	ext := New(&stubCompleter{reply: "   \n"}, Config{}, nil)

	_, err := ext.Extract(context.Background(), "", tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty profile")
}
