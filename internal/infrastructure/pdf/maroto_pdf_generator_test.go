package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/privat-admin-api/internal/application/reports"
)

func TestColumnWidths_SumanDoce(t *testing.T) {
	for _, n := range []int{1, 5, 8, 12} {
		sum := 0
		for _, w := range columnWidths(n) {
			sum += w
		}
		assert.Equal(t, 12, sum, "n=%d", n)
	}
	assert.Equal(t, []int{3, 3, 2, 2, 2}, columnWidths(5))
}

func TestGenerateTablePDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	out, err := g.GenerateTablePDF(context.Background(), reports.Table{
		Title:    "Credit history p1",
		Subtitle: "Balance: 20 credits",
		Headers:  []string{"Date", "Type", "Amount", "Description", "Source"},
		Rows: [][]string{
			{"2026-04-09 10:00", "add", "+25", "Purchased (Starter)", "payment"},
			{"2026-04-09 11:00", "deduct", "-5", "Lead unlocked (j1)", "unlock"},
		},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = g.GenerateTablePDF(context.Background(), reports.Table{Title: "vacía"})
	assert.Error(t, err)
}
