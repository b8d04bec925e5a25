// Package pdf dibuja los reportes tabulares del dashboard (usuarios, extractos de créditos).
//
// Layout de la página A4 horizontal:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│  TÍTULO                                     Fecha de emisión │
//	│  Subtítulo (total de usuarios / saldo)                       │
//	│  ──────────────────────────────────────────────────────────  │
//	│  CABECERA (fondo dorado)                                     │
//	│  filas alternadas                                            │
//	│  ──────────────────────────────────────────────────────────  │
//	│  pie: Privat Admin                                           │
//	└──────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/privat-admin-api/internal/application/reports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorGold  = &props.Color{Red: 212, Green: 175, Blue: 55}
	colorCream = &props.Color{Red: 250, Green: 248, Blue: 243}
	colorGray  = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorBlack = &props.Color{Red: 0, Green: 0, Blue: 0}
)

const gridColumns = 12

// ── Generator ─────────────────────────────────────────────────────────────────

var _ reports.TablePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa reports.TablePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

// GenerateTablePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateTablePDF(_ context.Context, t reports.Table) ([]byte, error) {
	if len(t.Headers) == 0 {
		return nil, fmt.Errorf("pdf: tabla sin columnas")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(t.Title, true).
		WithAuthor("Privat Admin", true).
		Build()

	m := maroto.New(cfg)
	widths := columnWidths(len(t.Headers))

	m.AddRows(titleRow(t, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGold, Thickness: 0.5}))
	m.AddRows(headerRow(t.Headers, widths))
	for i, r := range t.Rows {
		m.AddRows(bodyRow(r, widths, i%2 == 1))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(text.NewRow(6, "Privat Admin", props.Text{Size: 7, Color: colorGray, Align: align.Right}))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func titleRow(t reports.Table, now time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(t.Title, props.Text{Style: fontstyle.Bold, Size: 13, Top: 1}),
			text.New(t.Subtitle, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Emitido: "+now.UTC().Format("2006-01-02 15:04")+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func headerRow(headers []string, widths []int) core.Row {
	cols := make([]core.Col, 0, len(headers))
	for i, h := range headers {
		cols = append(cols, col.New(widths[i]).Add(text.New(h, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorBlack, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorGold})
}

func bodyRow(values []string, widths []int, shaded bool) core.Row {
	cols := make([]core.Col, 0, len(widths))
	for i := range widths {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		cols = append(cols, col.New(widths[i]).Add(text.New(v, props.Text{Size: 8, Top: 1.5, Left: 1, Right: 1})))
	}
	r := row.New(7).Add(cols...)
	if shaded {
		r = r.WithStyle(&props.Cell{BackgroundColor: colorCream})
	}
	return r
}

// columnWidths reparte la grilla de 12 columnas; el sobrante va a las primeras.
// Con más de 12 columnas cada una ocupa 1 y Maroto reduce proporcionalmente.
func columnWidths(n int) []int {
	widths := make([]int, n)
	base, extra := gridColumns/n, gridColumns%n
	if base == 0 {
		base, extra = 1, 0
	}
	for i := range widths {
		widths[i] = base
		if i < extra {
			widths[i]++
		}
	}
	return widths
}
