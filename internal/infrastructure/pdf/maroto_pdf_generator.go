// Package pdf genera la ficha de un deal en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Agencia                 │  Marca + Estado + Fecha  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CREATOR: Nombre / Nicho / Email / Redes                    │
//	│  MARCA: Contacto + Email                                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONDICIONES: Monto / Moneda / Próxima acción               │
//	│  DETALLE: Descripción / Requisitos / Entregables / Notas    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR del contrato (si hay) + leyenda                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Agencia-api/internal/application/ports"
	"github.com/jhoicas/Agencia-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 92, Green: 45, Blue: 145}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// maxSectionChars tope por sección de texto libre; el resto se corta con "…".
const maxSectionChars = 600

var _ ports.DealBriefGenerator = (*MarotoBriefGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoBriefGenerator implementa ports.DealBriefGenerator usando Maroto v2.
type MarotoBriefGenerator struct{}

// NewMarotoBriefGenerator construye el generador.
func NewMarotoBriefGenerator() *MarotoBriefGenerator { return &MarotoBriefGenerator{} }

// GenerateDealBrief genera el PDF y devuelve sus bytes.
func (g *MarotoBriefGenerator) GenerateDealBrief(_ context.Context, brief ports.DealBrief) ([]byte, error) {
	if brief.Agency == nil || brief.Creator == nil || brief.Deal == nil {
		return nil, fmt.Errorf("pdf: ficha incompleta")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Deal "+brief.Deal.Brand, true).
		WithAuthor(brief.Agency.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(brief))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(creatorRow(brief.Creator))
	m.AddRows(brandRow(brief.Deal))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(termsRow(brief.Deal))
	for _, r := range detailRows(brief.Deal) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(brief) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(brief ports.DealBrief) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(brief.Agency.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(brief.Agency.Description, "Agencia de talento"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FICHA DE DEAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(brief.Deal.Brand+" · "+string(brief.Deal.Status), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Generada: "+brief.GeneratedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func creatorRow(c *entity.Creator) core.Row {
	return row.New(20).Add(
		col.New(12).Add(
			text.New("CREATOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Nicho: %s   |   Email: %s",
				nonEmpty(c.Niche, "—"),
				nonEmpty(c.Email, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New("Redes: "+socialLine(c.SocialHandles), props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
	)
}

func brandRow(d *entity.Deal) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("MARCA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Contacto: %s   |   Email: %s",
				d.Brand,
				nonEmpty(d.ContactName, "—"),
				nonEmpty(d.ContactEmail, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// termsRow: monto y próxima acción alineados como bloque de totales.
func termsRow(d *entity.Deal) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top})
	}

	next := "—"
	if d.NextActionAt != nil {
		next = d.NextActionAt.Format("02/01/2006 15:04")
	}
	return row.New(20).Add(
		col.New(6).Add(text.New("CONDICIONES", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		})),
		col.New(3).Add(
			label("Monto:", 1),
			label("Próxima acción:", 8),
		),
		col.New(3).Add(
			grand(formatAmount(d.Amount, d.Currency), 1),
			value(next, 8),
		),
	)
}

// detailRows: una fila por sección de texto libre con contenido.
func detailRows(d *entity.Deal) []core.Row {
	sections := []struct{ title, body string }{
		{"Descripción", d.Description},
		{"Requisitos", d.Requirements},
		{"Entregables", d.Deliverables},
		{"Notas", d.Notes},
	}
	var rows []core.Row
	for _, s := range sections {
		body := strings.TrimSpace(s.body)
		if body == "" {
			continue
		}
		body = truncate(body, maxSectionChars)
		height := 10 + 4*float64(len(body)/110+strings.Count(body, "\n"))
		rows = append(rows, row.New(height).Add(col.New(12).Add(
			text.New(strings.ToUpper(s.title), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(body, props.Text{Size: 8, Top: 6}),
		)))
	}
	return rows
}

// footerRows: QR del contrato si existe + leyenda.
func footerRows(brief ports.DealBrief) []core.Row {
	var rows []core.Row
	if url := brief.Deal.ContractURL; url != "" {
		rows = append(rows, row.New(40).Add(
			col.New(3).Add(code.NewQr(url, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(9).Add(
				text.New("Contrato", props.Text{
					Style: fontstyle.Bold, Size: 9, Top: 4, Left: 3, Color: colorPrimary,
				}),
				text.New(url, props.Text{Size: 7, Top: 10, Left: 3, Color: colorGray}),
			),
		))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Documento informativo generado por "+brief.Agency.Name+
				". No reemplaza el contrato firmado entre las partes.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// socialLine ej: "instagram @sarah, tiktok @sarahfit" (orden alfabético por plataforma).
func socialLine(handles map[string]entity.SocialHandle) string {
	if len(handles) == 0 {
		return "—"
	}
	platforms := make([]string, 0, len(handles))
	for p := range handles {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)
	parts := make([]string, 0, len(platforms))
	for _, p := range platforms {
		parts = append(parts, strings.TrimSpace(p+" "+handles[p].Handle))
	}
	return strings.Join(parts, ", ")
}

// formatAmount ej: 25000.5 USD → "25.000,50 USD". Sin monto → "Por definir".
func formatAmount(amount *decimal.Decimal, currency string) string {
	if amount == nil {
		return "Por definir"
	}
	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	sign := ""
	if strings.HasPrefix(whole, "-") {
		sign, whole = "-", whole[1:]
	}
	return fmt.Sprintf("%s%s,%s %s", sign, formatThousands(whole), frac, currency)
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}
