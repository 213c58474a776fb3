package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/medvision/internal/results"
)

type rgb struct{ r, g, b int }

var (
	brandBlue     = rgb{30, 144, 255}
	infoFill      = rgb{248, 249, 250}
	infoBorder    = rgb{200, 200, 200}
	diagnosisFill = rgb{232, 244, 253}
	entriesFill   = rgb{245, 245, 245}
	entriesBorder = rgb{150, 150, 150}
	entriesTitle  = rgb{51, 51, 51}
	recsFill      = rgb{255, 248, 220}
	recsBorder    = rgb{255, 193, 7}
	recsTitle     = rgb{133, 100, 4}
	footerFill    = rgb{51, 51, 51}
	white         = rgb{255, 255, 255}
	black         = rgb{0, 0, 0}
)

// pdfLayout holds the positions that differ between result kinds. Units are mm.
type pdfLayout struct {
	diagnosisHeight float64
	entriesY        float64
	// minimum entries box height; the box grows with the entry count
	entriesHeight float64
	// lowest recommendations y; zero places the box after the entries
	recsY       float64
	recsPadding float64
}

// Box is a rectangle on the page. Units are mm.
type Box struct {
	X, Y, W, H float64
}

// Bottom returns the y of the lower edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// EntriesBox returns the entries box for a result kind holding n rows.
func EntriesBox(kind results.Kind, n int) Box {
	l := layouts[kind]
	return Box{X: 15, Y: l.entriesY, W: 180, H: max(l.entriesHeight, float64(n)*10+20)}
}

// RecommendationsBox returns the recommendations box for a result kind
// holding n items, placed below entries.
func RecommendationsBox(kind results.Kind, entries Box, n int) Box {
	l := layouts[kind]
	y := entries.Bottom() + 15
	if l.recsY != 0 {
		y = max(l.recsY, entries.Bottom()+10)
	}
	return Box{X: 15, Y: y, W: 180, H: float64(n)*8 + l.recsPadding}
}

var layouts = map[results.Kind]pdfLayout{
	results.KindFindings: {diagnosisHeight: 50, entriesY: 190, recsPadding: 25},
	results.KindRetina:   {diagnosisHeight: 40, entriesY: 180, entriesHeight: 50, recsY: 240, recsPadding: 20},
}

// pdfWriter draws one document onto an A4 page.
type pdfWriter struct {
	pdf        *gofpdf.Fpdf
	tr         func(string) string
	kind       results.Kind
	layout     pdfLayout
	entriesBox Box
}

// RenderPDF draws doc on a single A4 page and reads the result back to
// confirm it is a well-formed PDF. It returns the bytes and page count.
func RenderPDF(doc Document) ([]byte, int, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(brand+" Report", true)
	pdf.SetCreator(brand, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 10)

	w := &pdfWriter{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		kind:   doc.Kind,
		layout: layouts[doc.Kind],
	}

	for _, s := range doc.Sections {
		switch s := s.(type) {
		case HeaderSection:
			w.header(s)
		case ImageSection:
			w.image(s)
		case InfoSection:
			w.info(s)
		case DiagnosisSection:
			w.diagnosis(s)
		case EntriesSection:
			w.entries(s)
		case RecommendationsSection:
			w.recommendations(s)
		case FooterSection:
			w.footer(s, doc)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRender, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRender, err)
	}

	pages, err := api.PageCount(bytes.NewReader(buf.Bytes()), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read back: %v", ErrRender, err)
	}

	return buf.Bytes(), pages, nil
}

func (w *pdfWriter) fill(c rgb)      { w.pdf.SetFillColor(c.r, c.g, c.b) }
func (w *pdfWriter) stroke(c rgb)    { w.pdf.SetDrawColor(c.r, c.g, c.b) }
func (w *pdfWriter) textColor(c rgb) { w.pdf.SetTextColor(c.r, c.g, c.b) }

func (w *pdfWriter) text(x, y, size float64, s string) {
	w.pdf.SetFontSize(size)
	w.pdf.Text(x, y, w.tr(s))
}

func (w *pdfWriter) box(x, y, width, height float64, fill, border rgb) {
	w.fill(fill)
	w.pdf.Rect(x, y, width, height, "F")
	w.stroke(border)
	w.pdf.Rect(x, y, width, height, "D")
}

func (w *pdfWriter) header(s HeaderSection) {
	w.fill(brandBlue)
	w.pdf.Rect(0, 0, 210, 50, "F")

	w.textColor(white)
	w.text(20, 25, 24, s.Brand)
	w.text(20, 35, 14, s.Heading)
	w.text(20, 45, 12, s.Subheading)
}

// image fits the thumbnail inside the 60 mm square at (130, 60).
func (w *pdfWriter) image(s ImageSection) {
	const name = "report-image"
	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(s.JPEG))

	width, height := 60.0, 0.0
	if s.Height > s.Width {
		width, height = 0, 60
	}
	w.pdf.ImageOptions(name, 130, 60, width, height, false, opts, 0, "")

	w.textColor(black)
	w.text(130, 55, 10, s.Label)
}

func (w *pdfWriter) info(s InfoSection) {
	w.box(15, 60, 100, 60, infoFill, infoBorder)

	w.textColor(black)
	w.text(20, 75, 14, "Report Information")
	w.text(20, 85, 10, "Analysis Type: "+s.AnalysisType)
	w.text(20, 95, 10, "Date: "+s.Date)
	w.text(20, 105, 10, "Time: "+s.Time)
	w.text(20, 115, 10, "Patient File: "+s.PatientFile)
}

func (w *pdfWriter) diagnosis(s DiagnosisSection) {
	w.box(15, 130, 180, w.layout.diagnosisHeight, diagnosisFill, brandBlue)

	w.textColor(brandBlue)
	w.text(20, 145, 14, "Diagnosis Results")
	w.textColor(black)
	w.text(20, 155, 11, s.Label+": "+s.Diagnosis)
	w.text(20, 165, 11, "Confidence Level: "+s.Confidence)
	if s.Severity != "" {
		w.text(20, 175, 11, "Severity Assessment: "+s.Severity)
	}
}

func (w *pdfWriter) entries(s EntriesSection) {
	w.entriesBox = EntriesBox(w.kind, len(s.Entries))
	b := w.entriesBox
	w.box(b.X, b.Y, b.W, b.H, entriesFill, entriesBorder)
	y := b.Y

	w.textColor(entriesTitle)
	w.text(20, y+15, 14, s.Heading)

	row := y + 25
	for _, e := range s.Entries {
		w.text(25, row, 10, "• "+e.Key+": "+e.Value)
		row += 10
	}
}

func (w *pdfWriter) recommendations(s RecommendationsSection) {
	b := RecommendationsBox(w.kind, w.entriesBox, len(s.Items))
	w.box(b.X, b.Y, b.W, b.H, recsFill, recsBorder)
	y := b.Y

	w.textColor(recsTitle)
	w.text(20, y+15, 14, "Medical Recommendations")
	w.textColor(black)

	row := y + 25
	for i, item := range s.Items {
		w.text(25, row, 10, fmt.Sprintf("%d. %s", i+1, item))
		row += 8
	}
}

func (w *pdfWriter) footer(s FooterSection, doc Document) {
	w.fill(footerFill)
	w.pdf.Rect(0, 270, 210, 27, "F")

	w.textColor(white)
	w.text(20, 280, 8, "Disclaimer: "+s.Screening+" "+s.Consult+".")
	w.text(20, 290, 8, s.Copyright+" | Generated: "+doc.GeneratedAt.Format(dateTimeLayout))
}
