package reports

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/JaimeStill/medvision/internal/results"
)

//go:embed report.html
var reportSource string

var reportTmpl = template.Must(template.New("report").Parse(reportSource))

type htmlImage struct {
	Label  string
	Src    template.URL
	Width  int
	Height int
}

type htmlData struct {
	Header          HeaderSection
	Image           *htmlImage
	Info            InfoSection
	Diagnosis       DiagnosisSection
	Entries         EntriesSection
	TableClass      string
	Recommendations RecommendationsSection
	Footer          FooterSection
}

// RenderHTML renders doc as a standalone HTML page. The image, when present,
// is inlined as a data URI.
func RenderHTML(doc Document) ([]byte, error) {
	data := htmlData{TableClass: "findings-table"}
	if doc.Kind == results.KindRetina {
		data.TableClass = "predictions-table"
	}

	for _, s := range doc.Sections {
		switch s := s.(type) {
		case HeaderSection:
			data.Header = s
		case ImageSection:
			data.Image = &htmlImage{
				Label:  s.Label,
				Src:    template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(s.JPEG)),
				Width:  s.Width,
				Height: s.Height,
			}
		case InfoSection:
			data.Info = s
		case DiagnosisSection:
			data.Diagnosis = s
		case EntriesSection:
			data.Entries = s
		case RecommendationsSection:
			data.Recommendations = s
		case FooterSection:
			data.Footer = s
		}
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}
