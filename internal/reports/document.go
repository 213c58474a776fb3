// Package reports builds a structured report document from an analysis
// result and renders it as PDF or standalone HTML.
package reports

import (
	"time"

	"github.com/JaimeStill/medvision/internal/results"
)

// Document is a report as an ordered list of typed sections.
type Document struct {
	Kind        results.Kind
	Category    string
	Stem        string
	GeneratedAt time.Time
	Sections    []Section
}

// Section is one of the report section types below.
type Section interface {
	section()
}

// HeaderSection is the branded band at the top of the report.
// Heading and Subheading are the PDF band lines; Title and Caption head the HTML page.
type HeaderSection struct {
	Brand      string
	Heading    string
	Subheading string
	Title      string
	Caption    string
}

// ImageSection embeds the selected file as a downscaled JPEG.
type ImageSection struct {
	Label  string
	JPEG   []byte
	Width  int
	Height int
}

// InfoSection describes the analysis run.
type InfoSection struct {
	AnalysisType string
	Date         string
	Time         string
	PatientFile  string
}

// DiagnosisSection holds the headline result. Severity is empty for retina reports.
type DiagnosisSection struct {
	Label      string
	Diagnosis  string
	Confidence string
	Severity   string
}

// SeverityClass returns the CSS class of the severity badge.
func (s DiagnosisSection) SeverityClass() string {
	return results.SeverityClass(s.Severity)
}

// EntriesSection is the two-column detail table.
type EntriesSection struct {
	Heading string
	Columns [2]string
	Entries []results.Entry
}

type RecommendationsSection struct {
	Items []string
}

// FooterSection carries the disclaimer and copyright lines.
// Consult is completed differently by each renderer.
type FooterSection struct {
	Screening string
	Consult   string
	Copyright string
}

func (HeaderSection) section()          {}
func (ImageSection) section()           {}
func (InfoSection) section()            {}
func (DiagnosisSection) section()       {}
func (EntriesSection) section()         {}
func (RecommendationsSection) section() {}
func (FooterSection) section()          {}

const (
	brand     = "MedVision AI"
	copyright = "© 2024 MedVision AI. All rights reserved."
	screening = "This AI analysis is for screening purposes only."

	dateLayout     = "1/2/2006"
	timeLayout     = "3:04:05 PM"
	dateTimeLayout = "1/2/2006, 3:04:05 PM"
	stemDateLayout = "2006-01-02"
)

// Filename returns the artifact filename for ext ("pdf" or "html").
func (d Document) Filename(ext string) string {
	return d.Stem + "." + ext
}

// Find returns the first section of type T.
func Find[T Section](d Document) (T, bool) {
	for _, s := range d.Sections {
		if v, ok := s.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
