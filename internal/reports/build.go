package reports

import (
	"strings"
	"time"

	"github.com/JaimeStill/medvision/internal/results"
	"github.com/JaimeStill/medvision/internal/sessions"
)

// Build assembles the report document for r. A nil file omits the image
// section and reports the patient file as N/A. A file that cannot be decoded
// as an image keeps its name in the info section but is not embedded.
func (e *exporter) Build(r results.Result, category string, f *sessions.File, now time.Time) Document {
	d := r.Display()
	retina := r.Kind() == results.KindRetina

	doc := Document{
		Kind:        r.Kind(),
		Category:    category,
		Stem:        stem(r.Kind(), category, now),
		GeneratedAt: now,
	}

	header := HeaderSection{
		Brand:      brand,
		Heading:    "AI-Powered Medical Diagnostics",
		Subheading: "Professional Medical Analysis Report",
		Title:      "Medical Analysis Report",
		Caption:    "AI-Powered Medical Diagnostics",
	}
	analysisType := d.Title
	imageLabel := "Uploaded Medical Image:"
	consult := "Please consult with a qualified healthcare professional"

	if retina {
		header.Heading = "Diabetic Retinopathy Analysis Report"
		header.Subheading = "AI-Powered Retinal Screening"
		header.Title = "Diabetic Retinopathy Analysis Report"
		header.Caption = "AI-Powered Retinal Screening"
		analysisType = "Diabetic Retinopathy"
		imageLabel = "Retinal Image:"
		consult = "Please consult with a qualified ophthalmologist"
	}

	doc.Sections = append(doc.Sections, header)

	patientFile := "N/A"
	if f != nil {
		patientFile = f.Name
		if img, ok := e.image(f, imageLabel); ok {
			doc.Sections = append(doc.Sections, img)
		}
	}

	doc.Sections = append(doc.Sections,
		InfoSection{
			AnalysisType: analysisType,
			Date:         now.Format(dateLayout),
			Time:         now.Format(timeLayout),
			PatientFile:  patientFile,
		},
		DiagnosisSection{
			Label:      d.DiagnosisLabel,
			Diagnosis:  d.Diagnosis,
			Confidence: d.Confidence,
			Severity:   d.Severity,
		},
		EntriesSection{
			Heading: d.EntriesHeading,
			Columns: d.EntryColumns,
			Entries: d.Entries,
		},
		RecommendationsSection{Items: d.Recommendations},
		FooterSection{
			Screening: screening,
			Consult:   consult,
			Copyright: copyright,
		},
	)

	return doc
}

func (e *exporter) image(f *sessions.File, label string) (ImageSection, bool) {
	data, size, err := Thumbnail(f.Data, e.images)
	if err != nil {
		e.logger.Warn("could not add image to report", "file", f.Name, "error", err)
		return ImageSection{}, false
	}
	return ImageSection{
		Label:  label,
		JPEG:   data,
		Width:  size.X,
		Height: size.Y,
	}, true
}

func stem(kind results.Kind, category string, now time.Time) string {
	date := now.UTC().Format(stemDateLayout)
	if kind == results.KindRetina {
		return "MedVision_AI_Diabetic_Retinopathy_Report_" + date
	}
	return "MedVision_AI_Report_" + strings.TrimSpace(category) + "_" + date
}
