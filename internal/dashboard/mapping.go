package dashboard

import (
	"encoding/json"
	"net/url"

	"github.com/JaimeStill/medvision/pkg/query"
	"github.com/JaimeStill/medvision/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "saved_reports", "sr").
	Project("id", "ID").
	Project("session_id", "SessionID").
	Project("category", "Category").
	Project("kind", "Kind").
	Project("title", "Title").
	Project("diagnosis", "Diagnosis").
	Project("confidence", "Confidence").
	Project("severity", "Severity").
	Project("patient_file", "PatientFile").
	Project("stem", "Stem").
	Project("pdf_key", "PDFKey").
	Project("html_key", "HTMLKey").
	Project("pdf_size", "PDFSize").
	Project("html_size", "HTMLSize").
	Project("pdf_pages", "PDFPages").
	Project("result", "Result").
	Project("saved_at", "SavedAt")

var defaultSort = query.SortField{
	Field:      "SavedAt",
	Descending: true,
}

// Filters narrows dashboard queries. Nil fields are ignored. Category, Kind,
// and Severity match exactly; Diagnosis and PatientFile match
// case-insensitive substrings.
type Filters struct {
	Category    *string `json:"category,omitempty"`
	Kind        *string `json:"kind,omitempty"`
	Severity    *string `json:"severity,omitempty"`
	Diagnosis   *string `json:"diagnosis,omitempty"`
	PatientFile *string `json:"patient_file,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Category", f.Category).
		WhereEquals("Kind", f.Kind).
		WhereEquals("Severity", f.Severity).
		WhereContains("Diagnosis", f.Diagnosis).
		WhereContains("PatientFile", f.PatientFile)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("category"); v != "" {
		f.Category = &v
	}
	if v := values.Get("kind"); v != "" {
		f.Kind = &v
	}
	if v := values.Get("severity"); v != "" {
		f.Severity = &v
	}
	if v := values.Get("diagnosis"); v != "" {
		f.Diagnosis = &v
	}
	if v := values.Get("patient_file"); v != "" {
		f.PatientFile = &v
	}

	return f
}

func scanSavedReport(s repository.Scanner) (SavedReport, error) {
	var (
		sr  SavedReport
		raw []byte
	)
	err := s.Scan(
		&sr.ID,
		&sr.SessionID,
		&sr.Category,
		&sr.Kind,
		&sr.Title,
		&sr.Diagnosis,
		&sr.Confidence,
		&sr.Severity,
		&sr.PatientFile,
		&sr.Stem,
		&sr.PDFKey,
		&sr.HTMLKey,
		&sr.PDFSize,
		&sr.HTMLSize,
		&sr.PDFPages,
		&raw,
		&sr.SavedAt,
	)
	if err != nil {
		return sr, err
	}
	if err := json.Unmarshal(raw, &sr.Result); err != nil {
		return sr, err
	}
	return sr, nil
}
