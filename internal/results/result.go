// Package results defines the analysis result variants and the display
// projection shared by the overlay and report renderers.
package results

import "strings"

// Kind discriminates the result variants.
type Kind string

const (
	KindRetina   Kind = "retina"
	KindFindings Kind = "findings"
)

// Result is an analysis outcome. Implementations are RetinaResult and FindingsResult.
type Result interface {
	Kind() Kind
	Display() Display
	Validate() error
}

// Display is the renderer-facing projection of a Result.
// Severity is empty for results that carry no severity grading.
type Display struct {
	Title           string    `json:"title"`
	Icon            string    `json:"icon"`
	DiagnosisLabel  string    `json:"diagnosis_label"`
	Diagnosis       string    `json:"diagnosis"`
	Confidence      string    `json:"confidence"`
	Severity        string    `json:"severity,omitempty"`
	EntriesHeading  string    `json:"entries_heading"`
	EntryColumns    [2]string `json:"entry_columns"`
	Entries         []Entry   `json:"entries"`
	Recommendations []string  `json:"recommendations"`
}

// SeverityClass returns the CSS class used for the severity badge,
// e.g. "Low Risk" becomes "low-risk".
func (d Display) SeverityClass() string {
	return SeverityClass(d.Severity)
}

// SeverityClass lowercases a severity label and joins its words with hyphens.
func SeverityClass(severity string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(severity)), " ", "-")
}

// RetinaResult is the outcome of diabetic retinopathy screening, either from
// the prediction service or from a canned fallback.
type RetinaResult struct {
	Prediction      string   `json:"prediction"`
	Confidence      string   `json:"confidence"`
	AllPredictions  Entries  `json:"all_predictions"`
	Recommendations []string `json:"recommendations"`
}

func (RetinaResult) Kind() Kind { return KindRetina }

func (r RetinaResult) Display() Display {
	return Display{
		Title:           "Retinal Analysis Complete",
		Icon:            "fas fa-eye",
		DiagnosisLabel:  "Primary Diagnosis",
		Diagnosis:       r.Prediction,
		Confidence:      r.Confidence,
		EntriesHeading:  "Probability Analysis",
		EntryColumns:    [2]string{"Condition", "Probability"},
		Entries:         r.AllPredictions.Items(),
		Recommendations: r.Recommendations,
	}
}

func (r RetinaResult) Validate() error {
	if len(r.Recommendations) == 0 {
		return ErrNoRecommendations
	}
	return nil
}

// FindingsResult is a canned result for the non-retina categories.
type FindingsResult struct {
	Title           string   `json:"title"`
	Icon            string   `json:"icon"`
	Result          string   `json:"result"`
	Confidence      string   `json:"confidence"`
	Severity        string   `json:"severity"`
	Findings        Entries  `json:"findings"`
	Recommendations []string `json:"recommendations"`
}

func (FindingsResult) Kind() Kind { return KindFindings }

func (r FindingsResult) Display() Display {
	return Display{
		Title:           r.Title,
		Icon:            r.Icon,
		DiagnosisLabel:  "Primary Finding",
		Diagnosis:       r.Result,
		Confidence:      r.Confidence,
		Severity:        r.Severity,
		EntriesHeading:  "Detailed Findings",
		EntryColumns:    [2]string{"Parameter", "Finding"},
		Entries:         r.Findings.Items(),
		Recommendations: r.Recommendations,
	}
}

func (r FindingsResult) Validate() error {
	if len(r.Recommendations) == 0 {
		return ErrNoRecommendations
	}
	return nil
}
