// Package dashboard persists exported reports so they can be listed and
// downloaded after the analysis session that produced them is gone.
package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/medvision/internal/results"
)

// SavedReport is a report saved to the dashboard. Both rendered artifacts are
// kept in blob storage under PDFKey and HTMLKey.
type SavedReport struct {
	ID          uuid.UUID        `json:"id"`
	SessionID   uuid.UUID        `json:"session_id"`
	Category    string           `json:"category"`
	Kind        results.Kind     `json:"kind"`
	Title       string           `json:"title"`
	Diagnosis   string           `json:"diagnosis"`
	Confidence  string           `json:"confidence"`
	Severity    string           `json:"severity,omitempty"`
	PatientFile string           `json:"patient_file"`
	Stem        string           `json:"stem"`
	PDFKey      string           `json:"pdf_key"`
	HTMLKey     string           `json:"html_key"`
	PDFSize     int64            `json:"pdf_size"`
	HTMLSize    int64            `json:"html_size"`
	PDFPages    int              `json:"pdf_pages"`
	Result      results.Envelope `json:"result"`
	SavedAt     time.Time        `json:"saved_at"`
}
