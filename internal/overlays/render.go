package overlays

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/google/uuid"

	"github.com/JaimeStill/medvision/internal/results"
)

//go:embed overlay.html
var overlaySource string

var overlayTmpl = template.Must(template.New("overlay.html").Parse(overlaySource))

type fragmentData struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Kind      results.Kind
	Retina    bool
	Display   results.Display
}

// Render produces the overlay HTML fragment for a result.
func Render(id, sessionID uuid.UUID, r results.Result) (string, error) {
	data := fragmentData{
		ID:        id,
		SessionID: sessionID,
		Kind:      r.Kind(),
		Retina:    r.Kind() == results.KindRetina,
		Display:   r.Display(),
	}

	var buf bytes.Buffer
	if err := overlayTmpl.ExecuteTemplate(&buf, "overlay", data); err != nil {
		return "", fmt.Errorf("render overlay: %w", err)
	}
	return buf.String(), nil
}
