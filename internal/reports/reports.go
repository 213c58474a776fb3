package reports

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/medvision/internal/results"
	"github.com/JaimeStill/medvision/internal/sessions"
)

// Format is a report artifact type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPDF, FormatHTML:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/html; charset=utf-8"
}

// Artifact is a rendered report.
type Artifact struct {
	Format   Format
	Filename string
	Data     []byte
	// Pages is the read-back page count; zero for HTML.
	Pages int
}

// ContentType returns the artifact's MIME type.
func (a *Artifact) ContentType() string {
	return a.Format.ContentType()
}

// System defines the report exporter contract.
type System interface {
	Handler() *Handler

	Build(r results.Result, category string, f *sessions.File, now time.Time) Document
	Render(doc Document, format Format) (*Artifact, error)
	// Export renders the session's last result and marks the session exported.
	Export(sess *sessions.Session, format Format, now time.Time) (*Artifact, error)
}

type exporter struct {
	sessions sessions.System
	images   ImageOptions
	logger   *slog.Logger
}

// New creates the report exporter. Embedded images are thumbnailed with opts.
func New(sess sessions.System, opts ImageOptions, logger *slog.Logger) System {
	return &exporter{
		sessions: sess,
		images:   opts,
		logger:   logger.With("system", "reports"),
	}
}

func (e *exporter) Handler() *Handler {
	return NewHandler(e, e.sessions, e.logger)
}

func (e *exporter) Render(doc Document, format Format) (*Artifact, error) {
	switch format {
	case FormatPDF:
		data, pages, err := RenderPDF(doc)
		if err != nil {
			return nil, err
		}
		if pages != 1 {
			e.logger.Warn("unexpected report page count", "pages", pages, "stem", doc.Stem)
		}
		return &Artifact{Format: format, Filename: doc.Filename("pdf"), Data: data, Pages: pages}, nil
	case FormatHTML:
		data, err := RenderHTML(doc)
		if err != nil {
			return nil, err
		}
		return &Artifact{Format: format, Filename: doc.Filename("html"), Data: data}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func (e *exporter) Export(sess *sessions.Session, format Format, now time.Time) (*Artifact, error) {
	r, category, err := sess.Result()
	if err != nil {
		return nil, err
	}

	doc := e.Build(r, category, sess.File(), now)
	artifact, err := e.Render(doc, format)
	if err != nil {
		return nil, err
	}

	sess.MarkExported()
	e.logger.Info("report exported",
		"session", sess.ID(),
		"filename", artifact.Filename,
		"bytes", len(artifact.Data),
	)
	return artifact, nil
}
