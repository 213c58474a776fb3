// Package uploads manages the per-session selected file: storing picker and
// drop uploads and validating them before analysis.
package uploads

import (
	"log/slog"

	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/pkg/formatting"
)

// Confirmation is the "file selected" notice returned after an upload.
type Confirmation struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	SizeLabel   string `json:"size_label"`
	ContentType string `json:"content_type"`
	Action      string `json:"action"`
}

// Confirm describes f for the upload area.
func Confirm(f *sessions.File) Confirmation {
	return Confirmation{
		Name:        f.Name,
		Size:        f.Size,
		SizeLabel:   formatting.FormatMegabytes(f.Size),
		ContentType: f.ContentType,
		Action:      "Change File",
	}
}

// System defines the upload coordinator contract.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Select replaces the session's file. A nil file is ignored.
	Select(sess *sessions.Session, f *sessions.File) error
	Validate(f *sessions.File, category string) error
}

type coordinator struct {
	sessions  sessions.System
	validator Validator
	logger    *slog.Logger
}

// New creates the upload coordinator with the given analysis size ceiling.
func New(sess sessions.System, maxImageSize int64, logger *slog.Logger) System {
	return &coordinator{
		sessions:  sess,
		validator: NewValidator(maxImageSize),
		logger:    logger.With("system", "uploads"),
	}
}

func (c *coordinator) Handler(maxUploadSize int64) *Handler {
	return NewHandler(c, c.sessions, c.logger, maxUploadSize)
}

func (c *coordinator) Select(sess *sessions.Session, f *sessions.File) error {
	if f == nil {
		return nil
	}

	if err := sess.Select(f); err != nil {
		return err
	}

	c.logger.Info("file selected",
		"session", sess.ID(),
		"name", f.Name,
		"size", formatting.FormatBytes(f.Size, 2),
		"content_type", f.ContentType,
	)
	return nil
}

func (c *coordinator) Validate(f *sessions.File, category string) error {
	return c.validator.Validate(f, category)
}
