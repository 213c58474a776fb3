package uploads

import (
	"fmt"
	"slices"
	"strings"

	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/pkg/formatting"
)

// RetinaCategory is the category whose validation failures use the retina message.
const RetinaCategory = "diabetic-retinopathy"

// AcceptedTypes are the MIME types accepted for analysis, compared exactly.
var AcceptedTypes = []string{"image/jpeg", "image/jpg", "image/png"}

const retinaMessage = "Invalid image for retina analysis. Please select a retinal fundus image and change your selection to Diabetic Retinopathy."

// Validator checks a selected file against the accepted types and size ceiling.
type Validator struct {
	maxSize int64
}

// NewValidator creates a Validator with the given ceiling in bytes.
// A file exactly maxSize bytes long is accepted.
func NewValidator(maxSize int64) Validator {
	return Validator{maxSize: maxSize}
}

// MaxSize returns the size ceiling in bytes.
func (v Validator) MaxSize() int64 {
	return v.maxSize
}

// Validate returns nil when f may be analyzed for category.
// Failures are *ValidationError values; a nil file is sessions.ErrNoFile.
func (v Validator) Validate(f *sessions.File, category string) error {
	if f == nil {
		return sessions.ErrNoFile
	}

	var reason error
	switch {
	case !slices.Contains(AcceptedTypes, f.ContentType):
		reason = ErrInvalidType
	case f.Size > v.maxSize:
		reason = ErrTooLarge
	default:
		return nil
	}

	return &ValidationError{
		Reason:  reason,
		Message: v.message(reason, category),
	}
}

func (v Validator) message(reason error, category string) string {
	if category == RetinaCategory {
		return retinaMessage
	}

	if reason == ErrInvalidType {
		return fmt.Sprintf(
			"Invalid file type. Please select a valid medical image (JPEG, JPG, or PNG) for %s analysis.",
			category,
		)
	}

	limit := strings.ReplaceAll(formatting.FormatBytes(v.maxSize, 0), " ", "")
	return fmt.Sprintf("File size too large. Please select an image smaller than %s.", limit)
}
