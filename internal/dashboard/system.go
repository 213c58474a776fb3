package dashboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/medvision/internal/reports"
	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/pkg/pagination"
	"github.com/JaimeStill/medvision/pkg/storage"
)

// System defines the dashboard contract.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[SavedReport], error)

	Find(ctx context.Context, id uuid.UUID) (*SavedReport, error)

	// Save renders both report formats for the session's current result,
	// uploads them, and records the saved report.
	Save(ctx context.Context, sess *sessions.Session) (*SavedReport, error)

	// Download opens the stored artifact of the given format. The caller must
	// close the blob body.
	Download(ctx context.Context, id uuid.UUID, format reports.Format) (*storage.Blob, string, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
