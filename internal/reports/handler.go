package reports

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/pkg/handlers"
	"github.com/JaimeStill/medvision/pkg/openapi"
	"github.com/JaimeStill/medvision/pkg/routes"
)

// Handler provides report download endpoints.
type Handler struct {
	sys      System
	sessions sessions.System
	logger   *slog.Logger
}

// NewHandler creates a Handler over the given exporter and session store.
func NewHandler(sys System, sess sessions.System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:      sys,
		sessions: sess,
		logger:   logger.With("handler", "reports"),
	}
}

// Routes returns the route group definition for report endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions/{id}",
		Tags:   []string{"Reports"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/report.pdf", Handler: h.PDF, OpenAPI: downloadOp("application/pdf")},
			{Method: "GET", Pattern: "/report.html", Handler: h.HTML, OpenAPI: downloadOp("text/html")},
		},
	}
}

// PDF downloads the session's report as a PDF attachment.
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, FormatPDF)
}

// HTML downloads the session's report as a standalone HTML attachment.
func (h *Handler) HTML(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, FormatHTML)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request, format Format) {
	sess, err := sessions.FromRequest(h.sessions, r)
	if err != nil {
		handlers.RespondError(w, h.logger, sessions.MapHTTPStatus(err), err)
		return
	}

	artifact, err := h.sys.Export(sess, format, time.Now())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	WriteAttachment(w, artifact.Filename, artifact.ContentType(), artifact.Data)
}

// WriteAttachment writes data as a file download.
func WriteAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func downloadOp(mediaType string) *openapi.Operation {
	return &openapi.Operation{
		Summary:    "Download the report (" + mediaType + ")",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Session ID")},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Report attachment",
				Content: map[string]*openapi.MediaType{
					mediaType: {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
				},
			},
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	}
}
