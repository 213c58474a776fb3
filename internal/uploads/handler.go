package uploads

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/pkg/handlers"
	"github.com/JaimeStill/medvision/pkg/openapi"
	"github.com/JaimeStill/medvision/pkg/routes"
)

// Handler provides HTTP endpoints for the selected file slot.
type Handler struct {
	sys           System
	sessions      sessions.System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given upload coordinator, session store, and request size limit.
func NewHandler(sys System, sess sessions.System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		sessions:      sess,
		logger:        logger.With("handler", "uploads"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for file endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/sessions/{id}/file",
		Tags:    []string{"Uploads"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Upload, OpenAPI: uploadOp},
			{Method: "GET", Pattern: "", Handler: h.Find, OpenAPI: findOp},
		},
	}
}

// Upload stores the multipart "file" field in the session's file slot.
// Picker and drop uploads both arrive here; no validation runs until analysis.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	sess, err := sessions.FromRequest(h.sessions, r)
	if err != nil {
		handlers.RespondError(w, h.logger, sessions.MapHTTPStatus(err), err)
		return
	}

	if r.ContentLength > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrRequestTooLarge)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrRequestTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingFile)
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingFile)
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	file := &sessions.File{
		Name:        header.Filename,
		Size:        int64(len(data)),
		ContentType: detectContentType(header.Header.Get("Content-Type"), data),
		Data:        data,
	}

	if err := h.sys.Select(sess, file); err != nil {
		handlers.RespondError(w, h.logger, sessions.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Confirm(file))
}

// Find returns the confirmation for the currently selected file.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	sess, err := sessions.FromRequest(h.sessions, r)
	if err != nil {
		handlers.RespondError(w, h.logger, sessions.MapHTTPStatus(err), err)
		return
	}

	file := sess.File()
	if file == nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrNoSelection), ErrNoSelection)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Confirm(file))
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

var schemas = map[string]*openapi.Schema{
	"FileConfirmation": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"name":         {Type: "string"},
			"size":         {Type: "integer"},
			"size_label":   {Type: "string", Example: "2.50 MB"},
			"content_type": {Type: "string"},
			"action":       {Type: "string", Example: "Change File"},
		},
	},
}

var uploadOp = &openapi.Operation{
	Summary: "Select a file",
	RequestBody: &openapi.RequestBody{
		Required: true,
		Content: map[string]*openapi.MediaType{
			"multipart/form-data": {
				Schema: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"file": {Type: "string", Format: "binary"},
					},
					Required: []string{"file"},
				},
			},
		},
	},
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "Session ID")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("File selected", "FileConfirmation"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
		409: openapi.ResponseRef("Conflict"),
		413: {Description: "Upload exceeds the request size limit"},
	},
}

var findOp = &openapi.Operation{
	Summary:    "Get the selected file",
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "Session ID")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Selected file", "FileConfirmation"),
		404: openapi.ResponseRef("NotFound"),
	},
}
