package sessions

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/medvision/pkg/handlers"
	"github.com/JaimeStill/medvision/pkg/openapi"
	"github.com/JaimeStill/medvision/pkg/routes"
)

// Handler provides HTTP endpoints for session lifecycle.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler over the given store.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "sessions"),
	}
}

// Routes returns the route group definition for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/sessions",
		Tags:        []string{"Sessions"},
		Description: "Per-visitor analysis state",
		Schemas:     schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: createOp},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: findOp},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: deleteOp},
		},
	}
}

// Create starts a new session in the Idle state.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess := h.sys.Create()
	handlers.RespondJSON(w, http.StatusCreated, sess.Snapshot())
}

// Find returns the snapshot of the session named by the {id} path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	sess, err := FromRequest(h.sys, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sess.Snapshot())
}

// Delete ends the session named by the {id} path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if err := h.sys.Delete(id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ParseID reads the {id} path parameter as a session ID.
func ParseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// FromRequest resolves the session named by the {id} path parameter.
func FromRequest(sys System, r *http.Request) (*Session, error) {
	id, err := ParseID(r)
	if err != nil {
		return nil, err
	}
	return sys.Get(id)
}

var schemas = map[string]*openapi.Schema{
	"Session": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":         {Type: "string", Format: "uuid"},
			"state":      {Type: "string", Enum: []any{"idle", "file_selected", "analyzing", "result_ready"}},
			"file":       openapi.SchemaRef("SelectedFile"),
			"category":   {Type: "string"},
			"result":     {Type: "object", Description: "Result envelope tagged by kind"},
			"created_at": {Type: "string", Format: "date-time"},
			"touched_at": {Type: "string", Format: "date-time"},
		},
	},
	"SelectedFile": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"name":         {Type: "string"},
			"size":         {Type: "integer"},
			"content_type": {Type: "string"},
		},
	},
}

var createOp = &openapi.Operation{
	Summary: "Create a session",
	Responses: map[int]*openapi.Response{
		201: openapi.ResponseJSON("Session created", "Session"),
	},
}

var findOp = &openapi.Operation{
	Summary:    "Get a session",
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "Session ID")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Session snapshot", "Session"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var deleteOp = &openapi.Operation{
	Summary:    "Delete a session",
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "Session ID")},
	Responses: map[int]*openapi.Response{
		204: {Description: "Session deleted"},
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}
