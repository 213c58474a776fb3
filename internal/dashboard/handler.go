package dashboard

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/medvision/internal/reports"
	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/pkg/handlers"
	"github.com/JaimeStill/medvision/pkg/openapi"
	"github.com/JaimeStill/medvision/pkg/pagination"
	"github.com/JaimeStill/medvision/pkg/routes"
)

// Handler provides HTTP endpoints for saved reports.
type Handler struct {
	sys        System
	sessions   sessions.System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, session store, logger, and pagination config.
func NewHandler(
	sys System,
	sess sessions.System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		sessions:   sess,
		logger:     logger.With("handler", "dashboard"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for dashboard endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:    []string{"Dashboard"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/sessions/{id}/save", Handler: h.Save, OpenAPI: saveOp},
		},
		Children: []routes.Group{
			{
				Prefix:      "/dashboard",
				Description: "Reports saved from analysis sessions",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: listOp},
					{Method: "POST", Pattern: "/search", Handler: h.Search, OpenAPI: searchOp},
					{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: findOp},
					{Method: "GET", Pattern: "/{id}/download/{format}", Handler: h.Download, OpenAPI: downloadOp},
					{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: deleteOp},
				},
			},
		},
	}
}

// Save stores the session's current result on the dashboard.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	sess, err := sessions.FromRequest(h.sessions, r)
	if err != nil {
		handlers.RespondError(w, h.logger, sessions.MapHTTPStatus(err), err)
		return
	}

	sr, err := h.sys.Save(r.Context(), sess)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, sr)
}

// List returns a page of saved reports filtered by query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts pagination and filter criteria as a JSON body.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single saved report.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	sr, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sr)
}

// Download streams a stored artifact as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	format, err := reports.ParseFormat(r.PathValue("format"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	blob, filename, err := h.sys.Download(r.Context(), id, format)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer blob.Body.Close()

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if blob.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, blob.Body); err != nil {
		h.logger.Warn("artifact stream interrupted", "id", id, "format", format, "error", err)
	}
}

// Delete removes a saved report and its artifacts.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

var schemas = map[string]*openapi.Schema{
	"SavedReport": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":           {Type: "string", Format: "uuid"},
			"session_id":   {Type: "string", Format: "uuid"},
			"category":     {Type: "string", Example: "tuberculosis"},
			"kind":         {Type: "string", Enum: []any{"retina", "findings"}},
			"title":        {Type: "string"},
			"diagnosis":    {Type: "string"},
			"confidence":   {Type: "string", Example: "96.3%"},
			"severity":     {Type: "string"},
			"patient_file": {Type: "string"},
			"stem":         {Type: "string"},
			"pdf_key":      {Type: "string"},
			"html_key":     {Type: "string"},
			"pdf_size":     {Type: "integer"},
			"html_size":    {Type: "integer"},
			"pdf_pages":    {Type: "integer"},
			"result":       {Type: "object"},
			"saved_at":     {Type: "string", Format: "date-time"},
		},
	},
	"SavedReportPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        {Type: "array", Items: openapi.SchemaRef("SavedReport")},
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	},
	"SavedReportSearch": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"page":         {Type: "integer"},
			"page_size":    {Type: "integer"},
			"search":       {Type: "string"},
			"sort":         {Type: "string"},
			"category":     {Type: "string"},
			"kind":         {Type: "string"},
			"severity":     {Type: "string"},
			"diagnosis":    {Type: "string"},
			"patient_file": {Type: "string"},
		},
	},
}

var saveOp = &openapi.Operation{
	Summary:    "Save the session's report to the dashboard",
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "Session ID")},
	Responses: map[int]*openapi.Response{
		201: openapi.ResponseJSON("Report saved", "SavedReport"),
		404: openapi.ResponseRef("NotFound"),
		409: openapi.ResponseRef("Conflict"),
	},
}

var listOp = &openapi.Operation{
	Summary: "List saved reports",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("search", "string", "Search title, diagnosis, and file name", false),
		openapi.QueryParam("sort", "string", "Sort fields, e.g. -SavedAt", false),
		openapi.QueryParam("category", "string", "Filter by category", false),
		openapi.QueryParam("kind", "string", "Filter by result kind", false),
		openapi.QueryParam("severity", "string", "Filter by severity", false),
		openapi.QueryParam("diagnosis", "string", "Filter by diagnosis (contains)", false),
		openapi.QueryParam("patient_file", "string", "Filter by file name (contains)", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Saved reports", "SavedReportPage"),
	},
}

var searchOp = &openapi.Operation{
	Summary:     "Search saved reports",
	RequestBody: openapi.RequestBodyJSON("SavedReportSearch", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Saved reports", "SavedReportPage"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var findOp = &openapi.Operation{
	Summary:    "Get a saved report",
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "Saved report ID")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Saved report", "SavedReport"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var downloadOp = &openapi.Operation{
	Summary: "Download a saved report artifact",
	Parameters: []*openapi.Parameter{
		openapi.PathParam("id", "Saved report ID"),
		{
			Name:     "format",
			In:       "path",
			Required: true,
			Schema:   &openapi.Schema{Type: "string", Enum: []any{"pdf", "html"}},
		},
	},
	Responses: map[int]*openapi.Response{
		200: {
			Description: "Report attachment",
			Content: map[string]*openapi.MediaType{
				"application/pdf": {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
				"text/html":       {Schema: &openapi.Schema{Type: "string"}},
			},
		},
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var deleteOp = &openapi.Operation{
	Summary:    "Delete a saved report",
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "Saved report ID")},
	Responses: map[int]*openapi.Response{
		204: {Description: "Saved report deleted"},
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}
