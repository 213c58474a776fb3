package analysis

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/medvision/internal/overlays"
	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/pkg/handlers"
	"github.com/JaimeStill/medvision/pkg/openapi"
	"github.com/JaimeStill/medvision/pkg/routes"
)

// AnalyzeRequest selects the category to analyze the session's file for.
type AnalyzeRequest struct {
	Category string `json:"category"`
}

// Handler provides HTTP endpoints for analysis.
type Handler struct {
	sys       System
	sessions  sessions.System
	presenter overlays.System
	logger    *slog.Logger
}

// NewHandler creates a Handler that presents results through presenter.
func NewHandler(sys System, sess sessions.System, presenter overlays.System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:       sys,
		sessions:  sess,
		presenter: presenter,
		logger:    logger.With("handler", "analysis"),
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:    []string{"Analysis"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/sessions/{id}/analyze", Handler: h.Analyze, OpenAPI: analyzeOp},
			{Method: "GET", Pattern: "/analysis/categories", Handler: h.Categories, OpenAPI: categoriesOp},
			{Method: "GET", Pattern: "/analysis/predictor", Handler: h.Predictor, OpenAPI: predictorOp},
		},
	}
}

// Analyze runs the session's selected file through the category's result path
// and presents the outcome as an overlay.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	sess, err := sessions.FromRequest(h.sessions, r)
	if err != nil {
		handlers.RespondError(w, h.logger, sessions.MapHTTPStatus(err), err)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	file, err := sess.BeginAnalysis()
	if errors.Is(err, sessions.ErrInvalidTransition) {
		err = ErrReselect
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer sess.AbortAnalysis()

	result, err := h.sys.Analyze(r.Context(), file, req.Category)
	if err != nil {
		if errors.Is(err, ErrUnknownCategory) {
			h.logger.Info("no result path for category", "category", req.Category)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if err := sess.CompleteAnalysis(req.Category, result); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	ov, err := h.presenter.Present(sess.ID(), result)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, ov)
}

// Categories lists the selectable analysis categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Categories())
}

// Predictor reports the prediction service's health.
func (h *Handler) Predictor(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.PredictorHealth(r.Context()))
}

var schemas = map[string]*openapi.Schema{
	"AnalyzeRequest": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"category": {
				Type: "string",
				Enum: []any{"diabetic-retinopathy", "alzheimer", "skin-cancer", "bone-fracture", "tuberculosis"},
			},
		},
		Required: []string{"category"},
	},
	"Category": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"value": {Type: "string"},
			"label": {Type: "string"},
			"path":  {Type: "string", Enum: []any{PathPredictor, PathCanned}},
		},
	},
	"PredictorHealth": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"reachable":    {Type: "boolean"},
			"status":       {Type: "string"},
			"model_loaded": {Type: "boolean"},
			"error":        {Type: "string"},
		},
	},
}

var analyzeOp = &openapi.Operation{
	Summary:     "Analyze the selected file",
	Description: "Unknown categories answer 204 with no body.",
	Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Session ID")},
	RequestBody: openapi.RequestBodyJSON("AnalyzeRequest", true),
	Responses: map[int]*openapi.Response{
		201: openapi.ResponseJSON("Result presented", "Overlay"),
		204: {Description: "No result path for the category"},
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
		409: openapi.ResponseRef("Conflict"),
		422: openapi.ResponseRef("UnprocessableEntity"),
	},
}

var categoriesOp = &openapi.Operation{
	Summary: "List analysis categories",
	Responses: map[int]*openapi.Response{
		200: {
			Description: "Categories in display order",
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Category")}},
			},
		},
	},
}

var predictorOp = &openapi.Operation{
	Summary: "Prediction service health",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Predictor status", "PredictorHealth"),
	},
}
