package overlays

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/pkg/handlers"
	"github.com/JaimeStill/medvision/pkg/openapi"
	"github.com/JaimeStill/medvision/pkg/routes"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler provides HTTP and websocket endpoints for session overlays.
type Handler struct {
	sys      System
	sessions sessions.System
	logger   *slog.Logger
}

// NewHandler creates a Handler over the given presenter and session store.
func NewHandler(sys System, sess sessions.System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:      sys,
		sessions: sess,
		logger:   logger.With("handler", "overlays"),
	}
}

// Routes returns the route group definition for overlay endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/sessions/{id}",
		Tags:    []string{"Overlays"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/overlay", Handler: h.Current, OpenAPI: currentOp},
			{Method: "DELETE", Pattern: "/overlay/{overlayId}", Handler: h.Close, OpenAPI: closeOp},
			{Method: "GET", Pattern: "/events", Handler: h.Events},
		},
	}
}

// Current returns the session's visible overlay.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	sess, err := sessions.FromRequest(h.sessions, r)
	if err != nil {
		handlers.RespondError(w, h.logger, sessions.MapHTTPStatus(err), err)
		return
	}

	ov, err := h.sys.Current(sess.ID())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ov)
}

// Close dismisses the overlay named by {overlayId}. Stale IDs answer 404.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	sess, err := sessions.FromRequest(h.sessions, r)
	if err != nil {
		handlers.RespondError(w, h.logger, sessions.MapHTTPStatus(err), err)
		return
	}

	overlayID, err := uuid.Parse(r.PathValue("overlayId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	if err := h.sys.Close(sess.ID(), overlayID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Events upgrades to a websocket and streams overlay events for the session.
// A client connecting while an overlay is visible first receives its presented event.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	sess, err := sessions.FromRequest(h.sessions, r)
	if err != nil {
		handlers.RespondError(w, h.logger, sessions.MapHTTPStatus(err), err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "session", sess.ID(), "error", err)
		return
	}
	defer conn.Close()

	events, cancel := h.sys.Subscribe(sess.ID())
	defer cancel()

	if ov, err := h.sys.Current(sess.ID()); err == nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(Event{
			Type:      EventPresented,
			SessionID: ov.SessionID,
			OverlayID: ov.ID,
			HTML:      ov.HTML,
		}); err != nil {
			return
		}
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Warn("websocket read", "session", sess.ID(), "error", err)
				}
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case e, ok := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
				return
			}
			if err := conn.WriteJSON(e); err != nil {
				h.logger.Warn("websocket write", "session", sess.ID(), "error", err)
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var schemas = map[string]*openapi.Schema{
	"Overlay": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":         {Type: "string", Format: "uuid"},
			"session_id": {Type: "string", Format: "uuid"},
			"kind":       {Type: "string", Enum: []any{"retina", "findings"}},
			"display":    openapi.SchemaRef("Display"),
			"html":       {Type: "string", Description: "Rendered overlay fragment"},
			"created_at": {Type: "string", Format: "date-time"},
			"expires_at": {Type: "string", Format: "date-time"},
		},
	},
	"Display": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"title":           {Type: "string"},
			"icon":            {Type: "string"},
			"diagnosis_label": {Type: "string"},
			"diagnosis":       {Type: "string"},
			"confidence":      {Type: "string"},
			"severity":        {Type: "string"},
			"entries_heading": {Type: "string"},
			"entries": {
				Type: "array",
				Items: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"key":   {Type: "string"},
						"value": {Type: "string"},
					},
				},
			},
			"recommendations": {Type: "array", Items: &openapi.Schema{Type: "string"}},
		},
	},
}

var currentOp = &openapi.Operation{
	Summary:    "Get the visible overlay",
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "Session ID")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Current overlay", "Overlay"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var closeOp = &openapi.Operation{
	Summary: "Close an overlay",
	Parameters: []*openapi.Parameter{
		openapi.PathParam("id", "Session ID"),
		openapi.PathParam("overlayId", "Overlay ID"),
	},
	Responses: map[int]*openapi.Response{
		204: {Description: "Overlay closed"},
		404: openapi.ResponseRef("NotFound"),
	},
}
