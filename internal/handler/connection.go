package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/growthyari/growthyari-server/internal/audit"
	apperrors "github.com/growthyari/growthyari-server/internal/errors"
	"github.com/growthyari/growthyari-server/internal/httputil"
	"github.com/growthyari/growthyari-server/internal/middleware"
	"github.com/growthyari/growthyari-server/internal/model"
	"github.com/growthyari/growthyari-server/internal/service"
	"github.com/growthyari/growthyari-server/internal/util"
)

const maxRequestMessageLength = 500

type ConnectionHandler struct {
	connectionService *service.ConnectionService
}

func NewConnectionHandler(connectionService *service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
	}
}

func (h *ConnectionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListConnections)
	r.Post("/request", h.SendRequest)
	r.Get("/requests", h.ListRequests)
	r.Patch("/requests/{id}", h.RespondToRequest)

	return r
}

// GET /api/connections
func (h *ConnectionHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	page := ParsePagination(r)
	connections, err := h.connectionService.ListConnections(r.Context(), middleware.GetUserID(r.Context()), page.Limit, page.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, map[string]any{
		"connections": formatConnections(connections),
	})
}

type sendRequestRequest struct {
	ReceiverID string  `json:"receiver_id"`
	UserID     string  `json:"user_id"`
	Message    *string `json:"message"`
}

// POST /api/connections/request
func (h *ConnectionHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	var req sendRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	receiverID := req.ReceiverID
	if receiverID == "" {
		receiverID = req.UserID
	}
	if receiverID == "" {
		writeError(w, r, apperrors.MissingRequired("receiver_id"))
		return
	}
	if req.Message != nil && util.ExceedsLength(*req.Message, maxRequestMessageLength) {
		writeError(w, r, apperrors.InvalidInput("message", "must be at most 500 characters"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	created, err := h.connectionService.SendRequest(r.Context(), userID, receiverID, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventConnectionRequest,
		UserID:   userID,
		TargetID: created.ID,
		Details:  map[string]interface{}{"receiver_id": created.ReceiverID},
	})

	httputil.WriteSuccess(w, http.StatusCreated, map[string]any{
		"request": formatConnectionRequest(*created),
	})
}

// GET /api/connections/requests?type=sent|received
func (h *ConnectionHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	direction, ok := model.ParseRequestDirection(r.URL.Query().Get("type"))
	if !ok {
		writeError(w, r, apperrors.InvalidInput("type", "must be one of sent, received"))
		return
	}

	page := ParsePagination(r)
	requests, err := h.connectionService.ListRequests(r.Context(), middleware.GetUserID(r.Context()), direction, page.Limit, page.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, map[string]any{
		"requests": formatConnectionRequests(requests, direction),
	})
}

type respondRequest struct {
	Action string `json:"action"`
}

// PATCH /api/connections/requests/{id}
func (h *ConnectionHandler) RespondToRequest(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	action, ok := model.ParseRespondAction(req.Action)
	if !ok {
		writeError(w, r, apperrors.InvalidInput("action", "must be accept or decline"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	requestID := chi.URLParam(r, "id")
	status, err := h.connectionService.Respond(r.Context(), requestID, userID, action)
	if err != nil {
		writeError(w, r, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventConnectionRespond,
		UserID:   userID,
		TargetID: requestID,
		Details:  map[string]interface{}{"status": string(status)},
	})

	httputil.WriteSuccess(w, http.StatusOK, map[string]any{
		"status": status,
	})
}
