package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/growthyari/growthyari-server/internal/audit"
	apperrors "github.com/growthyari/growthyari-server/internal/errors"
	"github.com/growthyari/growthyari-server/internal/httputil"
	"github.com/growthyari/growthyari-server/internal/middleware"
	"github.com/growthyari/growthyari-server/internal/model"
	"github.com/growthyari/growthyari-server/internal/service"
	"github.com/growthyari/growthyari-server/internal/util"
)

const (
	maxSessionTitleLength = 200
	maxSessionDuration    = 480
	maxSessionNotesLength = 5000
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListSessions)
	r.Post("/book", h.BookSession)
	r.Get("/{id}", h.GetSession)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Patch("/{id}/notes", h.UpdateNotes)

	return r
}

// GET /api/sessions?type=expert|client|all&status=
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	role, ok := model.ParseSessionRole(query.Get("type"))
	if !ok {
		writeError(w, r, apperrors.InvalidInput("type", "must be one of expert, client, all"))
		return
	}

	var status *model.SessionStatus
	if raw := query.Get("status"); raw != "" {
		parsed, ok := model.ParseSessionStatus(raw)
		if !ok {
			writeError(w, r, apperrors.InvalidInput("status", "must be one of pending, confirmed, completed, cancelled"))
			return
		}
		status = &parsed
	}

	page := ParsePagination(r)
	sessions, err := h.sessionService.ListForUser(r.Context(), model.SessionFilter{
		UserID: middleware.GetUserID(r.Context()),
		Role:   role,
		Status: status,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, map[string]any{
		"sessions": formatSessionDetails(sessions),
	})
}

type bookSessionRequest struct {
	ExpertID    string           `json:"expert_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Duration    int              `json:"duration"`
	Price       *decimal.Decimal `json:"price"`
	ScheduledAt string           `json:"scheduled_at"`
}

func (req *bookSessionRequest) validate() (service.BookSessionInput, error) {
	var input service.BookSessionInput

	if req.ExpertID == "" {
		return input, apperrors.MissingRequired("expert_id")
	}
	if !util.IsValidUUID(req.ExpertID) {
		return input, apperrors.InvalidInput("expert_id", "must be a UUID")
	}
	if util.IsBlank(req.Title) {
		return input, apperrors.MissingRequired("title")
	}
	if util.ExceedsLength(req.Title, maxSessionTitleLength) {
		return input, apperrors.InvalidInput("title", "must be at most 200 characters")
	}
	if req.Duration <= 0 || req.Duration > maxSessionDuration {
		return input, apperrors.InvalidInput("duration", "must be between 1 and 480 minutes")
	}
	price := decimal.Zero
	if req.Price != nil {
		price = *req.Price
	}
	if price.IsNegative() {
		return input, apperrors.InvalidInput("price", "must not be negative")
	}
	if req.ScheduledAt == "" {
		return input, apperrors.MissingRequired("scheduled_at")
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return input, apperrors.InvalidInput("scheduled_at", "must be an RFC3339 timestamp")
	}

	return service.BookSessionInput{
		ExpertID:    req.ExpertID,
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       price,
		ScheduledAt: scheduledAt,
	}, nil
}

// POST /api/sessions/book
func (h *SessionHandler) BookSession(w http.ResponseWriter, r *http.Request) {
	var req bookSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	input, err := req.validate()
	if err != nil {
		writeError(w, r, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	session, err := h.sessionService.Create(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventSessionBook,
		UserID:   userID,
		TargetID: session.ID,
		Details:  map[string]interface{}{"expert_id": session.ExpertID},
	})

	httputil.WriteSuccess(w, http.StatusCreated, map[string]any{
		"session": formatSession(*session),
	})
}

// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	detail, err := h.sessionService.Get(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, map[string]any{
		"session": formatSessionDetail(*detail),
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// PATCH /api/sessions/{id}/status
func (h *SessionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	detail, err := h.sessionService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventSessionStatusChange,
		UserID:   userID,
		TargetID: detail.ID,
		Details:  map[string]interface{}{"status": string(detail.Status)},
	})

	httputil.WriteSuccess(w, http.StatusOK, map[string]any{
		"session": formatSessionDetail(*detail),
	})
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

// PATCH /api/sessions/{id}/notes
func (h *SessionHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req updateNotesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if util.ExceedsLength(req.Notes, maxSessionNotesLength) {
		writeError(w, r, apperrors.InvalidInput("notes", "must be at most 5000 characters"))
		return
	}

	userID := middleware.GetUserID(r.Context())
	sessionID := chi.URLParam(r, "id")
	if err := h.sessionService.UpdateNotes(r.Context(), sessionID, req.Notes, userID); err != nil {
		writeError(w, r, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:     audit.EventSessionNotesUpdate,
		UserID:   userID,
		TargetID: sessionID,
	})

	httputil.WriteMessage(w, http.StatusOK, "Session notes updated successfully")
}
