package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/growthyari/growthyari-server/internal/errors"
	"github.com/growthyari/growthyari-server/internal/httputil"
	"github.com/growthyari/growthyari-server/internal/model"
)

// writeError logs failures the caller cannot act on before writing the
// envelope; the cause never reaches the response body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	if code == apperrors.ErrCodeDatabase || code == apperrors.ErrCodeInternal || !apperrors.IsAppError(err) {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}
	httputil.WriteError(w, err)
}

// decodeJSON reads a single JSON object into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperrors.ValidationError("Request body is required")
		case errors.As(err, &maxBytesErr):
			return apperrors.ValidationError("Request body too large")
		default:
			return apperrors.ValidationError("Invalid JSON body").WithCause(err)
		}
	}
	return nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func formatProfile(p model.UserProfile) map[string]any {
	return map[string]any{
		"id":           p.ID,
		"name":         p.Name,
		"avatar":       p.Avatar,
		"profession":   p.Profession,
		"bio":          p.Bio,
		"expertise":    []string(p.Expertise),
		"rating":       p.Rating,
		"review_count": p.ReviewCount,
	}
}

func formatSession(s model.Session) map[string]any {
	return map[string]any{
		"id":           s.ID,
		"expert_id":    s.ExpertID,
		"client_id":    s.ClientID,
		"title":        s.Title,
		"description":  s.Description,
		"duration":     s.Duration,
		"price":        s.Price.InexactFloat64(),
		"scheduled_at": s.ScheduledAt.Format(time.RFC3339),
		"status":       s.Status,
		"meeting_link": s.MeetingLink,
		"notes":        s.Notes,
		"created_at":   s.CreatedAt.Format(time.RFC3339),
		"updated_at":   s.UpdatedAt.Format(time.RFC3339),
	}
}

func formatSessionDetail(d model.SessionDetail) map[string]any {
	out := formatSession(d.Session)
	out["expert"] = formatProfile(d.Expert)
	out["client"] = formatProfile(d.Client)
	return out
}

func formatSessionDetails(details []model.SessionDetail) []map[string]any {
	out := make([]map[string]any, 0, len(details))
	for _, d := range details {
		out = append(out, formatSessionDetail(d))
	}
	return out
}

func formatConnectionRequest(req model.ConnectionRequest) map[string]any {
	return map[string]any{
		"id":           req.ID,
		"sender_id":    req.SenderID,
		"receiver_id":  req.ReceiverID,
		"message":      req.Message,
		"status":       req.Status,
		"created_at":   req.CreatedAt.Format(time.RFC3339),
		"responded_at": formatTime(req.RespondedAt),
	}
}

// formatConnectionRequests names the counterpart by its role in the request:
// "receiver" for sent requests and "sender" for received ones.
func formatConnectionRequests(requests []model.ConnectionRequestDetail, direction model.RequestDirection) []map[string]any {
	key := "sender"
	if direction == model.RequestDirectionSent {
		key = "receiver"
	}
	out := make([]map[string]any, 0, len(requests))
	for _, req := range requests {
		item := formatConnectionRequest(req.ConnectionRequest)
		item[key] = formatProfile(req.Counterpart)
		out = append(out, item)
	}
	return out
}

func formatConnections(connections []model.ConnectionDetail) []map[string]any {
	out := make([]map[string]any, 0, len(connections))
	for _, c := range connections {
		out = append(out, map[string]any{
			"id":           c.ID,
			"user1_id":     c.User1ID,
			"user2_id":     c.User2ID,
			"connected_at": c.ConnectedAt.Format(time.RFC3339),
			"user":         formatProfile(c.Counterpart),
		})
	}
	return out
}
