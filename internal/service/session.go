package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	apperrors "github.com/growthyari/growthyari-server/internal/errors"
	"github.com/growthyari/growthyari-server/internal/model"
	"github.com/growthyari/growthyari-server/internal/repository"
	"github.com/growthyari/growthyari-server/internal/util"
)

const (
	meetingLinkIDLength      = 8
	maxStatusUpdateAttempts  = 3
	validSessionStatusValues = "pending, confirmed, completed, cancelled"
)

type BookSessionInput struct {
	ExpertID    string
	Title       string
	Description string
	Duration    int
	Price       decimal.Decimal
	ScheduledAt time.Time
}

type SessionService struct {
	sessionRepo     repository.SessionRepository
	userRepo        repository.UserRepository
	meetingLinkBase string
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	meetingLinkBase string,
) *SessionService {
	return &SessionService{
		sessionRepo:     sessionRepo,
		userRepo:        userRepo,
		meetingLinkBase: strings.TrimRight(meetingLinkBase, "/"),
	}
}

// Create books a pending session with requesterID as the client.
func (s *SessionService) Create(ctx context.Context, requesterID string, input BookSessionInput) (*model.Session, error) {
	expert, err := s.userRepo.FindByID(ctx, input.ExpertID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if expert == nil {
		return nil, apperrors.NotFound("Expert")
	}
	if expert.ID == requesterID {
		return nil, apperrors.InvalidOperation("Cannot book session with yourself")
	}

	id := uuid.New().String()
	session, err := s.sessionRepo.Create(ctx, model.CreateSessionParams{
		ID:          id,
		ExpertID:    expert.ID,
		ClientID:    requesterID,
		Title:       input.Title,
		Description: input.Description,
		Duration:    input.Duration,
		Price:       input.Price,
		ScheduledAt: input.ScheduledAt,
		MeetingLink: s.meetingLink(id),
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("sessionId", session.ID).
		Str("expertId", session.ExpertID).
		Str("clientId", session.ClientID).
		Time("scheduledAt", session.ScheduledAt).
		Msg("session booked")

	return session, nil
}

// meetingLink is a display link derived from the session id. No meeting room
// is allocated.
func (s *SessionService) meetingLink(sessionID string) string {
	return s.meetingLinkBase + "/" + sessionID[:meetingLinkIDLength]
}

// UpdateStatus moves a session to newStatus on behalf of one of its parties
// and returns it with both parties' profiles. The write is conditional on the
// status that was authorized against; when a concurrent update wins, the
// session is re-read and the rules re-applied.
func (s *SessionService) UpdateStatus(ctx context.Context, sessionID, newStatus, requesterID string) (*model.SessionDetail, error) {
	for attempt := 1; attempt <= maxStatusUpdateAttempts; attempt++ {
		session, err := s.findForParty(ctx, sessionID, requesterID)
		if err != nil {
			return nil, err
		}

		next, ok := model.ParseSessionStatus(newStatus)
		if !ok {
			return nil, apperrors.InvalidInput("status", "must be one of "+validSessionStatusValues)
		}
		if next == model.SessionStatusConfirmed && requesterID != session.ExpertID {
			return nil, apperrors.Forbidden("Only expert can confirm sessions")
		}
		if session.Status.IsTerminal() {
			return nil, apperrors.InvalidState(fmt.Sprintf("Session is already %s", session.Status))
		}

		updated, err := s.sessionRepo.CompareAndSetStatus(ctx, session.ID, session.Status, next)
		if err != nil {
			return nil, apperrors.Database(err)
		}
		if updated != nil {
			log.Info().
				Str("sessionId", updated.ID).
				Str("from", string(session.Status)).
				Str("to", string(updated.Status)).
				Str("by", requesterID).
				Msg("session status updated")
			return s.withProfiles(ctx, updated)
		}

		log.Debug().
			Str("sessionId", sessionID).
			Int("attempt", attempt).
			Msg("session status changed concurrently, re-evaluating")
	}

	return nil, apperrors.Conflict("Session was modified concurrently, please retry")
}

// withProfiles joins the parties' profiles onto a session that was just
// written, keeping the written row as the session part.
func (s *SessionService) withProfiles(ctx context.Context, session *model.Session) (*model.SessionDetail, error) {
	detail, err := s.sessionRepo.FindDetailByID(ctx, session.ID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if detail == nil {
		return nil, apperrors.NotFound("Session")
	}
	detail.Session = *session
	return detail, nil
}

// UpdateNotes overwrites the shared notes. Notes may be edited in any status.
func (s *SessionService) UpdateNotes(ctx context.Context, sessionID, notes, requesterID string) error {
	if !util.IsValidUUID(sessionID) {
		return apperrors.NotFound("Session")
	}

	updated, err := s.sessionRepo.UpdateNotes(ctx, sessionID, requesterID, notes)
	if err != nil {
		return apperrors.Database(err)
	}
	if updated {
		return nil
	}

	// Nothing matched: tell a missing session apart from a non-party.
	_, err = s.findForParty(ctx, sessionID, requesterID)
	if err != nil {
		return err
	}
	return apperrors.Forbidden("Not authorized to update this session")
}

func (s *SessionService) Get(ctx context.Context, sessionID, requesterID string) (*model.SessionDetail, error) {
	if !util.IsValidUUID(sessionID) {
		return nil, apperrors.NotFound("Session")
	}

	detail, err := s.sessionRepo.FindDetailByID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if detail == nil {
		return nil, apperrors.NotFound("Session")
	}
	if !detail.IsParty(requesterID) {
		return nil, apperrors.Forbidden("Not authorized to view this session")
	}
	return detail, nil
}

// ListForUser returns the sessions matching filter, latest scheduled first.
func (s *SessionService) ListForUser(ctx context.Context, filter model.SessionFilter) ([]model.SessionDetail, error) {
	sessions, err := s.sessionRepo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return sessions, nil
}

func (s *SessionService) findForParty(ctx context.Context, sessionID, requesterID string) (*model.Session, error) {
	if !util.IsValidUUID(sessionID) {
		return nil, apperrors.NotFound("Session")
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if session == nil {
		return nil, apperrors.NotFound("Session")
	}
	if !session.IsParty(requesterID) {
		return nil, apperrors.Forbidden("Not authorized to update this session")
	}
	return session, nil
}
