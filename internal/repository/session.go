package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/growthyari/growthyari-server/internal/model"
)

type SessionRepository interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
	FindDetailByID(ctx context.Context, id string) (*model.SessionDetail, error)
	List(ctx context.Context, filter model.SessionFilter) ([]model.SessionDetail, error)
	Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error)
	// CompareAndSetStatus moves the session from expected to next in one
	// statement. It returns nil when the row no longer has the expected status.
	CompareAndSetStatus(ctx context.Context, id string, expected, next model.SessionStatus) (*model.Session, error)
	// UpdateNotes overwrites notes when partyID is the expert or the client.
	// It returns false when no such session exists for that party.
	UpdateNotes(ctx context.Context, id, partyID, notes string) (bool, error)
}

type sessionRepo struct {
	db sqlxDB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepo{db: db}
}

var sessionDetailSelect = `
	SELECT s.*, ` + profileColumns("e", "expert") + `, ` + profileColumns("c", "client") + `
	FROM sessions s
	JOIN users e ON e.id = s.expert_id
	JOIN users c ON c.id = s.client_id
`

// Role predicates are kept as distinct fixed fragments so every role maps to
// one explicit query.
const (
	sessionWhereExpert = `WHERE s.expert_id = $1`
	sessionWhereClient = `WHERE s.client_id = $1`
	sessionWhereAll    = `WHERE (s.expert_id = $1 OR s.client_id = $1)`
)

func (r *sessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM sessions WHERE id = $1
	`, id)
	return HandleNotFound(&session, err)
}

func (r *sessionRepo) FindDetailByID(ctx context.Context, id string) (*model.SessionDetail, error) {
	var detail model.SessionDetail
	err := r.db.GetContext(ctx, &detail, sessionDetailSelect+`WHERE s.id = $1`, id)
	return HandleNotFound(&detail, err)
}

func (r *sessionRepo) List(ctx context.Context, filter model.SessionFilter) ([]model.SessionDetail, error) {
	var where string
	switch filter.Role {
	case model.SessionRoleExpert:
		where = sessionWhereExpert
	case model.SessionRoleClient:
		where = sessionWhereClient
	case model.SessionRoleAll:
		where = sessionWhereAll
	default:
		return nil, fmt.Errorf("unknown session role %q", filter.Role)
	}

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	sessions := []model.SessionDetail{}
	err := r.db.SelectContext(ctx, &sessions, sessionDetailSelect+where+`
		AND ($2::text IS NULL OR s.status = $2)
		ORDER BY s.scheduled_at DESC
		LIMIT $3 OFFSET $4
	`, filter.UserID, status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		INSERT INTO sessions (
			id, expert_id, client_id, title, description, duration, price,
			scheduled_at, status, meeting_link
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', $9)
		RETURNING *
	`, params.ID, params.ExpertID, params.ClientID, params.Title, params.Description,
		params.Duration, params.Price, params.ScheduledAt, params.MeetingLink)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) CompareAndSetStatus(ctx context.Context, id string, expected, next model.SessionStatus) (*model.Session, error) {
	var session model.Session
	err := r.db.GetContext(ctx, &session, `
		UPDATE sessions SET
			status = $3,
			updated_at = $4
		WHERE id = $1 AND status = $2
		RETURNING *
	`, id, expected, next, time.Now())
	return HandleNotFound(&session, err)
}

func (r *sessionRepo) UpdateNotes(ctx context.Context, id, partyID, notes string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET
			notes = $3,
			updated_at = $4
		WHERE id = $1 AND (expert_id = $2 OR client_id = $2)
	`, id, partyID, notes, time.Now())
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
