package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/growthyari/growthyari-server/internal/model"
)

type ConnectionRequestRepository interface {
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id string) (*model.ConnectionRequest, error)
	// FindPendingBetween returns a pending request between the two users in
	// either direction.
	FindPendingBetween(ctx context.Context, userA, userB string) (*model.ConnectionRequest, error)
	Create(ctx context.Context, params model.CreateConnectionRequestParams) (*model.ConnectionRequest, error)
	// Resolve answers a pending request. It returns nil when the request is
	// no longer pending.
	Resolve(ctx context.Context, id string, status model.ConnectionRequestStatus, respondedAt time.Time) (*model.ConnectionRequest, error)
	ListByUser(ctx context.Context, userID string, direction model.RequestDirection, limit, offset int) ([]model.ConnectionRequestDetail, error)
	DeleteDeclinedBefore(ctx context.Context, before time.Time) (int64, error)
	WithTx(tx *sqlx.Tx) ConnectionRequestRepository
}

type connectionRequestRepo struct {
	db sqlxDB
}

func NewConnectionRequestRepository(db *sqlx.DB) ConnectionRequestRepository {
	return &connectionRequestRepo{db: db}
}

func (r *connectionRequestRepo) WithTx(tx *sqlx.Tx) ConnectionRequestRepository {
	return &connectionRequestRepo{db: tx}
}

func (r *connectionRequestRepo) FindByIDForUpdate(ctx context.Context, id string) (*model.ConnectionRequest, error) {
	var req model.ConnectionRequest
	err := r.db.GetContext(ctx, &req, `
		SELECT * FROM connection_requests WHERE id = $1 FOR UPDATE
	`, id)
	return HandleNotFound(&req, err)
}

func (r *connectionRequestRepo) FindPendingBetween(ctx context.Context, userA, userB string) (*model.ConnectionRequest, error) {
	var req model.ConnectionRequest
	err := r.db.GetContext(ctx, &req, `
		SELECT * FROM connection_requests
		WHERE status = 'pending'
		  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		LIMIT 1
	`, userA, userB)
	return HandleNotFound(&req, err)
}

func (r *connectionRequestRepo) Create(ctx context.Context, params model.CreateConnectionRequestParams) (*model.ConnectionRequest, error) {
	var req model.ConnectionRequest
	err := r.db.GetContext(ctx, &req, `
		INSERT INTO connection_requests (sender_id, receiver_id, message, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING *
	`, params.SenderID, params.ReceiverID, params.Message)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *connectionRequestRepo) Resolve(ctx context.Context, id string, status model.ConnectionRequestStatus, respondedAt time.Time) (*model.ConnectionRequest, error) {
	var req model.ConnectionRequest
	err := r.db.GetContext(ctx, &req, `
		UPDATE connection_requests SET
			status = $2,
			responded_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING *
	`, id, status, respondedAt)
	return HandleNotFound(&req, err)
}

var (
	requestListSent = `
		SELECT r.*, ` + profileColumns("u", "counterpart") + `
		FROM connection_requests r
		JOIN users u ON u.id = r.receiver_id
		WHERE r.sender_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`
	requestListReceived = `
		SELECT r.*, ` + profileColumns("u", "counterpart") + `
		FROM connection_requests r
		JOIN users u ON u.id = r.sender_id
		WHERE r.receiver_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`
)

func (r *connectionRequestRepo) ListByUser(ctx context.Context, userID string, direction model.RequestDirection, limit, offset int) ([]model.ConnectionRequestDetail, error) {
	var query string
	switch direction {
	case model.RequestDirectionSent:
		query = requestListSent
	case model.RequestDirectionReceived:
		query = requestListReceived
	default:
		return nil, fmt.Errorf("unknown request direction %q", direction)
	}

	requests := []model.ConnectionRequestDetail{}
	err := r.db.SelectContext(ctx, &requests, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *connectionRequestRepo) DeleteDeclinedBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM connection_requests
		WHERE status = 'declined' AND responded_at < $1
	`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
