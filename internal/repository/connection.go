package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/growthyari/growthyari-server/internal/model"
)

type ConnectionRepository interface {
	// Create inserts the connection unless the unordered pair is already
	// connected, in which case the existing row is returned.
	Create(ctx context.Context, params model.CreateConnectionParams) (*model.Connection, error)
	FindBetween(ctx context.Context, userA, userB string) (*model.Connection, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.ConnectionDetail, error)
	WithTx(tx *sqlx.Tx) ConnectionRepository
}

type connectionRepo struct {
	db sqlxDB
}

func NewConnectionRepository(db *sqlx.DB) ConnectionRepository {
	return &connectionRepo{db: db}
}

func (r *connectionRepo) WithTx(tx *sqlx.Tx) ConnectionRepository {
	return &connectionRepo{db: tx}
}

func (r *connectionRepo) Create(ctx context.Context, params model.CreateConnectionParams) (*model.Connection, error) {
	var conn model.Connection
	err := r.db.GetContext(ctx, &conn, `
		INSERT INTO connections (user1_id, user2_id, connected_at)
		VALUES ($1, $2, $3)
		ON CONFLICT ((LEAST(user1_id, user2_id)), (GREATEST(user1_id, user2_id))) DO NOTHING
		RETURNING *
	`, params.User1ID, params.User2ID, params.ConnectedAt)
	created, err := HandleNotFound(&conn, err)
	if err != nil {
		return nil, err
	}
	if created != nil {
		return created, nil
	}
	return r.FindBetween(ctx, params.User1ID, params.User2ID)
}

func (r *connectionRepo) FindBetween(ctx context.Context, userA, userB string) (*model.Connection, error) {
	var conn model.Connection
	err := r.db.GetContext(ctx, &conn, `
		SELECT * FROM connections
		WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)
	`, userA, userB)
	return HandleNotFound(&conn, err)
}

var connectionListQuery = `
	SELECT c.*, ` + profileColumns("u", "counterpart") + `
	FROM connections c
	JOIN users u ON u.id = CASE WHEN c.user1_id = $1 THEN c.user2_id ELSE c.user1_id END
	WHERE c.user1_id = $1 OR c.user2_id = $1
	ORDER BY c.connected_at DESC
	LIMIT $2 OFFSET $3
`

func (r *connectionRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.ConnectionDetail, error) {
	connections := []model.ConnectionDetail{}
	err := r.db.SelectContext(ctx, &connections, connectionListQuery, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return connections, nil
}
