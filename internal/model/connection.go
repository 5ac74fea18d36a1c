package model

import "time"

type ConnectionRequest struct {
	ID          string                  `db:"id" json:"id"`
	SenderID    string                  `db:"sender_id" json:"senderId"`
	ReceiverID  string                  `db:"receiver_id" json:"receiverId"`
	Message     *string                 `db:"message" json:"message,omitempty"`
	Status      ConnectionRequestStatus `db:"status" json:"status"`
	CreatedAt   time.Time               `db:"created_at" json:"createdAt"`
	RespondedAt *time.Time              `db:"responded_at" json:"respondedAt,omitempty"`
}

// ConnectionRequestDetail carries the profile of the user on the other side
// of the request from the caller's point of view.
type ConnectionRequestDetail struct {
	ConnectionRequest
	Counterpart UserProfile `db:"counterpart"`
}

type CreateConnectionRequestParams struct {
	SenderID   string
	ReceiverID string
	Message    *string
}

type Connection struct {
	ID          string    `db:"id" json:"id"`
	User1ID     string    `db:"user1_id" json:"user1Id"`
	User2ID     string    `db:"user2_id" json:"user2Id"`
	ConnectedAt time.Time `db:"connected_at" json:"connectedAt"`
}

// ConnectionDetail is a connection joined with the other party's profile.
type ConnectionDetail struct {
	Connection
	Counterpart UserProfile `db:"counterpart"`
}

type CreateConnectionParams struct {
	User1ID     string
	User2ID     string
	ConnectedAt time.Time
}
