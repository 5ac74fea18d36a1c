package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Session struct {
	ID          string          `db:"id" json:"id"`
	ExpertID    string          `db:"expert_id" json:"expertId"`
	ClientID    string          `db:"client_id" json:"clientId"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	Duration    int             `db:"duration" json:"duration"`
	Price       decimal.Decimal `db:"price" json:"price"`
	ScheduledAt time.Time       `db:"scheduled_at" json:"scheduledAt"`
	Status      SessionStatus   `db:"status" json:"status"`
	MeetingLink string          `db:"meeting_link" json:"meetingLink"`
	Notes       *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

// IsParty reports whether userID is the expert or the client of the session.
func (s *Session) IsParty(userID string) bool {
	return userID != "" && (s.ExpertID == userID || s.ClientID == userID)
}

// SessionDetail is a session joined with both parties' public profiles.
type SessionDetail struct {
	Session
	Expert UserProfile `db:"expert"`
	Client UserProfile `db:"client"`
}

type CreateSessionParams struct {
	ID          string
	ExpertID    string
	ClientID    string
	Title       string
	Description string
	Duration    int
	Price       decimal.Decimal
	ScheduledAt time.Time
	MeetingLink string
}

type SessionFilter struct {
	UserID string
	Role   SessionRole
	Status *SessionStatus
	Limit  int
	Offset int
}
