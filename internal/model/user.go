package model

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Email       string         `db:"email" json:"-"`
	Avatar      *string        `db:"avatar" json:"avatar,omitempty"`
	Bio         *string        `db:"bio" json:"bio,omitempty"`
	Profession  *string        `db:"profession" json:"profession,omitempty"`
	Expertise   pq.StringArray `db:"expertise" json:"expertise"`
	Rating      float64        `db:"rating" json:"rating"`
	ReviewCount int            `db:"review_count" json:"reviewCount"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// UserProfile is the public slice of a user joined onto sessions,
// requests and connections.
type UserProfile struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Avatar      *string        `db:"avatar" json:"avatar,omitempty"`
	Profession  *string        `db:"profession" json:"profession,omitempty"`
	Bio         *string        `db:"bio" json:"bio,omitempty"`
	Expertise   pq.StringArray `db:"expertise" json:"expertise"`
	Rating      float64        `db:"rating" json:"rating"`
	ReviewCount int            `db:"review_count" json:"reviewCount"`
}
