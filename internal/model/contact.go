package model

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	Email    string    `db:"email" json:"email"`
	Phone    string    `db:"phone" json:"phone"`
	Favorite bool      `db:"favorite" json:"favorite"`
	Owner    uuid.UUID `db:"owner" json:"owner"`

	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
