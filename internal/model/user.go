package model

import (
	"time"

	"github.com/google/uuid"
)

var Subscriptions = []string{"starter", "pro", "business"}

type User struct {
	ID               uuid.UUID `db:"id"`
	Email            string    `db:"email"`
	PasswordHash     string    `db:"password_hash"`
	Name             string    `db:"name"`
	Subscription     string    `db:"subscription"`
	Verified         bool      `db:"verified"`
	VerificationCode string    `db:"verification_code"`
	Token            string    `db:"token"`
	AvatarURL        string    `db:"avatar_url"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func ValidSubscription(s string) bool {
	for _, v := range Subscriptions {
		if v == s {
			return true
		}
	}
	return false
}
