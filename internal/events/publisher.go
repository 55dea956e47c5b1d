package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

type EventPublisher interface {
	PublishUserRegistered(userID uuid.UUID, email string) error
	PublishUserVerified(userID uuid.UUID, email string) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type UserRegisteredEvent struct {
	EventType    string    `json:"event_type"`
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

type UserVerifiedEvent struct {
	EventType  string    `json:"event_type"`
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	VerifiedAt time.Time `json:"verified_at"`
}

func (p *NatsPublisher) PublishUserRegistered(userID uuid.UUID, email string) error {
	event := UserRegisteredEvent{
		EventType:    "user.registered",
		UserID:       userID,
		Email:        email,
		RegisteredAt: time.Now(),
	}

	return p.publish("user.registered", event)
}

func (p *NatsPublisher) PublishUserVerified(userID uuid.UUID, email string) error {
	event := UserVerifiedEvent{
		EventType:  "user.verified",
		UserID:     userID,
		Email:      email,
		VerifiedAt: time.Now(),
	}

	return p.publish("user.verified", event)
}

func (p *NatsPublisher) publish(subject string, event any) error {
	eventJSON, err := json.Marshal(event)

	if err != nil {
		slog.Error("Error marshalling event JSON", "subject", subject, "error", err)
		return err
	}

	err = p.conn.Publish(subject, eventJSON)

	if err != nil {
		slog.Error("Error publishing to NATS", "subject", subject, "error", err)
		return err
	}

	return nil
}
