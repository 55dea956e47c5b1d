package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"contacts-service/internal/apperr"
	"contacts-service/internal/events"
	"contacts-service/internal/mail"
	"contacts-service/internal/model"
	"contacts-service/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository with the same error mapping
// as the postgres implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return uuid.Nil, apperr.Conflict("Email already in use")
		}
	}

	u := *user
	u.ID = uuid.New()
	r.users[u.ID] = &u

	return u.ID, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}

	return nil, apperr.NotFound("User not found")
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	copied := *u

	return &copied, nil
}

func (r *fakeUserRepo) FindByVerificationCode(_ context.Context, code string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if code != "" {
		for _, u := range r.users {
			if u.VerificationCode == code {
				copied := *u
				return &copied, nil
			}
		}
	}

	return nil, apperr.NotFound("User not found")
}

func (r *fakeUserRepo) UpdateToken(_ context.Context, id uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return apperr.NotFound("User not found")
	}
	u.Token = token

	return nil
}

func (r *fakeUserRepo) SetVerified(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return apperr.NotFound("User not found")
	}
	u.Verified = true
	u.VerificationCode = ""

	return nil
}

func (r *fakeUserRepo) UpdateSubscription(_ context.Context, id uuid.UUID, subscription string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperr.NotFound("Not Found")
	}
	u.Subscription = subscription
	copied := *u

	return &copied, nil
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, id uuid.UUID, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return apperr.NotFound("User not found")
	}
	u.AvatarURL = avatarURL

	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// fakeSender records outbound mail.
type fakeSender struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (s *fakeSender) Send(_ context.Context, msg *mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, *msg)

	return nil
}

func (s *fakeSender) sent() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]mail.Message(nil), s.messages...)
}

var _ mail.Sender = (*fakeSender)(nil)

// fakePublisher records lifecycle events.
type fakePublisher struct {
	mu         sync.Mutex
	registered []string
	verified   []string
}

func (p *fakePublisher) PublishUserRegistered(_ uuid.UUID, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, email)

	return nil
}

func (p *fakePublisher) PublishUserVerified(_ uuid.UUID, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verified = append(p.verified, email)

	return nil
}

var _ events.EventPublisher = (*fakePublisher)(nil)
