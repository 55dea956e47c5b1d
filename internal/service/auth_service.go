package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"contacts-service/internal/apperr"
	"contacts-service/internal/avatar"
	"contacts-service/internal/events"
	"contacts-service/internal/jwt"
	"contacts-service/internal/model"
	"contacts-service/internal/password"
	"contacts-service/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, email, pass, name string) (*model.User, error)
	Login(ctx context.Context, email, pass string) (string, *model.User, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ChangeSubscription(ctx context.Context, userID uuid.UUID, subscription string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, tempPath, originalName string) (string, error)
}

type authService struct {
	userRepo     repository.UserRepository
	hasher       password.Hasher
	tokens       *jwt.Issuer
	verification VerificationService
	avatars      *avatar.Processor
	events       events.EventPublisher
}

func NewAuthService(
	userRepo repository.UserRepository,
	hasher password.Hasher,
	tokens *jwt.Issuer,
	verification VerificationService,
	avatars *avatar.Processor,
	publisher events.EventPublisher,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		hasher:       hasher,
		tokens:       tokens,
		verification: verification,
		avatars:      avatars,
		events:       publisher,
	}
}

func (s *authService) Register(ctx context.Context, email, pass, name string) (*model.User, error) {
	email = strings.ToLower(email)

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("Email already in use")
	} else if apperr.StatusCode(err) != http.StatusNotFound {
		return nil, err
	}

	hashed, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:            email,
		PasswordHash:     hashed,
		Name:             name,
		Subscription:     "starter",
		VerificationCode: s.verification.NewCode(),
		AvatarURL:        gravatarURL(email),
	}

	// The unique index still backstops a concurrent registration; the
	// repository maps that violation to the same Conflict.
	newID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = newID

	if err := s.verification.Dispatch(ctx, user.Email, user.VerificationCode); err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.PublishUserRegistered(user.ID, user.Email); err != nil {
			slog.Warn("Failed to publish user.registered", "error", err)
		}
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, pass string) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", nil, apperr.Unauthorized("Email or password is wrong")
	}

	if !user.Verified {
		return "", nil, apperr.Unauthorized("Email not verified")
	}

	if !s.hasher.Compare(user.PasswordHash, pass) {
		return "", nil, apperr.Unauthorized("Email or password is wrong")
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return "", nil, err
	}

	// Concurrent logins race here; last write wins and the earlier
	// session token becomes stale.
	if err := s.userRepo.UpdateToken(ctx, user.ID, token); err != nil {
		return "", nil, err
	}

	user.Token = token

	return token, user, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.UpdateToken(ctx, userID, "")
}

func (s *authService) ChangeSubscription(ctx context.Context, userID uuid.UUID, subscription string) (*model.User, error) {
	if !model.ValidSubscription(subscription) {
		return nil, apperr.BadRequest("Invalid subscription")
	}

	return s.userRepo.UpdateSubscription(ctx, userID, subscription)
}

func (s *authService) UpdateAvatar(ctx context.Context, userID uuid.UUID, tempPath, originalName string) (string, error) {
	avatarURL, err := s.avatars.Process(ctx, tempPath, userID, originalName)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, avatarURL); err != nil {
		return "", err
	}

	return avatarURL, nil
}

// gravatarURL is the default avatar assigned at registration, before the user
// uploads one.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(strings.ToLower(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:])
}
