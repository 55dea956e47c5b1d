package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"contacts-service/internal/apperr"
	"contacts-service/internal/events"
	"contacts-service/internal/mail"
	"contacts-service/internal/repository"
)

type VerificationService interface {
	NewCode() string
	Dispatch(ctx context.Context, email, code string) error
	Verify(ctx context.Context, code string) error
	Resend(ctx context.Context, email string) error
}

type verificationService struct {
	userRepo repository.UserRepository
	sender   mail.Sender
	baseURL  string
	events   events.EventPublisher

	// newCode is injectable so the code scheme is swappable.
	newCode func() string
}

func NewVerificationService(userRepo repository.UserRepository, sender mail.Sender, baseURL string, publisher events.EventPublisher) VerificationService {
	return &verificationService{
		userRepo: userRepo,
		sender:   sender,
		baseURL:  baseURL,
		events:   publisher,
		newCode:  uuid.NewString,
	}
}

func (s *verificationService) NewCode() string {
	return s.newCode()
}

func (s *verificationService) Dispatch(ctx context.Context, email, code string) error {
	msg := &mail.Message{
		To:      email,
		Subject: "Verify email",
		HTML:    fmt.Sprintf(`<a target="_blank" href="%s/api/auth/verify/%s">Click here to verify email</a>`, s.baseURL, code),
	}

	return s.sender.Send(ctx, msg)
}

// Verify is a terminal transition: the code is cleared, so a replay no longer
// matches any user and fails with NotFound.
func (s *verificationService) Verify(ctx context.Context, code string) error {
	user, err := s.userRepo.FindByVerificationCode(ctx, code)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetVerified(ctx, user.ID); err != nil {
		return err
	}

	if s.events != nil {
		if err := s.events.PublishUserVerified(user.ID, user.Email); err != nil {
			slog.Warn("Failed to publish user.verified", "error", err)
		}
	}

	return nil
}

// Resend redelivers the existing code unchanged.
func (s *verificationService) Resend(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}

	if user.Verified {
		return apperr.BadRequest("Verification has already been passed")
	}

	return s.Dispatch(ctx, user.Email, user.VerificationCode)
}
