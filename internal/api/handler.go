package api

import (
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"contacts-service/internal/apperr"
	"contacts-service/internal/service"
)

type AuthHandler struct {
	authService  service.AuthService
	verification service.VerificationService
	validate     *validator.Validate
	tempDir      string
}

func NewAuthHandler(authService service.AuthService, verification service.VerificationService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		verification: verification,
		validate:     validator.New(),
		tempDir:      os.TempDir(),
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,min=2"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResendVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SubscriptionRequest struct {
	Subscription string `json:"subscription" validate:"required,oneof=starter pro business"`
}

type ProfileResponse struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var request RegisterRequest

	if err := c.BodyParser(&request); err != nil {
		return apperr.BadRequest("Cannot parse JSON")
	}

	if err := h.validate.Struct(&request); err != nil {
		return apperr.BadRequest(err.Error())
	}

	user, err := h.authService.Register(c.UserContext(), request.Email, request.Password, request.Name)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(ProfileResponse{
		Email:        user.Email,
		Subscription: user.Subscription,
	})
}

func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	code := c.Params("code")

	if err := h.verification.Verify(c.UserContext(), code); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Verification successful"})
}

func (h *AuthHandler) ResendVerify(c *fiber.Ctx) error {
	var request ResendVerifyRequest

	if err := c.BodyParser(&request); err != nil {
		return apperr.BadRequest("Cannot parse JSON")
	}

	if err := h.validate.Struct(&request); err != nil {
		return apperr.BadRequest("missing required field email")
	}

	if err := h.verification.Resend(c.UserContext(), request.Email); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Verification email send success"})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var request LoginRequest

	if err := c.BodyParser(&request); err != nil {
		return apperr.BadRequest("Cannot parse JSON")
	}

	if err := h.validate.Struct(&request); err != nil {
		return apperr.BadRequest(err.Error())
	}

	token, user, err := h.authService.Login(c.UserContext(), request.Email, request.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": ProfileResponse{
			Email:        user.Email,
			Subscription: user.Subscription,
		},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return apperr.Unauthorized("Not authorized")
	}

	if err := h.authService.Logout(c.UserContext(), user.ID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Logout success"})
}

func (h *AuthHandler) GetCurrent(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return apperr.Unauthorized("Not authorized")
	}

	return c.JSON(fiber.Map{
		"email": user.Email,
		"name":  user.Name,
	})
}

func (h *AuthHandler) UpdateSubscription(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return apperr.Unauthorized("Not authorized")
	}

	var request SubscriptionRequest

	if err := c.BodyParser(&request); err != nil {
		return apperr.BadRequest("Cannot parse JSON")
	}

	if err := h.validate.Struct(&request); err != nil {
		return apperr.BadRequest(err.Error())
	}

	updated, err := h.authService.ChangeSubscription(c.UserContext(), user.ID, request.Subscription)
	if err != nil {
		return err
	}

	return c.JSON(ProfileResponse{
		Email:        updated.Email,
		Subscription: updated.Subscription,
	})
}

func (h *AuthHandler) UpdateAvatar(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return apperr.Unauthorized("Not authorized")
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return apperr.BadRequest("missing file avatar")
	}

	tempPath := filepath.Join(h.tempDir, uuid.NewString()+"_"+filepath.Base(file.Filename))
	if err := c.SaveFile(file, tempPath); err != nil {
		return apperr.Internal("Failed to save upload")
	}

	avatarURL, err := h.authService.UpdateAvatar(c.UserContext(), user.ID, tempPath, filepath.Base(file.Filename))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"avatarURL": avatarURL})
}
