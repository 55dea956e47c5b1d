package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"contacts-service/internal/apperr"
	"contacts-service/internal/model"
	"contacts-service/internal/repository"
	"contacts-service/internal/service"
)

type ContactHandler struct {
	contactService service.ContactService
	validate       *validator.Validate
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		validate:       validator.New(),
	}
}

type CreateContactRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Favorite bool   `json:"favorite"`
}

type UpdateContactRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Favorite *bool   `json:"favorite"`
}

// FavoriteRequest uses a pointer so an absent field is distinguishable from
// `false` and rejected before any write.
type FavoriteRequest struct {
	Favorite *bool `json:"favorite"`
}

func (h *ContactHandler) List(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return apperr.Unauthorized("Not authorized")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	contacts, err := h.contactService.List(c.UserContext(), user.ID, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(contacts)
}

func (h *ContactHandler) GetByID(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return apperr.Unauthorized("Not authorized")
	}

	contactID, err := parseContactID(c)
	if err != nil {
		return err
	}

	contact, err := h.contactService.GetByID(c.UserContext(), contactID, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(contact)
}

func (h *ContactHandler) Add(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return apperr.Unauthorized("Not authorized")
	}

	var request CreateContactRequest

	if err := c.BodyParser(&request); err != nil {
		return apperr.BadRequest("Cannot parse JSON")
	}

	if err := h.validate.Struct(&request); err != nil {
		return apperr.BadRequest(err.Error())
	}

	contact := &model.Contact{
		Name:     request.Name,
		Email:    request.Email,
		Phone:    request.Phone,
		Favorite: request.Favorite,
		Owner:    user.ID,
	}

	created, err := h.contactService.Add(c.UserContext(), contact)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ContactHandler) Update(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return apperr.Unauthorized("Not authorized")
	}

	contactID, err := parseContactID(c)
	if err != nil {
		return err
	}

	var request UpdateContactRequest

	if err := c.BodyParser(&request); err != nil {
		return apperr.BadRequest("Cannot parse JSON")
	}

	if err := h.validate.Struct(&request); err != nil {
		return apperr.BadRequest(err.Error())
	}

	patch := repository.ContactPatch{
		Name:     request.Name,
		Email:    request.Email,
		Phone:    request.Phone,
		Favorite: request.Favorite,
	}

	updated, err := h.contactService.Update(c.UserContext(), contactID, user.ID, patch)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (h *ContactHandler) UpdateFavorite(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return apperr.Unauthorized("Not authorized")
	}

	contactID, err := parseContactID(c)
	if err != nil {
		return err
	}

	var request FavoriteRequest

	if err := c.BodyParser(&request); err != nil {
		return apperr.BadRequest("Cannot parse JSON")
	}

	if request.Favorite == nil {
		return apperr.BadRequest("missing field favorite")
	}

	updated, err := h.contactService.UpdateFavorite(c.UserContext(), contactID, user.ID, *request.Favorite)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	user, err := CurrentUser(c)
	if err != nil {
		return apperr.Unauthorized("Not authorized")
	}

	contactID, err := parseContactID(c)
	if err != nil {
		return err
	}

	if err := h.contactService.Delete(c.UserContext(), contactID, user.ID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Delete success"})
}

func parseContactID(c *fiber.Ctx) (uuid.UUID, error) {
	contactID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound("Not found")
	}

	return contactID, nil
}
