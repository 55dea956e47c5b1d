package service

import (
	"context"

	"github.com/google/uuid"

	"contacts-service/internal/apperr"
	"contacts-service/internal/model"
	"contacts-service/internal/repository"
)

type ContactService interface {
	List(ctx context.Context, owner uuid.UUID, page, limit int) ([]model.Contact, error)
	GetByID(ctx context.Context, id, owner uuid.UUID) (*model.Contact, error)
	Add(ctx context.Context, contact *model.Contact) (*model.Contact, error)
	Update(ctx context.Context, id, owner uuid.UUID, patch repository.ContactPatch) (*model.Contact, error)
	UpdateFavorite(ctx context.Context, id, owner uuid.UUID, favorite bool) (*model.Contact, error)
	Delete(ctx context.Context, id, owner uuid.UUID) error
}

type contactService struct {
	contactRepo repository.ContactRepository
}

func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

func (s *contactService) List(ctx context.Context, owner uuid.UUID, page, limit int) ([]model.Contact, error) {
	if page < 1 || limit < 1 {
		return nil, apperr.BadRequest("Invalid pagination parameters")
	}

	offset := (page - 1) * limit

	return s.contactRepo.ListByOwner(ctx, owner, limit, offset)
}

func (s *contactService) GetByID(ctx context.Context, id, owner uuid.UUID) (*model.Contact, error) {
	return s.contactRepo.FindByID(ctx, id, owner)
}

func (s *contactService) Add(ctx context.Context, contact *model.Contact) (*model.Contact, error) {
	newID, err := s.contactRepo.Create(ctx, contact)
	if err != nil {
		return nil, err
	}
	contact.ID = newID

	return contact, nil
}

func (s *contactService) Update(ctx context.Context, id, owner uuid.UUID, patch repository.ContactPatch) (*model.Contact, error) {
	return s.contactRepo.Update(ctx, id, owner, patch)
}

func (s *contactService) UpdateFavorite(ctx context.Context, id, owner uuid.UUID, favorite bool) (*model.Contact, error) {
	return s.contactRepo.Update(ctx, id, owner, repository.ContactPatch{Favorite: &favorite})
}

func (s *contactService) Delete(ctx context.Context, id, owner uuid.UUID) error {
	return s.contactRepo.Delete(ctx, id, owner)
}
