package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"contacts-service/internal/model"
)

const contactColumns = `id, name, email, phone, favorite, owner, created_at, updated_at`

// ContactPatch carries a partial update; nil fields are left untouched.
type ContactPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Favorite *bool
}

// ContactRepository scopes every single-item operation by owner: a contact
// that exists but belongs to someone else is indistinguishable from a
// missing one.
type ContactRepository interface {
	ListByOwner(ctx context.Context, owner uuid.UUID, limit, offset int) ([]model.Contact, error)
	FindByID(ctx context.Context, id, owner uuid.UUID) (*model.Contact, error)
	Create(ctx context.Context, contact *model.Contact) (uuid.UUID, error)
	Update(ctx context.Context, id, owner uuid.UUID, patch ContactPatch) (*model.Contact, error)
	Delete(ctx context.Context, id, owner uuid.UUID) error
}

type postgresContactRepository struct {
	db *sqlx.DB
}

func NewPostgresContactRepository(db *sqlx.DB) ContactRepository {
	return &postgresContactRepository{db: db}
}

func (r *postgresContactRepository) ListByOwner(ctx context.Context, owner uuid.UUID, limit, offset int) ([]model.Contact, error) {
	contacts := []model.Contact{}
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE owner = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &contacts, query, owner, limit, offset); err != nil {
		return nil, err
	}

	return contacts, nil
}

func (r *postgresContactRepository) FindByID(ctx context.Context, id, owner uuid.UUID) (*model.Contact, error) {
	var contact model.Contact
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND owner = $2`
	if err := r.db.GetContext(ctx, &contact, query, id, owner); err != nil {
		return nil, mapReadError(err, "Not found")
	}

	return &contact, nil
}

func (r *postgresContactRepository) Create(ctx context.Context, contact *model.Contact) (uuid.UUID, error) {
	query := `INSERT INTO contacts (name, email, phone, favorite, owner) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var newID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query,
		contact.Name, contact.Email, contact.Phone, contact.Favorite, contact.Owner,
	).Scan(&newID)

	if err != nil {
		return uuid.Nil, mapWriteError(err, "Contact already exists")
	}

	return newID, nil
}

func (r *postgresContactRepository) Update(ctx context.Context, id, owner uuid.UUID, patch ContactPatch) (*model.Contact, error) {
	var contact model.Contact
	query := `UPDATE contacts SET
		name = COALESCE($1, name),
		email = COALESCE($2, email),
		phone = COALESCE($3, phone),
		favorite = COALESCE($4, favorite),
		updated_at = now()
	WHERE id = $5 AND owner = $6 RETURNING ` + contactColumns
	err := r.db.GetContext(ctx, &contact, query,
		patch.Name, patch.Email, patch.Phone, patch.Favorite, id, owner,
	)
	if err != nil {
		return nil, mapReadError(err, "Not found")
	}

	return &contact, nil
}

func (r *postgresContactRepository) Delete(ctx context.Context, id, owner uuid.UUID) error {
	query := `DELETE FROM contacts WHERE id = $1 AND owner = $2`
	res, err := r.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return err
	}

	return checkAffected(res, "Not found")
}
