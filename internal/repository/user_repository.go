package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"contacts-service/internal/model"
)

const userColumns = `id, email, password_hash, name, subscription, verified, verification_code, token, avatar_url, created_at, updated_at`

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (uuid.UUID, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByVerificationCode(ctx context.Context, code string) (*model.User, error)
	UpdateToken(ctx context.Context, id uuid.UUID, token string) error
	SetVerified(ctx context.Context, id uuid.UUID) error
	UpdateSubscription(ctx context.Context, id uuid.UUID, subscription string) (*model.User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error
}

type postgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *model.User) (uuid.UUID, error) {
	query := `INSERT INTO users (email, password_hash, name, subscription, verification_code, avatar_url) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var newID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query,
		user.Email, user.PasswordHash, user.Name, user.Subscription, user.VerificationCode, user.AvatarURL,
	).Scan(&newID)

	if err != nil {
		return uuid.Nil, mapWriteError(err, "Email already in use")
	}

	return newID, nil
}

func (r *postgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, mapReadError(err, "User not found")
	}

	return &user, nil
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, mapReadError(err, "User not found")
	}

	return &user, nil
}

// FindByVerificationCode never matches verified users: their code has been
// cleared to '', and an empty lookup must not alias onto them.
func (r *postgresUserRepository) FindByVerificationCode(ctx context.Context, code string) (*model.User, error) {
	var user model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_code = $1 AND verification_code <> ''`
	if err := r.db.GetContext(ctx, &user, query, code); err != nil {
		return nil, mapReadError(err, "User not found")
	}

	return &user, nil
}

func (r *postgresUserRepository) UpdateToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `UPDATE users SET token = $1, updated_at = now() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, token, id)
	if err != nil {
		return err
	}

	return checkAffected(res, "User not found")
}

func (r *postgresUserRepository) SetVerified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET verified = TRUE, verification_code = '', updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return checkAffected(res, "User not found")
}

func (r *postgresUserRepository) UpdateSubscription(ctx context.Context, id uuid.UUID, subscription string) (*model.User, error) {
	var user model.User
	query := `UPDATE users SET subscription = $1, updated_at = now() WHERE id = $2 RETURNING ` + userColumns
	if err := r.db.GetContext(ctx, &user, query, subscription, id); err != nil {
		return nil, mapReadError(err, "Not Found")
	}

	return &user, nil
}

func (r *postgresUserRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error {
	query := `UPDATE users SET avatar_url = $1, updated_at = now() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, avatarURL, id)
	if err != nil {
		return err
	}

	return checkAffected(res, "User not found")
}
