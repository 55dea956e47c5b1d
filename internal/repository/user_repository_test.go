package repository_test

import (
	"context"
	"database/sql"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"contacts-service/internal/apperr"
	"contacts-service/internal/model"
	repo "contacts-service/internal/repository"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestPostgresUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, password_hash, name, subscription, verification_code, avatar_url) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`)).
		WithArgs("a@b.com", "hash", "Name", "starter", "code", "https://www.gravatar.com/avatar/x").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))

	nid, err := r.Create(context.Background(), &model.User{
		Email:            "a@b.com",
		PasswordHash:     "hash",
		Name:             "Name",
		Subscription:     "starter",
		VerificationCode: "code",
		AvatarURL:        "https://www.gravatar.com/avatar/x",
	})
	require.NoError(t, err)
	require.Equal(t, id, nid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := r.Create(context.Background(), &model.User{Email: "a@b.com"})
	require.Error(t, err)
	require.Equal(t, http.StatusConflict, apperr.StatusCode(err))
	require.EqualError(t, err, "Email already in use")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByEmail_Success(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "verified"}).
		AddRow(id, "a@b.com", "hash", true)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("a@b.com").WillReturnRows(rows)

	u, err := r.FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", u.Email)
	require.True(t, u.Verified)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByVerificationCode_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE verification_code = \$1 AND verification_code <> ''`).
		WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := r.FindByVerificationCode(context.Background(), "missing")
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apperr.StatusCode(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByVerificationCode_ExcludesClearedCodes(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	// Verified users keep an empty code; the query must not match them.
	mock.ExpectQuery(`SELECT .+ FROM users WHERE verification_code = \$1 AND verification_code <> ''`).
		WithArgs("").WillReturnError(sql.ErrNoRows)

	_, err := r.FindByVerificationCode(context.Background(), "")
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apperr.StatusCode(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_UpdateToken(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET token = $1, updated_at = now() WHERE id = $2`)).
		WithArgs("", id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.UpdateToken(context.Background(), id, ""))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_SetVerified_ClearsCode(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET verified = TRUE, verification_code = '', updated_at = now() WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.SetVerified(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_UpdateSubscription_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := repo.NewPostgresUserRepository(db)

	mock.ExpectQuery(`UPDATE users SET subscription = \$1`).
		WithArgs("pro", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := r.UpdateSubscription(context.Background(), uuid.New(), "pro")
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apperr.StatusCode(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
