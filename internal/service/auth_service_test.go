package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"contacts-service/internal/apperr"
	"contacts-service/internal/jwt"
	"contacts-service/internal/password"
	"contacts-service/internal/service"
)

func newAuthFixture(t *testing.T) (service.AuthService, service.VerificationService, *fakeUserRepo, *fakeSender) {
	t.Helper()

	repo := newFakeUserRepo()
	sender := &fakeSender{}
	verification := service.NewVerificationService(repo, sender, "http://localhost:8001", nil)
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	tokens := jwt.NewIssuer("test-secret", 23*time.Hour)
	auth := service.NewAuthService(repo, hasher, tokens, verification, nil, nil)

	return auth, verification, repo, sender
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", user.Email)
	require.Equal(t, "starter", user.Subscription)

	_, err = auth.Register(ctx, "a@x.com", "password2", "")
	require.Error(t, err)
	require.Equal(t, http.StatusConflict, apperr.StatusCode(err))
}

func TestRegister_LowercasesEmailAndDefaults(t *testing.T) {
	auth, _, repo, sender := newAuthFixture(t)

	user, err := auth.Register(context.Background(), "MiXeD@X.Com", "password1", "Mixed")
	require.NoError(t, err)
	require.Equal(t, "mixed@x.com", user.Email)
	require.False(t, user.Verified)
	require.NotEmpty(t, user.VerificationCode)
	require.Contains(t, user.AvatarURL, "gravatar.com/avatar/")

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotEqual(t, "password1", stored.PasswordHash)

	messages := sender.sent()
	require.Len(t, messages, 1)
	require.Equal(t, "mixed@x.com", messages[0].To)
	require.Contains(t, messages[0].HTML, "/api/auth/verify/"+user.VerificationCode)
}

func TestLogin_UnverifiedIsUnauthorized(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "a@x.com", "password1")
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, apperr.StatusCode(err))
}

func TestLogin_UnknownUserAndWrongPassword(t *testing.T) {
	auth, verification, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := auth.Login(ctx, "ghost@x.com", "whatever1")
	require.Equal(t, http.StatusUnauthorized, apperr.StatusCode(err))

	user, err := auth.Register(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)
	stored, _ := repo.FindByID(ctx, user.ID)
	require.NoError(t, verification.Verify(ctx, stored.VerificationCode))

	_, _, err = auth.Login(ctx, "a@x.com", "wrongpass")
	require.Equal(t, http.StatusUnauthorized, apperr.StatusCode(err))
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	auth, verification, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)

	// unverified => 401 even with the right password
	_, _, err = auth.Login(ctx, "a@x.com", "password1")
	require.Equal(t, http.StatusUnauthorized, apperr.StatusCode(err))

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, verification.Verify(ctx, stored.VerificationCode))

	token, logged, err := auth.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "starter", logged.Subscription)

	// verification code is cleared on the terminal transition
	stored, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, stored.Verified)
	require.Empty(t, stored.VerificationCode)
	require.Equal(t, token, stored.Token)
}

func TestLogout_ClearsStoredToken(t *testing.T) {
	auth, verification, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)
	stored, _ := repo.FindByID(ctx, user.ID)
	require.NoError(t, verification.Verify(ctx, stored.VerificationCode))

	_, _, err = auth.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, user.ID))

	stored, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, stored.Token)
}

func TestChangeSubscription(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)

	updated, err := auth.ChangeSubscription(ctx, user.ID, "pro")
	require.NoError(t, err)
	require.Equal(t, "pro", updated.Subscription)

	_, err = auth.ChangeSubscription(ctx, user.ID, "deluxe")
	require.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))
}
