package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"anoa.com/tradeaid/internal/password"
	"anoa.com/tradeaid/internal/service"
	"anoa.com/tradeaid/internal/token"
	"anoa.com/tradeaid/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(repo *mockUserRepo) (service.AuthService, *token.Issuer) {
	hasher := password.NewHasher(4)
	issuer := token.NewIssuer("test-secret", time.Hour)
	return service.NewAuthService(repo, hasher, issuer, nil, nil, 0), issuer
}

func registerInput() service.RegisterInput {
	return service.RegisterInput{
		Email:    "a@x.com",
		Password: "pass1",
		FullName: "Ada Example",
	}
}

func TestRegisterIssuesTokenAndHashesPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc, issuer := newAuthService(repo)

	res, err := svc.Register(context.Background(), registerInput(), nil)
	require.NoError(t, err)
	require.NotNil(t, res.User)

	assert.NotZero(t, res.User.ID)
	assert.False(t, res.User.ProfileCompleted)
	assert.NotEqual(t, "pass1", res.User.PasswordHash)

	claims, err := issuer.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := newMockUserRepo()
	svc, _ := newAuthService(repo)

	_, err := svc.Register(context.Background(), registerInput(), nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerInput(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, http.StatusConflict, apperror.MapErrorToStatus(err))
	assert.Len(t, repo.users, 1, "no second record may be created")
}

func TestRegisterRemapsStorageDuplicateToConflict(t *testing.T) {
	// A concurrent insert between pre-check and create surfaces as a
	// duplicated-key error from storage; callers still see a conflict.
	repo := newMockUserRepo()
	repo.createErr = gorm.ErrDuplicatedKey
	svc, _ := newAuthService(repo)

	_, err := svc.Register(context.Background(), registerInput(), nil)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, http.StatusConflict, apperror.MapErrorToStatus(err))
}

func TestRegisterStripsHTMLFromProfileFields(t *testing.T) {
	repo := newMockUserRepo()
	svc, _ := newAuthService(repo)

	input := registerInput()
	input.FullName = "<script>alert(1)</script>Ada"
	addr := "<b>Street 1</b>"
	input.Address = &addr

	res, err := svc.Register(context.Background(), input, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ada", res.User.FullName)
	require.NotNil(t, res.User.Address)
	assert.Equal(t, "Street 1", *res.User.Address)
}

func TestLoginScenario(t *testing.T) {
	repo := newMockUserRepo()
	svc, issuer := newAuthService(repo)

	_, err := svc.Register(context.Background(), registerInput(), nil)
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), service.LoginInput{Email: "a@x.com", Password: "pass1"})
	require.NoError(t, err)
	claims, err := issuer.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)

	_, err = svc.Login(context.Background(), service.LoginInput{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	// Unknown email must be indistinguishable from a wrong password.
	_, unknownErr := svc.Login(context.Background(), service.LoginInput{Email: "b@x.com", Password: "pass1"})
	assert.ErrorIs(t, unknownErr, apperror.ErrUnauthorized)
	assert.Equal(t, err.Error(), unknownErr.Error())
}
