//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"anoa.com/tradeaid/internal/model"
	"anoa.com/tradeaid/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=trade_aid_user password=trade_aid_password dbname=trade_aid_test sslmode=disable"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to test database: %v\n", err)
		os.Exit(1)
	}

	if err := testDB.AutoMigrate(&model.User{}, &model.Community{}, &model.JoinRequest{}); err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate failed: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func uniqueEmail() string {
	return fmt.Sprintf("user-%d@x.com", time.Now().UnixNano())
}

func TestUserCreateAndFindByEmail(t *testing.T) {
	repo := repository.NewUserRepository(testDB)
	ctx := context.Background()
	email := uniqueEmail()

	user := &model.User{Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	t.Cleanup(func() { testDB.Delete(user) })

	found, err := repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.False(t, found.ProfileCompleted)

	_, err = repo.FindByEmail(ctx, "missing-"+email)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserUniqueEmailConstraint(t *testing.T) {
	repo := repository.NewUserRepository(testDB)
	ctx := context.Background()
	email := uniqueEmail()

	first := &model.User{Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, first))
	t.Cleanup(func() { testDB.Delete(first) })

	err := repo.Create(ctx, &model.User{Email: email, PasswordHash: "hash2"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUpdateProfileCoalesce(t *testing.T) {
	repo := repository.NewUserRepository(testDB)
	ctx := context.Background()
	email := uniqueEmail()

	user := &model.User{Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	t.Cleanup(func() { testDB.Delete(user) })

	updated, err := repo.UpdateProfile(ctx, email, map[string]interface{}{
		"full_name": "Ada Example",
		"phone":     "123456",
	})
	require.NoError(t, err)
	assert.True(t, updated.ProfileCompleted)

	// Omitted columns keep their values on a later partial update.
	updated, err = repo.UpdateProfile(ctx, email, map[string]interface{}{
		"address": "Street 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Example", updated.FullName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "123456", *updated.Phone)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "Street 1", *updated.Address)
}

func TestUpdateProfileUnknownEmail(t *testing.T) {
	repo := repository.NewUserRepository(testDB)

	_, err := repo.UpdateProfile(context.Background(), "missing-"+uniqueEmail(), map[string]interface{}{
		"full_name": "Nobody",
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestJoinRequestUniquePair(t *testing.T) {
	userRepo := repository.NewUserRepository(testDB)
	commRepo := repository.NewCommunityRepository(testDB)
	ctx := context.Background()

	user := &model.User{Email: uniqueEmail(), PasswordHash: "hash"}
	require.NoError(t, userRepo.Create(ctx, user))
	t.Cleanup(func() { testDB.Delete(user) })

	community := &model.Community{Name: "C1", Description: "d", Lat: 33.6844, Lon: 73.0479}
	require.NoError(t, commRepo.Create(ctx, community))
	t.Cleanup(func() { testDB.Delete(community) })

	request := &model.JoinRequest{UserID: user.ID, CommunityID: community.ID, Status: model.JoinPending}
	require.NoError(t, commRepo.CreateJoinRequest(ctx, request))
	t.Cleanup(func() { testDB.Delete(request) })

	dup := &model.JoinRequest{UserID: user.ID, CommunityID: community.ID, Status: model.JoinPending}
	err := commRepo.CreateJoinRequest(ctx, dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	found, err := commRepo.FindJoinRequest(ctx, user.ID, community.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, found.ID)
}
