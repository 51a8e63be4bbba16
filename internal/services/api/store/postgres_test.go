package store_test

import (
	"amiigo/internal/models"
	"amiigo/internal/services/api/store"
	"amiigo/internal/services/api/store/storetest"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *models.User {
	return &models.User{
		Email:        email,
		PasswordHash: "hash",
		IsActive:     true,
	}
}

func TestCreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	s := &store.Storage{DB: storetest.NewSQLite(t)}

	user := newUser("alice@example.com")
	require.NoError(t, s.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
	assert.True(t, byID.IsActive)
	assert.False(t, byID.IsVerified)
	assert.Nil(t, byID.LastLoginAt)

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestCreateInactiveUserKeepsFlag(t *testing.T) {
	ctx := context.Background()
	s := &store.Storage{DB: storetest.NewSQLite(t)}

	user := newUser("inactive@example.com")
	user.IsActive = false
	require.NoError(t, s.CreateUser(ctx, user))

	stored, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestGetUserNotFound(t *testing.T) {
	ctx := context.Background()
	s := &store.Storage{DB: storetest.NewSQLite(t)}

	_, err := s.GetUser(ctx, 404)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := &store.Storage{DB: storetest.NewSQLite(t)}

	require.NoError(t, s.CreateUser(ctx, newUser("dup@example.com")))
	err := s.CreateUser(ctx, newUser("dup@example.com"))
	assert.ErrorIs(t, err, store.ErrEmailTaken)
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	s := &store.Storage{DB: storetest.NewSQLite(t)}

	user := newUser("before@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	user.Email = "after@example.com"
	user.IsActive = false
	user.IsVerified = true
	require.NoError(t, s.UpdateUser(ctx, user))

	stored, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "after@example.com", stored.Email)
	assert.False(t, stored.IsActive)
	assert.True(t, stored.IsVerified)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	ctx := context.Background()
	s := &store.Storage{DB: storetest.NewSQLite(t)}

	first := newUser("first@example.com")
	second := newUser("second@example.com")
	require.NoError(t, s.CreateUser(ctx, first))
	require.NoError(t, s.CreateUser(ctx, second))

	second.Email = "first@example.com"
	assert.ErrorIs(t, s.UpdateUser(ctx, second), store.ErrEmailTaken)
}

func TestUpdateMissingUser(t *testing.T) {
	s := &store.Storage{DB: storetest.NewSQLite(t)}

	ghost := newUser("ghost@example.com")
	ghost.ID = 999
	assert.ErrorIs(t, s.UpdateUser(context.Background(), ghost), store.ErrNotFound)
}

func TestTouchLastLogin(t *testing.T) {
	ctx := context.Background()
	s := &store.Storage{DB: storetest.NewSQLite(t)}

	user := newUser("login@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.TouchLastLogin(ctx, user.ID, at))

	stored, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.True(t, at.Equal(stored.LastLoginAt.UTC()))
}

func TestUpsertProfile(t *testing.T) {
	ctx := context.Background()
	s := &store.Storage{DB: storetest.NewSQLite(t)}

	user := newUser("profile@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	_, err := s.GetProfile(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	created, err := s.UpsertProfile(ctx, &models.Profile{UserID: user.ID, DisplayName: "Ali", City: "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, "Ali", created.DisplayName)
	assert.Equal(t, "Lisbon", created.City)

	updated, err := s.UpsertProfile(ctx, &models.Profile{UserID: user.ID, DisplayName: "Alice", Bio: "hi"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Alice", updated.DisplayName)
	assert.Equal(t, "hi", updated.Bio)
	assert.Empty(t, updated.City)
}

func TestDeleteUserRemovesProfile(t *testing.T) {
	ctx := context.Background()
	s := &store.Storage{DB: storetest.NewSQLite(t)}

	user := newUser("bye@example.com")
	require.NoError(t, s.CreateUser(ctx, user))
	_, err := s.UpsertProfile(ctx, &models.Profile{UserID: user.ID, DisplayName: "Bye"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, user.ID))

	_, err = s.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetProfile(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.DeleteUser(ctx, user.ID), store.ErrNotFound)
}

func TestPing(t *testing.T) {
	s := &store.Storage{DB: storetest.NewSQLite(t)}
	assert.NoError(t, s.Ping(context.Background()))
}
