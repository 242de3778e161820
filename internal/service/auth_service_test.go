package service

import (
	"context"
	"testing"
	"time"

	"github.com/MAMIDISETTI/taskmanagers/internal/domain"
	"github.com/MAMIDISETTI/taskmanagers/internal/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAssignsAuthorID(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), "Asha", "asha@example.com", "password123", domain.RoleTrainee)
	require.NoError(t, err)
	assert.True(t, ingest.IsUUIDv4(user.AuthorID))
	assert.Empty(t, user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewAuthService(repo, "test-secret", time.Hour)

	_, err := svc.Register(context.Background(), "Asha", "asha@example.com", "password123", domain.RoleTrainee)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Imposter", "asha@example.com", "password456", domain.RoleTrainee)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewAuthService(repo, "test-secret", time.Hour)

	registered, err := svc.Register(context.Background(), "Asha", "asha@example.com", "password123", domain.RoleTrainer)
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "asha@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, registered.AuthorID, user.AuthorID)
	assert.Empty(t, user.PasswordHash)

	_, _, err = svc.Login(context.Background(), "asha@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = svc.Login(context.Background(), "unknown@example.com", "password123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
