// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package account_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtrantq/rydio/internal/account"
	"github.com/minhtrantq/rydio/internal/auth"
	"github.com/minhtrantq/rydio/internal/platform/apperr"
)

// fakeAccountRepo is an in-memory AccountRepository.
type fakeAccountRepo struct {
	users map[string]*auth.User
}

func (repo *fakeAccountRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repo *fakeAccountRepo) UpdateProfile(_ context.Context, user *auth.User) error {
	stored, ok := repo.users[user.ID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.AvatarURL = user.AvatarURL
	stored.Address = user.Address
	return nil
}

func newAccountService() (*account.Service, *fakeAccountRepo) {
	repo := &fakeAccountRepo{users: map[string]*auth.User{
		"user-1": {
			ID:       "user-1",
			Username: "minh",
			Email:    "minh@rydio.app",
			Address:  "District 1, HCMC",
		},
	}}
	return account.NewService(repo, slog.Default()), repo
}

func TestService_GetProfile(t *testing.T) {
	service, _ := newAccountService()

	user, err := service.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "minh", user.Username)
}

func TestService_GetProfile_NotFound(t *testing.T) {
	service, _ := newAccountService()

	_, err := service.GetProfile(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperr.IsAppError(err))
}

func TestService_UpdateProfile(t *testing.T) {
	service, repo := newAccountService()

	avatarURL := "https://cdn.rydio.app/avatars/minh.png"
	user, err := service.UpdateProfile(context.Background(), "user-1", account.UpdateProfileInput{
		AvatarURL: &avatarURL,
	})
	require.NoError(t, err)
	assert.Equal(t, avatarURL, user.AvatarURL)

	// Fields not present in the input are left untouched
	assert.Equal(t, "District 1, HCMC", user.Address)
	assert.Equal(t, avatarURL, repo.users["user-1"].AvatarURL)
}

func TestService_UpdateProfile_ClearField(t *testing.T) {
	service, repo := newAccountService()

	empty := ""
	user, err := service.UpdateProfile(context.Background(), "user-1", account.UpdateProfileInput{
		Address: &empty,
	})
	require.NoError(t, err)
	assert.Empty(t, user.Address)
	assert.Empty(t, repo.users["user-1"].Address)
}
