package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/identity-server/internal/mocks"
	"github.com/dtroode/identity-server/internal/model"
	"github.com/dtroode/identity-server/internal/repository/memory"
	"github.com/dtroode/identity-server/internal/testutil"
)

func profileInput(accountID uuid.UUID, name string) model.ProfileInput {
	id := accountID.String()
	return model.ProfileInput{AccountID: &id, Name: &name}
}

func TestProfiles_Create(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	tests := []struct {
		name      string
		authority *model.Authority
		in        model.ProfileInput
		setup     func(accounts *mocks.AccountChecker)
		wantErr   error
	}{
		{
			name:      "owner creates own profile",
			authority: userAuthority(owner),
			in:        profileInput(owner, "nick"),
			setup: func(accounts *mocks.AccountChecker) {
				accounts.On("Exists", mock.Anything, mock.Anything, owner).Return(true, nil)
			},
		},
		{
			name:      "admin creates any profile",
			authority: adminAuthority(),
			in:        profileInput(owner, "nick"),
			setup: func(accounts *mocks.AccountChecker) {
				accounts.On("Exists", mock.Anything, mock.Anything, owner).Return(true, nil)
			},
		},
		{
			name:      "user creates foreign profile",
			authority: userAuthority(uuid.New()),
			in:        profileInput(owner, "nick"),
			wantErr:   model.ErrAccessDenied,
		},
		{
			name:      "anonymous",
			authority: nil,
			in:        profileInput(owner, "nick"),
			wantErr:   model.ErrAccessDenied,
		},
		{
			name:      "account does not exist",
			authority: systemAuthority(),
			in:        profileInput(owner, "nick"),
			setup: func(accounts *mocks.AccountChecker) {
				accounts.On("Exists", mock.Anything, mock.Anything, owner).Return(false, nil)
			},
			wantErr: model.ErrIllegalArgument,
		},
		{
			name:      "account service unavailable",
			authority: systemAuthority(),
			in:        profileInput(owner, "nick"),
			setup: func(accounts *mocks.AccountChecker) {
				accounts.On("Exists", mock.Anything, mock.Anything, owner).Return(false, errors.New("connection refused"))
			},
			wantErr: model.ErrUnexpected,
		},
		{
			name:      "name too short",
			authority: systemAuthority(),
			in:        profileInput(owner, "n"),
			wantErr:   model.ErrIllegalArgument,
		},
		{
			name:      "name too long",
			authority: systemAuthority(),
			in:        profileInput(owner, "abcdefghijklmnopq"),
			wantErr:   model.ErrIllegalArgument,
		},
		{
			name:      "missing account id",
			authority: systemAuthority(),
			in:        model.ProfileInput{Name: ptr("nick")},
			wantErr:   model.ErrIllegalArgument,
		},
		{
			name:      "malformed account id",
			authority: systemAuthority(),
			in:        model.ProfileInput{AccountID: ptr("not-a-uuid"), Name: ptr("nick")},
			wantErr:   model.ErrIllegalArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &mocks.AccountChecker{}
			if tt.setup != nil {
				tt.setup(accounts)
			}
			store := memory.NewProfileRepository()
			svc := NewProfiles(store, accounts, testutil.MakeNoopLogger())

			created, err := svc.Create(ctx, tt.authority, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, owner, created.AccountID)
			assert.Equal(t, "nick", created.Name)
			accounts.AssertExpectations(t)
		})
	}
}

func TestProfiles_Create_Duplicate(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	accounts := &mocks.AccountChecker{}
	accounts.On("Exists", mock.Anything, mock.Anything, owner).Return(true, nil)
	svc := NewProfiles(memory.NewProfileRepository(), accounts, testutil.MakeNoopLogger())

	_, err := svc.Create(ctx, systemAuthority(), profileInput(owner, "nick"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, systemAuthority(), profileInput(owner, "other"))
	assert.ErrorIs(t, err, model.ErrConflict)
}

func newProfileFixture(t *testing.T) (*Profiles, *memory.ProfileRepository, uuid.UUID) {
	t.Helper()

	owner := uuid.New()
	store := memory.NewProfileRepository()
	_, err := store.Create(context.Background(), model.Profile{AccountID: owner, Name: "nick"})
	require.NoError(t, err)

	return NewProfiles(store, &mocks.AccountChecker{}, testutil.MakeNoopLogger()), store, owner
}

func TestProfiles_Read(t *testing.T) {
	ctx := context.Background()
	svc, _, owner := newProfileFixture(t)
	ownerID := owner.String()

	got, err := svc.Read(ctx, userAuthority(owner), nil, ptr("nick"))
	require.NoError(t, err)
	assert.Equal(t, owner, got.AccountID)

	_, err = svc.Read(ctx, userAuthority(uuid.New()), &ownerID, nil)
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	_, err = svc.Read(ctx, userAuthority(uuid.New()), ptr(uuid.NewString()), nil)
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	_, err = svc.Read(ctx, adminAuthority(), ptr(uuid.NewString()), nil)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.Read(ctx, adminAuthority(), nil, nil)
	assert.ErrorIs(t, err, model.ErrIllegalArgument)
}

func TestProfiles_Update(t *testing.T) {
	ctx := context.Background()
	svc, store, owner := newProfileFixture(t)
	ownerID := owner.String()

	updated, err := svc.Update(ctx, userAuthority(owner), &ownerID, nil, model.ProfileInput{Name: ptr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)

	// repeating the current account id is accepted
	_, err = svc.Update(ctx, userAuthority(owner), nil, ptr("renamed"), model.ProfileInput{AccountID: &ownerID})
	require.NoError(t, err)

	_, err = svc.Update(ctx, systemAuthority(), &ownerID, nil, model.ProfileInput{AccountID: ptr(uuid.NewString())})
	assert.ErrorIs(t, err, model.ErrIllegalArgument)

	_, err = svc.Update(ctx, userAuthority(uuid.New()), &ownerID, nil, model.ProfileInput{Name: ptr("stolen")})
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	got, err := store.ReadByFilter(ctx, model.ByID(owner))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "renamed", got[0].Name)
}

func TestProfiles_Delete(t *testing.T) {
	ctx := context.Background()
	svc, store, owner := newProfileFixture(t)
	ownerID := owner.String()

	err := svc.Delete(ctx, userAuthority(uuid.New()), &ownerID, nil)
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	require.NoError(t, svc.Delete(ctx, userAuthority(owner), &ownerID, nil))

	got, err := store.ReadByFilter(ctx, model.ByID(owner))
	require.NoError(t, err)
	assert.Empty(t, got)

	err = svc.Delete(ctx, systemAuthority(), &ownerID, nil)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestProfiles_HandleAccountDeleted(t *testing.T) {
	ctx := context.Background()
	svc, store, owner := newProfileFixture(t)

	svc.HandleAccountDeleted(ctx, owner.String())

	got, err := store.ReadByFilter(ctx, model.ByID(owner))
	require.NoError(t, err)
	assert.Empty(t, got)

	// no profile, malformed id and a failing store are all absorbed
	svc.HandleAccountDeleted(ctx, owner.String())
	svc.HandleAccountDeleted(ctx, "garbage")

	failing := &mocks.ProfileStore{}
	failing.On("ReadByFilter", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	NewProfiles(failing, &mocks.AccountChecker{}, testutil.MakeNoopLogger()).HandleAccountDeleted(ctx, owner.String())
	failing.AssertExpectations(t)
}
