//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/identity-server/internal/model"
	repo "github.com/dtroode/identity-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "identity_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/identity_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T) *repo.Connection {
	t.Helper()
	conn, err := repo.NewConection(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)

	t.Run("account_repository", func(t *testing.T) {
		for _, ar := range []*repo.AccountRepository{repo.NewAccountRepository(conn), repo.NewUserAccountRepository(conn)} {
			saved, err := ar.Create(ctx, model.Account{Name: "qwer", PasswordHash: "hash", PasswordSalt: "salt", Roles: 6})
			require.NoError(t, err)
			require.NotEqual(t, uuid.Nil, saved.ID)

			_, err = ar.Create(ctx, model.Account{Name: "qwer", PasswordHash: "hash", PasswordSalt: "salt"})
			require.ErrorIs(t, err, model.ErrConflict)

			name := "qwer"
			byName, err := ar.ReadByFilter(ctx, model.Filter{Name: &name})
			require.NoError(t, err)
			require.Len(t, byName, 1)
			require.Equal(t, saved.ID, byName[0].ID)

			renamed := "renamed"
			updated, err := ar.UpdateByFilter(ctx, model.ByID(saved.ID), model.AccountPatch{Name: &renamed})
			require.NoError(t, err)
			require.Equal(t, "renamed", updated.Name)
			require.Equal(t, "hash", updated.PasswordHash)

			_, err = ar.UpdateByFilter(ctx, model.ByID(uuid.New()), model.AccountPatch{Name: &renamed})
			require.ErrorIs(t, err, model.ErrNotFound)

			n, err := ar.DeleteByFilter(ctx, model.ByID(saved.ID))
			require.NoError(t, err)
			require.Equal(t, int64(1), n)
		}
	})

	t.Run("profile_repository", func(t *testing.T) {
		pr := repo.NewProfileRepository(conn)
		owner := uuid.New()

		_, err := pr.Create(ctx, model.Profile{AccountID: owner, Name: "nick"})
		require.NoError(t, err)
		_, err = pr.Create(ctx, model.Profile{AccountID: owner, Name: "other"})
		require.ErrorIs(t, err, model.ErrConflict)

		got, err := pr.ReadByFilter(ctx, model.ByID(owner))
		require.NoError(t, err)
		require.Len(t, got, 1)

		n, err := pr.DeleteByFilter(ctx, model.ByID(owner))
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
	})

	t.Run("session_repository", func(t *testing.T) {
		sr := repo.NewSessionRepository(conn)
		now := time.Now().Truncate(time.Second)
		s := model.Session{ID: uuid.New(), SubjectID: uuid.New(), Roles: model.RoleUser, AuthTime: now, ExpiresAt: now.Add(time.Hour), CreatedAt: now}

		require.NoError(t, sr.Create(ctx, s))
		got, err := sr.GetByID(ctx, s.ID)
		require.NoError(t, err)
		require.Nil(t, got.RevokedAt)

		n, err := sr.RevokeAllBySubject(ctx, s.SubjectID)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		got, err = sr.GetByID(ctx, s.ID)
		require.NoError(t, err)
		require.NotNil(t, got.RevokedAt)
	})
}

func TestEventBus_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bus := repo.NewEventBus(connect(t), "account_deleted")
	stream, err := bus.Listen(ctx)
	require.NoError(t, err)
	defer stream.Close()

	id := uuid.New()
	require.NoError(t, bus.PublishAccountDeleted(ctx, id))

	payload, err := stream.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, id.String(), payload)
}
