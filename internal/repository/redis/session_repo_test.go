package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"Thread_of_Hope/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestSessionRepository(t *testing.T) {
	if os.Getenv("THREAD_REDIS_IT") != "1" {
		t.Skip("set THREAD_REDIS_IT=1 to run Redis integration tests")
	}
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	endpoint, err := c.Endpoint(ctx, "")
	require.NoError(t, err)
	client, err := NewClient(ctx, endpoint, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	repo := &SessionRepository{Client: client}

	require.NoError(t, repo.CreateSession(ctx, "sid", "u1", time.Minute))
	uid, err := repo.GetSession(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)

	require.NoError(t, repo.DeleteSession(ctx, "sid"))
	_, err = repo.GetSession(ctx, "sid")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	require.NoError(t, repo.SetUserToken(ctx, "u1", "tok", time.Minute))
	tok, err := repo.GetUserToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
	require.NoError(t, repo.DeleteUserToken(ctx, "u1"))
	_, err = repo.GetUserToken(ctx, "u1")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}
