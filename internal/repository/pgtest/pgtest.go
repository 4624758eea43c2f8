// Package pgtest starts a throwaway PostgreSQL for integration tests.
package pgtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// EnvFlag enables the container-backed tests.
const EnvFlag = "TRAVELBOOKING_INTEGRATION"

// Start skips t unless EnvFlag is "1". TEST_DATABASE_URL points at an existing
// database instead of starting a container; the tables are truncated, so run
// with -p 1 in that mode.
func Start(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv(EnvFlag) != "1" {
		t.Skipf("set %s=1 to run PostgreSQL integration tests", EnvFlag)
	}

	ctx := context.Background()
	dbCfg := config.DatabaseConfig{URL: os.Getenv("TEST_DATABASE_URL"), LockTimeoutMS: 5000, MaxConns: 10}

	if dbCfg.URL == "" {
		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "postgres:16-alpine",
				ExposedPorts: []string{"5432/tcp"},
				Env: map[string]string{
					"POSTGRES_USER":     "travel",
					"POSTGRES_PASSWORD": "travel",
					"POSTGRES_DB":       "travelbooking",
				},
				WaitingFor: wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60 * time.Second),
			},
			Started: true,
		})
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = container.Terminate(context.Background())
		})

		host, err := container.Host(ctx)
		require.NoError(t, err)
		port, err := container.MappedPort(ctx, "5432")
		require.NoError(t, err)

		dbCfg.Host = host
		dbCfg.Port = port.Int()
		dbCfg.User = "travel"
		dbCfg.Password = "travel"
		dbCfg.Name = "travelbooking"
		dbCfg.SSLMode = "disable"
	}

	pool, err := repository.NewPool(ctx, dbCfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, repository.InitializeSchema(ctx, pool))
	require.NoError(t, repository.ResetData(ctx, pool))

	return pool
}
