package turso_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/emiliopalmerini/mreport/internal/adapters/turso"
	"github.com/emiliopalmerini/mreport/internal/migrate"
)

// testDB opens a file-backed database in a temp dir with all migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := turso.NewDB("file:"+filepath.Join(t.TempDir(), "history.db"), "")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	ctx := context.Background()
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// testTursoDB starts a libsql-server container. It is slow and needs
// Docker, so it only runs when MREPORT_TURSO_INTEGRATION is set.
func testTursoDB(t *testing.T) *sql.DB {
	t.Helper()

	if os.Getenv("MREPORT_TURSO_INTEGRATION") == "" {
		t.Skip("set MREPORT_TURSO_INTEGRATION=1 to run against libsql-server")
	}
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "ghcr.io/tursodatabase/libsql-server:latest",
		ExposedPorts: []string{"8080/tcp"},
		WaitingFor:   wait.ForHTTP("/health").WithPort("8080/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start libsql-server container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	mappedPort, err := container.MappedPort(ctx, "8080")
	if err != nil {
		t.Fatalf("Failed to get mapped port: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	db, err := turso.NewDB(fmt.Sprintf("http://%s:%s", host, mappedPort.Port()), "")
	if err != nil {
		t.Fatalf("Failed to connect to libsql-server: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migrate.RunAll(ctx, db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}
