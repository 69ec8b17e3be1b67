package repositories

import (
	"testing"
	"time"

	"npu-collective/sabha/internal/constants"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const testSchema = `
CREATE TABLE users (
	id             TEXT PRIMARY KEY,
	email          TEXT NOT NULL,
	name           TEXT NOT NULL,
	role           TEXT NOT NULL,
	status         TEXT NOT NULL,
	email_verified BOOLEAN NOT NULL DEFAULT 0,
	phone_number   TEXT,
	village_name   TEXT,
	last_login     TIMESTAMP,
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL
);
CREATE TABLE audit_logs (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	id            TEXT NOT NULL,
	actor_user_id TEXT,
	action_type   TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id   TEXT,
	details       TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
`

// Setup sqlx test database. A single connection keeps every statement on
// the same in-memory database.
func setupReadDB(t *testing.T) *sqlx.DB {
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func seedUserRow(t *testing.T, db *sqlx.DB, email string, role constants.Role, status constants.UserStatus) string {
	id := uuid.New().String()
	now := time.Now().UTC().Truncate(time.Second)

	_, err := db.Exec(`INSERT INTO users (id, email, name, role, status, email_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, email, "Test "+role.String(), role.String(), status.String(), false, now, now)
	if err != nil {
		t.Fatalf("Failed to seed user row: %v", err)
	}
	return id
}

func seedAuditRow(t *testing.T, db *sqlx.DB, actorID *string, action, resourceType string, resourceID *string, at time.Time) string {
	id := uuid.New().String()

	_, err := db.Exec(`INSERT INTO audit_logs (id, actor_user_id, action_type, resource_type, resource_id, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, actorID, action, resourceType, resourceID, []byte(`{"field":"value"}`), at)
	if err != nil {
		t.Fatalf("Failed to seed audit row: %v", err)
	}
	return id
}
