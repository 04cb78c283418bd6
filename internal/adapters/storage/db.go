package storage

import (
	"database/sql"
	"fmt"
)

// migrations holds the ordered schema migrations. Each runs inside a
// transaction exactly once; schema_version records the applied version.
var migrations = []string{
	// v1: initial schema
	`
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT,
		password_change_required INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS activation_token (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS client (
		id TEXT PRIMARY KEY,
		account_id TEXT,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		date_of_birth TEXT NOT NULL DEFAULT '',
		goals TEXT NOT NULL DEFAULT '',
		emergency_contact TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		email_on_decision INTEGER NOT NULL DEFAULT 1,
		promo_opt_in INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS program (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		level TEXT NOT NULL,
		duration_weeks INTEGER NOT NULL,
		price_cents INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		display_order INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS testimonial (
		id TEXT PRIMARY KEY,
		author TEXT NOT NULL,
		quote TEXT NOT NULL,
		rating INTEGER NOT NULL,
		published INTEGER NOT NULL DEFAULT 0,
		display_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS enrollment (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		program_id TEXT NOT NULL,
		goals TEXT NOT NULL,
		preferred_schedule TEXT NOT NULL DEFAULT '',
		discount_percent INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		decision_note TEXT NOT NULL DEFAULT '',
		decided_by TEXT NOT NULL DEFAULT '',
		applied_at TEXT NOT NULL,
		decided_at TEXT,
		started_at TEXT,
		ends_at TEXT,
		closed_at TEXT,
		FOREIGN KEY (client_id) REFERENCES client(id),
		FOREIGN KEY (program_id) REFERENCES program(id)
	);

	CREATE TABLE IF NOT EXISTS contact_message (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		replied_at TEXT
	);

	CREATE TABLE IF NOT EXISTS discount_token (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		code_hash TEXT NOT NULL UNIQUE,
		percent INTEGER NOT NULL,
		issued_at TEXT NOT NULL,
		expires_at TEXT NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		redeemed_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_discount_token_email ON discount_token(email);

	CREATE TABLE IF NOT EXISTS assessment_record (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		sex TEXT NOT NULL,
		bodyweight_kg REAL NOT NULL,
		squat_kg REAL NOT NULL,
		bench_kg REAL NOT NULL,
		deadlift_kg REAL NOT NULL,
		press_kg REAL NOT NULL,
		overall_score INTEGER NOT NULL,
		overall_tier TEXT NOT NULL,
		weakest_lift TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (client_id) REFERENCES client(id)
	);

	CREATE TABLE IF NOT EXISTS notification (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		read_at TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (client_id) REFERENCES client(id)
	);

	CREATE TABLE IF NOT EXISTS outbox (
		id TEXT PRIMARY KEY,
		action_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 5,
		last_attempted_at TEXT,
		created_at TEXT NOT NULL,
		external_id TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT ''
	);
	`,
}

// LatestSchemaVersion returns the newest migration version.
func LatestSchemaVersion() int {
	return len(migrations)
}

// MigrateDB applies any unapplied migrations.
// PRE: db is a valid database connection
// POST: schema_version equals LatestSchemaVersion()
func MigrateDB(db *sql.DB, dbPath string) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var current int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for v := current; v < len(migrations); v++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", v+1, err)
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d to %s: %w", v+1, dbPath, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))", v+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", v+1, err)
		}
	}
	return nil
}
