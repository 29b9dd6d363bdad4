package sqldriver

import "strconv"

// Dialect captures the SQL differences between supported databases.
type Dialect struct {
	// Name identifies the dialect in errors and logs.
	Name string

	// Placeholder returns the bind parameter for the n-th argument (1-based).
	Placeholder func(n int) string

	// Schema holds the statements creating the tables, run once on open.
	Schema []string
}

// SQLite is the dialect for github.com/mattn/go-sqlite3.
var SQLite = Dialect{
	Name:        "sqlite",
	Placeholder: func(int) string { return "?" },
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS recall_documents (
			position INTEGER PRIMARY KEY,
			content  TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS recall_history (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			role    TEXT NOT NULL,
			content TEXT NOT NULL,
			sent_at TEXT NOT NULL
		)`,
	},
}

// Postgres is the dialect for the pgx stdlib driver.
var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS recall_documents (
			position INTEGER PRIMARY KEY,
			content  TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS recall_history (
			id      BIGSERIAL PRIMARY KEY,
			role    TEXT NOT NULL,
			content TEXT NOT NULL,
			sent_at TEXT NOT NULL
		)`,
	},
}
