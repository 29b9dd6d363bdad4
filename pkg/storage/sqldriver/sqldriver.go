// Package sqldriver implements storage.Driver on top of database/sql. The
// sqlite and postgres packages open a connection and hand it over with their
// dialect.
package sqldriver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/papercomputeco/recall/pkg/history"
	"github.com/papercomputeco/recall/pkg/knowledge"
)

// Driver implements storage.Driver using a SQL database.
type Driver struct {
	DB      *sql.DB
	Dialect Dialect
}

// New creates the schema when missing and returns a driver owning db.
// On error db is closed.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Driver, error) {
	for _, stmt := range dialect.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create %s schema: %w", dialect.Name, err)
		}
	}

	return &Driver{DB: db, Dialect: dialect}, nil
}

// ReplaceDocuments deletes the document set and inserts docs in a single
// transaction.
func (d *Driver) ReplaceDocuments(ctx context.Context, docs []knowledge.Document) (err error) {
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM recall_documents"); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}

	insert := fmt.Sprintf(
		"INSERT INTO recall_documents (position, content, metadata) VALUES (%s, %s, %s)",
		d.Dialect.Placeholder(1), d.Dialect.Placeholder(2), d.Dialect.Placeholder(3),
	)
	for i, doc := range docs {
		metadata, mErr := encodeMetadata(doc.Metadata)
		if mErr != nil {
			err = mErr
			return err
		}
		if _, err = tx.ExecContext(ctx, insert, i, doc.Content, metadata); err != nil {
			return fmt.Errorf("failed to insert document %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit documents: %w", err)
	}
	return nil
}

func (d *Driver) ListDocuments(ctx context.Context) ([]knowledge.Document, error) {
	rows, err := d.DB.QueryContext(ctx, "SELECT content, metadata FROM recall_documents ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs := []knowledge.Document{}
	for rows.Next() {
		var content, raw string
		if err := rows.Scan(&content, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		metadata, err := decodeMetadata(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, knowledge.Document{Content: content, Metadata: metadata})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

func (d *Driver) AppendEntry(ctx context.Context, entry history.Entry) error {
	insert := fmt.Sprintf(
		"INSERT INTO recall_history (role, content, sent_at) VALUES (%s, %s, %s)",
		d.Dialect.Placeholder(1), d.Dialect.Placeholder(2), d.Dialect.Placeholder(3),
	)
	if _, err := d.DB.ExecContext(ctx, insert, entry.Role, entry.Content, entry.Timestamp); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

func (d *Driver) ListEntries(ctx context.Context) ([]history.Entry, error) {
	rows, err := d.DB.QueryContext(ctx, "SELECT role, content, sent_at FROM recall_history ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []history.Entry{}
	for rows.Next() {
		var e history.Entry
		if err := rows.Scan(&e.Role, &e.Content, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

func (d *Driver) ClearEntries(ctx context.Context) error {
	if _, err := d.DB.ExecContext(ctx, "DELETE FROM recall_history"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (d *Driver) Close() error {
	return d.DB.Close()
}

func encodeMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(b), nil
}

func decodeMetadata(raw string) (map[string]string, error) {
	metadata := map[string]string{}
	if raw == "" {
		return metadata, nil
	}
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return metadata, nil
}
