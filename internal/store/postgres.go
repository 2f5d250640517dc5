package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/zenibaba/keyauth/internal/models"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS document (
    id INT PRIMARY KEY CHECK (id = 1),
    content JSONB NOT NULL,
    version BIGINT NOT NULL,
    changelog TEXT NOT NULL DEFAULT ''
);
`

// Postgres keeps the document in a single row with an integer version
// column. Writes are conditional UPDATEs on the expected version, which
// gives the same compare-and-swap semantics as the contents API backend.
type Postgres struct {
	DB *sql.DB
}

// NewPostgres wraps an existing connection.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{DB: db}
}

// OpenPostgres connects to the database and ensures the schema exists.
func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Postgres{DB: db}, nil
}

// Get reads the document row. A missing row yields an empty snapshot.
func (p *Postgres) Get(ctx context.Context) (Snapshot, error) {
	var content []byte
	var version int64
	err := p.DB.QueryRowContext(
		ctx,
		`SELECT content, version FROM document WHERE id = 1`,
	).Scan(&content, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("select document: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return Snapshot{Doc: &doc, Version: strconv.FormatInt(version, 10)}, nil
}

// Put writes the document if the row's version still matches. An empty
// version inserts the first row; losing either race reports ErrConflict.
func (p *Postgres) Put(ctx context.Context, doc *models.Document, version, changelog string) error {
	content, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	if version == "" {
		res, err := p.DB.ExecContext(
			ctx,
			`INSERT INTO document (id, content, version, changelog) VALUES (1, $1, 1, $2)
             ON CONFLICT (id) DO NOTHING`,
			content, changelog,
		)
		if err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return ErrConflict
		}
		return nil
	}

	expected, err := strconv.ParseInt(version, 10, 64)
	if err != nil {
		return fmt.Errorf("bad version token %q: %w", version, err)
	}

	res, err := p.DB.ExecContext(
		ctx,
		`UPDATE document SET content = $1, version = version + 1, changelog = $2
         WHERE id = 1 AND version = $3`,
		content, changelog, expected,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrConflict
	}
	return nil
}
