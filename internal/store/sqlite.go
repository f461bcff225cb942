package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/AKteen/Clear-Bill/internal/dedupe"
	"github.com/AKteen/Clear-Bill/internal/model"
)

// ErrNotFound is returned when a document id has no record.
var ErrNotFound = errors.New("document not found")

const schema = `
CREATE TABLE IF NOT EXISTS fingerprints (
	hash        TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS documents (
	id          TEXT PRIMARY KEY,
	filename    TEXT NOT NULL,
	file_type   TEXT NOT NULL,
	hash        TEXT NOT NULL,
	uploaded_at TEXT NOT NULL,
	audit_json  TEXT
);
`

// DB is the SQLite-backed fingerprint registry and document store.
// The fingerprints table is append-only; the primary key on hash gives
// PutIfAbsent its atomicity.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	// Serialized access keeps insert-if-absent races inside SQLite itself.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// PutIfAbsent registers a fingerprint unless its hash is already present.
// Returns the prior registration on a hit, nil on first sight.
func (d *DB) PutIfAbsent(ctx context.Context, fp dedupe.Fingerprint, at time.Time) (*dedupe.Stored, error) {
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO fingerprints (hash, document_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(hash) DO NOTHING`,
		fp.Hash, fp.DocumentID, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("store: register fingerprint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("store: register fingerprint: %w", err)
	}
	if n == 1 {
		return nil, nil
	}

	var docID, createdAt string
	err = d.db.QueryRowContext(ctx,
		`SELECT document_id, created_at FROM fingerprints WHERE hash = ?`, fp.Hash).
		Scan(&docID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("store: read prior fingerprint: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("store: parse fingerprint timestamp: %w", err)
	}
	return &dedupe.Stored{DocumentID: docID, CreatedAt: t}, nil
}

// SaveDocument persists one document record with its audit result.
func (d *DB) SaveDocument(ctx context.Context, doc model.Document) error {
	var auditJSON []byte
	if doc.Audit != nil {
		var err error
		auditJSON, err = json.Marshal(doc.Audit)
		if err != nil {
			return fmt.Errorf("store: marshal audit result: %w", err)
		}
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, file_type, hash, uploaded_at, audit_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Filename, doc.FileType, doc.Hash,
		doc.UploadedAt.UTC().Format(time.RFC3339Nano), string(auditJSON))
	if err != nil {
		return fmt.Errorf("store: save document: %w", err)
	}
	return nil
}

// Document returns the record for one document id.
func (d *DB) Document(ctx context.Context, id string) (*model.Document, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT id, filename, file_type, hash, uploaded_at, audit_json
		 FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return doc, err
}

// Documents returns all records, newest first.
func (d *DB) Documents(ctx context.Context) ([]model.Document, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, filename, file_type, hash, uploaded_at, audit_json
		 FROM documents ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list documents: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*model.Document, error) {
	var doc model.Document
	var uploadedAt, auditJSON string
	if err := s.Scan(&doc.ID, &doc.Filename, &doc.FileType, &doc.Hash, &uploadedAt, &auditJSON); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, uploadedAt)
	if err != nil {
		return nil, fmt.Errorf("store: parse document timestamp: %w", err)
	}
	doc.UploadedAt = t
	if auditJSON != "" {
		var audit model.AuditResult
		if err := json.Unmarshal([]byte(auditJSON), &audit); err != nil {
			return nil, fmt.Errorf("store: unmarshal audit result: %w", err)
		}
		doc.Audit = &audit
	}
	return &doc, nil
}
