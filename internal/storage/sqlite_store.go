package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"git.home.luguber.info/inful/hmmpress/internal/build"
	"git.home.luguber.info/inful/hmmpress/internal/content"
)

// SQLiteStore implements Store using SQLite. The driver is chosen at build
// time: modernc.org/sqlite by default, mattn/go-sqlite3 with -tags cgo_sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		file_id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		title TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		timestamp_source TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		root TEXT NOT NULL,
		tokens TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_timestamp ON documents(timestamp);
	CREATE TABLE IF NOT EXISTS roots (
		document_id TEXT PRIMARY KEY,
		dir TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) PutDocument(ctx context.Context, fileID string, doc *build.Document) error {
	if doc.Timestamp > math.MaxInt64 {
		return fmt.Errorf("timestamp %d of %s exceeds the storable range", doc.Timestamp, fileID)
	}
	tokens, err := json.Marshal(doc.Tokens)
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (file_id, document_id, title, timestamp, timestamp_source, fingerprint, root, tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET
			document_id = excluded.document_id,
			title = excluded.title,
			timestamp = excluded.timestamp,
			timestamp_source = excluded.timestamp_source,
			fingerprint = excluded.fingerprint,
			root = excluded.root,
			tokens = excluded.tokens`,
		fileID, doc.DocumentID, doc.Title, int64(doc.Timestamp), string(doc.TimestampSource),
		doc.Fingerprint, doc.Root, string(tokens),
	)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return tx.Commit()
}

const selectDocument = `SELECT file_id, document_id, title, timestamp, timestamp_source, fingerprint, root, tokens FROM documents`

func (s *SQLiteStore) GetDocument(ctx context.Context, fileID string) (*build.Document, error) {
	row := s.db.QueryRowContext(ctx, selectDocument+` WHERE file_id = ?`, fileID)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound{FileID: fileID}
	}
	return doc, err
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, fileID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]*build.Document, error) {
	rows, err := s.db.QueryContext(ctx, selectDocument+` ORDER BY timestamp DESC, file_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []*build.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) PutRoot(ctx context.Context, documentID, dir string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO roots (document_id, dir) VALUES (?, ?) ON CONFLICT(document_id) DO UPDATE SET dir = excluded.dir`,
		documentID, dir)
	if err != nil {
		return fmt.Errorf("upsert root: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRoot(ctx context.Context, documentID string) (string, bool, error) {
	var dir string
	err := s.db.QueryRowContext(ctx, `SELECT dir FROM roots WHERE document_id = ?`, documentID).Scan(&dir)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query root: %w", err)
	}
	return dir, true, nil
}

func (s *SQLiteStore) ListRoots(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT document_id, dir FROM roots`)
	if err != nil {
		return nil, fmt.Errorf("query roots: %w", err)
	}
	defer rows.Close()

	roots := make(map[string]string)
	for rows.Next() {
		var id, dir string
		if err := rows.Scan(&id, &dir); err != nil {
			return nil, fmt.Errorf("scan root: %w", err)
		}
		roots[id] = dir
	}
	return roots, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*build.Document, error) {
	var (
		doc    build.Document
		ts     int64
		source string
		tokens string
	)
	if err := row.Scan(&doc.FileID, &doc.DocumentID, &doc.Title, &ts, &source, &doc.Fingerprint, &doc.Root, &tokens); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.Timestamp = uint64(ts)
	doc.TimestampSource = build.TimestampSource(source)

	var pageTokens []content.PageToken
	if err := json.Unmarshal([]byte(tokens), &pageTokens); err != nil {
		return nil, fmt.Errorf("unmarshal tokens of %s: %w", doc.FileID, err)
	}
	doc.Tokens = pageTokens
	return &doc, nil
}
