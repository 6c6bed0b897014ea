// Package sqlite provides the persistent vector index backed by SQLite.
//
// Passages and their embeddings live in a single database file. Retrieval
// is a brute-force cosine scan over the collection: the corpus is one
// prospectus worth of passages, small enough that an approximate index
// would be overkill.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/admitkit/prospecta-cli/internal/core/domain"
	"github.com/admitkit/prospecta-cli/internal/core/ports/driven"
	"github.com/admitkit/prospecta-cli/internal/logger"
)

// DBFileName is the database file created under the data directory.
const DBFileName = "passages.db"

// Store is the shared SQLite handle behind retrievers and writers.
type Store struct {
	db   *sql.DB
	path string
}

// schema holds the passage tables. Creating the schema is not the same
// as creating a collection: retrievers still fail fast when the named
// collection row is absent.
const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS passages (
	id         TEXT NOT NULL,
	collection TEXT NOT NULL REFERENCES collections(name),
	content    TEXT NOT NULL,
	embedding  BLOB NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	course     TEXT NOT NULL DEFAULT '',
	section    TEXT NOT NULL DEFAULT '',
	topic_type TEXT NOT NULL DEFAULT '',
	source     TEXT NOT NULL DEFAULT '',
	position   INTEGER NOT NULL,
	PRIMARY KEY (collection, id)
);
`

// NewStore opens (or creates) the passage database under dataDir.
// An unset storage location is a configuration error.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("sqlite: data directory: %w", domain.ErrMissingCollection)
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Retriever returns a read-only similarity searcher over the named
// collection. Fails fast if the collection name is unset or the
// collection does not already exist; retrievers never create it.
func (s *Store) Retriever(collection string) (driven.Retriever, error) {
	if collection == "" {
		return nil, fmt.Errorf("sqlite: collection name: %w", domain.ErrMissingCollection)
	}

	var one int
	err := s.db.QueryRow("SELECT 1 FROM collections WHERE name = ?", collection).Scan(&one)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: collection %q: %w", collection, domain.ErrCollectionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking collection %q: %w", collection, err)
	}

	return &retriever{store: s, collection: collection}, nil
}

// Writer returns the offline ingestion surface for the named collection.
func (s *Store) Writer(collection string) (driven.PassageWriter, error) {
	if collection == "" {
		return nil, fmt.Errorf("sqlite: collection name: %w", domain.ErrMissingCollection)
	}
	return &writer{store: s, collection: collection}, nil
}

// retriever implements driven.Retriever over one collection.
type retriever struct {
	store      *Store
	collection string
}

// Retrieve returns the texts of the topK passages closest to the query
// embedding by cosine similarity, most-similar first. Store-internal
// failures degrade to an empty result: they are logged, never returned.
func (r *retriever) Retrieve(ctx context.Context, embedding []float32, topK int) ([]string, error) {
	if topK <= 0 || len(embedding) == 0 {
		return []string{}, nil
	}

	rows, err := r.store.db.QueryContext(ctx,
		"SELECT content, embedding FROM passages WHERE collection = ? ORDER BY position",
		r.collection,
	)
	if err != nil {
		logger.Warn("sqlite: retrieval query failed: %v", err)
		return []string{}, nil
	}
	defer rows.Close()

	type scored struct {
		content string
		score   float64
	}

	var results []scored
	for rows.Next() {
		var content string
		var blob []byte
		if err := rows.Scan(&content, &blob); err != nil {
			logger.Warn("sqlite: scanning passage row: %v", err)
			return []string{}, nil
		}

		vec := decodeEmbedding(blob)
		if len(vec) != len(embedding) {
			// Dimension-mismatched rows cannot be ranked; skip them.
			logger.Warn("sqlite: skipping passage with dimension %d, want %d", len(vec), len(embedding))
			continue
		}

		results = append(results, scored{
			content: content,
			score:   cosineSimilarity(embedding, vec),
		})
	}
	if err := rows.Err(); err != nil {
		logger.Warn("sqlite: iterating passage rows: %v", err)
		return []string{}, nil
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.content
	}
	return texts, nil
}

// Close is a no-op: the shared store owns the connection.
func (r *retriever) Close() error {
	return nil
}

// writer implements driven.PassageWriter over one collection.
type writer struct {
	store      *Store
	collection string
}

// CreateCollection creates the collection row if it does not exist.
func (w *writer) CreateCollection(ctx context.Context) error {
	_, err := w.store.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO collections (name) VALUES (?)", w.collection)
	if err != nil {
		return fmt.Errorf("sqlite: creating collection %q: %w", w.collection, err)
	}
	return nil
}

// Add inserts passages into the collection in one transaction.
func (w *writer) Add(ctx context.Context, passages []domain.Passage) error {
	if len(passages) == 0 {
		return nil
	}

	tx, err := w.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO passages
			(id, collection, content, embedding, department, course, section, topic_type, source, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range passages {
		_, err := stmt.ExecContext(ctx,
			p.ID, w.collection, p.Content, encodeEmbedding(p.Embedding),
			p.Metadata.Department, p.Metadata.Course, p.Metadata.Section,
			p.Metadata.TopicType, p.Metadata.Source, p.Position,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting passage %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of passages in the collection.
func (w *writer) Count(ctx context.Context) (int, error) {
	var n int
	err := w.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM passages WHERE collection = ?", w.collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting passages: %w", err)
	}
	return n, nil
}

// Close is a no-op: the shared store owns the connection.
func (w *writer) Close() error {
	return nil
}

// encodeEmbedding converts a []float32 to a little-endian byte slice for
// BLOB storage. The length is derived from the blob size on decode.
func encodeEmbedding(vec []float32) []byte {
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// decodeEmbedding converts a stored BLOB back to a []float32.
func decodeEmbedding(b []byte) []float32 {
	if len(b)%4 != 0 {
		return nil
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec
}

// cosineSimilarity computes the cosine similarity between two vectors of
// equal length. A zero-magnitude vector scores zero.
func cosineSimilarity(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na += va * va
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
