// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Store is the persistent embedding-cache tier, a single sqlite table keyed by
// content hash. Entries carry a creation timestamp; rows older than the TTL
// are purged on open. All methods are best-effort: read and write failures
// report a miss or are dropped, mirroring the "unavailable means always miss"
// contract of the tier.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenStore opens or creates the sqlite cache at path and purges expired rows.
func OpenStore(path string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening embedding cache: %w", err)
	}

	s := &Store{db: db, ttl: ttl}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	s.purgeExpired()

	return s, nil
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS embeddings (
		key TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		dim INTEGER NOT NULL,
		norm REAL NOT NULL,
		vector BLOB NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	return err
}

// purgeExpired applies the TTL. Zero TTL keeps entries forever.
func (s *Store) purgeExpired() {
	if s.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.ttl).Unix()
	s.db.Exec(`DELETE FROM embeddings WHERE created_at < ?`, cutoff)
}

// Get returns the stored embedding for key, or a miss on any error. A row
// past the TTL is deleted and reported as a miss, so expiry holds for
// long-running processes, not only across reopens.
func (s *Store) Get(key string) (types.Embedding, bool) {
	var (
		model   string
		dim     int
		norm    float64
		blob    []byte
		created int64
	)
	err := s.db.QueryRow(
		`SELECT model, dim, norm, vector, created_at FROM embeddings WHERE key = ?`, key,
	).Scan(&model, &dim, &norm, &blob, &created)
	if err != nil {
		return types.Embedding{}, false
	}

	if s.ttl > 0 && created < time.Now().Add(-s.ttl).Unix() {
		s.db.Exec(`DELETE FROM embeddings WHERE key = ?`, key)
		return types.Embedding{}, false
	}

	vec, err := decodeVector(blob, dim)
	if err != nil {
		return types.Embedding{}, false
	}

	return types.Embedding{Vector: vec, Norm: norm, Model: model, Dim: dim}, true
}

// Put stores the embedding under key. Write failures are dropped; a racing
// writer on the same key stores the identical value, so INSERT OR REPLACE is
// idempotent.
func (s *Store) Put(key string, emb types.Embedding) {
	s.db.Exec(
		`INSERT OR REPLACE INTO embeddings (key, model, dim, norm, vector, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		key, emb.Model, emb.Dim, emb.Norm, encodeVector(emb.Vector), time.Now().Unix(),
	)
}

// Count returns the stored entry count, for the CLI's cache inspection.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM embeddings`).Scan(&n)
	return n, err
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// encodeVector packs float32 values little-endian, 4 bytes each.
func encodeVector(vec []float32) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(vec)*4))
	for _, v := range vec {
		binary.Write(buf, binary.LittleEndian, math.Float32bits(v))
	}
	return buf.Bytes()
}

func decodeVector(blob []byte, dim int) ([]float32, error) {
	if len(blob) != dim*4 {
		return nil, fmt.Errorf("vector blob is %d bytes, want %d", len(blob), dim*4)
	}
	vec := make([]float32, dim)
	for i := range vec {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vec[i] = math.Float32frombits(bits)
	}
	return vec, nil
}
