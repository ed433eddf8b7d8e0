// Package cache keeps solved mazes in SQLite, keyed by a BLAKE3 digest of the
// grid and the expected agent count.
package cache

import (
	"database/sql"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"lukechampine.com/blake3"
	_ "modernc.org/sqlite"

	"github.com/zucenko/keymaze/model"
)

//go:embed schema.sql
var schemaSQL string

//go:embed pragmas.sql
var pragmasSQL string

var ErrNotFound = errors.New("solution not found")

// EncodeAll and DecodeAll are safe for concurrent use.
var (
	encoder, _ = zstd.NewWriter(nil)
	decoder, _ = zstd.NewReader(nil)
)

// Entry is one stored solution. Grid holds the canonical grid text.
type Entry struct {
	Digest    []byte
	Agents    int
	Found     bool
	Distance  int
	Expanded  int
	Steps     []model.Pickup
	Grid      string
	CreatedAt int64
}

// Solution converts e to its wire form.
func (e Entry) Solution() model.Solution {
	return model.Solution{
		Digest:   hex.EncodeToString(e.Digest),
		Agents:   e.Agents,
		Found:    e.Found,
		Distance: e.Distance,
		Expanded: e.Expanded,
		Cached:   true,
		Steps:    e.Steps,
	}
}

type Store struct {
	conn *sql.DB
	mu   sync.RWMutex
	path string
}

// Digest is blake3 over the agent count and the canonical grid text.
func Digest(grid string, agents int) []byte {
	sum := blake3.Sum256([]byte(strconv.Itoa(agents) + "\n" + grid))
	return sum[:]
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	for _, pragma := range strings.Split(pragmasSQL, "\n") {
		pragma = strings.TrimSpace(pragma)
		if pragma == "" || strings.HasPrefix(pragma, "--") {
			continue
		}
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{conn: conn, path: path}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) Path() string { return s.path }

// Put stores e, replacing any entry with the same digest.
func (s *Store) Put(e Entry) error {
	steps, err := json.Marshal(e.Steps)
	if err != nil {
		return fmt.Errorf("encoding steps: %w", err)
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UnixMilli()
	}
	blob := encoder.EncodeAll([]byte(e.Grid), nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.conn.Exec(
		`INSERT OR REPLACE INTO solutions (digest, agents, found, distance, expanded, steps, grid, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Digest, e.Agents, e.Found, e.Distance, e.Expanded, string(steps), blob, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting solution: %w", err)
	}
	return nil
}

func (s *Store) Get(digest []byte) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := Entry{Digest: digest}
	var steps string
	var blob []byte
	err := s.conn.QueryRow(
		`SELECT agents, found, distance, expanded, steps, grid, created_at FROM solutions WHERE digest = ?`, digest,
	).Scan(&e.Agents, &e.Found, &e.Distance, &e.Expanded, &steps, &blob, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("querying solution: %w", err)
	}

	if err := json.Unmarshal([]byte(steps), &e.Steps); err != nil {
		return Entry{}, fmt.Errorf("decoding steps: %w", err)
	}
	grid, err := decoder.DecodeAll(blob, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("decompressing grid: %w", err)
	}
	e.Grid = string(grid)
	return e, nil
}

// GetHex looks up a hex encoded digest.
func (s *Store) GetHex(digest string) (Entry, error) {
	raw, err := hex.DecodeString(digest)
	if err != nil || len(raw) != 32 {
		return Entry{}, ErrNotFound
	}
	return s.Get(raw)
}

func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM solutions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting solutions: %w", err)
	}
	return n, nil
}
