package counter

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	cache "github.com/CodeAndHammer/venkovorto/internal/cache"
)

// currentSchemaVersion is the latest schema version. Bump when adding
// migrations.
const currentSchemaVersion = 1

// Store is the durable word -> times-successfully-guessed mapping. Counts
// only ever grow, and the increment is a single atomic upsert so concurrent
// accepted guesses for the same word are never lost or double-counted.
type Store struct {
	db *sql.DB
}

// Open initializes the SQLite database at baseDir/counters.db. The baseDir
// parameter lets tests use t.TempDir().
func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, "counters.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("failed to get user_version: %w", err)
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS global_guess_counts (
		  word        TEXT PRIMARY KEY,
		  guess_count INTEGER NOT NULL DEFAULT 1
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("failed to set user_version: %w", err)
		}
	}

	return nil
}

// IncrementAndGet bumps the count for the normalized word and returns the
// new value. The upsert is atomic at the store level: no read-then-write.
func (s *Store) IncrementAndGet(ctx context.Context, word string) (int64, error) {
	normalized := cache.Normalize(word)
	if normalized == "" {
		return 0, fmt.Errorf("cannot count empty word")
	}

	var count int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO global_guess_counts (word, guess_count)
		VALUES (?, 1)
		ON CONFLICT (word) DO UPDATE SET
		    guess_count = guess_count + 1
		RETURNING guess_count;
	`, normalized).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment count for %q: %w", normalized, err)
	}
	return count, nil
}

// Count returns the current count for a word, zero if never guessed.
func (s *Store) Count(ctx context.Context, word string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT guess_count FROM global_guess_counts WHERE word = ?",
		cache.Normalize(word)).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read count: %w", err)
	}
	return count, nil
}

// WordCount is one row of the global leaderboard.
type WordCount struct {
	Word  string
	Count int64
}

// TopWords returns the most-guessed words, highest count first.
func (s *Store) TopWords(ctx context.Context, limit int) ([]WordCount, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT word, guess_count FROM global_guess_counts
		ORDER BY guess_count DESC, word ASC
		LIMIT ?;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top words: %w", err)
	}
	defer rows.Close()

	var out []WordCount
	for rows.Next() {
		var wc WordCount
		if err := rows.Scan(&wc.Word, &wc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, wc)
	}
	return out, rows.Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
