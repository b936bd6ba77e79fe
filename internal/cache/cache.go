package cache

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultTTL is the expiry window for cached transcripts
const DefaultTTL = 7 * 24 * time.Hour

// Key identifies one unit of cacheable work
type Key struct {
	VideoID   string
	Language  string
	Operation string // "transcribe" or "summarize"
}

// Cache stores completed transcription/summary payloads in SQLite with lazy
// time-based expiry. It is the only durable state of the backend.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func Open(path string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{db: db, ttl: ttl, now: time.Now}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transcripts (
		video_id TEXT NOT NULL,
		language TEXT NOT NULL,
		operation TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (video_id, language, operation)
	);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate cache schema: %w", err)
	}
	return nil
}

// Get returns the cached payload, or ok=false if absent or expired. Expired
// rows are deleted on read; there is no background sweep.
func (c *Cache) Get(key Key) (string, bool, error) {
	var payload string
	var createdAt time.Time
	err := c.db.QueryRow(`
		SELECT payload, created_at FROM transcripts
		WHERE video_id = ? AND language = ? AND operation = ?`,
		key.VideoID, key.Language, key.Operation,
	).Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if c.now().Sub(createdAt) > c.ttl {
		if _, err := c.db.Exec(`
			DELETE FROM transcripts
			WHERE video_id = ? AND language = ? AND operation = ?`,
			key.VideoID, key.Language, key.Operation,
		); err != nil {
			log.Printf("[cache] failed to delete expired entry: %v", err)
		}
		return "", false, nil
	}

	return payload, true, nil
}

// Put stores a payload, overwriting any previous entry for the key
func (c *Cache) Put(key Key, payload string) error {
	_, err := c.db.Exec(`
		INSERT INTO transcripts (video_id, language, operation, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (video_id, language, operation)
		DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		key.VideoID, key.Language, key.Operation, payload, c.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// ClearAll removes every entry and returns the number removed
func (c *Cache) ClearAll() (int64, error) {
	res, err := c.db.Exec(`DELETE FROM transcripts`)
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	count, _ := res.RowsAffected()
	log.Printf("[cache] cleared %d entries", count)
	return count, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}
