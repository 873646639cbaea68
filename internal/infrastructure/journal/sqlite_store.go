// Package journal persists the conversation log so past exchanges survive
// restarts and can be listed or exported from the CLI.
package journal

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hesabkit/hesabchat/internal/domain"
	"github.com/hesabkit/hesabchat/internal/pkg/filesystem"
	"github.com/hesabkit/hesabchat/internal/ports"
)

// SQLiteStore keeps conversation entries in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) ~/.hesabchat/journal/journal.db. When
// the database cannot be opened the store degrades to the jsonl file
// fallback.
func NewSQLiteStore() *SQLiteStore {
	path := filepath.Join(filesystem.UserHomeDir(), ".hesabchat", "journal", "journal.db")
	return newSQLiteStoreAt(path)
}

func newSQLiteStoreAt(path string) *SQLiteStore {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		actor TEXT,
		text TEXT,
		payload TEXT,
		timestamp TEXT
	);`)
	return err
}

// Append inserts one conversation entry.
func (s *SQLiteStore) Append(entry domain.ConversationEntry) error {
	if s.db == nil {
		return (&FileStore{path: fallbackPath(s.path)}).Append(entry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	payload := ""
	if entry.Payload != nil {
		raw, err := json.Marshal(entry.Payload)
		if err != nil {
			return err
		}
		payload = string(raw)
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO entries (id, actor, text, payload, timestamp) VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		string(entry.Actor),
		entry.Text,
		payload,
		entry.Timestamp.Format(time.RFC3339),
	)
	return err
}

// Records returns entries newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.ConversationEntry, error) {
	if s.db == nil {
		return (&FileStore{path: fallbackPath(s.path)}).Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT id, actor, text, payload, timestamp FROM entries")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE text LIKE ?")
		args = append(args, "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []domain.ConversationEntry
	for rows.Next() {
		var entry domain.ConversationEntry
		var actor, payload, ts string
		if err := rows.Scan(&entry.ID, &actor, &entry.Text, &payload, &ts); err != nil {
			return nil, err
		}
		entry.Actor = domain.Actor(actor)
		if payload != "" {
			var p domain.EntryPayload
			if err := json.Unmarshal([]byte(payload), &p); err == nil {
				entry.Payload = &p
			}
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			entry.Timestamp = t
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear deletes all journal entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return (&FileStore{path: fallbackPath(s.path)}).Clear()
	}
	_, err := s.db.Exec("DELETE FROM entries")
	return err
}

// ExportJSON writes the journal to a jsonl file, oldest first.
func (s *SQLiteStore) ExportJSON(dest string) error {
	entries, err := s.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for i := len(entries) - 1; i >= 0; i-- {
		b, err := json.Marshal(entries[i])
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func fallbackPath(dbPath string) string {
	return strings.TrimSuffix(dbPath, filepath.Ext(dbPath)) + ".jsonl"
}

var _ ports.ConversationJournal = (*SQLiteStore)(nil)
