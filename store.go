package wishwall

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested page or greeting does not exist.
var ErrNotFound = sql.ErrNoRows

// Store wraps a SQLite database and provides CRUD operations for birthday
// pages and greetings. It is the sole serialization point between requests.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS birthday_pages (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    birthday_date TEXT NOT NULL,
    token TEXT NOT NULL UNIQUE,
    admin_token TEXT NOT NULL UNIQUE,
    celebrant_photos TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS greetings (
    id TEXT PRIMARY KEY,
    birthday_page_id TEXT NOT NULL REFERENCES birthday_pages(id),
    type TEXT NOT NULL,
    content TEXT NOT NULL,
    sender_name TEXT NOT NULL DEFAULT '',
    reactions INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_greetings_page_created ON greetings(birthday_page_id, created_at);
`)
	return err
}

// CreatePage inserts a new birthday page. A token collision violates the
// unique constraints and surfaces as an error here.
func (s *Store) CreatePage(p BirthdayPage) error {
	photos, err := marshalPhotos(p.CelebrantPhotos)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO birthday_pages (id, name, title, birthday_date, token, admin_token, celebrant_photos, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Title, p.BirthdayDate, p.Token, p.AdminToken, photos, p.CreatedAt)
	return err
}

// GetPageByToken returns the page addressed by its public token.
func (s *Store) GetPageByToken(token string) (BirthdayPage, error) {
	return s.getPage(`SELECT id, name, title, birthday_date, token, admin_token, celebrant_photos, created_at FROM birthday_pages WHERE token = ?`, token)
}

// GetPageByAdminToken returns the page addressed by its admin token.
func (s *Store) GetPageByAdminToken(adminToken string) (BirthdayPage, error) {
	return s.getPage(`SELECT id, name, title, birthday_date, token, admin_token, celebrant_photos, created_at FROM birthday_pages WHERE admin_token = ?`, adminToken)
}

// GetPageByID returns the page with the given id.
func (s *Store) GetPageByID(id string) (BirthdayPage, error) {
	return s.getPage(`SELECT id, name, title, birthday_date, token, admin_token, celebrant_photos, created_at FROM birthday_pages WHERE id = ?`, id)
}

func (s *Store) getPage(query string, arg string) (BirthdayPage, error) {
	var p BirthdayPage
	var photos string
	err := s.db.QueryRow(query, arg).
		Scan(&p.ID, &p.Name, &p.Title, &p.BirthdayDate, &p.Token, &p.AdminToken, &photos, &p.CreatedAt)
	if err != nil {
		return BirthdayPage{}, err
	}
	p.CelebrantPhotos, err = unmarshalPhotos(photos)
	if err != nil {
		return BirthdayPage{}, err
	}
	return p, nil
}

// CreateGreeting inserts a greeting row. Reactions start at zero.
func (s *Store) CreateGreeting(g Greeting) error {
	_, err := s.db.Exec(`INSERT INTO greetings (id, birthday_page_id, type, content, sender_name, reactions, created_at) VALUES (?, ?, ?, ?, ?, 0, ?)`,
		g.ID, g.BirthdayPageID, g.Type, g.Content, g.SenderName, g.CreatedAt)
	return err
}

// GetGreeting returns a single greeting by id.
func (s *Store) GetGreeting(id string) (Greeting, error) {
	var g Greeting
	err := s.db.QueryRow(`SELECT id, birthday_page_id, type, content, sender_name, reactions, created_at FROM greetings WHERE id = ?`, id).
		Scan(&g.ID, &g.BirthdayPageID, &g.Type, &g.Content, &g.SenderName, &g.Reactions, &g.CreatedAt)
	if err != nil {
		return Greeting{}, err
	}
	return g, nil
}

// ListGreetings returns all greetings for a page, newest first.
func (s *Store) ListGreetings(pageID string) ([]Greeting, error) {
	rows, err := s.db.Query(`SELECT id, birthday_page_id, type, content, sender_name, reactions, created_at FROM greetings WHERE birthday_page_id = ? ORDER BY created_at DESC`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var greetings []Greeting
	for rows.Next() {
		var g Greeting
		if err := rows.Scan(&g.ID, &g.BirthdayPageID, &g.Type, &g.Content, &g.SenderName, &g.Reactions, &g.CreatedAt); err != nil {
			return nil, err
		}
		greetings = append(greetings, g)
	}
	return greetings, rows.Err()
}

// AddReaction increments a greeting's reaction counter by one as a single
// UPDATE statement and returns the new count. Concurrent calls never lose
// updates; an unknown id returns ErrNotFound.
func (s *Store) AddReaction(id string) (int64, error) {
	var reactions int64
	err := s.db.QueryRow(`UPDATE greetings SET reactions = reactions + 1 WHERE id = ? RETURNING reactions`, id).Scan(&reactions)
	if err != nil {
		return 0, err
	}
	return reactions, nil
}

// DeleteGreeting removes a greeting row by id.
func (s *Store) DeleteGreeting(id string) error {
	_, err := s.db.Exec(`DELETE FROM greetings WHERE id = ?`, id)
	return err
}

func marshalPhotos(photos []string) (string, error) {
	if len(photos) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(photos)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalPhotos(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var photos []string
	if err := json.Unmarshal([]byte(raw), &photos); err != nil {
		return nil, err
	}
	return photos, nil
}
