package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"bookmarksapi/pkg/core/domain"
	"bookmarksapi/pkg/ports"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS bookmarks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		url TEXT NOT NULL,
		body TEXT,
		short_url TEXT NOT NULL UNIQUE,
		visits INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);
	CREATE INDEX IF NOT EXISTS idx_bookmarks_short_url ON bookmarks(short_url);
	CREATE INDEX IF NOT EXISTS idx_bookmarks_user_id ON bookmarks(user_id);
	`
	_, err := db.Exec(query)
	return err
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
// Neither sqlite driver exposes typed constraint errors, so this matches the
// driver's "UNIQUE constraint failed: <table>.<column>" message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// --- Users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (username, email, password, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.Password, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username or email: %w", domain.ErrConflict)
		}
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getUser(ctx, `id = ?`, id)
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, `email = ?`, email)
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, `username = ?`, username)
}

func (r *SQLiteRepository) getUser(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	query := `SELECT id, username, email, password, created_at, updated_at FROM users WHERE ` + where

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Bookmarks ---

// Create inserts the bookmark. The short_url unique index is the authority
// for code uniqueness: a collision with a concurrent insert comes back as
// ErrConflict, which the service treats as its retry trigger.
func (r *SQLiteRepository) Create(ctx context.Context, bookmark *domain.Bookmark) error {
	query := `INSERT INTO bookmarks (user_id, url, body, short_url, visits, created_at, updated_at)
			  VALUES (?, ?, ?, ?, 0, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, bookmark.UserID, bookmark.URL, bookmark.Body,
		bookmark.ShortURL, bookmark.CreatedAt, bookmark.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("short_url %q: %w", bookmark.ShortURL, domain.ErrConflict)
		}
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	bookmark.ID = id
	return nil
}

const bookmarkColumns = `id, user_id, url, body, short_url, visits, created_at, updated_at`

func (r *SQLiteRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE id = ? AND user_id = ?`
	return r.getBookmark(ctx, query, id, userID)
}

func (r *SQLiteRepository) GetByShortCode(ctx context.Context, code string) (*domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE short_url = ?`
	return r.getBookmark(ctx, query, code)
}

func (r *SQLiteRepository) GetByURL(ctx context.Context, url string) (*domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE url = ?`
	return r.getBookmark(ctx, query, url)
}

func (r *SQLiteRepository) getBookmark(ctx context.Context, query string, args ...interface{}) (*domain.Bookmark, error) {
	var b domain.Bookmark
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&b.ID, &b.UserID, &b.URL, &b.Body, &b.ShortURL, &b.Visits,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Update rewrites the mutable fields. user_id and short_url stay untouched.
func (r *SQLiteRepository) Update(ctx context.Context, bookmark *domain.Bookmark) error {
	query := `UPDATE bookmarks SET url = ?, body = ?, updated_at = ? WHERE id = ? AND user_id = ?`
	_, err := r.db.ExecContext(ctx, query, bookmark.URL, bookmark.Body, bookmark.UpdatedAt,
		bookmark.ID, bookmark.UserID)
	return err
}

// Delete removes the row and reports whether one was removed. Hard delete:
// the code becomes available for future generation.
func (r *SQLiteRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	query := `DELETE FROM bookmarks WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteRepository) List(ctx context.Context, userID int64, limit, offset int) ([]domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks
			  WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []domain.Bookmark
	for rows.Next() {
		var b domain.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.URL, &b.Body, &b.ShortURL, &b.Visits,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

func (r *SQLiteRepository) Count(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}

func (r *SQLiteRepository) Stats(ctx context.Context, userID int64) ([]domain.BookmarkStats, error) {
	query := `SELECT id, url, short_url, visits FROM bookmarks WHERE user_id = ? ORDER BY visits DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.BookmarkStats
	for rows.Next() {
		var s domain.BookmarkStats
		if err := rows.Scan(&s.ID, &s.URL, &s.ShortURL, &s.Visits); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// IncrementVisits bumps the counter in a single statement so concurrent
// redirects never lose updates.
func (r *SQLiteRepository) IncrementVisits(ctx context.Context, id int64) error {
	query := `UPDATE bookmarks SET visits = visits + 1 WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *SQLiteRepository) Dump(ctx context.Context) ([]domain.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []domain.Bookmark
	for rows.Next() {
		var b domain.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.URL, &b.Body, &b.ShortURL, &b.Visits,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ensure interface compliance
var _ ports.UserRepository = (*SQLiteRepository)(nil)
var _ ports.BookmarkRepository = (*SQLiteRepository)(nil)
