package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fakasys/fakachat-server/internal/store"
)

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	discriminator TEXT NOT NULL,
	roles         TEXT NOT NULL DEFAULT '["User"]',
	bio           TEXT NOT NULL DEFAULT '',
	avatar_url    TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'online',
	last_seen     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL,
	discriminator TEXT NOT NULL,
	roles         TEXT NOT NULL,
	text          TEXT NOT NULL,
	sent_at       DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS friends (
	username TEXT NOT NULL,
	friend   TEXT NOT NULL,
	PRIMARY KEY (username, friend)
);

CREATE TABLE IF NOT EXISTS friend_requests (
	from_user  TEXT NOT NULL,
	to_user    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (from_user, to_user)
);
`

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup creates a new SQLite store and runs a setup function.
// Useful for tests to apply a custom schema.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// CreateUser creates a new user with hashed password.
func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash, discriminator string, roles []string) (*store.User, error) {
	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return nil, fmt.Errorf("marshal roles: %w", err)
	}

	query := `
		INSERT INTO users (username, password_hash, discriminator, roles, status, last_seen)
		VALUES (?, ?, ?, ?, 'online', ?)
	`
	if _, err := s.db.ExecContext(ctx, query, username, passwordHash, discriminator, string(rolesJSON), time.Now()); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return s.GetUserByUsername(ctx, username)
}

// GetUserByUsername retrieves a user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*store.User, error) {
	query := `
		SELECT id, username, password_hash, discriminator, roles, bio, avatar_url, status, last_seen, created_at
		FROM users
		WHERE username = ?
	`
	var u store.User
	var rolesJSON string
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Discriminator, &rolesJSON,
		&u.Bio, &u.AvatarURL, &u.Status, &u.LastSeen, &u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	if err := json.Unmarshal([]byte(rolesJSON), &u.Roles); err != nil {
		return nil, fmt.Errorf("unmarshal roles: %w", err)
	}
	return &u, nil
}

// UpdateProfile updates bio and status for a user.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, username, bio, status string) error {
	query := `UPDATE users SET bio = ?, status = ? WHERE username = ?`
	if _, err := s.db.ExecContext(ctx, query, bio, status, username); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// UpdateAvatar sets the avatar URL for a user.
func (s *SQLiteStore) UpdateAvatar(ctx context.Context, username, avatarURL string) error {
	query := `UPDATE users SET avatar_url = ? WHERE username = ?`
	if _, err := s.db.ExecContext(ctx, query, avatarURL, username); err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	return nil
}

// UpdateStatus records online/offline transitions.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, username, status string, lastSeen time.Time) error {
	query := `UPDATE users SET status = ?, last_seen = ? WHERE username = ?`
	if _, err := s.db.ExecContext(ctx, query, status, lastSeen, username); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// ==== MessageStore implementation ====

// AppendMessage appends a message and trims the log to HistoryLimit entries
// inside one transaction, so concurrent appenders can never lose an entry to
// a read-modify-write race.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *store.ChatMessage) error {
	rolesJSON, err := json.Marshal(msg.Roles)
	if err != nil {
		return fmt.Errorf("marshal roles: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO messages (username, discriminator, roles, text, sent_at)
		VALUES (?, ?, ?, ?, ?)
	`, msg.Username, msg.Discriminator, string(rolesJSON), msg.Text, msg.SentAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM messages
		WHERE id NOT IN (SELECT id FROM messages ORDER BY id DESC LIMIT ?)
	`, store.HistoryLimit); err != nil {
		return fmt.Errorf("trim messages: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		msg.ID = id
	}
	return nil
}

// ListMessages returns the log oldest-first.
func (s *SQLiteStore) ListMessages(ctx context.Context) ([]*store.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, discriminator, roles, text, sent_at
		FROM messages
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []*store.ChatMessage
	for rows.Next() {
		var m store.ChatMessage
		var rolesJSON string
		if err := rows.Scan(&m.ID, &m.Username, &m.Discriminator, &rolesJSON, &m.Text, &m.SentAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if err := json.Unmarshal([]byte(rolesJSON), &m.Roles); err != nil {
			return nil, fmt.Errorf("unmarshal roles: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// ==== FriendStore implementation ====

// IsFriend checks one direction of the friend graph. The graph is written
// symmetrically, so one direction suffices.
func (s *SQLiteStore) IsFriend(ctx context.Context, username, friend string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM friends WHERE username = ? AND friend = ?
	`, username, friend).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("is friend: %w", err)
	}
	return n > 0, nil
}

// ListFriends lists the friends of a user.
func (s *SQLiteStore) ListFriends(ctx context.Context, username string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT friend FROM friends WHERE username = ? ORDER BY friend
	`, username)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// AddFriendship records the friendship in both directions.
func (s *SQLiteStore) AddFriendship(ctx context.Context, a, b string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT OR IGNORE INTO friends (username, friend) VALUES (?, ?)`
	if _, err := tx.ExecContext(ctx, query, a, b); err != nil {
		return fmt.Errorf("add friendship: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, b, a); err != nil {
		return fmt.Errorf("add friendship reverse: %w", err)
	}

	return tx.Commit()
}

// CreateFriendRequest records a pending request.
func (s *SQLiteStore) CreateFriendRequest(ctx context.Context, fromUser, toUser string) error {
	query := `INSERT INTO friend_requests (from_user, to_user) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, query, fromUser, toUser); err != nil {
		return fmt.Errorf("create friend request: %w", err)
	}
	return nil
}

// HasFriendRequest checks for a pending request.
func (s *SQLiteStore) HasFriendRequest(ctx context.Context, fromUser, toUser string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM friend_requests WHERE from_user = ? AND to_user = ?
	`, fromUser, toUser).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("has friend request: %w", err)
	}
	return n > 0, nil
}

// DeleteFriendRequest removes a pending request.
func (s *SQLiteStore) DeleteFriendRequest(ctx context.Context, fromUser, toUser string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM friend_requests WHERE from_user = ? AND to_user = ?
	`, fromUser, toUser)
	if err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}
	return nil
}

// ListFriendRequests lists usernames with a pending request to the user.
func (s *SQLiteStore) ListFriendRequests(ctx context.Context, toUser string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT from_user FROM friend_requests WHERE to_user = ? ORDER BY created_at
	`, toUser)
	if err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
