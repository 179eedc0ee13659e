package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/olboyarshinova/daily-exersises-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single writer. With one connection the ledger's INSERT OR IGNORE is
	// serialized even when overlapping ticks race for the same subscriber.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// UpsertSubscriber inserts a subscriber or refreshes an existing one.
// Re-registration updates the name fields and reactivates the subscriber,
// but the notify_time preference is preserved; use SetNotifyTime to change it.
func (r *SQLiteRepo) UpsertSubscriber(ctx context.Context, s *domain.Subscriber) error {
	if s == nil {
		return errors.New("nil subscriber")
	}

	notifyTime := s.NotifyTime
	if notifyTime == "" {
		notifyTime = domain.DefaultNotifyTime
	}
	created := s.CreatedAt.UTC().Unix()
	if created <= 0 {
		created = time.Now().UTC().Unix()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscribers (
			chat_id, username, first_name, last_name, notify_time, active, created_at
		) VALUES (?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			username   = excluded.username,
			first_name = excluded.first_name,
			last_name  = excluded.last_name,
			active     = 1`,
		s.ChatID, s.Username, s.FirstName, s.LastName, notifyTime, created,
	)
	return err
}

// GetSubscriber returns a subscriber by chatID or an error if not found.
func (r *SQLiteRepo) GetSubscriber(ctx context.Context, chatID int64) (*domain.Subscriber, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT chat_id, username, first_name, last_name, notify_time, active, created_at
		FROM subscribers
		WHERE chat_id = ?`,
		chatID,
	)

	var (
		s         domain.Subscriber
		activeInt int
		createdAt int64
	)
	if err := row.Scan(
		&s.ChatID, &s.Username, &s.FirstName, &s.LastName,
		&s.NotifyTime, &activeInt, &createdAt,
	); err != nil {
		return nil, err
	}
	s.Active = activeInt != 0
	s.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &s, nil
}

// ListDueActive returns the distinct chat IDs of active subscribers whose
// notify_time equals notifyTime. Exact string match, no tolerance window.
func (r *SQLiteRepo) ListDueActive(ctx context.Context, notifyTime string) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT chat_id
		FROM subscribers
		WHERE active = 1 AND notify_time = ?`,
		notifyTime,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetNotifyTime creates or updates a subscriber's notification time.
// Other fields keep their current (or default) values.
func (r *SQLiteRepo) SetNotifyTime(ctx context.Context, chatID int64, notifyTime string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscribers (chat_id, notify_time, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			notify_time = excluded.notify_time`,
		chatID, notifyTime, time.Now().UTC().Unix(),
	)
	return err
}

// Deactivate sets active = 0 for the subscriber. Idempotent; deactivating
// an unknown or already inactive chat is a no-op.
func (r *SQLiteRepo) Deactivate(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscribers
		SET active = 0
		WHERE chat_id = ?`,
		chatID,
	)
	return err
}

// WasSentToday reports whether the ledger has a record for (chatID, date).
func (r *SQLiteRepo) WasSentToday(ctx context.Context, chatID int64, date string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM sent_videos
		WHERE chat_id = ? AND date = ?`,
		chatID, date,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkSent records a completed delivery. A repeated call for the same
// (chatID, date) is a silent no-op: the UNIQUE constraint plus OR IGNORE
// make this the atomic guard against double-sends.
func (r *SQLiteRepo) MarkSent(ctx context.Context, chatID int64, date string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO sent_videos (chat_id, date, sent_at)
		VALUES (?, ?, ?)`,
		chatID, date, time.Now().UTC().Unix(),
	)
	return err
}

// ResetForToday deletes the ledger record for (chatID, date) so a freshly
// re-registered subscriber can receive today's video again.
func (r *SQLiteRepo) ResetForToday(ctx context.Context, chatID int64, date string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM sent_videos
		WHERE chat_id = ? AND date = ?`,
		chatID, date,
	)
	return err
}

// Stats aggregates directory totals and how many distinct subscribers
// received the video dated date.
func (r *SQLiteRepo) Stats(ctx context.Context, date string) (domain.Stats, error) {
	var st domain.Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN active = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN active = 0 THEN 1 ELSE 0 END), 0),
			(SELECT COUNT(DISTINCT chat_id) FROM sent_videos WHERE date = ?)
		FROM subscribers`,
		date,
	).Scan(&st.TotalUsers, &st.ActiveUsers, &st.InactiveUsers, &st.ReceivedToday)
	return st, err
}
