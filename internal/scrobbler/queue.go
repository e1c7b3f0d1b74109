package scrobbler

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Queue is the offline store of plays waiting for submission, kept in
// SQLite.
type Queue struct {
	db  *sql.DB
	now func() time.Time
}

// QueuedPlay is a play as stored in the queue.
type QueuedPlay struct {
	ID int64
	Play

	Submitted bool
	Error     string
}

// Stats summarises the queue contents.
type Stats struct {
	Total   int
	Pending int
	Failed  int
}

const schema = `
	CREATE TABLE IF NOT EXISTS plays (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		artist TEXT NOT NULL,
		track TEXT NOT NULL,
		album TEXT NOT NULL DEFAULT '',
		album_artist TEXT NOT NULL DEFAULT '',
		duration INTEGER NOT NULL,
		played INTEGER NOT NULL,
		timestamp INTEGER NOT NULL,
		submitted BOOLEAN NOT NULL DEFAULT 0,
		error TEXT,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_plays_pending ON plays(submitted, timestamp);
`

// NewQueue opens (creating if needed) the queue database at dbPath.
// ":memory:" gives a private in-memory queue.
func NewQueue(dbPath string) (*Queue, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps in-memory databases shared across calls
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Queue{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (q *Queue) Close() error {
	if q.db != nil {
		return q.db.Close()
	}
	return nil
}

// Add validates a play and stores it. Plays that fail the scrobbling
// rules are rejected with ErrNotEligible or ErrTooOld.
func (q *Queue) Add(ctx context.Context, p Play) (int64, error) {
	if err := p.Validate(q.now()); err != nil {
		return 0, err
	}

	played := p.Played
	if played == 0 {
		played = p.Duration
	}

	result, err := q.db.ExecContext(ctx, `
		INSERT INTO plays (artist, track, album, album_artist, duration, played, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Artist,
		p.Track,
		p.Album,
		p.AlbumArtist,
		int64(p.Duration.Seconds()),
		int64(played.Seconds()),
		p.Timestamp.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert play: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert id: %w", err)
	}
	return id, nil
}

// Pending returns unsubmitted plays, oldest first. A limit of zero or
// less returns all of them.
func (q *Queue) Pending(ctx context.Context, limit int) ([]QueuedPlay, error) {
	query := selectPlays + " WHERE submitted = 0 ORDER BY timestamp ASC, id ASC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return q.query(ctx, query, args...)
}

// All returns every stored play, newest first.
func (q *Queue) All(ctx context.Context) ([]QueuedPlay, error) {
	return q.query(ctx, selectPlays+" ORDER BY timestamp DESC, id DESC")
}

const selectPlays = `
	SELECT id, artist, track, album, album_artist, duration, played, timestamp, submitted, COALESCE(error, '')
	FROM plays`

func (q *Queue) query(ctx context.Context, query string, args ...any) ([]QueuedPlay, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var plays []QueuedPlay
	for rows.Next() {
		var (
			p                      QueuedPlay
			duration, played, unix int64
		)
		if err := rows.Scan(&p.ID, &p.Artist, &p.Track, &p.Album, &p.AlbumArtist,
			&duration, &played, &unix, &p.Submitted, &p.Error); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		p.Duration = time.Duration(duration) * time.Second
		p.Played = time.Duration(played) * time.Second
		p.Timestamp = time.Unix(unix, 0)
		plays = append(plays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plays: %w", err)
	}
	return plays, nil
}

// MarkSubmitted marks plays as handled by Last.fm. A non-empty note is
// kept as the play's error, which is how ignored scrobbles are recorded.
func (q *Queue) MarkSubmitted(ctx context.Context, ids []int64, note string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var errValue any
	if note != "" {
		errValue = note
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, errValue)
	for _, id := range ids {
		args = append(args, id)
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE plays SET submitted = 1, error = ? WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("failed to mark plays submitted: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows != int64(len(ids)) {
		return fmt.Errorf("marked %d of %d plays submitted", rows, len(ids))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// MarkFailed records a submission error and leaves the plays pending.
func (q *Queue) MarkFailed(ctx context.Context, ids []int64, errMsg string) error {
	for _, id := range ids {
		result, err := q.db.ExecContext(ctx, "UPDATE plays SET error = ? WHERE id = ?", errMsg, id)
		if err != nil {
			return fmt.Errorf("failed to mark play error: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("play with id %d not found", id)
		}
	}
	return nil
}

// Stats counts plays by state.
func (q *Queue) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := q.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN submitted = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN submitted = 0 AND error IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM plays`).Scan(&s.Total, &s.Pending, &s.Failed)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count plays: %w", err)
	}
	return s, nil
}

// Prune deletes submitted plays older than maxAge, and pending plays
// Last.fm would no longer accept.
func (q *Queue) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	now := q.now()
	result, err := q.db.ExecContext(ctx, `
		DELETE FROM plays
		WHERE (submitted = 1 AND timestamp < ?)
		OR (submitted = 0 AND timestamp < ?)`,
		now.Add(-maxAge).Unix(),
		now.Add(-MaxScrobbleAge).Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune plays: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}
