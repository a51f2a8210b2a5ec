package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"showdrop/internal/config"
)

// Store manages episode persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.DataDir, "catalog.db"))
}

// OpenPath opens the catalog database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

const episodeColumns = `id, code, source_title, season, episode, quality, message_id, created_at`

// Put inserts an episode, assigning CreatedAt at insertion time. The
// uniqueness check on code is made atomically by sqlite: a conflicting insert
// affects zero rows and surfaces as ErrDuplicate, leaving the first record in
// place.
func (s *Store) Put(ctx context.Context, ep *Episode) error {
	if ep == nil {
		return errors.New("episode is nil")
	}
	if ep.Code == "" {
		return errors.New("episode code is empty")
	}

	ep.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO episodes (code, source_title, season, episode, quality, message_id, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(code) DO NOTHING`,
		ep.Code,
		ep.SourceTitle,
		nullableInt(ep.Season),
		nullableInt(ep.Episode),
		ep.Quality,
		ep.MessageID,
		ep.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert episode: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDuplicate
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	ep.ID = id
	return nil
}

// Get fetches an episode by code. Absent episodes return (nil, nil).
func (s *Store) Get(ctx context.Context, code string) (*Episode, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+episodeColumns+` FROM episodes WHERE code = ?`, code)
	ep, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	return ep, nil
}

// List returns all episodes ordered by creation time.
func (s *Store) List(ctx context.Context) ([]*Episode, error) {
	return s.queryEpisodes(ctx, `SELECT `+episodeColumns+` FROM episodes ORDER BY created_at, id`)
}

// CreatedSince returns episodes created strictly after the given time,
// ordered by creation time. Used by the announcement poller.
func (s *Store) CreatedSince(ctx context.Context, since time.Time) ([]*Episode, error) {
	return s.queryEpisodes(
		ctx,
		`SELECT `+episodeColumns+` FROM episodes WHERE created_at > ? ORDER BY created_at, id`,
		since.UTC().Format(time.RFC3339Nano),
	)
}

// Update persists administrative changes to an existing episode, keyed by code.
func (s *Store) Update(ctx context.Context, ep *Episode) error {
	if ep == nil {
		return errors.New("episode is nil")
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE episodes SET source_title = ?, season = ?, episode = ?, quality = ?, message_id = ? WHERE code = ?`,
		ep.SourceTitle,
		nullableInt(ep.Season),
		nullableInt(ep.Episode),
		ep.Quality,
		ep.MessageID,
		ep.Code,
	)
	if err != nil {
		return fmt.Errorf("update episode: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an episode by code.
func (s *Store) Delete(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM episodes WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("delete episode: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) queryEpisodes(ctx context.Context, query string, args ...any) ([]*Episode, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []*Episode
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, ep)
	}
	return episodes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row rowScanner) (*Episode, error) {
	var (
		ep        Episode
		season    sql.NullInt64
		episode   sql.NullInt64
		createdAt string
	)
	if err := row.Scan(&ep.ID, &ep.Code, &ep.SourceTitle, &season, &episode, &ep.Quality, &ep.MessageID, &createdAt); err != nil {
		return nil, err
	}
	if season.Valid {
		v := int(season.Int64)
		ep.Season = &v
	}
	if episode.Valid {
		v := int(episode.Int64)
		ep.Episode = &v
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	ep.CreatedAt = ts
	return &ep, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
