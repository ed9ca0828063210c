package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	apperrors "github.com/setscout/setscout/internal/errors"
)

// SQLiteStore implements Store on SQLite. WAL mode allows a reader (the
// browse side) while a scan writes.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

// Verify interface implementation at compile time
var _ Store = (*SQLiteStore)(nil)

// validateIntegrity checks a catalog database before opening. Returns nil
// if the file is missing (it will be created) or healthy.
func validateIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("cannot open for validation: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database corrupted: %s", result)
	}

	return nil
}

// NewSQLiteStore opens (or creates) the catalog database at path.
// An empty path creates an in-memory store for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	var dsn string
	if path == "" {
		dsn = ":memory:"
	} else {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		if validErr := validateIntegrity(path); validErr != nil {
			slog.Warn("catalog_corrupted",
				slog.String("path", path),
				slog.String("error", validErr.Error()))

			if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
				return nil, apperrors.New(apperrors.ErrCodeStoreCorrupt,
					fmt.Sprintf("catalog corrupted at %s and cannot remove", path), validErr)
			}
			_ = os.Remove(path + "-wal")
			_ = os.Remove(path + "-shm")

			slog.Info("catalog_cleared",
				slog.String("path", path),
				slog.String("reason", "corruption detected, rescan to rebuild"))
		}

		dsn = path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to open catalog database", err)
	}

	// Single writer prevents lock contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL must be set via PRAGMA for modernc.org/sqlite, DSN params may
	// be ignored.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -65536",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to set pragma", err)
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to initialize schema", err)
	}

	return s, nil
}

// initSchema creates the catalog tables and the FTS5 search index.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);

	CREATE TABLE IF NOT EXISTS projects (
		id                   TEXT PRIMARY KEY,
		name                 TEXT NOT NULL,
		folder_path          TEXT NOT NULL,
		file_path            TEXT NOT NULL UNIQUE,
		volume               TEXT NOT NULL DEFAULT '',
		content_hash         TEXT NOT NULL DEFAULT '',
		file_created_at      INTEGER NOT NULL DEFAULT 0,
		file_modified_at     INTEGER NOT NULL DEFAULT 0,
		indexed_at           INTEGER NOT NULL DEFAULT 0,
		tempo                REAL,
		time_sig_numerator   INTEGER NOT NULL DEFAULT 4,
		time_sig_denominator INTEGER NOT NULL DEFAULT 4,
		audio_tracks         INTEGER NOT NULL DEFAULT 0,
		midi_tracks          INTEGER NOT NULL DEFAULT 0,
		return_tracks        INTEGER NOT NULL DEFAULT 0,
		creator              TEXT NOT NULL DEFAULT '',
		duration_seconds     REAL,
		samples              TEXT NOT NULL DEFAULT '[]',
		plugins              TEXT NOT NULL DEFAULT '[]',
		keys                 TEXT NOT NULL DEFAULT '[]',
		tags                 TEXT NOT NULL DEFAULT '[]',
		notes                TEXT NOT NULL DEFAULT '',
		status               TEXT NOT NULL DEFAULT 'none',
		favorite             INTEGER NOT NULL DEFAULT 0,
		color_label          TEXT NOT NULL DEFAULT '',
		last_opened_at       INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_projects_content_hash ON projects(content_hash);
	CREATE INDEX IF NOT EXISTS idx_projects_volume ON projects(volume);

	CREATE TABLE IF NOT EXISTS locations (
		id              TEXT PRIMARY KEY,
		path            TEXT NOT NULL UNIQUE,
		name            TEXT NOT NULL,
		auto_detected   INTEGER NOT NULL DEFAULT 0,
		enabled         INTEGER NOT NULL DEFAULT 1,
		project_count   INTEGER NOT NULL DEFAULT 0,
		last_scanned_at INTEGER
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS projects_fts USING fts5(
		entry_id UNINDEXED,
		name,
		plugins,
		samples,
		keys,
		tags,
		notes,
		tokenize='unicode61'
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`

	_, err := s.db.Exec(schema)
	return err
}

// entryColumns is the SELECT column list matching scanEntry.
const entryColumns = `id, name, folder_path, file_path, volume, content_hash,
	file_created_at, file_modified_at, indexed_at,
	tempo, time_sig_numerator, time_sig_denominator,
	audio_tracks, midi_tracks, return_tracks, creator, duration_seconds,
	samples, plugins, keys,
	tags, notes, status, favorite, color_label, last_opened_at`

// prefixedEntryColumns qualifies entryColumns with a table alias, for
// queries that join projects against the FTS table and would otherwise hit
// ambiguous column names.
func prefixedEntryColumns(alias string) string {
	cols := strings.Split(entryColumns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

// FetchAll returns every catalog entry ordered by name.
func (s *SQLiteStore) FetchAll(ctx context.Context) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, apperrors.New(apperrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM projects ORDER BY name COLLATE NOCASE")
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to query projects", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FetchByPaths returns existing entries keyed by authoritative file path.
// Paths with no entry are simply absent from the result.
func (s *SQLiteStore) FetchByPaths(ctx context.Context, paths []string) (map[string]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, apperrors.New(apperrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}

	result := make(map[string]*Entry, len(paths))
	if len(paths) == 0 {
		return result, nil
	}

	// Chunk the IN clause to stay well under SQLite's bind parameter cap.
	const chunkSize = 500
	for start := 0; start < len(paths); start += chunkSize {
		end := start + chunkSize
		if end > len(paths) {
			end = len(paths)
		}
		chunk := paths[start:end]

		placeholders := strings.Repeat("?,", len(chunk))
		placeholders = placeholders[:len(placeholders)-1]
		args := make([]any, len(chunk))
		for i, p := range chunk {
			args[i] = p
		}

		rows, err := s.db.QueryContext(ctx,
			"SELECT "+entryColumns+" FROM projects WHERE file_path IN ("+placeholders+")", args...)
		if err != nil {
			return nil, apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to query projects by path", err)
		}

		for rows.Next() {
			e, err := scanEntry(rows)
			if err != nil {
				rows.Close()
				return nil, err
			}
			result[e.FilePath] = e
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return result, nil
}

// UpsertMany writes entries in a single transaction, keyed by id, and
// refreshes the search index rows for each.
func (s *SQLiteStore) UpsertMany(ctx context.Context, entries []*Entry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO projects (
			id, name, folder_path, file_path, volume, content_hash,
			file_created_at, file_modified_at, indexed_at,
			tempo, time_sig_numerator, time_sig_denominator,
			audio_tracks, midi_tracks, return_tracks, creator, duration_seconds,
			samples, plugins, keys,
			tags, notes, status, favorite, color_label, last_opened_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			folder_path = excluded.folder_path,
			file_path = excluded.file_path,
			volume = excluded.volume,
			content_hash = excluded.content_hash,
			file_created_at = excluded.file_created_at,
			file_modified_at = excluded.file_modified_at,
			indexed_at = excluded.indexed_at,
			tempo = excluded.tempo,
			time_sig_numerator = excluded.time_sig_numerator,
			time_sig_denominator = excluded.time_sig_denominator,
			audio_tracks = excluded.audio_tracks,
			midi_tracks = excluded.midi_tracks,
			return_tracks = excluded.return_tracks,
			creator = excluded.creator,
			duration_seconds = excluded.duration_seconds,
			samples = excluded.samples,
			plugins = excluded.plugins,
			keys = excluded.keys,
			tags = excluded.tags,
			notes = excluded.notes,
			status = excluded.status,
			favorite = excluded.favorite,
			color_label = excluded.color_label,
			last_opened_at = excluded.last_opened_at`)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to prepare upsert", err)
	}
	defer upsert.Close()

	for _, e := range entries {
		_, err := upsert.ExecContext(ctx,
			e.ID, e.Name, e.FolderPath, e.FilePath, e.Volume, e.ContentHash,
			e.FileCreatedAt.Unix(), e.FileModifiedAt.Unix(), e.IndexedAt.Unix(),
			nullFloat(e.Tempo), e.TimeSigNumerator, e.TimeSigDenominator,
			e.AudioTracks, e.MidiTracks, e.ReturnTracks, e.Creator, nullFloat(e.DurationSeconds),
			jsonList(e.SampleNames), jsonList(e.PluginNames), jsonList(e.Keys),
			jsonList(e.Tags), e.Notes, string(statusOrNone(e.Status)), boolInt(e.Favorite), e.ColorLabel,
			nullTime(e.LastOpenedAt),
		)
		if err != nil {
			return apperrors.New(apperrors.ErrCodeStoreUnavailable,
				fmt.Sprintf("failed to upsert entry %s", e.ID), err)
		}

		if err := s.refreshSearchRow(ctx, tx, e); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to commit upsert", err)
	}
	return nil
}

// refreshSearchRow replaces the FTS row for one entry.
func (s *SQLiteStore) refreshSearchRow(ctx context.Context, tx *sql.Tx, e *Entry) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM projects_fts WHERE entry_id = ?", e.ID); err != nil {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to clear search row", err)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO projects_fts (entry_id, name, plugins, samples, keys, tags, notes)
		VALUES (?,?,?,?,?,?,?)`,
		e.ID, e.Name,
		strings.Join(e.PluginNames, " "),
		strings.Join(e.SampleNames, " "),
		strings.Join(e.Keys, " "),
		strings.Join(e.Tags, " "),
		e.Notes,
	)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to write search row", err)
	}
	return nil
}

// Delete removes one entry and its search row.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.DeleteMany(ctx, []string{id})
}

// DeleteMany removes entries by id. Unknown ids are ignored.
func (s *SQLiteStore) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id); err != nil {
			return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to delete entry", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM projects_fts WHERE entry_id = ?", id); err != nil {
			return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to delete search row", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to commit delete", err)
	}
	return nil
}

// UpdateAnnotations applies a partial update to the user-owned fields of
// one entry. Derived fields are untouchable through this path.
func (s *SQLiteStore) UpdateAnnotations(ctx context.Context, id string, a Annotations) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}

	var sets []string
	var args []any

	if a.Tags != nil {
		sets = append(sets, "tags = ?")
		args = append(args, jsonList(*a.Tags))
	}
	if a.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *a.Notes)
	}
	if a.Status != nil {
		if !ValidStatus(*a.Status) {
			return apperrors.New(apperrors.ErrCodeInvalidInput,
				fmt.Sprintf("unknown status %q", *a.Status), nil)
		}
		sets = append(sets, "status = ?")
		args = append(args, string(*a.Status))
	}
	if a.Favorite != nil {
		sets = append(sets, "favorite = ?")
		args = append(args, boolInt(*a.Favorite))
	}
	if a.ColorLabel != nil {
		sets = append(sets, "color_label = ?")
		args = append(args, *a.ColorLabel)
	}
	if a.LastOpenedAt != nil {
		sets = append(sets, "last_opened_at = ?")
		args = append(args, a.LastOpenedAt.Unix())
	}

	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE projects SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to update annotations", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return apperrors.New(apperrors.ErrCodeNotFound, fmt.Sprintf("no entry with id %s", id), nil)
	}

	// Tags and notes are searchable; rebuild the FTS row from the fresh row.
	if a.Tags != nil || a.Notes != nil {
		if err := s.rebuildSearchRowByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) rebuildSearchRowByID(ctx context.Context, id string) error {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM projects WHERE id = ?", id)
	e, err := scanEntry(row)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.refreshSearchRow(ctx, tx, e); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to commit search update", err)
	}
	return nil
}

// Search runs an FTS5 query over the catalog and returns matching entries
// ranked by relevance.
func (s *SQLiteStore) Search(ctx context.Context, query string, limit int) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, apperrors.New(apperrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	// MATCH binds to the unaliased FTS table name; the join keeps the
	// rank ordering on the outer result.
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixedEntryColumns("p")+`
		FROM projects_fts
		JOIN projects p ON p.id = projects_fts.entry_id
		WHERE projects_fts MATCH ?
		ORDER BY projects_fts.rank
		LIMIT ?`,
		ftsQuery(query), limit)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeStoreUnavailable, "search query failed", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ftsQuery quotes each term so user input cannot break FTS5 query syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// FetchLocations returns all configured scan roots.
func (s *SQLiteStore) FetchLocations(ctx context.Context) ([]*Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, apperrors.New(apperrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, name, auto_detected, enabled, project_count, last_scanned_at
		FROM locations ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to query locations", err)
	}
	defer rows.Close()

	var locations []*Location
	for rows.Next() {
		var loc Location
		var autoDetected, enabled int
		var scannedAt sql.NullInt64
		if err := rows.Scan(&loc.ID, &loc.Path, &loc.Name, &autoDetected, &enabled,
			&loc.ProjectCount, &scannedAt); err != nil {
			return nil, apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to scan location", err)
		}
		loc.AutoDetected = autoDetected != 0
		loc.Enabled = enabled != 0
		if scannedAt.Valid {
			t := time.Unix(scannedAt.Int64, 0)
			loc.LastScannedAt = &t
		}
		locations = append(locations, &loc)
	}
	return locations, rows.Err()
}

// SaveLocation inserts or updates a scan root, keyed by id.
func (s *SQLiteStore) SaveLocation(ctx context.Context, loc *Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO locations (id, path, name, auto_detected, enabled, project_count, last_scanned_at)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			name = excluded.name,
			auto_detected = excluded.auto_detected,
			enabled = excluded.enabled`,
		loc.ID, loc.Path, loc.Name, boolInt(loc.AutoDetected), boolInt(loc.Enabled),
		loc.ProjectCount, nullTime(loc.LastScannedAt))
	if err != nil {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to save location", err)
	}
	return nil
}

// DeleteLocation removes a scan root. Entries discovered under it stay in
// the catalog; removal of entries is always an explicit request.
func (s *SQLiteStore) DeleteLocation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM locations WHERE id = ?", id); err != nil {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to delete location", err)
	}
	return nil
}

// UpdateLocationStats refreshes the cached project count and scan time.
func (s *SQLiteStore) UpdateLocationStats(ctx context.Context, id string, count int, scannedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "store is closed", nil)
	}

	_, err := s.db.ExecContext(ctx,
		"UPDATE locations SET project_count = ?, last_scanned_at = ? WHERE id = ?",
		count, scannedAt.Unix(), id)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to update location stats", err)
	}
	return nil
}

// Close closes the store. Safe to call once.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanEntry.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var tempo, duration sql.NullFloat64
	var createdAt, modifiedAt, indexedAt int64
	var lastOpened sql.NullInt64
	var samples, plugins, keys, tags string
	var favorite int
	var status string

	err := row.Scan(
		&e.ID, &e.Name, &e.FolderPath, &e.FilePath, &e.Volume, &e.ContentHash,
		&createdAt, &modifiedAt, &indexedAt,
		&tempo, &e.TimeSigNumerator, &e.TimeSigDenominator,
		&e.AudioTracks, &e.MidiTracks, &e.ReturnTracks, &e.Creator, &duration,
		&samples, &plugins, &keys,
		&tags, &e.Notes, &status, &favorite, &e.ColorLabel, &lastOpened,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "entry not found", err)
		}
		return nil, apperrors.New(apperrors.ErrCodeStoreUnavailable, "failed to scan entry", err)
	}

	e.FileCreatedAt = time.Unix(createdAt, 0)
	e.FileModifiedAt = time.Unix(modifiedAt, 0)
	e.IndexedAt = time.Unix(indexedAt, 0)
	if tempo.Valid {
		e.Tempo = &tempo.Float64
	}
	if duration.Valid {
		e.DurationSeconds = &duration.Float64
	}
	if lastOpened.Valid {
		t := time.Unix(lastOpened.Int64, 0)
		e.LastOpenedAt = &t
	}
	e.SampleNames = fromJSONList(samples)
	e.PluginNames = fromJSONList(plugins)
	e.Keys = fromJSONList(keys)
	e.Tags = fromJSONList(tags)
	e.Status = Status(status)

	return &e, nil
}

func jsonList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func fromJSONList(data string) []string {
	if data == "" || data == "[]" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil
	}
	return items
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func statusOrNone(s Status) Status {
	if s == "" {
		return StatusNone
	}
	return s
}
