package history

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/serpclient/internal/model"
)

// FileName is the database file name inside the data directory.
const FileName = "serpclient.db"

// Store provides SQLite-based storage for scrape snapshots.
type Store struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if needed.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Snapshot is one stored scrape result.
type Snapshot struct {
	ID      int64
	Query   string
	SavedAt time.Time

	// Digest is the hex SHA3-256 of the canonical payload.
	Digest string

	Payload model.Payload
}

// Verify checks the payload against the recorded digest.
func (s Snapshot) Verify() error {
	digest, err := Digest(s.Payload)
	if err != nil {
		return err
	}
	if digest != s.Digest {
		return fmt.Errorf("%w: id %d", ErrDigestMismatch, s.ID)
	}
	return nil
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		saved_at TEXT NOT NULL,
		digest TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		result_count INTEGER NOT NULL,
		analysis_count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_query ON snapshots(query);
	CREATE INDEX IF NOT EXISTS idx_snapshots_digest ON snapshots(digest);
	`
	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Digest returns the hex SHA3-256 of the canonical JSON of p.
func Digest(p model.Payload) (string, error) {
	data, err := canonical(p)
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// canonical encodes p with non-nil slices so empty and absent compare equal.
func canonical(p model.Payload) ([]byte, error) {
	if p.Data == nil {
		p.Data = []model.ScrapeResult{}
	}
	if p.Analysis == nil {
		p.Analysis = []model.AnalysisEntry{}
	}
	return json.Marshal(p)
}

// SaveSnapshot stores the data and analysis of state.
// It does nothing when the payload equals the most recent snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, query string, state model.SessionState) error {
	_, err := s.Save(ctx, query, state.Payload())
	return err
}

// Save stores p and reports whether a new row was written.
func (s *Store) Save(ctx context.Context, query string, p model.Payload) (bool, error) {
	data, err := canonical(p)
	if err != nil {
		return false, fmt.Errorf("failed to serialize payload: %w", err)
	}
	digest, err := Digest(p)
	if err != nil {
		return false, fmt.Errorf("failed to digest payload: %w", err)
	}

	var latest string
	err = s.db.QueryRowContext(ctx,
		`SELECT digest FROM snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&latest)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("failed to read latest snapshot: %w", err)
	case latest == digest:
		return false, nil
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO snapshots (query, saved_at, digest, payload_json, result_count, analysis_count)
	VALUES (?, ?, ?, ?, ?, ?)`,
		query,
		s.now().UTC().Format(time.RFC3339Nano),
		digest,
		string(data),
		len(p.Data),
		len(p.Analysis),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return true, nil
}

const selectSnapshot = `SELECT id, query, saved_at, digest, payload_json FROM snapshots`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (Snapshot, error) {
	var (
		snap    Snapshot
		savedAt string
		payload string
	)
	if err := row.Scan(&snap.ID, &snap.Query, &savedAt, &snap.Digest, &payload); err != nil {
		return Snapshot{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse timestamp of snapshot %d: %w", snap.ID, err)
	}
	snap.SavedAt = t

	if err := json.Unmarshal([]byte(payload), &snap.Payload); err != nil {
		return Snapshot{}, fmt.Errorf("failed to deserialize snapshot %d: %w", snap.ID, err)
	}
	return snap, nil
}

// Latest returns the most recent snapshot.
func (s *Store) Latest(ctx context.Context) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, selectSnapshot+` ORDER BY id DESC LIMIT 1`)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	return snap, nil
}

// Get returns the snapshot with the given ID.
func (s *Store) Get(ctx context.Context, id int64) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, selectSnapshot+` WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to query snapshot %d: %w", id, err)
	}
	return snap, nil
}

// List returns up to limit snapshots, newest first.
// A limit of zero or less returns all snapshots.
func (s *Store) List(ctx context.Context, limit int) ([]Snapshot, error) {
	query := selectSnapshot + ` ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
