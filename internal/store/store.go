// Package store persists world snapshots as named scenes in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"wigglybands/internal/sim"
)

// ErrNotFound is returned when a scene does not exist.
var ErrNotFound = errors.New("scene not found")

// DB wraps a SQLite connection for scene storage.
type DB struct {
	conn *sqlx.DB
}

// Scene describes a stored snapshot without its payload.
type Scene struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Bands     int
	Tethers   int
	Clock     float64
}

type sceneRow struct {
	ID        string  `db:"id"`
	Name      string  `db:"name"`
	CreatedAt int64   `db:"created_at"`
	Bands     int     `db:"band_count"`
	Tethers   int     `db:"tether_count"`
	Clock     float64 `db:"clock"`
	Payload   []byte  `db:"payload"`
}

func (r sceneRow) scene() Scene {
	return Scene{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
		Bands:     r.Bands,
		Tethers:   r.Tethers,
		Clock:     r.Clock,
	}
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scenes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		band_count INTEGER NOT NULL,
		tether_count INTEGER NOT NULL,
		clock REAL NOT NULL,
		payload BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scenes_created ON scenes(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveScene stores snap under name and returns its metadata.
func (db *DB) SaveScene(ctx context.Context, name string, snap sim.Snapshot) (Scene, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Scene{}, fmt.Errorf("scene id: %w", err)
	}
	payload, err := snap.MarshalIndent()
	if err != nil {
		return Scene{}, fmt.Errorf("encode scene: %w", err)
	}
	row := sceneRow{
		ID:        id.String(),
		Name:      name,
		CreatedAt: time.Now().UnixNano(),
		Bands:     len(snap.Entities),
		Tethers:   len(snap.Tethers),
		Clock:     snap.Clock,
		Payload:   payload,
	}
	_, err = db.conn.NamedExecContext(ctx, `
		INSERT INTO scenes (id, name, created_at, band_count, tether_count, clock, payload)
		VALUES (:id, :name, :created_at, :band_count, :tether_count, :clock, :payload)`, row)
	if err != nil {
		return Scene{}, fmt.Errorf("insert scene: %w", err)
	}
	return row.scene(), nil
}

// ListScenes returns up to limit scenes, newest first. A limit of zero or
// less lists every scene.
func (db *DB) ListScenes(ctx context.Context, limit int) ([]Scene, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows []sceneRow
	err := db.conn.SelectContext(ctx, &rows, `
		SELECT id, name, created_at, band_count, tether_count, clock
		FROM scenes ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	out := make([]Scene, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.scene())
	}
	return out, nil
}

// LoadScene returns the scene with the given id.
func (db *DB) LoadScene(ctx context.Context, id string) (Scene, sim.Snapshot, error) {
	return db.load(ctx, `SELECT * FROM scenes WHERE id = ?`, id)
}

// Latest returns the most recently saved scene.
func (db *DB) Latest(ctx context.Context) (Scene, sim.Snapshot, error) {
	return db.load(ctx, `SELECT * FROM scenes ORDER BY created_at DESC, id DESC LIMIT 1`)
}

// DeleteScene removes a scene.
func (db *DB) DeleteScene(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM scenes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scene: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) load(ctx context.Context, query string, args ...any) (Scene, sim.Snapshot, error) {
	var row sceneRow
	if err := db.conn.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Scene{}, sim.Snapshot{}, ErrNotFound
		}
		return Scene{}, sim.Snapshot{}, fmt.Errorf("load scene: %w", err)
	}
	snap, err := sim.DecodeSnapshot(row.Payload)
	if err != nil {
		return Scene{}, sim.Snapshot{}, fmt.Errorf("scene %s: %w", row.ID, err)
	}
	return row.scene(), snap, nil
}
