package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"riveros/internal/core"

	_ "modernc.org/sqlite"
)

// SnapshotStore keeps a local copy of backend data so reports and record
// lists survive backend outages. The backend stays the source of truth,
// every save replaces the vessel's snapshot wholesale.
type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRecords replaces the stored records for a vessel.
func (s *SnapshotStore) SaveRecords(ctx context.Context, vessel string, records []core.FlgoRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM flgo_records WHERE vessel = ?`, vessel); err != nil {
		return fmt.Errorf("clear vessel records: %w", err)
	}

	now := time.Now().UTC()
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", rec.RecordID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO flgo_records (vessel, record_id, data, fetched_at) VALUES (?, ?, ?, ?)`,
			vessel, rec.RecordID, string(data), now,
		)
		if err != nil {
			return fmt.Errorf("insert record %s: %w", rec.RecordID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Records snapshot saved",
		"vessel", vessel,
		"count", len(records))

	return nil
}

// LoadRecords returns the stored records for a vessel, newest first. Record
// ids are numeric strings, so ordering must compare them as integers.
func (s *SnapshotStore) LoadRecords(ctx context.Context, vessel string) ([]core.FlgoRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM flgo_records WHERE vessel = ? ORDER BY CAST(record_id AS INTEGER) DESC`, vessel)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []core.FlgoRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var rec core.FlgoRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// SaveTanks replaces the stored tank reference data for a vessel.
func (s *SnapshotStore) SaveTanks(ctx context.Context, vessel string, tanks []core.Tank) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tanks WHERE vessel = ?`, vessel); err != nil {
		return fmt.Errorf("clear vessel tanks: %w", err)
	}

	now := time.Now().UTC()
	for _, tank := range tanks {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tanks (vessel, name, fuel_type, max_capacity, last_rob, fetched_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			vessel, tank.TankName, tank.FuelType, tank.MaxCapacity, tank.LastRob, now,
		)
		if err != nil {
			return fmt.Errorf("insert tank %s: %w", tank.TankName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LoadTanks returns the stored tanks for a vessel ordered by name.
func (s *SnapshotStore) LoadTanks(ctx context.Context, vessel string) ([]core.Tank, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, fuel_type, max_capacity, last_rob FROM tanks WHERE vessel = ? ORDER BY name`, vessel)
	if err != nil {
		return nil, fmt.Errorf("query tanks: %w", err)
	}
	defer rows.Close()

	var tanks []core.Tank
	for rows.Next() {
		var tank core.Tank
		if err := rows.Scan(&tank.TankName, &tank.FuelType, &tank.MaxCapacity, &tank.LastRob); err != nil {
			return nil, fmt.Errorf("scan tank: %w", err)
		}
		tanks = append(tanks, tank)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tanks: %w", err)
	}

	return tanks, nil
}

// SaveVessels replaces the stored vessel list.
func (s *SnapshotStore) SaveVessels(ctx context.Context, names []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vessels`); err != nil {
		return fmt.Errorf("clear vessels: %w", err)
	}

	now := time.Now().UTC()
	for _, name := range names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO vessels (name, fetched_at) VALUES (?, ?)`, name, now); err != nil {
			return fmt.Errorf("insert vessel %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LoadVessels returns the stored vessel names ordered alphabetically.
func (s *SnapshotStore) LoadVessels(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM vessels ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query vessels: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan vessel: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vessels: %w", err)
	}

	return names, nil
}

// LastSyncedAt reports when a vessel's records were last refreshed. The
// zero time means no snapshot exists yet.
func (s *SnapshotStore) LastSyncedAt(ctx context.Context, vessel string) (time.Time, error) {
	var fetched sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(fetched_at) FROM flgo_records WHERE vessel = ?`, vessel).Scan(&fetched)
	if err != nil {
		return time.Time{}, fmt.Errorf("query last sync: %w", err)
	}
	if !fetched.Valid {
		return time.Time{}, nil
	}
	return fetched.Time, nil
}
