package history

import (
	"context"
	"database/sql"
)

type Repository interface {
	Upsert(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, limit int) ([]*Record, error)
	Latest(ctx context.Context) (*Record, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert inserts rec or updates the mutable columns of an existing row.
// created_at is written once, and a row that reached succeeded or failed is
// never changed again.
func (r *SQLiteRepository) Upsert(ctx context.Context, rec *Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO submissions (id, kind, target, status, message, progress, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			message = excluded.message,
			progress = excluded.progress,
			updated_at = excluded.updated_at
		WHERE submissions.status NOT IN ('succeeded', 'failed')
	`, rec.ID, rec.Kind, rec.Target, rec.Status, nullString(rec.Message), rec.Progress,
		formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt))
	return err
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, target, status, message, progress, created_at, updated_at
		FROM submissions WHERE id = ?
	`, id)
	return scanRecord(row)
}

func (r *SQLiteRepository) Latest(ctx context.Context) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, kind, target, status, message, progress, created_at, updated_at
		FROM submissions ORDER BY updated_at DESC, rowid DESC LIMIT 1
	`)
	return scanRecord(row)
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, target, status, message, progress, created_at, updated_at
		FROM submissions ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	var message sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(&rec.ID, &rec.Kind, &rec.Target, &rec.Status, &message, &rec.Progress, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.Message = message.String
	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return &rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
