package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/healthyduck/fitnessapi/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
)

// pg unique violation
const uniqueViolationCode = "23505"

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const selectColumns = `
	user_id, session_id, name, description,
	start_time_millis, end_time_millis, modified_time_millis,
	activity_type, application_package_name, active_time_millis`

func (r *Repo) Add(ctx context.Context, rec *Record) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.session.add")
	defer span.End()

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO sessions
				(user_id, session_id, name, description,
				 start_time_millis, end_time_millis, modified_time_millis,
				 activity_type, application_package_name, active_time_millis)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		rec.UserID, rec.SessionID, rec.Name, rec.Description,
		rec.StartTimeMillis, rec.EndTimeMillis, rec.ModifiedTimeMillis,
		rec.ActivityType, rec.ApplicationPackageName, rec.ActiveTimeMillis,
	)
	if err != nil {
		return uniqueViolationOr(err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID, sessionID string) (*Record, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.session.get")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+selectColumns+`
			FROM sessions
			WHERE user_id = $1 AND session_id = $2;`,
		userID, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := rows2records(rows)
	if err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) != 1 {
		return nil, ErrSessionNotFound
	}
	return &records[0], nil
}

// List returns the sessions of a user newest first. Zero-valued time
// bounds are treated as absent filters.
func (r *Repo) List(ctx context.Context, userID string, startMillis, endMillis int64) ([]Record, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.session.list")
	defer span.End()

	query := `SELECT ` + selectColumns + ` FROM sessions WHERE user_id = $1`
	args := []interface{}{userID}
	if startMillis > 0 {
		args = append(args, startMillis)
		query += fmt.Sprintf(` AND start_time_millis >= $%d`, len(args))
	}
	if endMillis > 0 {
		args = append(args, endMillis)
		query += fmt.Sprintf(` AND end_time_millis <= $%d`, len(args))
	}
	query += ` ORDER BY start_time_millis DESC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2records(rows)
}

func (r *Repo) Update(ctx context.Context, rec *Record) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.session.update")
	defer span.End()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE sessions SET
				name = $1, description = $2,
				start_time_millis = $3, end_time_millis = $4, modified_time_millis = $5,
				activity_type = $6, application_package_name = $7, active_time_millis = $8,
				updated_at = NOW()
			WHERE user_id = $9 AND session_id = $10;`,
		rec.Name, rec.Description,
		rec.StartTimeMillis, rec.EndTimeMillis, rec.ModifiedTimeMillis,
		rec.ActivityType, rec.ApplicationPackageName, rec.ActiveTimeMillis,
		rec.UserID, rec.SessionID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, sessionID string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.session.delete")
	defer span.End()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM sessions WHERE user_id = $1 AND session_id = $2;`,
		userID, sessionID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *Repo) Count(ctx context.Context, userID string) (int, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT COUNT(*) FROM sessions WHERE user_id = $1;`,
		userID,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get sessions count")
}

func uniqueViolationOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrSessionExists
	}
	return err
}

func rows2records(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.UserID, &rec.SessionID, &rec.Name, &rec.Description,
			&rec.StartTimeMillis, &rec.EndTimeMillis, &rec.ModifiedTimeMillis,
			&rec.ActivityType, &rec.ApplicationPackageName, &rec.ActiveTimeMillis,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if records == nil {
		records = make([]Record, 0)
	}

	return records, nil
}
