package datasource

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
	ErrSourceNotFound = errors.New("data source not found")
	ErrSourceExists   = errors.New("data source already exists")
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

func (r *Repo) Add(ctx context.Context, rec *Record) (*Record, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.datasource.add")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO data_sources
				(user_id, data_stream_id, data_stream_name, type, data_type_name,
				device_uid, device_type, device_manufacturer, device_model, device_version,
				application_package_name, application_version, application_details_url)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id, created_at;`,
		rec.UserID, rec.DataStreamID, rec.DataStreamName, rec.Type, rec.DataTypeName,
		rec.DeviceUID, rec.DeviceType, rec.DeviceManufacturer, rec.DeviceModel, rec.DeviceVersion,
		rec.ApplicationPackageName, rec.ApplicationVersion, rec.ApplicationDetailsURL,
	)
	if err != nil {
		return nil, uniqueViolationOr(err)
	}

	return scanInserted(rows, rec)
}

// scanInserted reads the RETURNING row of an insert. pgx defers execution
// errors until the rows are read, so a unique violation surfaces here via
// rows.Err() after Next() comes back empty, not from Query itself.
func scanInserted(rows pgx.Rows, rec *Record) (*Record, error) {
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, uniqueViolationOr(err)
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, uniqueViolationOr(err)
		}
		return nil, errors.New("unexpected error [no rows next]")
	}

	if err := rows.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return rec, nil
}

func (r *Repo) GetByStreamID(ctx context.Context, userID, dataStreamID string) (*Record, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.datasource.get")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		selectColumns+`WHERE user_id = $1 AND data_stream_id = $2;`,
		userID, dataStreamID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sources, err := rows2records(rows)
	if err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(sources) != 1 {
		return nil, ErrSourceNotFound
	}

	return &sources[0], nil
}

func (r *Repo) List(ctx context.Context, userID string) ([]Record, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.datasource.list")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		selectColumns+`WHERE user_id = $1
			ORDER BY created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2records(rows)
}

// Delete removes a data source; the storage schema cascades the delete
// to all data points referencing it.
func (r *Repo) Delete(ctx context.Context, userID, dataStreamID string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.datasource.delete")
	defer span.End()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM data_sources WHERE user_id = $1 AND data_stream_id = $2;`,
		userID, dataStreamID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSourceNotFound
	}
	return nil
}

func (r *Repo) Count(ctx context.Context, userID string) (int, error) {
	rows, err := r.db.Query(ctx, `SELECT COUNT(*) FROM data_sources WHERE user_id = $1;`, userID)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err == nil {
			return count, nil
		}
	}

	return -1, errors.New("unexpected error, failed to get data sources count")
}

const selectColumns = `
	SELECT
		id, user_id, data_stream_id, data_stream_name, type, data_type_name,
		device_uid, device_type, device_manufacturer, device_model, device_version,
		application_package_name, application_version, application_details_url,
		created_at
	FROM data_sources
	`

func rows2records(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.DataStreamID, &rec.DataStreamName, &rec.Type, &rec.DataTypeName,
			&rec.DeviceUID, &rec.DeviceType, &rec.DeviceManufacturer, &rec.DeviceModel, &rec.DeviceVersion,
			&rec.ApplicationPackageName, &rec.ApplicationVersion, &rec.ApplicationDetailsURL,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func uniqueViolationOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrSourceExists
	}
	return err
}
