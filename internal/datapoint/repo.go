package datapoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/healthyduck/fitnessapi/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const selectColumns = `
	user_id, data_source_id, data_type_name,
	start_time_nanos, end_time_nanos, modified_time_nanos,
	int_val, fp_val, string_val, map_val, origin_data_source_id`

// Upsert inserts a data point, or replaces the value and modified time
// of an existing point with the same identity (user, source, data type
// and time bounds).
func (r *Repo) Upsert(ctx context.Context, rec *Record) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.datapoint.upsert")
	defer span.End()

	var mapValJson []byte
	if rec.MapVal != nil {
		var err error
		mapValJson, err = json.Marshal(rec.MapVal)
		if err != nil {
			return fmt.Errorf("marshal map value: %w", err)
		}
	}

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO data_points
				(user_id, data_source_id, data_type_name,
				 start_time_nanos, end_time_nanos, modified_time_nanos,
				 int_val, fp_val, string_val, map_val, origin_data_source_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (user_id, data_source_id, data_type_name, start_time_nanos, end_time_nanos)
			DO UPDATE SET
				modified_time_nanos = EXCLUDED.modified_time_nanos,
				int_val = EXCLUDED.int_val,
				fp_val = EXCLUDED.fp_val,
				string_val = EXCLUDED.string_val,
				map_val = EXCLUDED.map_val,
				origin_data_source_id = EXCLUDED.origin_data_source_id;`,
		rec.UserID, rec.DataSourceID, rec.DataTypeName,
		rec.StartTimeNanos, rec.EndTimeNanos, rec.ModifiedTimeNanos,
		rec.IntVal, rec.FpVal, rec.StringVal, mapValJson, rec.OriginDataSourceID,
	)
	return err
}

// ListRange returns the points of one data source fully contained in
// the [startNanos, endNanos] window, oldest first.
func (r *Repo) ListRange(
	ctx context.Context,
	userID string,
	dataSourceID int,
	startNanos, endNanos int64,
) ([]Record, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.datapoint.listRange")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+selectColumns+`
			FROM data_points
			WHERE user_id = $1 AND data_source_id = $2
				AND start_time_nanos >= $3 AND end_time_nanos <= $4
			ORDER BY start_time_nanos ASC;`,
		userID, dataSourceID, startNanos, endNanos,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2records(rows)
}

// ListForAggregation returns the points of a user in the requested
// window, joined through the owning data source, oldest first. The
// type filter matches the source's declared data type; both filters
// are skipped when empty.
func (r *Repo) ListForAggregation(
	ctx context.Context,
	userID string,
	dataTypeName string,
	dataStreamID string,
	startNanos, endNanos int64,
) ([]Record, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.datapoint.listForAggregation")
	defer span.End()

	query := `SELECT ` + prefixColumns("dp") + `
		FROM data_points dp
		JOIN data_sources ds ON ds.id = dp.data_source_id
		WHERE dp.user_id = $1
			AND dp.start_time_nanos >= $2 AND dp.end_time_nanos <= $3`
	args := []interface{}{userID, startNanos, endNanos}
	if dataTypeName != "" {
		args = append(args, dataTypeName)
		query += fmt.Sprintf(` AND ds.data_type_name = $%d`, len(args))
	}
	if dataStreamID != "" {
		args = append(args, dataStreamID)
		query += fmt.Sprintf(` AND ds.data_stream_id = $%d`, len(args))
	}
	query += ` ORDER BY dp.start_time_nanos ASC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2records(rows)
}

func (r *Repo) Count(ctx context.Context, userID string) (int, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT COUNT(*) FROM data_points WHERE user_id = $1;`,
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

	return -1, errors.New("unexpected error, failed to get data points count")
}

func prefixColumns(alias string) string {
	return fmt.Sprintf(`
		%[1]s.user_id, %[1]s.data_source_id, %[1]s.data_type_name,
		%[1]s.start_time_nanos, %[1]s.end_time_nanos, %[1]s.modified_time_nanos,
		%[1]s.int_val, %[1]s.fp_val, %[1]s.string_val, %[1]s.map_val, %[1]s.origin_data_source_id`, alias)
}

func rows2records(rows pgx.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		var mapValBytes []byte
		if err := rows.Scan(
			&rec.UserID, &rec.DataSourceID, &rec.DataTypeName,
			&rec.StartTimeNanos, &rec.EndTimeNanos, &rec.ModifiedTimeNanos,
			&rec.IntVal, &rec.FpVal, &rec.StringVal, &mapValBytes, &rec.OriginDataSourceID,
		); err != nil {
			return nil, err
		}

		if len(mapValBytes) > 0 {
			if err := json.Unmarshal(mapValBytes, &rec.MapVal); err != nil {
				return nil, fmt.Errorf("unmarshal map value: %w", err)
			}
		}

		records = append(records, rec)
	}

	if records == nil {
		records = make([]Record, 0)
	}

	return records, nil
}
