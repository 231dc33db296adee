package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/healthyduck/fitnessapi/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, userID string) (*Record, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.get")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, email, display_name, created_at, updated_at
			FROM profiles
			WHERE id = $1;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrProfileNotFound
	}

	var rec Record
	if err := rows.Scan(&rec.ID, &rec.Email, &rec.DisplayName, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return &rec, nil
}

// UpdateDisplayName sets the display name and refreshes updated_at,
// returning the resulting row.
func (r *Repo) UpdateDisplayName(ctx context.Context, userID, displayName string) (*Record, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profile.updateDisplayName")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`UPDATE profiles SET display_name = $1, updated_at = NOW()
			WHERE id = $2
			RETURNING id, email, display_name, created_at, updated_at;`,
		displayName, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrProfileNotFound
	}

	var rec Record
	if err := rows.Scan(&rec.ID, &rec.Email, &rec.DisplayName, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	return &rec, nil
}
