package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	d := &Doctor{}
	var availability []byte
	if err := row.Scan(&d.ID, &d.Name, &d.Specialisation, &availability); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(availability, &d.Availability); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	return d, nil
}

func (r *pgRepository) List(ctx context.Context, limit, offset int) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_name, specialisation, availability
		FROM doctor
		ORDER BY doctor_name
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()
	return collectDoctors(rows)
}

func (r *pgRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	d, err := scanDoctor(r.pool.QueryRow(ctx, `
		SELECT id, doctor_name, specialisation, availability
		FROM doctor
		WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select doctor: %w", err)
	}
	return d, nil
}

func (r *pgRepository) Create(ctx context.Context, d *Doctor) error {
	availability, err := json.Marshal(d.Availability)
	if err != nil {
		return fmt.Errorf("encode availability: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO doctor (id, doctor_name, specialisation, availability)
		VALUES ($1, $2, $3, $4)`,
		d.ID, d.Name, d.Specialisation, availability)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrNameTaken
		}
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

func (r *pgRepository) UpdateAvailability(ctx context.Context, id string, a Availability) error {
	availability, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode availability: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE doctor SET availability = $1 WHERE id = $2`, availability, id)
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM doctor WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepository) ListAvailableOn(ctx context.Context, weekday string) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_name, specialisation, availability
		FROM doctor
		WHERE availability->'weekly_schedule' ? $1
		ORDER BY doctor_name`, weekday)
	if err != nil {
		return nil, fmt.Errorf("list doctors by weekday: %w", err)
	}
	defer rows.Close()
	return collectDoctors(rows)
}

func collectDoctors(rows pgx.Rows) ([]Doctor, error) {
	var out []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}
