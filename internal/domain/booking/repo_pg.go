package booking

import (
	"context"
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *pgRepository) Create(ctx context.Context, a *Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment (id, doctor_id, patient_id, appointment_date, day, start_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.DoctorID, a.PatientID, a.Date, a.Day, a.StartTime, a.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *pgRepository) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointment
		SET doctor_id = $1, appointment_date = $2, day = $3, start_time = $4, status = $5
		WHERE id = $6`,
		a.DoctorID, a.Date, a.Day, a.StartTime, a.Status, a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgRepository) GetOwned(ctx context.Context, id, patientID string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, patient_id,
		       to_char(appointment_date, 'YYYY-MM-DD'),
		       day,
		       to_char(start_time, 'HH24:MI'),
		       status
		FROM appointment
		WHERE id = $1 AND patient_id = $2`, id, patientID)
	a := &Appointment{}
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.Date, &a.Day, &a.StartTime, &a.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select appointment: %w", err)
	}
	return a, nil
}

func (r *pgRepository) DoctorSlotTaken(ctx context.Context, doctorID, date, startTime string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointment
			WHERE doctor_id = $1 AND appointment_date = $2 AND start_time = $3
			  AND status IN ('booked', 'updated')
		)`, doctorID, date, startTime).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check doctor slot: %w", err)
	}
	return taken, nil
}

func (r *pgRepository) PatientConflict(ctx context.Context, patientID, date, startTime, excludeID string) (bool, error) {
	var conflict bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointment
			WHERE patient_id = $1 AND appointment_date = $2 AND start_time = $3
			  AND status IN ('booked', 'updated')
			  AND (NULLIF($4, '') IS NULL OR id <> NULLIF($4, '')::uuid)
		)`, patientID, date, startTime, excludeID).Scan(&conflict)
	if err != nil {
		return false, fmt.Errorf("check patient conflict: %w", err)
	}
	return conflict, nil
}

func (r *pgRepository) CountFutureByPatient(ctx context.Context, patientID, today string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM appointment
		WHERE patient_id = $1 AND appointment_date >= $2`,
		patientID, today).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count future appointments: %w", err)
	}
	return count, nil
}

func (r *pgRepository) BookedTimes(ctx context.Context, doctorID, date string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(start_time, 'HH24:MI')
		FROM appointment
		WHERE doctor_id = $1 AND appointment_date = $2
		  AND status IN ('booked', 'updated')`, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("list booked times: %w", err)
	}
	defer rows.Close()
	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (r *pgRepository) ListBookedJoined(ctx context.Context) ([]BookedRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.doctor_name,
		       to_char(a.appointment_date, 'YYYY-MM-DD'),
		       to_char(a.start_time, 'HH24:MI'),
		       u.id, u.user_name
		FROM appointment a
		JOIN doctor d ON a.doctor_id = d.id
		JOIN clinic_user u ON a.patient_id = u.id
		WHERE a.status IN ('booked', 'updated')
		ORDER BY d.doctor_name, a.appointment_date, a.start_time`)
	if err != nil {
		return nil, fmt.Errorf("list booked appointments: %w", err)
	}
	defer rows.Close()
	var out []BookedRow
	for rows.Next() {
		var row BookedRow
		if err := rows.Scan(&row.DoctorID, &row.DoctorName, &row.Date,
			&row.StartTime, &row.PatientID, &row.PatientName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
