package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thikaresq/resqnet/internal/models"
	"github.com/thikaresq/resqnet/internal/service"
)

const hospitalColumns = `
	id,
	name,
	location,
	available_beds,
	icu_capacity,
	contact_number,
	created_at`

type HospitalRepository struct {
	db *pgxpool.Pool
}

func NewHospitalRepository(db *pgxpool.Pool) service.HospitalRepository {
	return &HospitalRepository{db: db}
}

// Create создает новую запись о больнице в бд
func (r *HospitalRepository) Create(ctx context.Context, hospital *models.Hospital) error {
	query := `
		INSERT INTO hospitals (name, location, available_beds, icu_capacity, contact_number)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		hospital.Name,
		hospital.Location,
		hospital.AvailableBeds,
		hospital.ICUCapacity,
		hospital.ContactNumber,
	).Scan(&hospital.ID, &hospital.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}
	return nil
}

// GetByID возвращает больницу по ее UUID
func (r *HospitalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals WHERE id = $1;`

	hospital, err := scanHospital(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("hospital %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get hospital by id: %w", err)
	}
	return hospital, nil
}

// Update обновляет запись больницы
func (r *HospitalRepository) Update(ctx context.Context, hospital *models.Hospital) error {
	query := `
		UPDATE hospitals SET
			name = $1,
			location = $2,
			available_beds = $3,
			icu_capacity = $4,
			contact_number = $5
		WHERE id = $6;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		hospital.Name,
		hospital.Location,
		hospital.AvailableBeds,
		hospital.ICUCapacity,
		hospital.ContactNumber,
		hospital.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update hospital: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("hospital %s: %w", hospital.ID, service.ErrNotFound)
	}
	return nil
}

// ListHospitals возвращает все больницы
func (r *HospitalRepository) ListHospitals(ctx context.Context) ([]*models.Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals ORDER BY name;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	defer rows.Close()

	hospitals := make([]*models.Hospital, 0)
	for rows.Next() {
		hospital, err := scanHospital(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hospital row: %w", err)
		}
		hospitals = append(hospitals, hospital)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return hospitals, nil
}

// RegisterArrival в одной транзакции занимает койку и переводит инцидент в
// Resolved. Койка списывается только при наличии свободных, перевод статуса
// допустим только из InProgress.
func (r *HospitalRepository) RegisterArrival(ctx context.Context, hospitalID, incidentID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin arrival transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var beds int
	err = tx.QueryRow(ctx,
		`SELECT available_beds FROM hospitals WHERE id = $1 FOR UPDATE;`,
		hospitalID,
	).Scan(&beds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("hospital %s: %w", hospitalID, service.ErrNotFound)
		}
		return fmt.Errorf("failed to lock hospital row: %w", err)
	}
	if beds <= 0 {
		return fmt.Errorf("hospital %s: %w", hospitalID, service.ErrNoBedsAvailable)
	}

	var status models.IncidentStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM incidents WHERE id = $1 FOR UPDATE;`,
		incidentID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("incident %s: %w", incidentID, service.ErrNotFound)
		}
		return fmt.Errorf("failed to lock incident row: %w", err)
	}
	if !status.CanTransitionTo(models.IncidentResolved) {
		return fmt.Errorf("incident %s has status %s: %w", incidentID, status, service.ErrInvalidTransition)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE hospitals SET available_beds = available_beds - 1 WHERE id = $1;`,
		hospitalID,
	); err != nil {
		return fmt.Errorf("failed to decrement available beds: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE incidents SET status = $1 WHERE id = $2;`,
		models.IncidentResolved, incidentID,
	); err != nil {
		return fmt.Errorf("failed to resolve incident: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit arrival transaction: %w", err)
	}
	return nil
}

func scanHospital(row rowScanner) (*models.Hospital, error) {
	hospital := &models.Hospital{}
	err := row.Scan(
		&hospital.ID,
		&hospital.Name,
		&hospital.Location,
		&hospital.AvailableBeds,
		&hospital.ICUCapacity,
		&hospital.ContactNumber,
		&hospital.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return hospital, nil
}
