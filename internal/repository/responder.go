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

const responderColumns = `
	id,
	vehicle_number,
	current_status,
	latitude,
	longitude,
	phone_number`

type ResponderRepository struct {
	db *pgxpool.Pool
}

func NewResponderRepository(db *pgxpool.Pool) service.ResponderRepository {
	return &ResponderRepository{db: db}
}

// Create создает новую запись о бригаде в бд
func (r *ResponderRepository) Create(ctx context.Context, responder *models.Responder) error {
	query := `
		INSERT INTO responders (vehicle_number, current_status, latitude, longitude, phone_number)
		VALUES ($1, $2, $3, $4, $5) RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		responder.VehicleNumber,
		responder.CurrentStatus,
		responder.Latitude,
		responder.Longitude,
		responder.PhoneNumber,
	).Scan(&responder.ID)
	if err != nil {
		return fmt.Errorf("failed to create responder: %w", err)
	}
	return nil
}

// GetByID возвращает бригаду по ее UUID
func (r *ResponderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Responder, error) {
	query := `SELECT ` + responderColumns + ` FROM responders WHERE id = $1;`

	responder, err := scanResponder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("responder %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get responder by id: %w", err)
	}
	return responder, nil
}

// Update обновляет запись бригады
func (r *ResponderRepository) Update(ctx context.Context, responder *models.Responder) error {
	query := `
		UPDATE responders SET
			vehicle_number = $1,
			current_status = $2,
			latitude = $3,
			longitude = $4,
			phone_number = $5
		WHERE id = $6;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		responder.VehicleNumber,
		responder.CurrentStatus,
		responder.Latitude,
		responder.Longitude,
		responder.PhoneNumber,
		responder.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update responder: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("responder %s: %w", responder.ID, service.ErrNotFound)
	}
	return nil
}

// ListResponders возвращает все бригады
func (r *ResponderRepository) ListResponders(ctx context.Context) ([]*models.Responder, error) {
	query := `SELECT ` + responderColumns + ` FROM responders ORDER BY vehicle_number;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list responders: %w", err)
	}
	defer rows.Close()

	return collectResponders(rows)
}

// ListAvailable возвращает бригады в статусе Available
func (r *ResponderRepository) ListAvailable(ctx context.Context) ([]*models.Responder, error) {
	query := `SELECT ` + responderColumns + ` FROM responders WHERE current_status = 'Available' ORDER BY id;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list available responders: %w", err)
	}
	defer rows.Close()

	return collectResponders(rows)
}

func scanResponder(row rowScanner) (*models.Responder, error) {
	responder := &models.Responder{}
	err := row.Scan(
		&responder.ID,
		&responder.VehicleNumber,
		&responder.CurrentStatus,
		&responder.Latitude,
		&responder.Longitude,
		&responder.PhoneNumber,
	)
	if err != nil {
		return nil, err
	}
	return responder, nil
}

func collectResponders(rows pgx.Rows) ([]*models.Responder, error) {
	responders := make([]*models.Responder, 0)
	for rows.Next() {
		responder, err := scanResponder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan responder row: %w", err)
		}
		responders = append(responders, responder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return responders, nil
}
