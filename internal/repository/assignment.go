package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thikaresq/resqnet/internal/models"
	"github.com/thikaresq/resqnet/internal/service"
)

type AssignmentRepository struct {
	db *pgxpool.Pool
}

func NewAssignmentRepository(db *pgxpool.Pool) service.AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// AssignResponder выполняет назначение атомарно: обе строки блокируются
// FOR UPDATE в одной транзакции, проверки повторяются уже под блокировкой,
// затем обновляются инцидент и ответчик. Либо применяются обе записи, либо
// ни одной. Без этой транзакции два конкурентных вызова могли бы занять
// одного и того же свободного ответчика.
func (r *AssignmentRepository) AssignResponder(ctx context.Context, incidentID, responderID uuid.UUID, assignedAt time.Time, override bool) (*models.Responder, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin assignment transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var assignedResponderID *uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT assigned_responder_id FROM incidents WHERE id = $1 FOR UPDATE;`,
		incidentID,
	).Scan(&assignedResponderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident %s: %w", incidentID, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock incident row: %w", err)
	}

	responder, err := scanResponder(tx.QueryRow(ctx,
		`SELECT `+responderColumns+` FROM responders WHERE id = $1 FOR UPDATE;`,
		responderID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("responder %s: %w", responderID, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock responder row: %w", err)
	}

	if !override {
		if assignedResponderID != nil {
			return nil, fmt.Errorf("incident %s: %w", incidentID, service.ErrAlreadyAssigned)
		}
		if responder.CurrentStatus != models.ResponderAvailable {
			return nil, fmt.Errorf("responder %s has status %s: %w", responderID, responder.CurrentStatus, service.ErrResponderUnavailable)
		}
	}

	// Переназначение с override перезаписывает назначение, но не очищает его
	_, err = tx.Exec(ctx,
		`UPDATE incidents SET assigned_responder_id = $1, assigned_at = $2, status = $3 WHERE id = $4;`,
		responderID, assignedAt, models.IncidentInProgress, incidentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update incident assignment: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE responders SET current_status = $1 WHERE id = $2;`,
		models.ResponderOnDuty, responderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update responder status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit assignment transaction: %w", err)
	}

	responder.CurrentStatus = models.ResponderOnDuty
	return responder, nil
}
