package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thikaresq/resqnet/internal/models"
)

// AuditRepository определяет контракт для работы с бд журнала аудита
type AuditRepository interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	GetRecent(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

// AuditService определяет контракт журнала аудита. Запись выполняется в
// режиме fire-and-forget: движок не зависит от ее успеха.
type AuditService interface {
	Log(ctx context.Context, action, performedBy, resource, details string)
	Recent(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

type auditService struct {
	repo   AuditRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewAuditService(repo AuditRepository, logger *logrus.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Log записывает событие в журнал аудита. Сбой записи логируется и не
// пробрасывается вызывающей стороне.
func (s *auditService) Log(ctx context.Context, action, performedBy, resource, details string) {
	entry := &models.AuditLog{
		Action:      action,
		PerformedBy: performedBy,
		Resource:    resource,
		Details:     details,
		PerformedAt: s.now().UTC(),
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "audit",
			"action":  action,
		}).WithError(err).Error("Failed to write audit log entry")
	}
}

// Recent возвращает последние записи журнала
func (s *auditService) Recent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	entries, err := s.repo.GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: could not list audit entries: %w", err)
	}
	return entries, nil
}
