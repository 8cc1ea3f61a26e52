package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thikaresq/resqnet/internal/models"
	"github.com/thikaresq/resqnet/internal/severity"
)

// ResponseTime - время реакции по одному назначенному инциденту
type ResponseTime struct {
	IncidentID      uuid.UUID `json:"incident_id"`
	ResponderID     uuid.UUID `json:"responder_id"`
	CreatedAt       time.Time `json:"created_at"`
	AssignedAt      time.Time `json:"assigned_at"`
	ResponseMinutes float64   `json:"response_minutes"`
}

// MonthlyReport - сводка за календарный месяц
type MonthlyReport struct {
	Year                   int     `json:"year"`
	Month                  int     `json:"month"`
	TotalIncidents         int     `json:"total_incidents"`
	HighSeverity           int     `json:"high_severity"`
	MediumSeverity         int     `json:"medium_severity"`
	LowSeverity            int     `json:"low_severity"`
	AverageResponseMinutes float64 `json:"average_response_minutes"`
}

// LocationSeverityCount - количество инцидентов в группе (адрес, уровень срочности)
type LocationSeverityCount struct {
	Location string         `json:"location"`
	Severity severity.Level `json:"severity"`
	Count    int            `json:"count"`
}

// AnalyticsService определяет контракт отчетных агрегаций. Все операции -
// чистые свертки над выборкой инцидентов без побочных эффектов, их можно
// безопасно перезапускать.
type AnalyticsService interface {
	ResponseTimes(ctx context.Context, start, end *time.Time) ([]ResponseTime, error)
	MonthlyReport(ctx context.Context, year, month int) (*MonthlyReport, error)
	LocationSeverity(ctx context.Context, start, end *time.Time) ([]LocationSeverityCount, error)
}

type analyticsService struct {
	repo   IncidentRepository
	logger *logrus.Logger
}

func NewAnalyticsService(repo IncidentRepository, logger *logrus.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		logger: logger,
	}
}

// ResponseTimes возвращает время от создания до назначения для каждого
// инцидента окна, у которого назначение состоялось
func (s *analyticsService) ResponseTimes(ctx context.Context, start, end *time.Time) ([]ResponseTime, error) {
	incidents, err := s.repo.ListByWindow(ctx, start, end)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list incidents for response times")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}
	return reduceResponseTimes(incidents), nil
}

// MonthlyReport строит сводку за месяц: общее количество, распределение по
// уровням срочности и среднее время реакции по назначенным инцидентам
func (s *analyticsService) MonthlyReport(ctx context.Context, year, month int) (*MonthlyReport, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	incidents, err := s.repo.ListByWindow(ctx, &start, &end)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list incidents for monthly report")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	report := reduceMonthlyReport(year, month, incidents)
	return &report, nil
}

// LocationSeverity группирует инциденты окна по паре (адрес, уровень срочности)
func (s *analyticsService) LocationSeverity(ctx context.Context, start, end *time.Time) ([]LocationSeverityCount, error) {
	incidents, err := s.repo.ListByWindow(ctx, start, end)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list incidents for location breakdown")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}
	return reduceLocationSeverity(incidents), nil
}

func reduceResponseTimes(incidents []*models.Incident) []ResponseTime {
	times := make([]ResponseTime, 0, len(incidents))
	for _, i := range incidents {
		if i.AssignedAt == nil || i.AssignedResponderID == nil {
			continue
		}
		times = append(times, ResponseTime{
			IncidentID:      i.ID,
			ResponderID:     *i.AssignedResponderID,
			CreatedAt:       i.CreatedAt,
			AssignedAt:      *i.AssignedAt,
			ResponseMinutes: i.AssignedAt.Sub(i.CreatedAt).Minutes(),
		})
	}
	return times
}

func reduceMonthlyReport(year, month int, incidents []*models.Incident) MonthlyReport {
	report := MonthlyReport{
		Year:  year,
		Month: month,
	}

	var assigned int
	var totalMinutes float64
	for _, i := range incidents {
		report.TotalIncidents++
		switch severity.LevelForScore(i.SeverityScore) {
		case severity.LevelHigh:
			report.HighSeverity++
		case severity.LevelMedium:
			report.MediumSeverity++
		default:
			report.LowSeverity++
		}
		if i.AssignedAt != nil {
			assigned++
			totalMinutes += i.AssignedAt.Sub(i.CreatedAt).Minutes()
		}
	}

	if assigned > 0 {
		report.AverageResponseMinutes = totalMinutes / float64(assigned)
	}
	return report
}

func reduceLocationSeverity(incidents []*models.Incident) []LocationSeverityCount {
	type key struct {
		location string
		level    severity.Level
	}

	counts := make(map[key]int)
	for _, i := range incidents {
		location := i.AddressText
		if location == "" {
			location = "Unknown"
		}
		counts[key{location: location, level: severity.LevelForScore(i.SeverityScore)}]++
	}

	result := make([]LocationSeverityCount, 0, len(counts))
	for k, count := range counts {
		result = append(result, LocationSeverityCount{
			Location: k.location,
			Severity: k.level,
			Count:    count,
		})
	}

	// Порядок групп детерминированный: по адресу, затем по уровню
	sort.Slice(result, func(i, j int) bool {
		if result[i].Location != result[j].Location {
			return result[i].Location < result[j].Location
		}
		return result[i].Severity < result[j].Severity
	})
	return result
}
