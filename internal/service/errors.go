package service

import (
	"errors"
	"fmt"
)

// Таксономия ошибок движка диспетчеризации. Все ошибки возвращаются явно,
// повторных попыток внутри движка нет - политика ретраев принадлежит вызывающей стороне.
var (
	// ErrNotFound - инцидент или ответчик не найден по идентификатору
	ErrNotFound = errors.New("not found")

	// ErrNotAssignable - нет подходящего ответчика или у инцидента нет координат
	ErrNotAssignable = errors.New("incident is not assignable")

	// ErrRejected - ручное назначение отклонено без флага override
	ErrRejected = errors.New("assignment rejected")

	// ErrAlreadyAssigned - у инцидента уже есть назначенный ответчик
	ErrAlreadyAssigned = fmt.Errorf("incident already has an assigned responder: %w", ErrRejected)

	// ErrResponderUnavailable - ответчик не в статусе Available
	ErrResponderUnavailable = fmt.Errorf("responder is not available: %w", ErrRejected)

	// ErrNoBedsAvailable - в больнице нет свободных коек
	ErrNoBedsAvailable = fmt.Errorf("no beds available: %w", ErrRejected)

	// ErrInvalidTransition - недопустимый переход статуса инцидента
	ErrInvalidTransition = fmt.Errorf("invalid status transition: %w", ErrRejected)

	// ErrMissingLocation - в обращении нет ни координат, ни адреса
	ErrMissingLocation = errors.New("either coordinates or address text must be provided")

	// ErrPartialCoordinates - задана только одна из двух координат
	ErrPartialCoordinates = errors.New("latitude and longitude must both be set or both be absent")
)
