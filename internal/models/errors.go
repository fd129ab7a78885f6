package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrIncidentNotFound - происшествие с таким идентификатором неизвестно
	ErrIncidentNotFound = errors.New("incident not found")
	// ErrDispatchInProgress - конвейер еще не дошел до конечного состояния
	ErrDispatchInProgress = errors.New("dispatch is still in progress")
	// ErrAlreadyFinalized - операция невозможна после финализации
	ErrAlreadyFinalized = errors.New("dispatch already finalized")
)

// ValidationError - некорректные входные данные, отклоняются до запуска этапов
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, "; "))
}

// DuplicateIncidentError - повторная подача уже известной внешней ссылки
type DuplicateIncidentError struct {
	ExternalRef string
	ExistingID  uuid.UUID
}

func (e *DuplicateIncidentError) Error() string {
	return fmt.Sprintf("incident with external reference %q already submitted as %s", e.ExternalRef, e.ExistingID)
}

// NoCapacityError - ни одно учреждение не может принять пациента
type NoCapacityError struct {
	IncidentID uuid.UUID
	Tier       SeverityTier
	Considered int
}

func (e *NoCapacityError) Error() string {
	return fmt.Sprintf("no facility capacity for %s incident %s (%d facilities considered)", e.Tier, e.IncidentID, e.Considered)
}

// OracleTimeoutError - внешний оракул не ответил, используется эвристика
type OracleTimeoutError struct {
	Oracle string
	Err    error
}

func (e *OracleTimeoutError) Error() string {
	return fmt.Sprintf("%s oracle unavailable: %v", e.Oracle, e.Err)
}

func (e *OracleTimeoutError) Unwrap() error {
	return e.Err
}

// NotificationFailure - доставка одному получателю не удалась после всех попыток
type NotificationFailure struct {
	Recipient RecipientClass
	Attempts  int
	Err       error
}

func (e *NotificationFailure) Error() string {
	return fmt.Sprintf("notification to %s failed after %d attempts: %v", e.Recipient, e.Attempts, e.Err)
}

func (e *NotificationFailure) Unwrap() error {
	return e.Err
}

// CapacityRaceError - нарушение инварианта журнала мощностей
type CapacityRaceError struct {
	FacilityID    string
	ReservationID uuid.UUID
	Detail        string
}

func (e *CapacityRaceError) Error() string {
	return fmt.Sprintf("capacity invariant violated on facility %s (reservation %s): %s", e.FacilityID, e.ReservationID, e.Detail)
}
