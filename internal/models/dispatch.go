package models

import (
	"time"

	"github.com/google/uuid"
)

// Stage - этап конвейера диспетчеризации
type Stage string

const (
	StageReceived          Stage = "received"
	StageScored            Stage = "scored"
	StageMatched           Stage = "matched"
	StageRouted            Stage = "routed"
	StageCorridorEvaluated Stage = "corridor_evaluated"
	StageNotified          Stage = "notified"
	StageFinalized         Stage = "finalized"
	StageFailed            Stage = "failed"
)

// Terminal сообщает, является ли этап конечным
func (s Stage) Terminal() bool {
	return s == StageFinalized || s == StageFailed
}

// DispatchStatus - итоговый статус диспетчеризации
type DispatchStatus string

const (
	StatusDispatched DispatchStatus = "dispatched"
	StatusNoCapacity DispatchStatus = "no_capacity"
	StatusRejected   DispatchStatus = "rejected"
	StatusFailed     DispatchStatus = "failed"
)

// DispatchRecord - сводная запись по происшествию
type DispatchRecord struct {
	IncidentID    uuid.UUID            `json:"incident_id"`
	ExternalRef   string               `json:"external_ref"`
	Status        DispatchStatus       `json:"status"`
	Degraded      bool                 `json:"degraded"`
	Reason        string               `json:"reason"`
	ReceivedAt    time.Time            `json:"received_at"`
	FinalizedAt   time.Time            `json:"finalized_at"`
	Elapsed       time.Duration        `json:"elapsed"`
	Assessment    *SeverityAssessment  `json:"assessment,omitempty"`
	Reservation   *Reservation         `json:"reservation,omitempty"`
	Route         *Route               `json:"route,omitempty"`
	Corridor      *CorridorActivation  `json:"corridor,omitempty"`
	Notifications []NotificationRecord `json:"notifications,omitempty"`
}

// StageTransition - отметка о переходе на этап
type StageTransition struct {
	Stage Stage     `json:"stage"`
	At    time.Time `json:"at"`
}

// DispatchSnapshot - текущее состояние конвейера для одного происшествия
type DispatchSnapshot struct {
	IncidentID    uuid.UUID            `json:"incident_id"`
	ExternalRef   string               `json:"external_ref"`
	Stage         Stage                `json:"stage"`
	Reason        string               `json:"reason,omitempty"`
	ReceivedAt    time.Time            `json:"received_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	History       []StageTransition    `json:"history"`
	Incident      *Incident            `json:"incident,omitempty"`
	Assessment    *SeverityAssessment  `json:"assessment,omitempty"`
	Reservation   *Reservation         `json:"reservation,omitempty"`
	Route         *Route               `json:"route,omitempty"`
	Corridor      *CorridorActivation  `json:"corridor,omitempty"`
	Notifications []NotificationRecord `json:"notifications,omitempty"`
	Record        *DispatchRecord      `json:"record,omitempty"`
}
