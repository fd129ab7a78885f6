package models

import (
	"time"

	"github.com/google/uuid"
)

// CorridorStatus - состояние приоритетного коридора
type CorridorStatus string

const (
	CorridorInactive  CorridorStatus = "inactive"
	CorridorActivated CorridorStatus = "activated"
	CorridorActive    CorridorStatus = "active"
	CorridorCompleted CorridorStatus = "completed"
)

// CorridorActivation - активация коридора, ровно одна на маршрут
type CorridorActivation struct {
	RouteID           uuid.UUID      `json:"route_id"`
	IncidentID        uuid.UUID      `json:"incident_id"`
	Status            CorridorStatus `json:"status"`
	SignalPoints      int            `json:"signal_points"`
	ActivatedAt       time.Time      `json:"activated_at,omitempty"`
	CompletedAt       time.Time      `json:"completed_at,omitempty"`
	AuthorityNotified bool           `json:"authority_notified"`
	Reason            string         `json:"reason"`
}

// Engaged сообщает, был ли коридор реально активирован
func (a *CorridorActivation) Engaged() bool {
	return a != nil && a.Status != CorridorInactive
}
