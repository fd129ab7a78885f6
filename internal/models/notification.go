package models

import (
	"time"

	"github.com/google/uuid"
)

// RecipientClass - класс получателя уведомления
type RecipientClass string

const (
	RecipientFacility  RecipientClass = "facility"
	RecipientAuthority RecipientClass = "authority"
	RecipientRequester RecipientClass = "requester"
)

// DeliveryStatus - статус доставки уведомления
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// NotificationPayload - типизированное содержимое уведомления
type NotificationPayload struct {
	Subject      string       `json:"subject"`
	Body         string       `json:"body"`
	Tier         SeverityTier `json:"tier"`
	Score        int          `json:"score"`
	FacilityID   string       `json:"facility_id"`
	FacilityName string       `json:"facility_name"`
	ETAMinutes   int          `json:"eta_minutes"`
	TimeSaved    int          `json:"time_saved_minutes"`
	SignalPoints int          `json:"signal_points,omitempty"`
	Preparations []string     `json:"preparations,omitempty"`
	Contact      string       `json:"contact,omitempty"`
}

// Notification - сообщение, передаваемое приемнику
type Notification struct {
	IncidentID uuid.UUID           `json:"incident_id"`
	Recipient  RecipientClass      `json:"recipient"`
	Payload    NotificationPayload `json:"payload"`
}

// NotificationRecord - итог доставки для пары (происшествие, класс получателя)
type NotificationRecord struct {
	Recipient  RecipientClass      `json:"recipient"`
	IncidentID uuid.UUID           `json:"incident_id"`
	Payload    NotificationPayload `json:"payload"`
	Status     DeliveryStatus      `json:"status"`
	Attempts   int                 `json:"attempts"`
	LastError  string              `json:"last_error,omitempty"`
	SentAt     time.Time           `json:"sent_at,omitempty"`
}
