package models

import (
	"time"

	"github.com/google/uuid"
)

// TimeBucket - интервал суток, определяющий базовую скорость
type TimeBucket string

const (
	BucketPeak    TimeBucket = "peak"
	BucketOffPeak TimeBucket = "off_peak"
	BucketNight   TimeBucket = "night"
)

// Route - производный неизменяемый маршрут от места происшествия до учреждения
type Route struct {
	ID               uuid.UUID  `json:"id"`
	IncidentID       uuid.UUID  `json:"incident_id"`
	FacilityID       string     `json:"facility_id"`
	DistanceKm       float64    `json:"distance_km"`
	BaselineETA      int        `json:"baseline_eta_minutes"`
	PriorityETA      int        `json:"priority_eta_minutes"`
	TimeSaved        int        `json:"time_saved_minutes"`
	TrafficCondition string     `json:"traffic_condition"`
	TimeBucket       TimeBucket `json:"time_bucket"`
	ETASource        string     `json:"eta_source"`
	ComputedAt       time.Time  `json:"computed_at"`
}
