package models

import (
	"time"

	"github.com/google/uuid"
)

// SeverityTier - уровень тяжести, монотонный по баллу
type SeverityTier string

const (
	TierMinor    SeverityTier = "minor"
	TierModerate SeverityTier = "moderate"
	TierSerious  SeverityTier = "serious"
	TierCritical SeverityTier = "critical"
)

// Rank возвращает порядковый номер уровня для сравнения
func (t SeverityTier) Rank() int {
	switch t {
	case TierModerate:
		return 1
	case TierSerious:
		return 2
	case TierCritical:
		return 3
	default:
		return 0
	}
}

// SeverityAssessment - результат оценки тяжести, создается один раз на происшествие
type SeverityAssessment struct {
	IncidentID               uuid.UUID    `json:"incident_id"`
	Score                    int          `json:"score"`
	Tier                     SeverityTier `json:"tier"`
	RiskFactors              []string     `json:"risk_factors"`
	CorridorRequired         bool         `json:"corridor_required"`
	Preparations             []string     `json:"preparations"`
	PriorityLabel            string       `json:"priority_label"`
	Recommendation           string       `json:"recommendation"`
	EstimatedResponseMinutes int          `json:"estimated_response_minutes"`
	OracleApplied            bool         `json:"oracle_applied"`
	AssessedAt               time.Time    `json:"assessed_at"`
}
