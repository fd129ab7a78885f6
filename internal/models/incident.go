package models

import (
	"time"

	"github.com/google/uuid"
)

// Category - фиксированный перечень категорий происшествий
type Category string

const (
	CategoryCardiac     Category = "cardiac"
	CategoryStroke      Category = "stroke"
	CategoryTrauma      Category = "trauma"
	CategoryBreathing   Category = "breathing"
	CategoryUnconscious Category = "unconscious"
	CategoryBleeding    Category = "bleeding"
	CategoryBurns       Category = "burns"
	CategoryPoisoning   Category = "poisoning"
	CategoryOther       Category = "other"
)

// Categories возвращает все допустимые категории
func Categories() []Category {
	return []Category{
		CategoryCardiac,
		CategoryStroke,
		CategoryTrauma,
		CategoryBreathing,
		CategoryUnconscious,
		CategoryBleeding,
		CategoryBurns,
		CategoryPoisoning,
		CategoryOther,
	}
}

// Valid проверяет, входит ли категория в перечень
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Location - географические координаты
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Requester - контакт заявителя, которому уходит подтверждение
type Requester struct {
	Name    string `json:"name,omitempty"`
	Contact string `json:"contact"`
}

// Incident - каноническая запись о происшествии, неизменяемая после создания
type Incident struct {
	ID               uuid.UUID `json:"id"`
	ExternalRef      string    `json:"external_ref"`
	Description      string    `json:"description"`
	Location         Location  `json:"location"`
	ReportedAt       time.Time `json:"reported_at"`
	Category         Category  `json:"category"`
	Conscious        bool      `json:"conscious"`
	Breathing        bool      `json:"breathing"`
	Bleeding         bool      `json:"bleeding"`
	PatientAge       *int      `json:"patient_age,omitempty"`
	SourceConfidence float64   `json:"source_confidence"`
	Requester        Requester `json:"requester"`
}
