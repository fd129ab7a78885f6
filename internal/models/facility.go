package models

import (
	"time"

	"github.com/google/uuid"
)

// BedClass - класс койки, из которого сделано резервирование
type BedClass string

const (
	BedGeneral  BedClass = "general"
	BedCritical BedClass = "critical"
)

// Facility - принимающее медучреждение. Счетчики коек меняет только журнал мощностей.
type Facility struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Location     Location `json:"location" yaml:"location"`
	TraumaLevel  int      `json:"trauma_level" yaml:"trauma_level"`
	Specialties  []string `json:"specialties" yaml:"specialties"`
	GeneralBeds  int      `json:"general_beds" yaml:"general_beds"`
	CriticalBeds int      `json:"critical_beds" yaml:"critical_beds"`
	Load         string   `json:"load" yaml:"load"`
}

// HasSpecialty проверяет наличие специализации
func (f Facility) HasSpecialty(tags ...string) bool {
	for _, s := range f.Specialties {
		for _, tag := range tags {
			if s == tag {
				return true
			}
		}
	}
	return false
}

// Reservation - атомарное списание одной койки под происшествие
type Reservation struct {
	ID         uuid.UUID `json:"id"`
	IncidentID uuid.UUID `json:"incident_id"`
	FacilityID string    `json:"facility_id"`
	Facility   Facility  `json:"facility"`
	BedClass   BedClass  `json:"bed_class"`
	Override   bool      `json:"override"`
	DistanceKm float64   `json:"distance_km"`
	ReservedAt time.Time `json:"reserved_at"`
}
