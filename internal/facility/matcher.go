package facility

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/shenikar/green_corridor_dispatch/pkg/geo"
	"github.com/sirupsen/logrus"
)

var categorySpecialties = map[models.Category][]string{
	models.CategoryCardiac:     {"cardiology"},
	models.CategoryStroke:      {"neurology", "neurosurgery"},
	models.CategoryTrauma:      {"trauma", "orthopedics"},
	models.CategoryBurns:       {"burns"},
	models.CategoryPoisoning:   {"toxicology"},
	models.CategoryBreathing:   {"pulmonology"},
	models.CategoryBleeding:    {"trauma", "surgery"},
	models.CategoryUnconscious: {"neurology"},
}

// Candidate - учреждение с ключом ранжирования
type Candidate struct {
	Facility      models.Facility
	SpecialtyRank int
	DistanceKm    float64
}

// SpecialtyRank: 0 - профильное учреждение, 1 - общий травмацентр, 2 - прочие
func SpecialtyRank(f models.Facility, category models.Category) int {
	if tags, ok := categorySpecialties[category]; ok && f.HasSpecialty(tags...) {
		return 0
	}
	if f.HasSpecialty("trauma", "emergency") {
		return 1
	}
	return 2
}

// Eligible - есть обычная койка, либо критический случай и есть реанимационная койка
func Eligible(f models.Facility, tier models.SeverityTier) bool {
	if f.GeneralBeds > 0 {
		return true
	}
	return tier == models.TierCritical && f.CriticalBeds > 0
}

// Rank отбирает подходящие учреждения и упорядочивает их по
// (специализация, расстояние, -свободные койки)
func Rank(facilities []models.Facility, incident models.Incident, tier models.SeverityTier) []Candidate {
	candidates := make([]Candidate, 0, len(facilities))
	for _, f := range facilities {
		if !Eligible(f, tier) {
			continue
		}
		candidates = append(candidates, Candidate{
			Facility:      f,
			SpecialtyRank: SpecialtyRank(f, incident.Category),
			DistanceKm: geo.DistanceKm(
				incident.Location.Latitude, incident.Location.Longitude,
				f.Location.Latitude, f.Location.Longitude,
			),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.SpecialtyRank != b.SpecialtyRank {
			return a.SpecialtyRank < b.SpecialtyRank
		}
		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		if a.Facility.GeneralBeds != b.Facility.GeneralBeds {
			return a.Facility.GeneralBeds > b.Facility.GeneralBeds
		}
		return a.Facility.ID < b.Facility.ID
	})
	return candidates
}

// Matcher подбирает учреждение и резервирует койку в журнале
type Matcher struct {
	ledger *Ledger
	logger *logrus.Logger
}

func NewMatcher(ledger *Ledger, logger *logrus.Logger) *Matcher {
	return &Matcher{ledger: ledger, logger: logger}
}

// Ledger возвращает журнал мощностей матчера
func (m *Matcher) Ledger() *Ledger {
	return m.ledger
}

// Match делает один проход по ранжированному списку. Проигравший гонку за
// койку переходит к следующему кандидату, повторов по тому же списку нет.
func (m *Matcher) Match(ctx context.Context, incident models.Incident, assessment models.SeverityAssessment) (*models.Reservation, error) {
	log := m.logger.WithFields(logrus.Fields{
		"component":   "facility_matcher",
		"incident_id": incident.ID,
		"tier":        assessment.Tier,
	})

	candidates := Rank(m.ledger.Snapshot(), incident, assessment.Tier)
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("facility: match interrupted: %w", err)
		}

		res, err := m.ledger.Reserve(c.Facility.ID, incident.ID, assessment.Tier)
		if errors.Is(err, errFacilityFull) {
			log.WithField("facility_id", c.Facility.ID).Debug("Facility filled up, trying next candidate")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("facility: could not reserve bed: %w", err)
		}

		res.DistanceKm = c.DistanceKm
		log.WithFields(logrus.Fields{
			"facility_id": res.FacilityID,
			"bed_class":   res.BedClass,
			"override":    res.Override,
			"distance_km": c.DistanceKm,
		}).Info("Bed reserved")
		return res, nil
	}

	log.WithField("considered", len(candidates)).Warn("No facility capacity")
	return nil, &models.NoCapacityError{
		IncidentID: incident.ID,
		Tier:       assessment.Tier,
		Considered: len(candidates),
	}
}

// Release возвращает койку в журнал
func (m *Matcher) Release(res models.Reservation) error {
	return m.ledger.Release(res)
}
