package facility

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// errFacilityFull - у учреждения нет подходящей койки, матчер переходит к следующему
var errFacilityFull = errors.New("facility has no available bed")

// errUnknownFacility - учреждения нет в журнале
var errUnknownFacility = errors.New("facility is not tracked by the ledger")

type slot struct {
	mu           sync.Mutex
	facility     models.Facility
	lastOverride time.Time
	active       map[uuid.UUID]models.BedClass
}

// Ledger - журнал мощностей. Единственное место, где меняются счетчики коек.
type Ledger struct {
	mu     sync.RWMutex
	slots  map[string]*slot
	window time.Duration
	logger *logrus.Logger
	now    func() time.Time
}

// NewLedger создает журнал по справочнику учреждений
func NewLedger(facilities []models.Facility, overrideWindow time.Duration, logger *logrus.Logger) *Ledger {
	l := &Ledger{
		slots:  make(map[string]*slot, len(facilities)),
		window: overrideWindow,
		logger: logger,
		now:    time.Now,
	}
	for _, f := range facilities {
		f.Specialties = append([]string(nil), f.Specialties...)
		l.slots[f.ID] = &slot{
			facility: f,
			active:   make(map[uuid.UUID]models.BedClass),
		}
	}
	return l
}

// Snapshot возвращает копию текущего состояния, упорядоченную по ID
func (l *Ledger) Snapshot() []models.Facility {
	l.mu.RLock()
	slots := make([]*slot, 0, len(l.slots))
	for _, s := range l.slots {
		slots = append(slots, s)
	}
	l.mu.RUnlock()

	out := make([]models.Facility, 0, len(slots))
	for _, s := range slots {
		s.mu.Lock()
		f := s.facility
		f.Specialties = append([]string(nil), s.facility.Specialties...)
		s.mu.Unlock()
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Reserve атомарно списывает одну койку. Критический уровень при нулевом числе
// обычных коек может получить одну экстренную койку из реанимационного фонда.
func (l *Ledger) Reserve(facilityID string, incidentID uuid.UUID, tier models.SeverityTier) (*models.Reservation, error) {
	s, err := l.slot(facilityID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := l.now().UTC()
	res := &models.Reservation{
		ID:         uuid.New(),
		IncidentID: incidentID,
		FacilityID: facilityID,
		ReservedAt: now,
	}

	switch {
	case s.facility.GeneralBeds > 0:
		s.facility.GeneralBeds--
		res.BedClass = models.BedGeneral
	case tier == models.TierCritical && s.facility.CriticalBeds > 0 && l.overrideAvailable(s, now):
		s.facility.CriticalBeds--
		s.lastOverride = now
		res.BedClass = models.BedCritical
		res.Override = true
		l.logger.WithFields(logrus.Fields{
			"component":     "facility_ledger",
			"facility_id":   facilityID,
			"incident_id":   incidentID,
			"critical_beds": s.facility.CriticalBeds,
		}).Warn("Critical override: emergency bed force-allocated")
	default:
		return nil, errFacilityFull
	}

	s.active[res.ID] = res.BedClass
	res.Facility = s.facility
	res.Facility.Specialties = append([]string(nil), s.facility.Specialties...)
	return res, nil
}

// Release возвращает койку того класса, из которого она была списана
func (l *Ledger) Release(res models.Reservation) error {
	s, err := l.slot(res.FacilityID)
	if err != nil {
		return &models.CapacityRaceError{FacilityID: res.FacilityID, ReservationID: res.ID, Detail: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	class, ok := s.active[res.ID]
	if !ok {
		return &models.CapacityRaceError{
			FacilityID:    res.FacilityID,
			ReservationID: res.ID,
			Detail:        "reservation is not active (double release)",
		}
	}
	delete(s.active, res.ID)

	switch class {
	case models.BedCritical:
		s.facility.CriticalBeds++
	default:
		s.facility.GeneralBeds++
	}
	return nil
}

func (l *Ledger) overrideAvailable(s *slot, now time.Time) bool {
	return s.lastOverride.IsZero() || now.Sub(s.lastOverride) >= l.window
}

func (l *Ledger) slot(facilityID string) (*slot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.slots[facilityID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownFacility, facilityID)
	}
	return s, nil
}
