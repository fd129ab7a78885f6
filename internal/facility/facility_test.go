package facility

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var incidentNearAIIMS = models.Location{Latitude: 28.5700, Longitude: 77.2120}

func newTestLogger() (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger, buf
}

func newTestMatcher(t *testing.T, facilities ...models.Facility) (*Matcher, *bytes.Buffer) {
	t.Helper()
	logger, buf := newTestLogger()
	ledger := NewLedger(facilities, 15*time.Minute, logger)
	return NewMatcher(ledger, logger), buf
}

func cardiacIncident(loc models.Location) models.Incident {
	return models.Incident{ID: uuid.New(), Category: models.CategoryCardiac, Location: loc, Conscious: true, Breathing: true}
}

func assessment(tier models.SeverityTier) models.SeverityAssessment {
	return models.SeverityAssessment{Tier: tier}
}

func findFacility(t *testing.T, l *Ledger, id string) models.Facility {
	t.Helper()
	for _, f := range l.Snapshot() {
		if f.ID == id {
			return f
		}
	}
	t.Fatalf("facility %s not found", id)
	return models.Facility{}
}

func TestRank_SpecialtyThenDistanceThenCapacity(t *testing.T) {
	// Подготовка
	facilities := []models.Facility{
		{ID: "NEAR_GENERAL", Location: incidentNearAIIMS, Specialties: []string{"emergency"}, GeneralBeds: 5},
		{ID: "FAR_CARDIO", Location: models.Location{Latitude: 28.70, Longitude: 77.10}, Specialties: []string{"cardiology"}, GeneralBeds: 1},
		{ID: "NEAR_CARDIO_SMALL", Location: models.Location{Latitude: 28.58, Longitude: 77.21}, Specialties: []string{"cardiology"}, GeneralBeds: 1},
		{ID: "NEAR_CARDIO_BIG", Location: models.Location{Latitude: 28.58, Longitude: 77.21}, Specialties: []string{"cardiology"}, GeneralBeds: 8},
		{ID: "CLINIC", Location: incidentNearAIIMS, Specialties: []string{"dermatology"}, GeneralBeds: 3},
		{ID: "FULL_CARDIO", Location: incidentNearAIIMS, Specialties: []string{"cardiology"}, GeneralBeds: 0, CriticalBeds: 2},
	}

	// Действие
	ranked := Rank(facilities, cardiacIncident(incidentNearAIIMS), models.TierSerious)

	// Проверки
	ids := make([]string, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.Facility.ID)
	}
	assert.Equal(t, []string{"NEAR_CARDIO_BIG", "NEAR_CARDIO_SMALL", "FAR_CARDIO", "NEAR_GENERAL", "CLINIC"}, ids)
	assert.Equal(t, 0, ranked[0].SpecialtyRank)
	assert.Equal(t, 1, ranked[3].SpecialtyRank)
	assert.Equal(t, 2, ranked[4].SpecialtyRank)
}

func TestRank_CriticalKeepsFacilitiesWithOnlyCriticalBeds(t *testing.T) {
	facilities := []models.Facility{
		{ID: "FULL", Location: incidentNearAIIMS, Specialties: []string{"cardiology"}, CriticalBeds: 1},
		{ID: "EMPTY", Location: incidentNearAIIMS, Specialties: []string{"cardiology"}},
	}

	ranked := Rank(facilities, cardiacIncident(incidentNearAIIMS), models.TierCritical)

	require.Len(t, ranked, 1)
	assert.Equal(t, "FULL", ranked[0].Facility.ID)
}

func TestMatch_CriticalOverrideOnceThenFailover(t *testing.T) {
	// Подготовка
	matcher, logs := newTestMatcher(t,
		models.Facility{ID: "A", Location: incidentNearAIIMS, Specialties: []string{"cardiology"}, GeneralBeds: 0, CriticalBeds: 1},
		models.Facility{ID: "B", Location: models.Location{Latitude: 28.60, Longitude: 77.22}, Specialties: []string{"cardiology"}, GeneralBeds: 2},
	)
	ctx := context.Background()

	// Действие
	first, err := matcher.Match(ctx, cardiacIncident(incidentNearAIIMS), assessment(models.TierCritical))
	require.NoError(t, err)
	second, err := matcher.Match(ctx, cardiacIncident(incidentNearAIIMS), assessment(models.TierCritical))
	require.NoError(t, err)

	// Проверки
	assert.Equal(t, "A", first.FacilityID)
	assert.True(t, first.Override)
	assert.Equal(t, models.BedCritical, first.BedClass)
	assert.Equal(t, "B", second.FacilityID)
	assert.False(t, second.Override)
	assert.Contains(t, logs.String(), "Critical override")

	a := findFacility(t, matcher.Ledger(), "A")
	assert.Equal(t, 0, a.CriticalBeds)
}

func TestMatch_OverrideCappedPerWindow(t *testing.T) {
	logger, _ := newTestLogger()
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := NewLedger([]models.Facility{
		{ID: "A", Location: incidentNearAIIMS, Specialties: []string{"cardiology"}, CriticalBeds: 3},
	}, 15*time.Minute, logger)
	ledger.now = func() time.Time { return clock }
	matcher := NewMatcher(ledger, logger)
	ctx := context.Background()

	_, err := matcher.Match(ctx, cardiacIncident(incidentNearAIIMS), assessment(models.TierCritical))
	require.NoError(t, err)

	clock = clock.Add(5 * time.Minute)
	_, err = matcher.Match(ctx, cardiacIncident(incidentNearAIIMS), assessment(models.TierCritical))
	var noCap *models.NoCapacityError
	require.ErrorAs(t, err, &noCap)
	assert.Equal(t, 1, noCap.Considered)

	clock = clock.Add(11 * time.Minute)
	res, err := matcher.Match(ctx, cardiacIncident(incidentNearAIIMS), assessment(models.TierCritical))
	require.NoError(t, err)
	assert.True(t, res.Override)
}

func TestMatch_NonCriticalNeverOverrides(t *testing.T) {
	matcher, _ := newTestMatcher(t,
		models.Facility{ID: "A", Location: incidentNearAIIMS, Specialties: []string{"cardiology"}, CriticalBeds: 4},
	)

	_, err := matcher.Match(context.Background(), cardiacIncident(incidentNearAIIMS), assessment(models.TierSerious))

	var noCap *models.NoCapacityError
	require.ErrorAs(t, err, &noCap)
	assert.Equal(t, 0, noCap.Considered)
	assert.Equal(t, models.TierSerious, noCap.Tier)
}

func TestLedger_ReleaseRestoresReservedClass(t *testing.T) {
	logger, _ := newTestLogger()
	ledger := NewLedger([]models.Facility{{ID: "A", GeneralBeds: 1, CriticalBeds: 1}}, time.Minute, logger)
	incidentID := uuid.New()

	general, err := ledger.Reserve("A", incidentID, models.TierCritical)
	require.NoError(t, err)
	critical, err := ledger.Reserve("A", incidentID, models.TierCritical)
	require.NoError(t, err)
	require.Equal(t, models.BedGeneral, general.BedClass)
	require.Equal(t, models.BedCritical, critical.BedClass)

	require.NoError(t, ledger.Release(*critical))
	f := findFacility(t, ledger, "A")
	assert.Equal(t, 0, f.GeneralBeds)
	assert.Equal(t, 1, f.CriticalBeds)

	require.NoError(t, ledger.Release(*general))
	f = findFacility(t, ledger, "A")
	assert.Equal(t, 1, f.GeneralBeds)
	assert.Equal(t, 1, f.CriticalBeds)
}

func TestLedger_DoubleReleaseIsCapacityRace(t *testing.T) {
	logger, _ := newTestLogger()
	ledger := NewLedger([]models.Facility{{ID: "A", GeneralBeds: 1}}, time.Minute, logger)

	res, err := ledger.Reserve("A", uuid.New(), models.TierMinor)
	require.NoError(t, err)
	require.NoError(t, ledger.Release(*res))

	err = ledger.Release(*res)

	var race *models.CapacityRaceError
	require.ErrorAs(t, err, &race)
	assert.Equal(t, "A", race.FacilityID)
	assert.Equal(t, 1, findFacility(t, ledger, "A").GeneralBeds)
}

func TestLedger_UnknownFacility(t *testing.T) {
	logger, _ := newTestLogger()
	ledger := NewLedger(nil, time.Minute, logger)

	_, err := ledger.Reserve("GHOST", uuid.New(), models.TierMinor)

	assert.True(t, errors.Is(err, errUnknownFacility))
}

func TestLedger_ConcurrentReservationsOnSingleBed(t *testing.T) {
	logger, _ := newTestLogger()
	ledger := NewLedger([]models.Facility{{ID: "A", GeneralBeds: 1}}, time.Minute, logger)

	const workers = 64
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := ledger.Reserve("A", uuid.New(), models.TierSerious); err == nil {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, 0, findFacility(t, ledger, "A").GeneralBeds)
}

func TestMatch_ConcurrentLoadNeverOverbooks(t *testing.T) {
	matcher, _ := newTestMatcher(t,
		models.Facility{ID: "A", Location: incidentNearAIIMS, Specialties: []string{"cardiology"}, GeneralBeds: 2},
		models.Facility{ID: "B", Location: models.Location{Latitude: 28.60, Longitude: 77.22}, Specialties: []string{"cardiology"}, GeneralBeds: 2},
		models.Facility{ID: "C", Location: models.Location{Latitude: 28.52, Longitude: 77.20}, Specialties: []string{"emergency"}, GeneralBeds: 1},
	)

	const workers = 40
	var wins, noCapacity atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := matcher.Match(context.Background(), cardiacIncident(incidentNearAIIMS), assessment(models.TierSerious))
			var noCap *models.NoCapacityError
			switch {
			case err == nil:
				wins.Add(1)
			case errors.As(err, &noCap):
				noCapacity.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(5), wins.Load())
	assert.Equal(t, int32(workers-5), noCapacity.Load())
	for _, f := range matcher.Ledger().Snapshot() {
		assert.Equal(t, 0, f.GeneralBeds, f.ID)
	}
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
facilities:
  - id: AIIMS_DELHI
    name: AIIMS
    location: {latitude: 28.5672, longitude: 77.21}
    trauma_level: 1
    specialties: [trauma, cardiology]
    general_beds: 3
    critical_beds: 1
`)

	facilities, err := ParseCatalog(data)

	require.NoError(t, err)
	require.Len(t, facilities, 1)
	assert.Equal(t, "AIIMS_DELHI", facilities[0].ID)
	assert.InDelta(t, 28.5672, facilities[0].Location.Latitude, 1e-9)
	assert.True(t, facilities[0].HasSpecialty("cardiology"))
}

func TestParseCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing id", data: "facilities:\n  - name: X\n"},
		{name: "duplicate id", data: "facilities:\n  - id: A\n  - id: A\n"},
		{name: "negative beds", data: "facilities:\n  - id: A\n    general_beds: -1\n"},
		{name: "bad yaml", data: "facilities: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestFileCatalog_ShippedFixture(t *testing.T) {
	facilities, err := NewFileCatalog("../../configs/facilities.yaml").Facilities(context.Background())

	require.NoError(t, err)
	assert.Len(t, facilities, 4)
}
