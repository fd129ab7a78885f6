package scoring_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/shenikar/green_corridor_dispatch/internal/scoring"
	"github.com/shenikar/green_corridor_dispatch/internal/scoring/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func intPtr(v int) *int { return &v }

func baseIncident() models.Incident {
	return models.Incident{
		ID:               uuid.New(),
		Category:         models.CategoryOther,
		Conscious:        true,
		Breathing:        true,
		SourceConfidence: 1,
	}
}

func newTestAssessor(t *testing.T, withOracle bool, timeout time.Duration) (*scoring.Assessor, *mocks.MockOracle, *bytes.Buffer) {
	ctrl := gomock.NewController(t)
	logs := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(logs)
	logger.SetFormatter(&logrus.JSONFormatter{})

	if !withOracle {
		return scoring.NewAssessor(nil, timeout, logger), nil, logs
	}
	oracle := mocks.NewMockOracle(ctrl)
	return scoring.NewAssessor(oracle, timeout, logger), oracle, logs
}

func TestScore_UnconsciousCardiacElderIsCritical(t *testing.T) {
	// Подготовка
	incident := baseIncident()
	incident.Conscious = false
	incident.Breathing = false
	incident.Category = models.CategoryCardiac
	incident.PatientAge = intPtr(70)

	// Действие
	got := scoring.Score(incident, nil, time.Now())

	// Проверки
	assert.GreaterOrEqual(t, got.Score, 8)
	assert.Equal(t, models.TierCritical, got.Tier)
	assert.True(t, got.CorridorRequired)
	assert.Equal(t, "CRITICAL", got.PriorityLabel)
	assert.Equal(t, 8, got.EstimatedResponseMinutes)
	assert.Contains(t, got.Preparations, "ICU bed preparation")
	assert.False(t, got.OracleApplied)
}

func TestScore_WeightsAreSummed(t *testing.T) {
	incident := baseIncident()
	incident.Category = models.CategoryStroke
	incident.Bleeding = true

	got := scoring.Score(incident, nil, time.Now())

	// инсульт 4 + кровотечение 2
	assert.Equal(t, 6, got.Score)
	assert.Equal(t, models.TierSerious, got.Tier)
	assert.Contains(t, got.RiskFactors, "Active bleeding")
	assert.Contains(t, got.RiskFactors, "stroke emergency")
}

func TestScore_AgeBands(t *testing.T) {
	tests := []struct {
		name string
		age  *int
		want int
	}{
		{name: "unknown age", age: nil, want: 1},
		{name: "infant", age: intPtr(2), want: 3},
		{name: "adult", age: intPtr(40), want: 1},
		{name: "boundary 65", age: intPtr(65), want: 1},
		{name: "senior", age: intPtr(66), want: 2},
		{name: "boundary 75", age: intPtr(75), want: 2},
		{name: "elderly", age: intPtr(76), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incident := baseIncident()
			incident.PatientAge = tt.age

			got := scoring.Score(incident, nil, time.Now())

			assert.Equal(t, tt.want, got.Score)
		})
	}
}

func TestScore_ClampedToRange(t *testing.T) {
	incident := baseIncident()
	incident.Conscious = false
	incident.Breathing = false
	incident.Bleeding = true
	incident.Category = models.CategoryCardiac
	incident.PatientAge = intPtr(90)

	got := scoring.Score(incident, &scoring.Hint{Adjustment: 2}, time.Now())
	assert.Equal(t, scoring.MaxScore, got.Score)

	low := scoring.Score(baseIncident(), &scoring.Hint{Adjustment: -2}, time.Now())
	assert.Equal(t, scoring.MinScore, low.Score)
	assert.Equal(t, models.TierMinor, low.Tier)
}

func TestScore_UnknownCategoryTreatedAsOther(t *testing.T) {
	incident := baseIncident()
	incident.Category = models.Category("meteor")

	got := scoring.Score(incident, nil, time.Now())

	assert.Equal(t, 1, got.Score)
	assert.Equal(t, models.TierMinor, got.Tier)
	assert.False(t, got.CorridorRequired)
}

func TestTierFor_Monotonic(t *testing.T) {
	prev := scoring.TierFor(scoring.MinScore)
	for s := scoring.MinScore + 1; s <= scoring.MaxScore; s++ {
		cur := scoring.TierFor(s)
		assert.GreaterOrEqual(t, cur.Rank(), prev.Rank(), "score %d", s)
		prev = cur
	}
	assert.Equal(t, models.TierModerate, scoring.TierFor(4))
	assert.Equal(t, models.TierSerious, scoring.TierFor(6))
	assert.Equal(t, models.TierCritical, scoring.TierFor(8))
}

func TestScore_HintAdjustmentIsBounded(t *testing.T) {
	incident := baseIncident()
	incident.Category = models.CategoryTrauma

	got := scoring.Score(incident, &scoring.Hint{
		Adjustment:  7,
		RiskFactors: []string{"Fall from height", "trauma emergency", ""},
	}, time.Now())

	// травма 3 + поправка не больше 2
	assert.Equal(t, 5, got.Score)
	assert.True(t, got.OracleApplied)
	assert.Equal(t, []string{"trauma emergency", "Fall from height"}, got.RiskFactors)
}

func TestAssessor_UsesOracleHint(t *testing.T) {
	// Подготовка
	assessor, oracle, _ := newTestAssessor(t, true, time.Second)
	incident := baseIncident()
	incident.Category = models.CategoryBurns

	// Ожидания
	oracle.EXPECT().
		Assess(gomock.Any(), incident).
		Return(&scoring.Hint{Adjustment: 2, RiskFactors: []string{"Facial burns"}}, nil).
		Times(1)

	// Действие
	got := assessor.Assess(context.Background(), incident)

	// Проверки
	assert.Equal(t, 4, got.Score)
	assert.Equal(t, models.TierModerate, got.Tier)
	assert.True(t, got.OracleApplied)
	assert.Contains(t, got.RiskFactors, "Facial burns")
}

func TestAssessor_OracleErrorFallsBackToHeuristic(t *testing.T) {
	assessor, oracle, logs := newTestAssessor(t, true, time.Second)
	incident := baseIncident()
	incident.Category = models.CategoryCardiac

	oracle.EXPECT().
		Assess(gomock.Any(), incident).
		Return(nil, errors.New("connection refused")).
		Times(1)

	got := assessor.Assess(context.Background(), incident)

	assert.Equal(t, 4, got.Score)
	assert.False(t, got.OracleApplied)
	assert.Contains(t, logs.String(), "Scoring oracle unavailable")
}

func TestAssessor_OracleTimeoutFallsBackToHeuristic(t *testing.T) {
	assessor, oracle, logs := newTestAssessor(t, true, 20*time.Millisecond)
	incident := baseIncident()

	oracle.EXPECT().
		Assess(gomock.Any(), incident).
		DoAndReturn(func(ctx context.Context, _ models.Incident) (*scoring.Hint, error) {
			<-ctx.Done()
			time.Sleep(10 * time.Millisecond)
			return &scoring.Hint{Adjustment: 2}, nil
		}).
		Times(1)

	start := time.Now()
	got := assessor.Assess(context.Background(), incident)

	require.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, got.Score)
	assert.False(t, got.OracleApplied)
	assert.Contains(t, logs.String(), "deadline exceeded")
}

func TestAssessor_WithoutOracle(t *testing.T) {
	assessor, _, logs := newTestAssessor(t, false, time.Second)

	got := assessor.Assess(context.Background(), baseIncident())

	assert.Equal(t, 1, got.Score)
	assert.Empty(t, logs.String())
}
