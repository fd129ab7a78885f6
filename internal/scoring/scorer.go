package scoring

import (
	"fmt"
	"time"

	"github.com/shenikar/green_corridor_dispatch/internal/models"
)

const (
	MinScore = 0
	MaxScore = 10

	// максимальная поправка, которую может внести оракул
	maxHintAdjustment = 2
)

const (
	weightUnconscious  = 4
	weightNotBreathing = 5
	weightBleeding     = 2
)

var categoryWeights = map[models.Category]int{
	models.CategoryCardiac:     4,
	models.CategoryStroke:      4,
	models.CategoryUnconscious: 4,
	models.CategoryTrauma:      3,
	models.CategoryBreathing:   3,
	models.CategoryBleeding:    3,
	models.CategoryPoisoning:   3,
	models.CategoryBurns:       2,
	models.CategoryOther:       1,
}

// Hint - подсказка внешнего оракула
type Hint struct {
	Adjustment  int      `json:"adjustment"`
	RiskFactors []string `json:"risk_factors"`
}

type tierPreset struct {
	priority       string
	recommendation string
	responseMins   int
	preparations   []string
}

var presets = map[models.SeverityTier]tierPreset{
	models.TierCritical: {
		priority:       "CRITICAL",
		recommendation: "Immediate critical response, priority corridor required",
		responseMins:   8,
		preparations: []string{
			"Trauma team activation",
			"ICU bed preparation",
			"Blood bank notification",
			"Specialist on standby",
			"Ventilator ready",
		},
	},
	models.TierSerious: {
		priority:       "HIGH",
		recommendation: "Urgent response, priority corridor recommended",
		responseMins:   12,
		preparations: []string{
			"Emergency team alert",
			"Emergency bed ready",
			"Blood type and cross-match",
			"Cardiac monitor ready",
		},
	},
	models.TierModerate: {
		priority:       "MEDIUM",
		recommendation: "Standard emergency response with priority routing",
		responseMins:   18,
		preparations: []string{
			"Emergency bed preparation",
			"Nursing team alert",
			"Basic monitoring setup",
		},
	},
	models.TierMinor: {
		priority:       "LOW",
		recommendation: "Standard response, monitor during transport",
		responseMins:   25,
		preparations: []string{
			"Outpatient assessment area",
			"Basic examination setup",
		},
	},
}

// TierFor переводит балл в уровень тяжести по фиксированным порогам
func TierFor(score int) models.SeverityTier {
	switch {
	case score >= 8:
		return models.TierCritical
	case score >= 6:
		return models.TierSerious
	case score >= 4:
		return models.TierModerate
	default:
		return models.TierMinor
	}
}

// CorridorRequired - коридор нужен для тяжелых и критических случаев
func CorridorRequired(tier models.SeverityTier) bool {
	return tier == models.TierSerious || tier == models.TierCritical
}

// Score - чистая тотальная функция оценки тяжести. Отсутствующие поля
// считаются наименее тяжелым вариантом, hint может быть nil.
func Score(incident models.Incident, hint *Hint, now time.Time) models.SeverityAssessment {
	score := 0
	var factors []string

	if incident.PatientAge != nil {
		age := *incident.PatientAge
		switch {
		case age < 5:
			score += 2
			factors = append(factors, "Young child")
		case age > 75:
			score += 2
			factors = append(factors, "Elderly patient")
		case age > 65:
			score += 1
			factors = append(factors, "Senior patient")
		}
	}

	if !incident.Conscious {
		score += weightUnconscious
		factors = append(factors, "Unconscious")
	}
	if !incident.Breathing {
		score += weightNotBreathing
		factors = append(factors, "Not breathing")
	}
	if incident.Bleeding {
		score += weightBleeding
		factors = append(factors, "Active bleeding")
	}

	category := incident.Category
	weight, ok := categoryWeights[category]
	if !ok {
		category = models.CategoryOther
		weight = categoryWeights[models.CategoryOther]
	}
	score += weight
	factors = append(factors, fmt.Sprintf("%s emergency", category))

	applied := false
	if hint != nil {
		score += clamp(hint.Adjustment, -maxHintAdjustment, maxHintAdjustment)
		factors = appendUnique(factors, hint.RiskFactors...)
		applied = true
	}

	score = clamp(score, MinScore, MaxScore)
	tier := TierFor(score)
	preset := presets[tier]

	return models.SeverityAssessment{
		IncidentID:               incident.ID,
		Score:                    score,
		Tier:                     tier,
		RiskFactors:              factors,
		CorridorRequired:         CorridorRequired(tier),
		Preparations:             append([]string(nil), preset.preparations...),
		PriorityLabel:            preset.priority,
		Recommendation:           preset.recommendation,
		EstimatedResponseMinutes: preset.responseMins,
		OracleApplied:            applied,
		AssessedAt:               now,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func appendUnique(dst []string, items ...string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range items {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
