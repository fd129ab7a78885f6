package routing

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/config"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/shenikar/green_corridor_dispatch/pkg/geo"
)

const (
	SourceHeuristic = "heuristic"
	SourceOracle    = "oracle"

	minOracleFactor = 0.5
	maxOracleFactor = 0.9
)

// Params - константы модели скорости и экономии времени
type Params struct {
	PeakSpeedKmh    float64
	OffPeakSpeedKmh float64
	NightSpeedKmh   float64
	CorridorFactor  float64
	PriorityFactor  float64
	FloorMinutes    int
	Location        *time.Location
}

// ParamsFromConfig собирает Params из конфигурации
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		PeakSpeedKmh:    cfg.PeakSpeedKmh,
		OffPeakSpeedKmh: cfg.OffPeakSpeedKmh,
		NightSpeedKmh:   cfg.NightSpeedKmh,
		CorridorFactor:  cfg.CorridorFactor,
		PriorityFactor:  cfg.PriorityFactor,
		FloorMinutes:    cfg.PriorityETAFloor,
		Location:        cfg.Location(),
	}
}

// Input - входные данные расчета маршрута
type Input struct {
	IncidentID       uuid.UUID
	FacilityID       string
	From             models.Location
	To               models.Location
	At               time.Time
	CorridorRequired bool
	// SuggestedETA - предложение внешнего оракула в минутах, nil если его нет
	SuggestedETA *float64
}

// Bucket определяет интервал суток по часу в заданной зоне
func Bucket(at time.Time, loc *time.Location) models.TimeBucket {
	if loc == nil {
		loc = time.UTC
	}
	hour := at.In(loc).Hour()
	switch {
	case (hour >= 7 && hour <= 10) || (hour >= 17 && hour <= 20):
		return models.BucketPeak
	case hour >= 11 && hour <= 16:
		return models.BucketOffPeak
	default:
		return models.BucketNight
	}
}

func (p Params) speed(bucket models.TimeBucket) (float64, string) {
	switch bucket {
	case models.BucketPeak:
		return p.PeakSpeedKmh, "HEAVY"
	case models.BucketOffPeak:
		return p.OffPeakSpeedKmh, "MODERATE"
	default:
		return p.NightSpeedKmh, "LIGHT"
	}
}

// BaselineETA - время в пути без коридора, округленное вверх, не меньше минуты
func BaselineETA(distanceKm, speedKmh float64) int {
	if speedKmh <= 0 {
		return 1
	}
	minutes := int(math.Ceil(distanceKm / speedKmh * 60))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// BoundPriorityETA приводит предложенное время к допустимому диапазону:
// [ceil(0.5*baseline), floor(0.9*baseline)], затем абсолютный минимум, затем не больше baseline.
func BoundPriorityETA(raw float64, baseline, floor int) int {
	eta := int(math.Round(raw))

	lo := int(math.Ceil(minOracleFactor * float64(baseline)))
	hi := int(math.Floor(maxOracleFactor * float64(baseline)))
	if eta > hi {
		eta = hi
	}
	if eta < lo {
		eta = lo
	}
	if eta < floor {
		eta = floor
	}
	if eta > baseline {
		eta = baseline
	}
	return eta
}

// Estimate - чистый расчет маршрута
func Estimate(in Input, p Params) models.Route {
	distance := geo.DistanceKm(in.From.Latitude, in.From.Longitude, in.To.Latitude, in.To.Longitude)
	bucket := Bucket(in.At, p.Location)
	speed, traffic := p.speed(bucket)
	baseline := BaselineETA(distance, speed)

	source := SourceHeuristic
	factor := p.PriorityFactor
	if in.CorridorRequired {
		factor = p.CorridorFactor
	}
	raw := float64(baseline) * factor
	if in.SuggestedETA != nil && !math.IsNaN(*in.SuggestedETA) && !math.IsInf(*in.SuggestedETA, 0) {
		raw = *in.SuggestedETA
		source = SourceOracle
	}

	priority := BoundPriorityETA(raw, baseline, p.FloorMinutes)

	return models.Route{
		ID:               uuid.New(),
		IncidentID:       in.IncidentID,
		FacilityID:       in.FacilityID,
		DistanceKm:       math.Round(distance*100) / 100,
		BaselineETA:      baseline,
		PriorityETA:      priority,
		TimeSaved:        baseline - priority,
		TrafficCondition: traffic,
		TimeBucket:       bucket,
		ETASource:        source,
		ComputedAt:       in.At.UTC(),
	}
}
