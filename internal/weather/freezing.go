package weather

import "github.com/i474232898/meteo-fusion/internal/common"

// FreezingSource tags which candidate a freezing level came from.
type FreezingSource string

const (
	FreezingSourcePrimary   FreezingSource = "primary"
	FreezingSourceFallback  FreezingSource = "fallback"
	FreezingSourceElevation FreezingSource = "elevation"
)

// FreezingLevel is a reconciled zero-isotherm altitude in metres.
// Corrected means no model was consistent and Value is the station elevation:
// the zero isotherm lies somewhere below the station.
type FreezingLevel struct {
	Value     *float64
	Corrected bool
	Source    FreezingSource
}

// CorrectFreezingLevel reconciles two freezing-level candidates with the
// station temperature and elevation using the default thresholds.
func CorrectFreezingLevel(primary, fallback, stationTemp, elevation *float64) FreezingLevel {
	return DefaultThresholds.CorrectFreezingLevel(primary, fallback, stationTemp, elevation)
}

// CorrectFreezingLevel accepts a candidate when it lies at or below the
// station, or when the station is above freezing or its temperature unknown.
// A primary value within SuspectFreezeBand below the station while the
// station is colder than SuspectFreezeTemp is rejected outright: with a
// lapse rate near 6.5 °C/km the isotherm should be far lower.
func (t Thresholds) CorrectFreezingLevel(primary, fallback, stationTemp, elevation *float64) FreezingLevel {
	if elevation == nil {
		return FreezingLevel{Value: common.RoundPtr(primary, 0), Source: FreezingSourcePrimary}
	}
	elev := *elevation

	consistent := func(level float64) bool {
		return level <= elev || stationTemp == nil || *stationTemp > 0
	}

	suspect := stationTemp != nil && *stationTemp < t.SuspectFreezeTemp &&
		primary != nil && *primary > elev-t.SuspectFreezeBand

	if !suspect && primary != nil && consistent(*primary) {
		return FreezingLevel{Value: common.RoundPtr(primary, 0), Source: FreezingSourcePrimary}
	}
	if fallback != nil && consistent(*fallback) {
		return FreezingLevel{Value: common.RoundPtr(fallback, 0), Source: FreezingSourceFallback}
	}
	return FreezingLevel{Value: common.RoundPtr(elevation, 0), Corrected: true, Source: FreezingSourceElevation}
}
