package weather

import (
	"math"

	"github.com/i474232898/meteo-fusion/internal/common"
)

// IsSnow reports whether temperature and dew point (°C) indicate snow with the
// default thresholds. An unknown temperature never indicates snow.
func IsSnow(temp, dewPoint *float64) bool {
	return DefaultThresholds.IsSnow(temp, dewPoint)
}

// IsSnow reports whether temp ≤ SnowMaxTemp and the dew point is unknown or
// ≤ SnowMaxDewPoint.
func (t Thresholds) IsSnow(temp, dewPoint *float64) bool {
	if temp == nil {
		return false
	}
	return *temp <= t.SnowMaxTemp && (dewPoint == nil || *dewPoint <= t.SnowMaxDewPoint)
}

// SnowQualityOf classifies snowfall with the default thresholds.
func SnowQualityOf(snowfall float64, temp, dewPoint *float64) SnowQuality {
	return DefaultThresholds.SnowQuality(snowfall, temp, dewPoint)
}

// SnowQuality returns wet when both temperature and dew point sit above the
// wet-snow limits, dry otherwise, and none without snowfall or inputs.
func (t Thresholds) SnowQuality(snowfall float64, temp, dewPoint *float64) SnowQuality {
	if snowfall <= 0 || temp == nil || dewPoint == nil {
		return SnowQualityNone
	}
	if *temp > t.WetSnowMinTemp && *dewPoint > t.WetSnowMinDewPoint {
		return SnowQualityWet
	}
	return SnowQualityDry
}

// DewPoint derives the dew point (°C, one decimal) from temperature and
// relative humidity with the Magnus–Tetens approximation.
func DewPoint(temp, humidity *float64) *float64 {
	if temp == nil || humidity == nil || *humidity <= 0 {
		return nil
	}
	const a, b = 17.27, 237.7
	t := *temp
	alpha := (a*t)/(b+t) + math.Log(*humidity/100)
	dp := common.Round((b*alpha)/(a-alpha), 1)
	return &dp
}

// isPrecipCode reports whether a WMO code denotes precipitation (51–99).
func isPrecipCode(code *int) bool {
	return code != nil && *code >= 51 && *code <= 99
}

// splitPrecipitation fills in rain (mm) and snowfall when the provider gave
// no decomposition, or a zero decomposition despite precipitation. The whole
// amount goes to one phase. Neither output is ever left unset.
func (t Thresholds) splitPrecipitation(rain, snowfall *float64, precip float64, temp, dewPoint *float64) (float64, float64) {
	switch {
	case rain == nil && snowfall == nil:
		if precip > 0 && temp != nil {
			if t.IsSnow(temp, dewPoint) {
				return 0, precip
			}
			return precip, 0
		}
		return 0, 0
	case common.Deref(rain, 0) == 0 && common.Deref(snowfall, 0) == 0 && precip > 0:
		if t.IsSnow(temp, dewPoint) {
			return 0, precip
		}
		return precip, 0
	}
	return common.Deref(rain, 0), common.Deref(snowfall, 0)
}

// reclassifyRain moves rain that fell under snow conditions into snowfall.
// The amount passes through 1:1 (mm read as cm). This is an approximation
// kept for output compatibility, not a physical conversion.
func (t Thresholds) reclassifyRain(rain, snowfall float64, temp, dewPoint *float64) (float64, float64) {
	if rain > 0 && t.IsSnow(temp, dewPoint) {
		return 0, snowfall + rain
	}
	return rain, snowfall
}

// precipObservation is one model's view of a timestep.
type precipObservation struct {
	code     *int
	rain     *float64
	snowfall *float64
	precip   float64
}

func (o precipObservation) hasPrecip() bool {
	return common.Deref(o.rain, 0) > 0 || common.Deref(o.snowfall, 0) > 0 || o.precip > 0
}

// reconcileWeatherCode makes the weather code agree with the precipitation
// amounts. When the code claims precipitation but none is present, the
// alternate observation replaces the primary if it is self-consistent;
// otherwise the code is derived from cloud cover. A clear code under a high
// cloud cover is raised to partly cloudy or overcast.
func reconcileWeatherCode(obs precipObservation, alt func() precipObservation, cloud *float64) precipObservation {
	if isPrecipCode(obs.code) && !obs.hasPrecip() {
		a := alt()
		if a.code != nil && isPrecipCode(a.code) == a.hasPrecip() {
			obs = a
		} else {
			obs.code = common.Ptr(codeFromCloudCover(cloud))
		}
	}

	if cloud != nil && (obs.code == nil || *obs.code == 0 || *obs.code == 1) {
		switch {
		case *cloud >= 80:
			obs.code = common.Ptr(3)
		case *cloud >= 50 && obs.code != nil && *obs.code == 0:
			obs.code = common.Ptr(2)
		}
	}
	return obs
}

func codeFromCloudCover(cloud *float64) int {
	c := common.Deref(cloud, 0)
	switch {
	case c >= 80:
		return 3
	case c >= 50:
		return 2
	default:
		return 1
	}
}
