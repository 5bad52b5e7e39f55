package weather

import "math"

const kelvinOffset = 273.15

// SLR returns the snow-to-liquid ratio for temperature (°C), relative humidity
// (%) and wind speed (m/s) using the default alpine coefficients. Humidity
// defaults to neutral and wind to calm when unknown.
func SLR(temp, humidity, windSpeed *float64) float64 {
	return DefaultSLR.Ratio(temp, humidity, windSpeed)
}

// Ratio computes a simplified Roebber ratio: a base value adjusted for
// temperature (twice as steep above the threshold), humidity around the
// neutral value and wind compaction, clamped to [Min, Max].
func (c SLRCoefficients) Ratio(temp, humidity, windSpeed *float64) float64 {
	if temp == nil {
		return c.Base
	}

	tempK := *temp + kelvinOffset
	var tempAdj float64
	if tempK > c.ThresholdK {
		tempAdj = c.WarmSlope * (c.ThresholdK - tempK)
	} else {
		tempAdj = c.ColdSlope * (c.ThresholdK - tempK)
	}

	rh := c.NeutralHumidity
	if humidity != nil {
		rh = *humidity
	}
	humidAdj := (c.NeutralHumidity - rh) / c.HumidityScale

	var wind float64
	if windSpeed != nil {
		wind = *windSpeed
	}
	windAdj := -math.Max(0, wind-c.WindOnset) * c.WindRate

	ratio := c.Base + tempAdj + humidAdj + windAdj
	if math.IsNaN(ratio) {
		return c.Base
	}
	return math.Max(c.Min, math.Min(ratio, c.Max))
}

// SnowDepthCm converts liquid-equivalent precipitation (mm) to snow depth (cm).
func SnowDepthCm(precipMm, slr float64) float64 {
	return precipMm * slr / 10
}
