package weather

import (
	"strconv"

	"github.com/i474232898/meteo-fusion/internal/common"
)

// kmhPerMs converts Open-Meteo's native km/h wind speeds to m/s.
const kmhPerMs = 3.6

// Enrich fuses the primary provider's hourly block into one record per
// timestep, in input order. Missing inputs degrade individual fields; they
// never abort the series.
func Enrich(h *OpenMeteoHourly, elevation *float64, p Profile) []HourlyRecord {
	n := h.Len()
	if n == 0 {
		return nil
	}

	out := make([]HourlyRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, enrichHour(h, i, elevation, p))
	}
	return out
}

func enrichHour(h *OpenMeteoHourly, i int, elevation *float64, p Profile) HourlyRecord {
	th := p.Thresholds
	ts := h.Time[i]

	temp := Resolve(h, VarTemperature, i, p.Base)
	apparent := Resolve(h, VarApparentTemperature, i, p.Base)
	dew := Resolve(h, VarDewPoint, i, p.Base)
	humidity := Resolve(h, VarHumidity, i, p.Base)
	windSpeed := Resolve(h, VarWindSpeed, i, p.Base)
	windDir := Resolve(h, VarWindDirection, i, p.Base)
	windGusts := Resolve(h, VarWindGusts, i, p.Base)
	cloud := Resolve(h, VarCloudCover, i, p.Decomposition)

	precipProb := common.Deref(Resolve(h, VarPrecipProbability, i, p.Probability), 0)

	freezing := th.CorrectFreezingLevel(
		Resolve(h, VarFreezingLevel, i, p.Freezing),
		h.Value(Field{Variable: VarFreezingLevel, Model: p.FreezingFallbackModel}, i),
		temp,
		elevation,
	)

	obs := precipObservation{
		code:     resolveCode(h, i, p.Decomposition),
		rain:     Resolve(h, VarRain, i, p.Decomposition),
		snowfall: Resolve(h, VarSnowfall, i, p.Decomposition),
		precip:   common.Deref(Resolve(h, VarPrecipitation, i, p.Base), 0),
	}
	alt := func() precipObservation {
		only := []Model{p.ConsistencyModel}
		return precipObservation{
			code:     resolveCode(h, i, only),
			rain:     Resolve(h, VarRain, i, only),
			snowfall: Resolve(h, VarSnowfall, i, only),
			precip:   common.Deref(Resolve(h, VarPrecipitation, i, only), 0),
		}
	}
	obs = reconcileWeatherCode(obs, alt, cloud)

	rainMm, snowfall := th.splitPrecipitation(obs.rain, obs.snowfall, obs.precip, temp, dew)

	var windMs, gustsMs *float64
	if windSpeed != nil {
		windMs = common.Ptr(*windSpeed / kmhPerMs)
	}
	if windGusts != nil {
		gustsMs = common.Ptr(*windGusts / kmhPerMs)
	}

	slr := p.SLR.Ratio(temp, humidity, windMs)
	var snowfallRoebber float64
	if obs.precip > 0 && th.IsSnow(temp, dew) {
		snowfallRoebber = common.Round(SnowDepthCm(obs.precip, slr), 2)
	}

	rainMm, snowfall = th.reclassifyRain(rainMm, snowfall, temp, dew)

	uv := Resolve(h, VarUVIndex, i, p.Base)
	if uv == nil {
		uv = Resolve(h, VarUVIndexClearSky, i, p.Base)
	}

	var isDay bool
	if v := Resolve(h, VarIsDay, i, p.Base); v != nil {
		isDay = *v != 0
	} else {
		hour := hourOf(ts)
		isDay = hour >= 7 && hour < 17
	}

	return HourlyRecord{
		Time:                     ts,
		Temperature:              temp,
		ApparentTemperature:      apparent,
		DewPoint:                 dew,
		Humidity:                 humidity,
		WindSpeed:                common.RoundPtr(windMs, 1),
		WindDirection:            windDir,
		WindGusts:                common.RoundPtr(gustsMs, 1),
		Precipitation:            common.Round(obs.precip, 4),
		Rain:                     rainMm,
		Snowfall:                 snowfall,
		SnowfallRoebber:          snowfallRoebber,
		RoebberSLR:               common.Round(slr, 1),
		PrecipitationProbability: precipProb,
		FreezingPoint:            freezing.Value,
		FreezingPointCorrected:   freezing.Corrected,
		CloudCover:               cloud,
		WeatherCode:              obs.code,
		SymbolCode:               Symbol(snowfall, rainMm, obs.code, isDay),
		SnowQuality:              th.SnowQuality(snowfall, temp, dew),
		UVIndex:                  common.RoundPtr(uv, 1),
		IsDay:                    isDay,
	}
}

// hourOf extracts the hour from an ISO-8601 timestamp such as
// "2024-01-15T06:00". It returns -1 when the timestamp is too short.
func hourOf(ts string) int {
	if len(ts) < 13 {
		return -1
	}
	h, err := strconv.Atoi(ts[11:13])
	if err != nil {
		return -1
	}
	return h
}
