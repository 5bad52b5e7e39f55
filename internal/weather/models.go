package weather

import (
	"encoding/json"
	"math"
	"strconv"
)

// SnowQuality classifies fresh snow as wet (sticky) or dry powder.
type SnowQuality string

const (
	SnowQualityNone SnowQuality = ""
	SnowQualityWet  SnowQuality = "wet"
	SnowQualityDry  SnowQuality = "dry"
)

// MarshalJSON encodes SnowQualityNone as null.
func (q SnowQuality) MarshalJSON() ([]byte, error) {
	if q == SnowQualityNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(q))
}

// Location is a point for which forecasts are fused. Coordinates are WGS84 degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Key returns the cache key of the location: both coordinates rounded to four
// decimals, formatted without trailing zeros.
func (l Location) Key() string {
	return formatCoord(l.Lat) + "_" + formatCoord(l.Lon)
}

func formatCoord(v float64) string {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		r = 0 // normalise -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// HourlyRecord is one enriched, normalized hour of the fused forecast.
// Wind values are in m/s, rain and precipitation in mm, snowfall in cm.
type HourlyRecord struct {
	Time                     string
	Temperature              *float64
	ApparentTemperature      *float64
	DewPoint                 *float64
	Humidity                 *float64
	WindSpeed                *float64
	WindDirection            *float64
	WindGusts                *float64
	Precipitation            float64
	Rain                     float64
	Snowfall                 float64
	SnowfallRoebber          float64
	RoebberSLR               float64
	PrecipitationProbability float64
	FreezingPoint            *float64
	FreezingPointCorrected   bool
	CloudCover               *float64
	WeatherCode              *int
	SymbolCode               string
	SnowQuality              SnowQuality
	UVIndex                  *float64
	IsDay                    bool
}

// SixHourAggregate summarises up to six consecutive hourly records starting
// at a synoptic hour (00, 06, 12 or 18).
type SixHourAggregate struct {
	Time                     string
	TemperatureMin           *float64
	TemperatureMax           *float64
	WindSpeedMax             *float64
	WindDirection            *float64
	Precipitation            float64
	Rain                     float64
	Snowfall                 float64
	SnowfallRoebber          float64
	PrecipitationProbability float64
	FreezingPoint            *float64
	FreezingPointCorrected   bool
	WeatherCode              int
	SymbolCode               string
	SnowQuality              SnowQuality
	UVIndexMax               *float64
	CloudCover               *float64
}

// HourlySeries serialises column-wise: one array per field, indexed by position.
type HourlySeries []HourlyRecord

func (s HourlySeries) MarshalJSON() ([]byte, error) {
	n := len(s)
	cols := struct {
		Time                     []string      `json:"time"`
		Temperature              []*float64    `json:"temperature"`
		ApparentTemperature      []*float64    `json:"apparent_temperature"`
		DewPoint                 []*float64    `json:"dew_point"`
		Humidity                 []*float64    `json:"humidity"`
		WindSpeed                []*float64    `json:"wind_speed"`
		WindDirection            []*float64    `json:"wind_direction"`
		WindGusts                []*float64    `json:"wind_gusts"`
		Precipitation            []float64     `json:"precipitation"`
		Rain                     []float64     `json:"rain"`
		Snowfall                 []float64     `json:"snowfall"`
		SnowfallRoebber          []float64     `json:"snowfall_roebber"`
		RoebberSLR               []float64     `json:"roebber_slr"`
		PrecipitationProbability []float64     `json:"precipitation_probability"`
		FreezingPoint            []*float64    `json:"freezing_point"`
		FreezingPointCorrected   []bool        `json:"freezing_point_corrected"`
		CloudCover               []*float64    `json:"cloud_cover"`
		WeatherCode              []*int        `json:"weather_code"`
		SymbolCode               []string      `json:"symbol_code"`
		SnowQuality              []SnowQuality `json:"snow_quality"`
		UVIndex                  []*float64    `json:"uv_index"`
		IsDay                    []int         `json:"is_day"`
	}{
		Time:                     make([]string, 0, n),
		Temperature:              make([]*float64, 0, n),
		ApparentTemperature:      make([]*float64, 0, n),
		DewPoint:                 make([]*float64, 0, n),
		Humidity:                 make([]*float64, 0, n),
		WindSpeed:                make([]*float64, 0, n),
		WindDirection:            make([]*float64, 0, n),
		WindGusts:                make([]*float64, 0, n),
		Precipitation:            make([]float64, 0, n),
		Rain:                     make([]float64, 0, n),
		Snowfall:                 make([]float64, 0, n),
		SnowfallRoebber:          make([]float64, 0, n),
		RoebberSLR:               make([]float64, 0, n),
		PrecipitationProbability: make([]float64, 0, n),
		FreezingPoint:            make([]*float64, 0, n),
		FreezingPointCorrected:   make([]bool, 0, n),
		CloudCover:               make([]*float64, 0, n),
		WeatherCode:              make([]*int, 0, n),
		SymbolCode:               make([]string, 0, n),
		SnowQuality:              make([]SnowQuality, 0, n),
		UVIndex:                  make([]*float64, 0, n),
		IsDay:                    make([]int, 0, n),
	}

	for _, r := range s {
		cols.Time = append(cols.Time, r.Time)
		cols.Temperature = append(cols.Temperature, r.Temperature)
		cols.ApparentTemperature = append(cols.ApparentTemperature, r.ApparentTemperature)
		cols.DewPoint = append(cols.DewPoint, r.DewPoint)
		cols.Humidity = append(cols.Humidity, r.Humidity)
		cols.WindSpeed = append(cols.WindSpeed, r.WindSpeed)
		cols.WindDirection = append(cols.WindDirection, r.WindDirection)
		cols.WindGusts = append(cols.WindGusts, r.WindGusts)
		cols.Precipitation = append(cols.Precipitation, r.Precipitation)
		cols.Rain = append(cols.Rain, r.Rain)
		cols.Snowfall = append(cols.Snowfall, r.Snowfall)
		cols.SnowfallRoebber = append(cols.SnowfallRoebber, r.SnowfallRoebber)
		cols.RoebberSLR = append(cols.RoebberSLR, r.RoebberSLR)
		cols.PrecipitationProbability = append(cols.PrecipitationProbability, r.PrecipitationProbability)
		cols.FreezingPoint = append(cols.FreezingPoint, r.FreezingPoint)
		cols.FreezingPointCorrected = append(cols.FreezingPointCorrected, r.FreezingPointCorrected)
		cols.CloudCover = append(cols.CloudCover, r.CloudCover)
		cols.WeatherCode = append(cols.WeatherCode, r.WeatherCode)
		cols.SymbolCode = append(cols.SymbolCode, r.SymbolCode)
		cols.SnowQuality = append(cols.SnowQuality, r.SnowQuality)
		cols.UVIndex = append(cols.UVIndex, r.UVIndex)
		isDay := 0
		if r.IsDay {
			isDay = 1
		}
		cols.IsDay = append(cols.IsDay, isDay)
	}

	return json.Marshal(cols)
}

// SixHourlySeries serialises column-wise like HourlySeries.
type SixHourlySeries []SixHourAggregate

func (s SixHourlySeries) MarshalJSON() ([]byte, error) {
	n := len(s)
	cols := struct {
		Time                     []string      `json:"time"`
		TemperatureMin           []*float64    `json:"temperature_min"`
		TemperatureMax           []*float64    `json:"temperature_max"`
		WindSpeedMax             []*float64    `json:"wind_speed_max"`
		WindDirection            []*float64    `json:"wind_direction"`
		Precipitation            []float64     `json:"precipitation"`
		Rain                     []float64     `json:"rain"`
		Snowfall                 []float64     `json:"snowfall"`
		SnowfallRoebber          []float64     `json:"snowfall_roebber"`
		PrecipitationProbability []float64     `json:"precipitation_probability"`
		FreezingPoint            []*float64    `json:"freezing_point"`
		FreezingPointCorrected   []bool        `json:"freezing_point_corrected"`
		WeatherCode              []int         `json:"weather_code"`
		SymbolCode               []string      `json:"symbol_code"`
		SnowQuality              []SnowQuality `json:"snow_quality"`
		UVIndexMax               []*float64    `json:"uv_index_max"`
		CloudCover               []*float64    `json:"cloud_cover"`
	}{
		Time:                     make([]string, 0, n),
		TemperatureMin:           make([]*float64, 0, n),
		TemperatureMax:           make([]*float64, 0, n),
		WindSpeedMax:             make([]*float64, 0, n),
		WindDirection:            make([]*float64, 0, n),
		Precipitation:            make([]float64, 0, n),
		Rain:                     make([]float64, 0, n),
		Snowfall:                 make([]float64, 0, n),
		SnowfallRoebber:          make([]float64, 0, n),
		PrecipitationProbability: make([]float64, 0, n),
		FreezingPoint:            make([]*float64, 0, n),
		FreezingPointCorrected:   make([]bool, 0, n),
		WeatherCode:              make([]int, 0, n),
		SymbolCode:               make([]string, 0, n),
		SnowQuality:              make([]SnowQuality, 0, n),
		UVIndexMax:               make([]*float64, 0, n),
		CloudCover:               make([]*float64, 0, n),
	}

	for _, b := range s {
		cols.Time = append(cols.Time, b.Time)
		cols.TemperatureMin = append(cols.TemperatureMin, b.TemperatureMin)
		cols.TemperatureMax = append(cols.TemperatureMax, b.TemperatureMax)
		cols.WindSpeedMax = append(cols.WindSpeedMax, b.WindSpeedMax)
		cols.WindDirection = append(cols.WindDirection, b.WindDirection)
		cols.Precipitation = append(cols.Precipitation, b.Precipitation)
		cols.Rain = append(cols.Rain, b.Rain)
		cols.Snowfall = append(cols.Snowfall, b.Snowfall)
		cols.SnowfallRoebber = append(cols.SnowfallRoebber, b.SnowfallRoebber)
		cols.PrecipitationProbability = append(cols.PrecipitationProbability, b.PrecipitationProbability)
		cols.FreezingPoint = append(cols.FreezingPoint, b.FreezingPoint)
		cols.FreezingPointCorrected = append(cols.FreezingPointCorrected, b.FreezingPointCorrected)
		cols.WeatherCode = append(cols.WeatherCode, b.WeatherCode)
		cols.SymbolCode = append(cols.SymbolCode, b.SymbolCode)
		cols.SnowQuality = append(cols.SnowQuality, b.SnowQuality)
		cols.UVIndexMax = append(cols.UVIndexMax, b.UVIndexMax)
		cols.CloudCover = append(cols.CloudCover, b.CloudCover)
	}

	return json.Marshal(cols)
}

// Aggregated is one fused forecast: the enriched hourly series and its
// six-hour buckets.
type Aggregated struct {
	Hourly        HourlySeries    `json:"hourly"`
	SixHourly     SixHourlySeries `json:"six_hourly"`
	AvailableDays []string        `json:"available_days"`
}

// SourceInfo describes one upstream series in the response metadata.
type SourceInfo struct {
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
	Coverage    string `json:"coverage"`
}

// Meta is the generation metadata attached to every response document.
type Meta struct {
	GeneratedAt             string                `json:"generated_at"`
	Sources                 map[string]SourceInfo `json:"sources"`
	SLRMethod               string                `json:"slr_method"`
	SnowDetection           string                `json:"snow_detection"`
	SnowQuality             string                `json:"snow_quality"`
	FreezingLevelCorrection string                `json:"freezing_level_correction"`
	FromCache               bool                  `json:"from_cache"`
	CacheAge                *int64                `json:"cache_age,omitempty"`
}

// Response is the document served to clients and persisted per coordinate.
type Response struct {
	MetNo               json.RawMessage `json:"metno"`
	OpenMeteo           json.RawMessage `json:"openmeteo"`
	OpenMeteoAggregated *Aggregated     `json:"openmeteo_aggregated"`
	AromeAggregated     *Aggregated     `json:"arome_aggregated"`
	Elevation           *float64        `json:"elevation"`
	Meta                Meta            `json:"meta"`
}
