package weather

import (
	"encoding/json"
	"fmt"
)

// Variable is an Open-Meteo hourly variable name.
type Variable string

const (
	VarTemperature         Variable = "temperature_2m"
	VarApparentTemperature Variable = "apparent_temperature"
	VarDewPoint            Variable = "dew_point_2m"
	VarFreezingLevel       Variable = "freezing_level_height"
	VarHumidity            Variable = "relative_humidity_2m"
	VarPrecipitation       Variable = "precipitation"
	VarRain                Variable = "rain"
	VarSnowfall            Variable = "snowfall"
	VarShowers             Variable = "showers"
	VarWeatherCode         Variable = "weather_code"
	VarCloudCover          Variable = "cloud_cover"
	VarWindSpeed           Variable = "wind_speed_10m"
	VarWindDirection       Variable = "wind_direction_10m"
	VarWindGusts           Variable = "wind_gusts_10m"
	VarPrecipProbability   Variable = "precipitation_probability"
	VarIsDay               Variable = "is_day"
	VarWaterVapour         Variable = "total_column_integrated_water_vapour"
	VarUVIndex             Variable = "uv_index"
	VarUVIndexClearSky     Variable = "uv_index_clear_sky"
	VarTemperature850      Variable = "temperature_850hPa"
	VarTemperature700      Variable = "temperature_700hPa"
	VarTemperature500      Variable = "temperature_500hPa"
)

// HourlyVariables is the variable list requested from Open-Meteo.
var HourlyVariables = []Variable{
	VarTemperature, VarApparentTemperature, VarDewPoint, VarFreezingLevel,
	VarHumidity, VarPrecipitation, VarRain, VarSnowfall, VarShowers,
	VarWeatherCode, VarCloudCover, VarWindSpeed, VarWindDirection,
	VarWindGusts, VarPrecipProbability, VarIsDay, VarWaterVapour, VarUVIndex,
	VarUVIndexClearSky, VarTemperature850, VarTemperature700, VarTemperature500,
}

// DailyVariables is the daily variable list requested from Open-Meteo.
var DailyVariables = []string{"precipitation_sum", "showers_sum", "snowfall_sum"}

// Model identifies a forecast model served by Open-Meteo.
type Model string

const (
	ModelBestMatch    Model = "best_match"
	ModelAromeHD      Model = "meteofrance_arome_france_hd"
	ModelArome        Model = "meteofrance_arome_france"
	ModelSeamless     Model = "meteofrance_seamless"
	ModelICONSeamless Model = "meteoswiss_icon_seamless"
)

// RequestedModels is the model list requested from Open-Meteo.
var RequestedModels = []Model{ModelBestMatch, ModelAromeHD, ModelArome, ModelSeamless, ModelICONSeamless}

// Field is a model-qualified variable. An empty Model denotes the
// unqualified column.
type Field struct {
	Variable Variable
	Model    Model
}

// Key returns the column name used by Open-Meteo for the field.
func (f Field) Key() string {
	if f.Model == "" {
		return string(f.Variable)
	}
	return string(f.Variable) + "_" + string(f.Model)
}

// OpenMeteoHourly is the hourly block of an Open-Meteo response: a shared
// time axis and nullable columns keyed by field.
type OpenMeteoHourly struct {
	Time    []string
	columns map[string][]*float64
}

// NewOpenMeteoHourly builds an hourly block from explicit columns.
func NewOpenMeteoHourly(times []string, columns map[Field][]*float64) *OpenMeteoHourly {
	h := &OpenMeteoHourly{Time: times, columns: make(map[string][]*float64, len(columns))}
	for f, col := range columns {
		h.columns[f.Key()] = col
	}
	return h
}

func (h *OpenMeteoHourly) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	h.columns = make(map[string][]*float64, len(raw))
	for key, msg := range raw {
		if key == "time" {
			if err := json.Unmarshal(msg, &h.Time); err != nil {
				return fmt.Errorf("hourly time axis: %w", err)
			}
			continue
		}
		var col []*float64
		if err := json.Unmarshal(msg, &col); err != nil {
			// Non-numeric columns are not used by the enricher.
			continue
		}
		h.columns[key] = col
	}
	return nil
}

// Len returns the number of timesteps.
func (h *OpenMeteoHourly) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Time)
}

// Value returns the field value at index i, or nil when the column is absent,
// too short, or null at i.
func (h *OpenMeteoHourly) Value(f Field, i int) *float64 {
	if h == nil || i < 0 {
		return nil
	}
	col, ok := h.columns[f.Key()]
	if !ok || i >= len(col) {
		return nil
	}
	return col[i]
}

// OpenMeteoForecast is the subset of an Open-Meteo response the engine reads.
type OpenMeteoForecast struct {
	Elevation *float64         `json:"elevation"`
	Hourly    *OpenMeteoHourly `json:"hourly"`
}
