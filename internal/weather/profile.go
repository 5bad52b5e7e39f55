package weather

import "strings"

// Thresholds holds the temperature limits used for phase classification.
type Thresholds struct {
	SnowMaxTemp        float64 // °C, inclusive
	SnowMaxDewPoint    float64 // °C, inclusive
	WetSnowMinTemp     float64 // °C, exclusive
	WetSnowMinDewPoint float64 // °C, exclusive
	SuspectFreezeTemp  float64 // °C below which a freezing level near the station is suspect
	SuspectFreezeBand  float64 // m below station elevation
}

// DefaultThresholds are the classification limits calibrated for the Alps.
var DefaultThresholds = Thresholds{
	SnowMaxTemp:        1.5,
	SnowMaxDewPoint:    0.5,
	WetSnowMinTemp:     -2,
	WetSnowMinDewPoint: -3,
	SuspectFreezeTemp:  -5,
	SuspectFreezeBand:  500,
}

// SLRCoefficients parameterise the simplified Roebber snow-to-liquid ratio.
type SLRCoefficients struct {
	Base            float64
	ThresholdK      float64
	WarmSlope       float64
	ColdSlope       float64
	NeutralHumidity float64
	HumidityScale   float64
	WindOnset       float64 // m/s
	WindRate        float64
	Min             float64
	Max             float64
}

// DefaultSLR is the alpine calibration: mean fresh-snow ratio around 14:1.
var DefaultSLR = SLRCoefficients{
	Base:            14,
	ThresholdK:      271.16,
	WarmSlope:       2,
	ColdSlope:       1,
	NeutralHumidity: 75,
	HumidityScale:   15,
	WindOnset:       3,
	WindRate:        0.3,
	Min:             5,
	Max:             25,
}

// Profile configures one fusion of the primary provider's models: which model
// wins for each variable class, and the physics constants applied.
// Profiles are values; the constructors return fresh copies.
type Profile struct {
	Name string

	// Base covers temperature, humidity, wind, total precipitation, UV and is_day.
	Base []Model
	// Decomposition covers rain, snowfall, weather code and cloud cover.
	Decomposition []Model
	Probability   []Model
	Freezing      []Model

	// FreezingFallbackModel supplies the second freezing-level candidate.
	FreezingFallbackModel Model
	// ConsistencyModel is consulted when the weather code and precipitation disagree.
	ConsistencyModel Model

	Thresholds Thresholds
	SLR        SLRCoefficients
}

// PrimaryFusion prefers Open-Meteo's best_match blend and falls back to the
// Météo-France models.
func PrimaryFusion() Profile {
	return Profile{
		Name:                  "openmeteo",
		Base:                  []Model{ModelBestMatch, ModelAromeHD, ModelSeamless, ModelArome},
		Decomposition:         []Model{ModelBestMatch, ModelArome, ModelSeamless},
		Probability:           []Model{ModelSeamless, ModelBestMatch},
		Freezing:              []Model{ModelBestMatch},
		FreezingFallbackModel: ModelICONSeamless,
		ConsistencyModel:      ModelArome,
		Thresholds:            DefaultThresholds,
		SLR:                   DefaultSLR,
	}
}

// AromeOnly restricts the fusion to the Météo-France model family.
func AromeOnly() Profile {
	return Profile{
		Name:                  "arome",
		Base:                  []Model{ModelAromeHD, ModelArome, ModelSeamless},
		Decomposition:         []Model{ModelArome, ModelSeamless},
		Probability:           []Model{ModelSeamless},
		Freezing:              []Model{ModelAromeHD, ModelArome, ModelSeamless},
		FreezingFallbackModel: ModelICONSeamless,
		ConsistencyModel:      ModelArome,
		Thresholds:            DefaultThresholds,
		SLR:                   DefaultSLR,
	}
}

// PriorityLabel renders the base priority chain for response metadata.
func (p Profile) PriorityLabel() string {
	names := make([]string, 0, len(p.Base))
	for _, m := range p.Base {
		names = append(names, shortModelName(m))
	}
	return strings.Join(names, " → ")
}

func shortModelName(m Model) string {
	switch m {
	case ModelAromeHD:
		return "arome_hd"
	case ModelArome:
		return "arome"
	case ModelSeamless:
		return "seamless"
	case ModelICONSeamless:
		return "icon_seamless"
	default:
		return string(m)
	}
}
