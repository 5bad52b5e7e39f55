package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePriorityOrder(t *testing.T) {
	h := hourly([]string{"2024-01-15T00:00", "2024-01-15T01:00"}, map[Field][]*float64{
		{VarTemperature, ModelBestMatch}: {nil, f(1.0)},
		{VarTemperature, ModelAromeHD}:   col(2.0, 3.0),
		{VarTemperature, ""}:             col(9.0, 9.0),
	})
	priority := []Model{ModelBestMatch, ModelAromeHD}

	got := Resolve(h, VarTemperature, 0, priority)
	require.NotNil(t, got)
	assert.Equal(t, 2.0, *got, "null best_match falls through to arome_hd")

	got = Resolve(h, VarTemperature, 1, priority)
	require.NotNil(t, got)
	assert.Equal(t, 1.0, *got)
}

func TestResolveFallsBackToUnqualifiedColumn(t *testing.T) {
	h := hourly([]string{"2024-01-15T00:00"}, map[Field][]*float64{
		{VarHumidity, ""}: col(80),
	})

	got := Resolve(h, VarHumidity, 0, []Model{ModelBestMatch, ModelSeamless})
	require.NotNil(t, got)
	assert.Equal(t, 80.0, *got)
}

func TestResolveReturnsNil(t *testing.T) {
	h := hourly([]string{"2024-01-15T00:00"}, map[Field][]*float64{
		{VarTemperature, ModelBestMatch}: nilCol(1),
	})

	assert.Nil(t, Resolve(h, VarTemperature, 0, []Model{ModelBestMatch}))
	assert.Nil(t, Resolve(h, VarTemperature, 5, []Model{ModelBestMatch}), "index past the column")
	assert.Nil(t, Resolve(h, VarWindSpeed, 0, nil))
	assert.Nil(t, Resolve(nil, VarTemperature, 0, []Model{ModelBestMatch}))
}

func TestResolveCodeTruncatesToInt(t *testing.T) {
	h := hourly([]string{"2024-01-15T00:00"}, map[Field][]*float64{
		{VarWeatherCode, ModelArome}: col(71),
	})

	got := resolveCode(h, 0, []Model{ModelBestMatch, ModelArome})
	require.NotNil(t, got)
	assert.Equal(t, 71, *got)
	assert.Nil(t, resolveCode(h, 0, []Model{ModelBestMatch}))
}

func TestOpenMeteoHourlyUnmarshalSkipsNonNumericColumns(t *testing.T) {
	var fc OpenMeteoForecast
	err := jsonUnmarshal(`{
		"elevation": 1050,
		"hourly": {
			"time": ["2024-01-15T00:00", "2024-01-15T01:00"],
			"temperature_2m_best_match": [-1.5, null],
			"label": ["a", "b"]
		}
	}`, &fc)
	require.NoError(t, err)

	require.NotNil(t, fc.Elevation)
	assert.Equal(t, 1050.0, *fc.Elevation)
	assert.Equal(t, 2, fc.Hourly.Len())

	v := fc.Hourly.Value(Field{VarTemperature, ModelBestMatch}, 0)
	require.NotNil(t, v)
	assert.Equal(t, -1.5, *v)
	assert.Nil(t, fc.Hourly.Value(Field{VarTemperature, ModelBestMatch}, 1))
	assert.Nil(t, fc.Hourly.Value(Field{Variable: "label"}, 0))
}
