package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func metnoDoc(entries string) []byte {
	return []byte(`{"type":"Feature","geometry":{"type":"Point","coordinates":[6.8652,45.9237,1035]},` +
		`"properties":{"meta":{"updated_at":"2024-01-15T09:00:00Z"},"timeseries":[` + entries + `]}}`)
}

func TestMergeMetNoFreshWinsAndCacheRetained(t *testing.T) {
	cached := metnoDoc(
		`{"time":"2024-01-15T10:00:00Z","data":{"instant":{"details":{"air_temperature":-1.0}}}},` +
			`{"time":"2024-01-15T11:00:00Z","data":{"instant":{"details":{"air_temperature":-2.0}}}}`)
	fresh := metnoDoc(
		`{"time":"2024-01-15T11:00:00Z","data":{"instant":{"details":{"air_temperature":-2.5}}}},` +
			`{"time":"2024-01-15T12:00:00Z","data":{"instant":{"details":{"air_temperature":-3.0}}}}`)

	merged, err := MergeMetNo(cached, fresh, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	series := gjson.GetBytes(merged, "properties.timeseries")
	require.Equal(t, int64(3), series.Get("#").Int())
	assert.Equal(t, "2024-01-15T10:00:00Z", series.Get("0.time").String())
	assert.Equal(t, "2024-01-15T11:00:00Z", series.Get("1.time").String())
	assert.Equal(t, -2.5, series.Get("1.data.instant.details.air_temperature").Float(), "fresh entry wins")
	assert.Equal(t, "2024-01-15T12:00:00Z", series.Get("2.time").String())

	assert.Equal(t, "Feature", gjson.GetBytes(merged, "type").String())
	assert.Equal(t, "2024-01-15T09:00:00Z", gjson.GetBytes(merged, "properties.meta.updated_at").String())
}

func TestMergeMetNoPrunesBeforeCutoff(t *testing.T) {
	cached := metnoDoc(
		`{"time":"2024-01-14T22:00:00Z","data":{}},` +
			`{"time":"2024-01-14T23:00:00Z","data":{}},` +
			`{"time":"not-a-time","data":{}}`)
	fresh := metnoDoc(`{"time":"2024-01-15T00:00:00Z","data":{}}`)

	paris := time.FixedZone("CET", 3600)
	cutoff := LocalMidnight(time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), paris)

	merged, err := MergeMetNo(cached, fresh, cutoff)
	require.NoError(t, err)

	times := gjson.GetBytes(merged, "properties.timeseries.#.time").Array()
	require.Len(t, times, 2)
	assert.Equal(t, "2024-01-14T23:00:00Z", times[0].String(), "23:00Z is already the 15th in CET")
	assert.Equal(t, "2024-01-15T00:00:00Z", times[1].String())
}

func TestMergeMetNoWithoutCache(t *testing.T) {
	fresh := metnoDoc(`{"time":"2024-01-15T12:00:00Z","data":{}},{"time":"2024-01-15T11:00:00Z","data":{}}`)

	merged, err := MergeMetNo(nil, fresh, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	times := gjson.GetBytes(merged, "properties.timeseries.#.time").Array()
	require.Len(t, times, 2)
	assert.Equal(t, "2024-01-15T11:00:00Z", times[0].String(), "sorted chronologically")
}

func TestMergeMetNoFreshWithoutTimeseries(t *testing.T) {
	fresh := []byte(`{"type":"Feature","properties":{}}`)
	merged, err := MergeMetNo(metnoDoc(`{"time":"2024-01-15T12:00:00Z"}`), fresh, time.Time{})
	require.NoError(t, err)
	assert.JSONEq(t, string(fresh), string(merged))
}

func TestEnrichMetNo(t *testing.T) {
	doc := metnoDoc(`{"time":"2024-01-15T12:00:00Z","data":{
		"instant":{"details":{"air_temperature":-4.0,"relative_humidity":80.0,"wind_speed":2.0}},
		"next_1_hours":{"summary":{"symbol_code":"lightsnow"},"details":{"precipitation_amount":1.0}},
		"next_6_hours":{"details":{"precipitation_amount":0.0}}
	}},{"time":"2024-01-15T13:00:00Z","data":{
		"instant":{"details":{"air_temperature":4.0,"relative_humidity":90.0,"dew_point_temperature":2.5}},
		"next_1_hours":{"details":{"precipitation_amount":0.6}}
	}}`)

	out, err := EnrichMetNo(doc, PrimaryFusion())
	require.NoError(t, err)

	first := gjson.GetBytes(out, "properties.timeseries.0.data")
	assert.InDelta(t, -6.9, first.Get("instant.details.dew_point_temperature").Float(), 0.05)
	assert.InDelta(t, 1.57, first.Get("next_1_hours.details.snowfall").Float(), 1e-9)
	assert.Equal(t, 0.0, first.Get("next_1_hours.details.rain").Float())
	assert.Equal(t, "dry", first.Get("next_1_hours.details.snow_quality").String())
	assert.Equal(t, "lightsnow", first.Get("next_1_hours.summary.symbol_code").String(), "upstream fields kept")

	six := first.Get("next_6_hours.details")
	assert.Equal(t, 0.0, six.Get("snowfall").Float())
	assert.Equal(t, 0.0, six.Get("rain").Float())
	assert.Equal(t, gjson.Null, six.Get("snow_quality").Type)

	second := gjson.GetBytes(out, "properties.timeseries.1.data")
	assert.Equal(t, 2.5, second.Get("instant.details.dew_point_temperature").Float(), "provider dew point kept")
	assert.Equal(t, 0.6, second.Get("next_1_hours.details.rain").Float())
	assert.Equal(t, 0.0, second.Get("next_1_hours.details.snowfall").Float())
	assert.False(t, second.Get("next_6_hours").Exists(), "absent periods are not created")
}

func TestEnrichMetNoLeavesNullPeriods(t *testing.T) {
	doc := metnoDoc(`{"time":"2024-01-25T12:00:00Z","data":{
		"instant":{"details":{"air_temperature":-4.0,"relative_humidity":80.0}},
		"next_1_hours":null,
		"next_6_hours":{"details":{"precipitation_amount":2.0}}
	}}`)

	out, err := EnrichMetNo(doc, PrimaryFusion())
	require.NoError(t, err)

	data := gjson.GetBytes(out, "properties.timeseries.0.data")
	assert.Equal(t, gjson.Null, data.Get("next_1_hours").Type)
	assert.Greater(t, data.Get("next_6_hours.details.snowfall").Float(), 0.0)
}

func TestEnrichMetNoWithoutTimeseries(t *testing.T) {
	doc := []byte(`{"type":"Feature"}`)
	out, err := EnrichMetNo(doc, PrimaryFusion())
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}

func TestLocalMidnight(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	got := LocalMidnight(time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC), cet)
	assert.True(t, got.Equal(time.Date(2024, 1, 16, 0, 0, 0, 0, cet)))
}
