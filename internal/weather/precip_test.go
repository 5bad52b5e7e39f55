package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSnow(t *testing.T) {
	tests := []struct {
		name string
		temp *float64
		dew  *float64
		want bool
	}{
		{"cold and dry", f(-5), f(-6), true},
		{"at both limits", f(1.5), f(0.5), true},
		{"unknown dew point", f(0), nil, true},
		{"too warm", f(1.6), f(-5), false},
		{"dew point too high", f(1.0), f(0.6), false},
		{"unknown temperature", nil, f(-10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSnow(tt.temp, tt.dew))
		})
	}
}

func TestSnowQuality(t *testing.T) {
	assert.Equal(t, SnowQualityWet, SnowQualityOf(2, f(-1), f(-2)))
	assert.Equal(t, SnowQualityDry, SnowQualityOf(2, f(-2), f(-2)), "temperature limit is exclusive")
	assert.Equal(t, SnowQualityDry, SnowQualityOf(2, f(-1), f(-3)), "dew point limit is exclusive")
	assert.Equal(t, SnowQualityNone, SnowQualityOf(0, f(-10), f(-12)))
	assert.Equal(t, SnowQualityNone, SnowQualityOf(1, nil, f(-12)))
	assert.Equal(t, SnowQualityNone, SnowQualityOf(1, f(-10), nil))
}

func TestDewPoint(t *testing.T) {
	dp := DewPoint(f(20), f(50))
	require.NotNil(t, dp)
	assert.InDelta(t, 9.3, *dp, 0.05)

	dp = DewPoint(f(10), f(100))
	require.NotNil(t, dp)
	assert.InDelta(t, 10.0, *dp, 0.05, "saturated air")

	assert.Nil(t, DewPoint(nil, f(50)))
	assert.Nil(t, DewPoint(f(10), nil))
	assert.Nil(t, DewPoint(f(10), f(0)))
}

func TestSplitPrecipitationWithoutDecomposition(t *testing.T) {
	th := DefaultThresholds

	rain, snow := th.splitPrecipitation(nil, nil, 10, f(-5), f(-6))
	assert.Equal(t, 0.0, rain)
	assert.Equal(t, 10.0, snow)

	rain, snow = th.splitPrecipitation(nil, nil, 5, f(3), f(1))
	assert.Equal(t, 5.0, rain)
	assert.Equal(t, 0.0, snow)

	rain, snow = th.splitPrecipitation(nil, nil, 5, nil, nil)
	assert.Zero(t, rain, "unknown temperature leaves the amount unclassified")
	assert.Zero(t, snow)
}

func TestSplitPrecipitationZeroDecomposition(t *testing.T) {
	th := DefaultThresholds

	rain, snow := th.splitPrecipitation(f(0), f(0), 4, f(-3), f(-4))
	assert.Equal(t, 0.0, rain)
	assert.Equal(t, 4.0, snow)

	rain, snow = th.splitPrecipitation(f(0), f(0), 4, f(6), f(2))
	assert.Equal(t, 4.0, rain)
	assert.Equal(t, 0.0, snow)
}

func TestSplitPrecipitationKeepsProviderDecomposition(t *testing.T) {
	rain, snow := DefaultThresholds.splitPrecipitation(f(1.2), nil, 3, f(-5), f(-6))
	assert.Equal(t, 1.2, rain)
	assert.Equal(t, 0.0, snow)
}

func TestReclassifyRainUnderSnowConditions(t *testing.T) {
	th := DefaultThresholds

	rain, snow := th.reclassifyRain(2, 0.5, f(-1), f(-2))
	assert.Equal(t, 0.0, rain)
	assert.Equal(t, 2.5, snow, "rain passes into snowfall unchanged")

	rain, snow = th.reclassifyRain(2, 0, f(4), f(2))
	assert.Equal(t, 2.0, rain)
	assert.Equal(t, 0.0, snow)
}

func TestReconcileWeatherCode(t *testing.T) {
	noAlt := func() precipObservation { return precipObservation{} }

	t.Run("consistent code kept", func(t *testing.T) {
		obs := precipObservation{code: code(61), rain: f(1)}
		got := reconcileWeatherCode(obs, noAlt, f(100))
		assert.Equal(t, 61, *got.code)
	})

	t.Run("alternate model replaces phantom precipitation", func(t *testing.T) {
		obs := precipObservation{code: code(61), rain: f(0), snowfall: f(0)}
		alt := func() precipObservation {
			return precipObservation{code: code(71), snowfall: f(0.4), precip: 0.3}
		}
		got := reconcileWeatherCode(obs, alt, f(90))
		require.NotNil(t, got.code)
		assert.Equal(t, 71, *got.code)
		assert.Equal(t, 0.4, *got.snowfall)
		assert.Equal(t, 0.3, got.precip)
	})

	t.Run("inconsistent alternate falls back to cloud cover", func(t *testing.T) {
		obs := precipObservation{code: code(63)}
		alt := func() precipObservation { return precipObservation{code: code(65)} }

		got := reconcileWeatherCode(obs, alt, f(85))
		assert.Equal(t, 3, *got.code)

		got = reconcileWeatherCode(obs, alt, f(60))
		assert.Equal(t, 2, *got.code)

		got = reconcileWeatherCode(obs, alt, f(10))
		assert.Equal(t, 1, *got.code)

		got = reconcileWeatherCode(obs, noAlt, nil)
		assert.Equal(t, 1, *got.code)
	})

	t.Run("clear code under heavy cloud", func(t *testing.T) {
		got := reconcileWeatherCode(precipObservation{code: code(0)}, noAlt, f(90))
		assert.Equal(t, 3, *got.code)

		got = reconcileWeatherCode(precipObservation{code: code(0)}, noAlt, f(55))
		assert.Equal(t, 2, *got.code)

		got = reconcileWeatherCode(precipObservation{code: code(1)}, noAlt, f(55))
		assert.Equal(t, 1, *got.code, "fair stays fair below overcast")
	})
}
