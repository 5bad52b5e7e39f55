package weather

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSLRColdCalmAir(t *testing.T) {
	ratio := SLR(f(-8), f(75), f(0))
	assert.InDelta(t, 20.0, ratio, 0.05)
	assert.InDelta(t, 10.0, SnowDepthCm(5, ratio), 0.05)
}

func TestSLRDefaults(t *testing.T) {
	assert.Equal(t, 14.0, SLR(nil, nil, nil))
	assert.InDelta(t, SLR(f(-5), f(75), f(0)), SLR(f(-5), nil, nil), 1e-9, "neutral humidity and calm wind")
}

func TestSLRAdjustments(t *testing.T) {
	tests := []struct {
		name           string
		temp, rh, wind float64
		want           float64
	}{
		{"cold side", -5, 75, 0, 17.01},
		{"cold side one degree warmer", -4, 75, 0, 16.01},
		{"warm side", 0, 75, 0, 10.02},
		{"warm side drops twice as fast", 1, 75, 0, 8.02},
		{"dry air raises the ratio", -5, 60, 0, 18.01},
		{"no compaction up to 3 m/s", -5, 75, 3, 17.01},
		{"wind compaction", -5, 75, 8, 15.51},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SLR(f(tt.temp), f(tt.rh), f(tt.wind)), 1e-6)
		})
	}
}

func TestSLRAlwaysWithinBounds(t *testing.T) {
	for temp := -40.0; temp <= 15; temp += 2.5 {
		for rh := 0.0; rh <= 100; rh += 10 {
			for wind := 0.0; wind <= 40; wind += 5 {
				ratio := SLR(f(temp), f(rh), f(wind))
				assert.GreaterOrEqual(t, ratio, 5.0)
				assert.LessOrEqual(t, ratio, 25.0)
			}
		}
	}
	assert.Equal(t, 25.0, SLR(f(-60), f(0), f(0)))
	assert.Equal(t, 5.0, SLR(f(10), f(100), f(30)))
	assert.Equal(t, 14.0, SLR(f(math.NaN()), nil, nil))
}
