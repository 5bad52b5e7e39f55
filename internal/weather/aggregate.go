package weather

import (
	"math"
	"slices"
	"sort"
	"time"

	"github.com/i474232898/meteo-fusion/internal/common"
)

// bucketSize is the number of hourly records folded into one synoptic bucket.
const bucketSize = 6

// minBucketsPerDay is how many six-hour buckets a day needs to be listed as
// available at that granularity.
const minBucketsPerDay = 4

func isSynopticHour(h int) bool {
	return h == 0 || h == 6 || h == 12 || h == 18
}

// AggregateSixHourly folds the hourly series into six-hour buckets. A bucket
// opens at every record whose hour is 00, 06, 12 or 18 and covers that record
// and up to five following ones.
func AggregateSixHourly(hourly []HourlyRecord) []SixHourAggregate {
	var out []SixHourAggregate
	for i, rec := range hourly {
		hour := hourOf(rec.Time)
		if !isSynopticHour(hour) {
			continue
		}
		end := min(i+bucketSize, len(hourly))
		out = append(out, foldBucket(hourly[i:end], hour))
	}
	return out
}

func foldBucket(recs []HourlyRecord, startHour int) SixHourAggregate {
	var (
		temps, dews, winds, dirs, clouds, freezing []float64
		precipSum, rainSum, snowSum, roebberSum    float64
		probMax, uvMax                             float64
		codes                                      []int
		anyCorrected                               bool
	)

	for _, r := range recs {
		if r.Temperature != nil {
			temps = append(temps, *r.Temperature)
		}
		if r.DewPoint != nil {
			dews = append(dews, *r.DewPoint)
		}
		if r.WindSpeed != nil {
			winds = append(winds, *r.WindSpeed)
		}
		if r.WindDirection != nil {
			dirs = append(dirs, *r.WindDirection)
		}
		precipSum += r.Precipitation
		rainSum += r.Rain
		snowSum += r.Snowfall
		roebberSum += r.SnowfallRoebber
		probMax = math.Max(probMax, r.PrecipitationProbability)
		if r.UVIndex != nil {
			uvMax = math.Max(uvMax, *r.UVIndex)
		}
		if r.CloudCover != nil {
			clouds = append(clouds, *r.CloudCover)
		}
		if r.FreezingPoint != nil {
			freezing = append(freezing, *r.FreezingPoint)
			if r.FreezingPointCorrected {
				anyCorrected = true
			}
		}
		if r.WeatherCode != nil {
			codes = append(codes, *r.WeatherCode)
		}
	}

	dominant := 0
	if len(codes) > 0 {
		dominant = slices.Max(codes)
	}

	isDay := startHour >= 6 && startHour < 18
	symbol := Symbol(snowSum, rainSum, &dominant, isDay)
	if snowSum == 0 && rainSum == 0 {
		if s, ok := mostFrequentSymbol(recs); ok {
			symbol = s
		}
	}

	agg := SixHourAggregate{
		Time:                     recs[0].Time,
		Precipitation:            common.Round(precipSum, 4),
		Rain:                     common.Round(rainSum, 4),
		Snowfall:                 common.Round(snowSum, 4),
		SnowfallRoebber:          common.Round(roebberSum, 2),
		PrecipitationProbability: probMax,
		FreezingPoint:            nearestToMean(freezing),
		FreezingPointCorrected:   anyCorrected,
		WeatherCode:              dominant,
		SymbolCode:               symbol,
		SnowQuality:              SnowQualityOf(snowSum, mean(temps), mean(dews)),
	}
	if len(temps) > 0 {
		agg.TemperatureMin = common.Ptr(common.Round(slices.Min(temps), 1))
		agg.TemperatureMax = common.Ptr(common.Round(slices.Max(temps), 1))
	}
	if len(winds) > 0 {
		agg.WindSpeedMax = common.Ptr(common.Round(slices.Max(winds), 1))
	}
	// Arithmetic mean of bearings; no circular averaging.
	agg.WindDirection = common.RoundPtr(mean(dirs), 0)
	agg.CloudCover = common.RoundPtr(mean(clouds), 0)
	if uvMax > 0 {
		agg.UVIndexMax = common.Ptr(common.Round(uvMax, 1))
	}
	return agg
}

func mean(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	m := sum / float64(len(vals))
	return &m
}

// nearestToMean returns the value closest to the mean; the earliest wins ties.
func nearestToMean(vals []float64) *float64 {
	avg := mean(vals)
	if avg == nil {
		return nil
	}
	best := vals[0]
	for _, v := range vals[1:] {
		if math.Abs(v-*avg) < math.Abs(best-*avg) {
			best = v
		}
	}
	return &best
}

// mostFrequentSymbol returns the symbol seen most often; the earliest wins ties.
func mostFrequentSymbol(recs []HourlyRecord) (string, bool) {
	counts := make(map[string]int)
	var order []string
	for _, r := range recs {
		if r.SymbolCode == "" {
			continue
		}
		if counts[r.SymbolCode] == 0 {
			order = append(order, r.SymbolCode)
		}
		counts[r.SymbolCode]++
	}
	if len(order) == 0 {
		return "", false
	}
	best := order[0]
	for _, s := range order[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best, true
}

// AvailableDays lists the local calendar days (YYYY-MM-DD, in loc) that have
// at least four six-hour buckets. Bucket times are read as UTC.
func AvailableDays(buckets []SixHourAggregate, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	counts := make(map[string]int)
	for _, b := range buckets {
		t, err := parseProviderTime(b.Time)
		if err != nil {
			continue
		}
		counts[t.In(loc).Format(time.DateOnly)]++
	}

	days := make([]string, 0, len(counts))
	for day, c := range counts {
		if c >= minBucketsPerDay {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	return days
}

// parseProviderTime parses the timestamp layouts used by both providers.
func parseProviderTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04", s)
}
