package weather

import (
	"bytes"
	"sort"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/i474232898/meteo-fusion/internal/common"
)

// MET.no Locationforecast documents are handled as raw JSON so that every
// upstream field reaches the client untouched; only the paths below are read
// or written.
const (
	metnoTimeseriesPath = "properties.timeseries"
	metnoDetailsPath    = "data.instant.details"
)

var metnoPeriods = []string{"next_1_hours", "next_6_hours"}

func optFloat(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Float()
	return &v
}

// EnrichMetNo adds a derived dew point when missing and splits each period's
// precipitation into rain (mm), Roebber snowfall (cm) and snow quality.
// Documents without a timeseries are returned unchanged.
func EnrichMetNo(doc []byte, p Profile) ([]byte, error) {
	series := gjson.GetBytes(doc, metnoTimeseriesPath)
	if !series.IsArray() {
		return doc, nil
	}

	var (
		entries [][]byte
		err     error
	)
	series.ForEach(func(_, e gjson.Result) bool {
		var enriched []byte
		enriched, err = enrichMetNoEntry([]byte(e.Raw), p)
		if err != nil {
			return false
		}
		entries = append(entries, enriched)
		return true
	})
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes(doc, metnoTimeseriesPath, joinArray(entries))
}

func enrichMetNoEntry(entry []byte, p Profile) ([]byte, error) {
	details := gjson.GetBytes(entry, metnoDetailsPath)
	if !details.IsObject() {
		return entry, nil
	}

	temp := optFloat(details.Get("air_temperature"))
	humidity := optFloat(details.Get("relative_humidity"))
	wind := optFloat(details.Get("wind_speed")) // already m/s

	var err error
	dew := optFloat(details.Get("dew_point_temperature"))
	if dew == nil {
		dew = DewPoint(temp, humidity)
		if dew != nil {
			entry, err = sjson.SetBytes(entry, metnoDetailsPath+".dew_point_temperature", *dew)
			if err != nil {
				return nil, err
			}
		}
	}

	th := p.Thresholds
	slr := p.SLR.Ratio(temp, humidity, wind)

	for _, period := range metnoPeriods {
		base := "data." + period
		if !gjson.GetBytes(entry, base).IsObject() {
			continue
		}
		precip := gjson.GetBytes(entry, base+".details.precipitation_amount").Float()

		var (
			rainMm, snowCm float64
			quality        any
		)
		if precip > 0 {
			if th.IsSnow(temp, dew) {
				snowCm = common.Round(SnowDepthCm(precip, slr), 2)
				if q := th.SnowQuality(snowCm, temp, dew); q != SnowQualityNone {
					quality = string(q)
				}
			} else {
				rainMm = precip
			}
		}

		if entry, err = sjson.SetBytes(entry, base+".details.snowfall", snowCm); err != nil {
			return nil, err
		}
		if entry, err = sjson.SetBytes(entry, base+".details.rain", rainMm); err != nil {
			return nil, err
		}
		if entry, err = sjson.SetBytes(entry, base+".details.snow_quality", quality); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// MergeMetNo folds the cached document's timeseries into the fresh one.
// Entries are keyed by their "time" string: a fresh entry replaces a cached
// one, cached entries missing from the fresh fetch are kept. The result is
// sorted chronologically and entries before cutoff are dropped. The fresh
// document's other fields are returned as fetched.
func MergeMetNo(cached, fresh []byte, cutoff time.Time) ([]byte, error) {
	freshSeries := gjson.GetBytes(fresh, metnoTimeseriesPath)
	if !freshSeries.IsArray() {
		return fresh, nil
	}

	byTime := make(map[string]string)
	collect := func(series gjson.Result) {
		series.ForEach(func(_, e gjson.Result) bool {
			if ts := e.Get("time").String(); ts != "" {
				byTime[ts] = e.Raw
			}
			return true
		})
	}
	if len(cached) > 0 {
		collect(gjson.GetBytes(cached, metnoTimeseriesPath))
	}
	collect(freshSeries)

	keys := make([]string, 0, len(byTime))
	for ts := range byTime {
		t, err := parseProviderTime(ts)
		if err != nil || t.Before(cutoff) {
			continue
		}
		keys = append(keys, ts)
	}
	sort.Strings(keys)

	entries := make([][]byte, 0, len(keys))
	for _, ts := range keys {
		entries = append(entries, []byte(byTime[ts]))
	}
	return sjson.SetRawBytes(fresh, metnoTimeseriesPath, joinArray(entries))
}

// LocalMidnight returns the start of now's calendar day in loc.
func LocalMidnight(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	l := now.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}

func joinArray(items [][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.Write(bytes.Join(items, []byte{','}))
	buf.WriteByte(']')
	return buf.Bytes()
}
