package weather

import "encoding/json"

func f(v float64) *float64 { return &v }

func code(v int) *int { return &v }

// hourly builds an hourly block whose columns are given as plain floats;
// use nilCol for explicit nulls.
func hourly(times []string, cols map[Field][]*float64) *OpenMeteoHourly {
	return NewOpenMeteoHourly(times, cols)
}

func col(vals ...float64) []*float64 {
	out := make([]*float64, len(vals))
	for i := range vals {
		out[i] = f(vals[i])
	}
	return out
}

func nilCol(n int) []*float64 {
	return make([]*float64, n)
}

func jsonUnmarshal(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}
