package weather

// Resolve returns the value of variable v at timestep i from the first model
// in priority that has a non-null value, falling back to the unqualified
// column. It returns nil when nothing matches.
func Resolve(h *OpenMeteoHourly, v Variable, i int, priority []Model) *float64 {
	for _, m := range priority {
		if val := h.Value(Field{Variable: v, Model: m}, i); val != nil {
			return val
		}
	}
	return h.Value(Field{Variable: v}, i)
}

// resolveCode is Resolve for integer WMO weather codes.
func resolveCode(h *OpenMeteoHourly, i int, priority []Model) *int {
	v := Resolve(h, VarWeatherCode, i, priority)
	if v == nil {
		return nil
	}
	c := int(*v)
	return &c
}
