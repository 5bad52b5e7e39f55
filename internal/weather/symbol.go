package weather

import "slices"

// Icon identifiers follow the MET.no weather icon set. Icons with day/night
// variants take a "_day" or "_night" suffix; the others are used as-is.

// iconFamily groups the icons of one precipitation type and intensity.
// nightFallback marks families without a night icon for the plain variant:
// at night the showers variant with a night suffix stands in for it.
type iconFamily struct {
	plain             string
	showers           string
	andThunder        string
	showersAndThunder string
	nightFallback     bool
}

// The double "s" in lightssleet/lightssnow matches the upstream icon filenames.
var (
	heavySleet = iconFamily{"heavysleet", "heavysleetshowers", "heavysleetandthunder", "heavysleetshowersandthunder", true}
	sleet      = iconFamily{"sleet", "sleetshowers", "sleetandthunder", "sleetshowersandthunder", true}
	lightSleet = iconFamily{"lightsleet", "lightsleetshowers", "lightsleetandthunder", "lightssleetshowersandthunder", true}

	heavySnow = iconFamily{"heavysnow", "heavysnowshowers", "heavysnowandthunder", "heavysnowshowersandthunder", false}
	snow      = iconFamily{"snow", "snowshowers", "snowandthunder", "snowshowersandthunder", true}
	lightSnow = iconFamily{"lightsnow", "lightsnowshowers", "lightsnowandthunder", "lightssnowshowersandthunder", true}

	heavyRain = iconFamily{"heavyrain", "heavyrainshowers", "heavyrainandthunder", "heavyrainshowersandthunder", false}
	rain      = iconFamily{"rain", "rainshowers", "rainandthunder", "rainshowersandthunder", false}
	lightRain = iconFamily{"lightrain", "lightrainshowers", "lightrainandthunder", "lightrainshowersandthunder", false}
)

func daySuffix(isDay bool) string {
	if isDay {
		return "_day"
	}
	return "_night"
}

// icon picks the family member for the shower/thunder flags and time of day.
func (f iconFamily) icon(showers, thunder, isDay bool) string {
	switch {
	case thunder && showers:
		return f.showersAndThunder
	case thunder:
		return f.andThunder
	case showers:
		return f.showers + daySuffix(isDay)
	case !isDay && f.nightFallback:
		return f.showers + daySuffix(isDay)
	default:
		return f.plain
	}
}

// tier selects a family by amount: heavy at or above heavyMin, normal at or
// above normalMin, light below.
type tier struct {
	heavyMin, normalMin  float64
	heavy, normal, light iconFamily
}

func (t tier) pick(amount float64) iconFamily {
	switch {
	case amount >= t.heavyMin:
		return t.heavy
	case amount >= t.normalMin:
		return t.normal
	default:
		return t.light
	}
}

var (
	sleetTier = tier{2.5, 1.0, heavySleet, sleet, lightSleet}
	snowTier  = tier{2.5, 1.0, heavySnow, snow, lightSnow}
	rainTier  = tier{7.5, 2.5, heavyRain, rain, lightRain}
)

var (
	showerCodes     = []int{80, 81, 82, 85, 86}
	thunderCodes    = []int{95, 96, 99}
	heavySleetCodes = []int{57, 67, 69}
	lightSleetCodes = []int{56, 66, 68}
)

// symbolInput is what a symbol rule sees.
type symbolInput struct {
	snowfall float64 // cm
	rain     float64 // mm
	code     int
	isDay    bool
	showers  bool
	thunder  bool
}

// symbolRule maps inputs to an icon when its predicate holds.
type symbolRule struct {
	name  string
	when  func(in symbolInput) bool
	print func(in symbolInput) string
}

func codeIn(codes ...int) func(symbolInput) bool {
	return func(in symbolInput) bool { return slices.Contains(codes, in.code) }
}

func fixed(icon string) func(symbolInput) string {
	return func(symbolInput) string { return icon }
}

// plain renders a family ignoring the shower/thunder flags.
func plain(f iconFamily) func(symbolInput) string {
	return func(in symbolInput) string { return f.icon(false, false, in.isDay) }
}

func withSuffix(base string) func(symbolInput) string {
	return func(in symbolInput) string { return base + daySuffix(in.isDay) }
}

// symbolRules is evaluated top to bottom; the first matching rule wins.
var symbolRules = []symbolRule{
	{
		name: "heavy sleet code",
		when: codeIn(heavySleetCodes...),
		print: func(in symbolInput) string {
			return heavySleet.icon(in.showers, in.thunder, in.isDay)
		},
	},
	{
		name: "light sleet code",
		when: codeIn(lightSleetCodes...),
		print: func(in symbolInput) string {
			return lightSleet.icon(in.showers, in.thunder, in.isDay)
		},
	},
	{
		name: "mixed rain and snow",
		when: func(in symbolInput) bool { return in.rain > 0 && in.snowfall > 0 },
		print: func(in symbolInput) string {
			return sleetTier.pick(in.rain+in.snowfall).icon(in.showers, in.thunder, in.isDay)
		},
	},
	{
		name: "snow",
		when: func(in symbolInput) bool { return in.snowfall > 0 },
		print: func(in symbolInput) string {
			return snowTier.pick(in.snowfall).icon(in.showers, in.thunder, in.isDay)
		},
	},
	{
		name: "rain",
		when: func(in symbolInput) bool { return in.rain > 0 },
		print: func(in symbolInput) string {
			return rainTier.pick(in.rain).icon(in.showers, in.thunder, in.isDay)
		},
	},
	{name: "drizzle code", when: codeIn(51, 53, 55, 56, 57), print: fixed("lightrain")},
	{name: "light rain code", when: codeIn(61, 63, 80), print: fixed("lightrain")},
	{name: "heavy rain code", when: codeIn(65, 81, 82), print: fixed("rain")},
	{name: "sleet code", when: codeIn(66, 67, 68, 69), print: plain(lightSleet)},
	{name: "light snow code", when: codeIn(71, 85), print: plain(lightSnow)},
	{name: "snow code", when: codeIn(73), print: plain(snow)},
	{name: "heavy snow code", when: codeIn(75, 77, 86), print: fixed("heavysnow")},
	{name: "thunder code", when: codeIn(thunderCodes...), print: fixed("rainandthunder")},
	{name: "clear sky", when: codeIn(0), print: withSuffix("clearsky")},
	{name: "fair", when: codeIn(1), print: withSuffix("fair")},
	{name: "partly cloudy", when: codeIn(2), print: withSuffix("partlycloudy")},
	{name: "cloudy", when: codeIn(3), print: fixed("cloudy")},
	{name: "fog", when: codeIn(45, 48), print: fixed("fog")},
}

// Symbol returns the weather icon for snowfall (cm), rain (mm), a WMO weather
// code (nil is treated as clear) and the time of day. It always returns an icon;
// codes without a rule map to clear sky.
func Symbol(snowfallCm, rainMm float64, weatherCode *int, isDay bool) string {
	code := 0
	if weatherCode != nil {
		code = *weatherCode
	}
	in := symbolInput{
		snowfall: snowfallCm,
		rain:     rainMm,
		code:     code,
		isDay:    isDay,
		showers:  slices.Contains(showerCodes, code),
		thunder:  slices.Contains(thunderCodes, code),
	}
	for _, r := range symbolRules {
		if r.when(in) {
			return r.print(in)
		}
	}
	return "clearsky" + daySuffix(isDay)
}
