package forecast

import "strings"

// Icon names the glyph the page renders for a condition.
type Icon string

const (
	IconBolt     Icon = "bolt"
	IconCloud    Icon = "cloud"
	IconSparkles Icon = "sparkles"
	IconSun      Icon = "sun"
	IconMoon     Icon = "moon"
	IconFire     Icon = "fire"
)

// IconFor maps a condition keyword and a temperature to an icon.
// Checks run in fixed priority order with case-insensitive substring
// match; first match wins. Clear skies split on the 20°C threshold,
// and anything uncategorised below 5°C gets the cold fallback.
func IconFor(condition string, temp float64) Icon {
	main := strings.ToLower(condition)

	switch {
	case strings.Contains(main, "thunderstorm"):
		return IconBolt
	case strings.Contains(main, "rain"):
		return IconCloud
	case strings.Contains(main, "snow"):
		return IconSparkles
	case strings.Contains(main, "cloud"):
		return IconCloud
	case strings.Contains(main, "clear") && temp > 20:
		return IconSun
	case strings.Contains(main, "clear"):
		return IconMoon
	case temp < 5:
		return IconFire
	}
	return IconSun
}
