// Package display holds small derived-value formatting helpers used when
// presenting weather readings.
package display

import "math"

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// WindDirection maps a wind direction in degrees to a 16-point compass
// label. Degrees are normalized to [0, 360) before lookup.
func WindDirection(degrees float64) string {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	return compassPoints[int(math.Round(degrees/22.5))%16]
}

var iconEmoji = map[string]string{
	"clear-day":           "☀️",
	"clear-night":         "🌙",
	"partly-cloudy-day":   "⛅",
	"partly-cloudy-night": "☁️",
	"cloudy":              "☁️",
	"rain":                "🌧️",
	"snow":                "❄️",
	"wind":                "💨",
	"fog":                 "🌫️",
	"sleet":               "🌨️",
	"hail":                "🌨️",
	"thunderstorm":        "⛈️",
}

// Emoji returns the emoji for an icon code, with a generic fallback for
// unknown codes.
func Emoji(icon string) string {
	if e, ok := iconEmoji[icon]; ok {
		return e
	}
	return "🌤️"
}
