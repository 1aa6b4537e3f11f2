package forecast

import (
	"math"
	"math/rand"
	"strings"
	"time"
)

const (
	demoNotice      = "API key not configured. Using demo data. Get your free API key at https://www.visualcrossing.com/weather-api"
	demoDescription = "Demo weather data - Get your free API key to see real weather!"
	demoTimezone    = "Africa/Nairobi"
)

var (
	demoConditions = []string{"Clear", "Partly cloudy", "Cloudy", "Rain"}
	demoIcons      = []string{"clear-day", "partly-cloudy-day", "cloudy", "rain"}
)

// demoRecord synthesizes a plausible-looking weather record covering the 48
// hours around now: 24 hourly readings bucketed under yesterday's date and 24
// under today's. Fields are drawn from bounded pseudo-random ranges; the
// package-level source keeps this safe for concurrent fetches.
func demoRecord(location string, now time.Time) WeatherRecord {
	if tz, err := time.LoadLocation(demoTimezone); err == nil {
		now = now.In(tz)
	}

	hours := make([]HourlyReading, 0, 48)
	for i := -24; i < 24; i++ {
		at := now.Add(time.Duration(i) * time.Hour)
		hours = append(hours, HourlyReading{
			TimeOfDay:     at.Format("15:04"),
			Temperature:   math.Round(20 + rand.Float64()*10),
			FeelsLike:     math.Round(19 + rand.Float64()*10),
			HumidityPct:   math.Round(50 + rand.Float64()*30),
			PrecipMm:      rand.Float64() * 2,
			PrecipProbPct: math.Round(rand.Float64() * 60),
			WindSpeedKph:  math.Round(10 + rand.Float64()*20),
			WindDirDeg:    math.Round(rand.Float64() * 360),
			PressureMb:    math.Round(1010 + rand.Float64()*20),
			CloudCoverPct: math.Round(rand.Float64() * 100),
			VisibilityKm:  math.Round(8 + rand.Float64()*7),
			Conditions:    demoConditions[rand.Intn(len(demoConditions))],
			Icon:          demoIcons[rand.Intn(len(demoIcons))],
		})
	}

	resolved := location
	if !strings.Contains(location, ",") {
		resolved = location + ", Demo Location"
	}

	return WeatherRecord{
		ResolvedAddress: resolved,
		Timezone:        demoTimezone,
		CurrentConditions: HourlyReading{
			TimeOfDay:     now.Format("15:04"),
			Temperature:   24,
			FeelsLike:     23,
			HumidityPct:   65,
			PrecipMm:      0,
			PrecipProbPct: 20,
			WindSpeedKph:  15,
			WindDirDeg:    180,
			PressureMb:    1013,
			CloudCoverPct: 40,
			VisibilityKm:  10,
			Conditions:    "Partly cloudy",
			Description:   demoDescription,
			Icon:          "partly-cloudy-day",
		},
		Days: []DayBucket{
			{Date: now.AddDate(0, 0, -1).Format(dateLayout), Hours: hours[:24]},
			{Date: now.Format(dateLayout), Hours: hours[24:]},
		},
	}
}
