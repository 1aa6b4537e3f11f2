package forecast

import "context"

// HourlyReading is one timestamped observation or forecast point, normalized
// to metric units.
type HourlyReading struct {
	TimeOfDay     string  `json:"timeOfDay"` // "HH:MM"
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feelsLike"`
	HumidityPct   float64 `json:"humidityPercent"`
	PrecipMm      float64 `json:"precipMm"`
	PrecipProbPct float64 `json:"precipProbPercent"`
	WindSpeedKph  float64 `json:"windSpeedKph"`
	WindDirDeg    float64 `json:"windDirDeg"`
	PressureMb    float64 `json:"pressureMb"`
	CloudCoverPct float64 `json:"cloudCoverPercent"`
	VisibilityKm  float64 `json:"visibilityKm"`
	Conditions    string  `json:"conditions"`
	Description   string  `json:"description,omitempty"`
	Icon          string  `json:"icon"`
}

// DayBucket groups the hourly readings belonging to one calendar date.
type DayBucket struct {
	Date  string          `json:"date"` // "YYYY-MM-DD"
	Hours []HourlyReading `json:"hours"`
}

// WeatherRecord is the normalized weather view for one location. It is
// treated as immutable once returned by a Fetcher; a new search fully
// replaces any prior record.
type WeatherRecord struct {
	ResolvedAddress   string        `json:"resolvedAddress"`
	Timezone          string        `json:"timezone"`
	CurrentConditions HourlyReading `json:"currentConditions"`
	Days              []DayBucket   `json:"days"`
}

// Result is a successful fetch outcome. Demo marks synthetic data produced
// without a configured credential; it is distinct from the error outcome.
type Result struct {
	Record WeatherRecord `json:"record"`
	Demo   bool          `json:"demo"`
	Notice string        `json:"notice,omitempty"`
}

// Fetcher abstracts a source of weather records for a location string
// (free-text place name or a "lat,lon" pair).
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, location string) (Result, error)
}
