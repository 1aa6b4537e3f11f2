package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultBaseURL is the Visual Crossing timeline endpoint.
	DefaultBaseURL = "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline"

	apiKeyPlaceholder = "YOUR_API_KEY_HERE"

	// timelineElements is the fixed field list requested from the upstream
	// service; it matches the normalized HourlyReading schema.
	timelineElements = "datetime,temp,feelslike,humidity,precip,precipprob,snow,windspeed,winddir,pressure,cloudcover,visibility,conditions,description,icon"

	dateLayout = "2006-01-02"
)

// CredentialConfigured reports whether key is a usable API credential.
// Placeholder values and short strings are treated as unconfigured, which
// silently selects demo mode instead of surfacing an error.
func CredentialConfigured(key string) bool {
	return key != "" && key != apiKeyPlaceholder && len(key) > 10
}

// Client fetches weather records from the Visual Crossing timeline API.
// Without a configured credential it never touches the network and
// synthesizes a demo record instead.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
	now        func() time.Time
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a Client. The credential is passed in explicitly; the
// client never reads ambient process state.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "visualcrossing",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		circuit:    cb,
		now:        time.Now,
	}
}

func (c *Client) Name() string {
	return "visualcrossing"
}

// Fetch returns the weather record for location covering [now-24h, now+24h]
// at date granularity. A single request is made per call; retrying is left to
// the caller.
func (c *Client) Fetch(ctx context.Context, location string) (Result, error) {
	if location == "" {
		return Result{}, &ClientError{Err: errors.New("location must not be empty")}
	}

	if !CredentialConfigured(c.apiKey) {
		return Result{
			Record: demoRecord(location, c.now()),
			Demo:   true,
			Notice: demoNotice,
		}, nil
	}

	now := c.now()
	start := now.Add(-24 * time.Hour).Format(dateLayout)
	end := now.Add(24 * time.Hour).Format(dateLayout)

	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("unitGroup", "metric")
	values.Set("include", "hours,current")
	values.Set("elements", timelineElements)
	values.Set("contentType", "json")

	u := fmt.Sprintf("%s/%s/%s/%s?%s", c.baseURL, url.PathEscape(location), start, end, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, &ClientError{Err: err}
	}

	res, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.httpClient.Do(req)
		if execErr != nil {
			return nil, &NetworkError{Err: execErr}
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, &NetworkError{Err: readErr}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &UpstreamError{
				Status:  resp.StatusCode,
				Message: upstreamMessage(body),
			}
		}

		var payload timelinePayload
		if decodeErr := json.Unmarshal(body, &payload); decodeErr != nil {
			return nil, &ClientError{Err: decodeErr}
		}
		return payload, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Result{}, &ClientError{Err: err}
		}
		return Result{}, err
	}

	payload, ok := res.(timelinePayload)
	if !ok {
		return Result{}, &ClientError{Err: errors.New("unexpected result type from circuit breaker")}
	}

	return Result{Record: payload.toRecord()}, nil
}

// upstreamMessage extracts the error message from an upstream error body.
// Visual Crossing reports JSON {"message": ...}; plain-text bodies are used
// as-is.
func upstreamMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return "failed to fetch weather data"
}

// timelinePayload mirrors the upstream response shape; field names are
// translated to the normalized schema without altering their content.
type timelinePayload struct {
	ResolvedAddress string `json:"resolvedAddress"`
	Timezone        string `json:"timezone"`
	Days            []struct {
		Datetime string        `json:"datetime"`
		Hours    []hourPayload `json:"hours"`
	} `json:"days"`
	CurrentConditions hourPayload `json:"currentConditions"`
}

type hourPayload struct {
	Datetime    string  `json:"datetime"`
	Temp        float64 `json:"temp"`
	Feelslike   float64 `json:"feelslike"`
	Humidity    float64 `json:"humidity"`
	Precip      float64 `json:"precip"`
	Precipprob  float64 `json:"precipprob"`
	Windspeed   float64 `json:"windspeed"`
	Winddir     float64 `json:"winddir"`
	Pressure    float64 `json:"pressure"`
	Cloudcover  float64 `json:"cloudcover"`
	Visibility  float64 `json:"visibility"`
	Conditions  string  `json:"conditions"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

func (p timelinePayload) toRecord() WeatherRecord {
	record := WeatherRecord{
		ResolvedAddress:   p.ResolvedAddress,
		Timezone:          p.Timezone,
		CurrentConditions: p.CurrentConditions.toReading(),
		Days:              make([]DayBucket, 0, len(p.Days)),
	}
	for _, day := range p.Days {
		bucket := DayBucket{
			Date:  day.Datetime,
			Hours: make([]HourlyReading, 0, len(day.Hours)),
		}
		for _, h := range day.Hours {
			bucket.Hours = append(bucket.Hours, h.toReading())
		}
		record.Days = append(record.Days, bucket)
	}
	return record
}

func (h hourPayload) toReading() HourlyReading {
	// Upstream "datetime" is "HH:MM:SS" for hours and current conditions.
	timeOfDay := h.Datetime
	if len(timeOfDay) > 5 {
		timeOfDay = timeOfDay[:5]
	}
	return HourlyReading{
		TimeOfDay:     timeOfDay,
		Temperature:   h.Temp,
		FeelsLike:     h.Feelslike,
		HumidityPct:   h.Humidity,
		PrecipMm:      h.Precip,
		PrecipProbPct: h.Precipprob,
		WindSpeedKph:  h.Windspeed,
		WindDirDeg:    h.Winddir,
		PressureMb:    h.Pressure,
		CloudCoverPct: h.Cloudcover,
		VisibilityKm:  h.Visibility,
		Conditions:    h.Conditions,
		Description:   h.Description,
		Icon:          h.Icon,
	}
}
