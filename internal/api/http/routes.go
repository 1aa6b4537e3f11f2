package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/weatherdash/weather-dashboard/internal/dashboard"
	"github.com/weatherdash/weather-dashboard/internal/display"
	"github.com/weatherdash/weather-dashboard/internal/forecast"
	"github.com/weatherdash/weather-dashboard/internal/geolocate"
	"github.com/weatherdash/weather-dashboard/internal/timeline"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, fetcher forecast.Fetcher, session *dashboard.Session) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := fetcher.Fetch(c.UserContext(), loc)
		if err != nil {
			return mapFetchError(err)
		}
		return c.JSON(res)
	})

	v1.Get("/weather/timeline", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := fetcher.Fetch(c.UserContext(), loc)
		if err != nil {
			return mapFetchError(err)
		}

		now := recordNow(res.Record, c.Query("at"))
		return c.JSON(fiber.Map{
			"location": res.Record.ResolvedAddress,
			"timezone": res.Record.Timezone,
			"demo":     res.Demo,
			"notice":   res.Notice,
			"now":      now.Format(time.RFC3339),
			"hours":    decorate(timeline.Build(res.Record, now)),
		})
	})

	v1.Get("/locate", func(c *fiber.Ctx) error {
		var q addressQuery
		q.Address = c.Query("address")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		pos, err := geolocate.Resolve(c.UserContext(), q.Address)
		if err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, geolocate.Message(err))
		}
		return c.JSON(fiber.Map{
			"address":  q.Address,
			"location": pos.String(),
			"position": pos,
		})
	})

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		snap := session.Snapshot()

		resp := fiber.Map{
			"location": snap.Location,
			"error":    snap.Error,
		}
		if snap.Result != nil {
			now := recordNow(snap.Result.Record, c.Query("at"))
			resp["result"] = snap.Result
			resp["timeline"] = decorate(timeline.Build(snap.Result.Record, now))
		}
		return c.JSON(resp)
	})

	v1.Post("/dashboard/search", func(c *fiber.Ctx) error {
		var req searchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := session.Search(c.UserContext(), req.Location)
		if err != nil {
			return mapFetchError(err)
		}
		return c.JSON(res)
	})

	v1.Post("/dashboard/refresh", func(c *fiber.Ctx) error {
		res, err := session.Refresh(c.UserContext())
		if err != nil {
			if errors.Is(err, dashboard.ErrNoLocation) {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			return mapFetchError(err)
		}
		return c.JSON(res)
	})

	v1.Post("/dashboard/locate", func(c *fiber.Ctx) error {
		res, err := session.UseCurrentLocation(c.UserContext(), true)
		if err != nil {
			if isGeolocateError(err) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, geolocate.Message(err))
			}
			return mapFetchError(err)
		}
		return c.JSON(res)
	})
}

// timelineHour is a timeline entry decorated with derived display values.
type timelineHour struct {
	timeline.Entry
	WindDirection string `json:"windDirection"`
	Emoji         string `json:"emoji"`
}

func decorate(entries []timeline.Entry) []timelineHour {
	hours := make([]timelineHour, 0, len(entries))
	for _, e := range entries {
		hours = append(hours, timelineHour{
			Entry:         e,
			WindDirection: display.WindDirection(e.WindDirDeg),
			Emoji:         display.Emoji(e.Icon),
		})
	}
	return hours
}

// recordNow resolves the reference instant for timeline building: the `at`
// query parameter when given, otherwise the wall clock, both interpreted in
// the record's timezone.
func recordNow(record forecast.WeatherRecord, at string) time.Time {
	loc := time.Local
	if record.Timezone != "" {
		if l, err := time.LoadLocation(record.Timezone); err == nil {
			loc = l
		}
	}
	if at != "" {
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			return t.In(loc)
		}
	}
	return time.Now().In(loc)
}

// mapFetchError translates the fetch error taxonomy to HTTP responses. All
// outcomes remain retry-capable messages; nothing is swallowed.
func mapFetchError(err error) error {
	var upstream *forecast.UpstreamError
	if errors.As(err, &upstream) {
		return fiber.NewError(upstream.Status, upstream.Message)
	}
	var network *forecast.NetworkError
	if errors.As(err, &network) {
		return fiber.NewError(fiber.StatusBadGateway, "No response from weather service. Please check your internet connection.")
	}
	var client *forecast.ClientError
	if errors.As(err, &client) {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch weather data. Please try again.")
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func isGeolocateError(err error) bool {
	return errors.Is(err, geolocate.ErrPermissionDenied) ||
		errors.Is(err, geolocate.ErrUnavailable) ||
		errors.Is(err, geolocate.ErrTimeout)
}

type searchRequest struct {
	Location string `json:"location" validate:"required,min=1"`
}

type addressQuery struct {
	Address string `validate:"required,min=1"`
}

func parseLocationQuery(c *fiber.Ctx) (string, error) {
	var q struct {
		Location string `validate:"required,min=1"`
	}
	q.Location = c.Query("location")
	if err := validate.Struct(q); err != nil {
		return "", err
	}
	return q.Location, nil
}
