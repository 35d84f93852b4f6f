package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/arjasari/pzemwatch/internal/core/domain"
	"github.com/arjasari/pzemwatch/internal/core/port"
	"github.com/arjasari/pzemwatch/internal/mqtt"
	"github.com/arjasari/pzemwatch/pkg/pzem"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.GET("/api/latest", s.LatestHandler)
	e.GET("/api/summary", s.SummaryHandler)
	e.GET("/api/timeseries/:meter", s.TimeseriesHandler)
	e.GET("/api/diagnosis", s.DiagnosisHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

type readingResponse struct {
	Id         uint         `json:"id"`
	ReceivedAt time.Time    `json:"received_at"`
	DevicePath string       `json:"device_path,omitempty"`
	SlaveId    int          `json:"slave_id"`
	Reading    pzem.Reading `json:"reading"`
}

func toReadingResponse(rec port.ReadingRecord) readingResponse {
	return readingResponse{
		Id:         rec.Id,
		ReceivedAt: rec.ReceivedAt,
		DevicePath: rec.DevicePath,
		SlaveId:    rec.SlaveId,
		Reading:    rec.Reading,
	}
}

func (s *Server) LatestHandler(c echo.Context) error {
	limit := 10
	if param := c.QueryParam("limit"); param != "" {
		value, err := strconv.Atoi(param)
		if err != nil || value <= 0 || value > 1000 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 1000"})
		}
		limit = value
	}

	records, err := s.store.RecentReadings(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	response := make([]readingResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, toReadingResponse(rec))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *Server) SummaryHandler(c echo.Context) error {
	ctx := c.Request().Context()

	count, err := s.store.CountReadings(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	meters := map[string]any{}
	for _, variant := range []pzem.Variant{pzem.ACLoadMeter, pzem.DCSolarMeter, pzem.DCBatteryMeter} {
		rec, err := s.store.LatestSuccess(ctx, variant)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		if rec == nil {
			meters[string(variant)] = nil
			continue
		}
		meters[string(variant)] = toReadingResponse(*rec)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total_readings": count,
		"meters":         meters,
		"generated_at":   time.Now(),
	})
}

type timeseriesPoint struct {
	ReceivedAt time.Time `json:"received_at"`
	PowerW     float64   `json:"power_w"`
	VoltageV   float64   `json:"voltage_v"`
}

func (s *Server) TimeseriesHandler(c echo.Context) error {
	variant, ok := mqtt.VariantForSensorKey(c.Param("meter"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown meter"})
	}

	hours := 24
	if param := c.QueryParam("hours"); param != "" {
		value, err := strconv.Atoi(param)
		if err != nil || value <= 0 || value > 24*30 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "hours must be between 1 and 720"})
		}
		hours = value
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	records, err := s.store.ReadingsSince(c.Request().Context(), variant, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	points := make([]timeseriesPoint, 0, len(records))
	for _, rec := range records {
		if !rec.Reading.OK() {
			continue
		}
		points = append(points, timeseriesPoint{
			ReceivedAt: rec.ReceivedAt,
			PowerW:     rec.Reading.PowerW(),
			VoltageV:   rec.Reading.VoltageV(),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"meter":  c.Param("meter"),
		"hours":  hours,
		"points": points,
	})
}

func (s *Server) DiagnosisHandler(c echo.Context) error {
	ctx := c.Request().Context()

	snapshot := pzem.SystemSnapshot{}
	readings := map[pzem.Variant]pzem.Reading{}
	for _, variant := range []pzem.Variant{pzem.ACLoadMeter, pzem.DCSolarMeter, pzem.DCBatteryMeter} {
		rec, err := s.store.LatestSuccess(ctx, variant)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		if rec == nil {
			continue
		}
		reading := rec.Reading
		readings[variant] = reading
		switch variant {
		case pzem.ACLoadMeter:
			snapshot.AC = &reading
		case pzem.DCSolarMeter:
			snapshot.Solar = &reading
		case pzem.DCBatteryMeter:
			snapshot.Battery = &reading
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ac_flow":           pzem.AnalyzeACFlow(readings[pzem.ACLoadMeter]),
		"solar_generation":  pzem.AnalyzeSolarGeneration(readings[pzem.DCSolarMeter]),
		"battery_status":    pzem.AnalyzeBatteryStatus(readings[pzem.DCBatteryMeter]),
		"system_efficiency": pzem.ComputeSystemEfficiency(snapshot),
		"generated_at":      time.Now(),
	})
}
