package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/nebengjek-driver/internal/pkg/jwt"
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
	"github.com/piresc/nebengjek-driver/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAPI = models.DriverAPIConfig{
	LocationPath:  "/v1/drivers/location/update",
	StatusPath:    "/v1/drivers/update",
	PassengerPath: "/v1/drivers/requestPassenger",
}

func setupStub(cfg models.StubConfig, api models.DriverAPIConfig, jwtCfg models.JWTConfig) (*DispatchHandler, *echo.Echo) {
	h := newDispatchHandler(cfg, rand.New(rand.NewSource(7)))
	e := echo.New()
	h.RegisterRoutes(e, api, jwtCfg)
	return h, e
}

func post(e *echo.Echo, path string, body interface{}, token string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func statusBody(id string, status models.DriverStatus) models.DriverRecord {
	now := models.Now()
	return models.DriverRecord{
		DriverID:      models.DriverID(id),
		CurrentStatus: status,
		OnboardedAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func locationBody(id string, lat, lng float64) models.LocationUpdate {
	return models.NewLocationUpdate(models.DriverID(id), models.NewGeoPosition(lat, lng))
}

func TestDispatchHandler_UpdateStatus(t *testing.T) {
	_, e := setupStub(models.StubConfig{}, testAPI, models.JWTConfig{})

	tests := []struct {
		name         string
		body         interface{}
		expectedCode int
	}{
		{name: "offline to online", body: statusBody("d1", models.DriverStatusOnline), expectedCode: http.StatusOK},
		{name: "online to online", body: statusBody("d1", models.DriverStatusOnline), expectedCode: http.StatusConflict},
		{name: "online to en route", body: statusBody("d1", models.DriverStatusEnRoute), expectedCode: http.StatusOK},
		{name: "en route to busy", body: statusBody("d1", models.DriverStatusBusy), expectedCode: http.StatusConflict},
		{name: "en route to online", body: statusBody("d1", models.DriverStatusOnline), expectedCode: http.StatusOK},
		{name: "unknown driver starts offline", body: statusBody("d2", models.DriverStatusEnRoute), expectedCode: http.StatusConflict},
		{name: "unknown status", body: statusBody("d1", "PARKED"), expectedCode: http.StatusBadRequest},
		{name: "missing driver", body: statusBody("", models.DriverStatusOnline), expectedCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(e, testAPI.StatusPath, tt.body, "")
			assert.Equal(t, tt.expectedCode, rec.Code, rec.Body.String())
		})
	}
}

func TestDispatchHandler_UpdateStatus_Ack(t *testing.T) {
	_, e := setupStub(models.StubConfig{}, testAPI, models.JWTConfig{})

	rec := post(e, testAPI.StatusPath, statusBody("d1", models.DriverStatusOnline), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool      `json:"success"`
		Data    StatusAck `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.DriverStatusOffline, resp.Data.Previous)
	assert.Equal(t, models.DriverStatusOnline, resp.Data.Current)
}

func TestDispatchHandler_UpdateLocation(t *testing.T) {
	h, e := setupStub(models.StubConfig{GeohashPrecision: 6}, testAPI, models.JWTConfig{})

	rec := post(e, testAPI.LocationPath, locationBody("d1", -6.175392, 106.827153), "")
	assert.Equal(t, http.StatusConflict, rec.Code, "location before going online")

	require.Equal(t, http.StatusOK, post(e, testAPI.StatusPath, statusBody("d1", models.DriverStatusOnline), "").Code)

	rec = post(e, testAPI.LocationPath, locationBody("d1", -6.175392, 106.827153), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data LocationAck `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Geohash, 6)
	assert.Equal(t, utils.EncodePosition(models.GeoPosition{Latitude: -6.175392, Longitude: 106.827153}, 6), resp.Data.Geohash)

	rec = post(e, testAPI.LocationPath, locationBody("d1", 91, 0), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	stats := h.Stats()
	assert.Equal(t, 1, stats["drivers"])
	assert.Equal(t, map[string]int{"ONLINE": 1}, stats["drivers_by_state"])
}

func TestDispatchHandler_UpdateLocation_PathParam(t *testing.T) {
	api := testAPI
	api.LocationPath = "/api/drivers/{id}/location"
	_, e := setupStub(models.StubConfig{}, api, models.JWTConfig{})

	require.Equal(t, http.StatusOK, post(e, api.StatusPath, statusBody("d1", models.DriverStatusOnline), "").Code)

	// the path names the driver, the body is ignored
	rec := post(e, "/api/drivers/d1/location", locationBody("someone-else", -6.2, 106.8), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = post(e, "/api/drivers/d2/location", locationBody("d1", -6.2, 106.8), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDispatchHandler_RequestPassenger(t *testing.T) {
	_, e := setupStub(models.StubConfig{GeohashPrecision: 6}, testAPI, models.JWTConfig{})
	req := models.PassengerRequest{DriverID: "d1", Latitude: -6.175392, Longitude: 106.827153}

	rec := post(e, testAPI.PassengerPath, req, "")
	assert.Equal(t, http.StatusConflict, rec.Code, "offline driver")

	require.Equal(t, http.StatusOK, post(e, testAPI.StatusPath, statusBody("d1", models.DriverStatusOnline), "").Code)

	rec = post(e, testAPI.PassengerPath, req, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "data", "passenger response is not enveloped")

	var assignment PassengerAssignment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assignment))
	assert.NotEmpty(t, assignment.PassengerID)

	driverCell := utils.EncodePosition(models.GeoPosition{Latitude: req.Latitude, Longitude: req.Longitude}, 6)
	assert.Contains(t, utils.GetNeighbors(driverCell), assignment.Geohash)
	assert.Equal(t, assignment.Geohash, utils.EncodePosition(models.GeoPosition{
		Latitude:  assignment.Latitude,
		Longitude: assignment.Longitude,
	}, 6))

	require.Equal(t, http.StatusOK, post(e, testAPI.StatusPath, statusBody("d1", models.DriverStatusBusy), "").Code)
	rec = post(e, testAPI.PassengerPath, req, "")
	assert.Equal(t, http.StatusConflict, rec.Code, "busy driver")
}

func TestDispatchHandler_TokenMustMatchDriver(t *testing.T) {
	jwtCfg := models.JWTConfig{Secret: "stub-secret", Expiration: 5, Issuer: "test"}
	_, e := setupStub(models.StubConfig{}, testAPI, jwtCfg)

	token, _, err := jwtpkg.GenerateToken("d1", jwtCfg)
	require.NoError(t, err)

	tests := []struct {
		name         string
		driverID     string
		token        string
		expectedCode int
	}{
		// authenticated, but not yet online
		{name: "own driver", driverID: "d1", token: token, expectedCode: http.StatusConflict},
		{name: "other driver", driverID: "d2", token: token, expectedCode: http.StatusUnauthorized},
		{name: "no token", driverID: "d1", expectedCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(e, testAPI.LocationPath, locationBody(tt.driverID, -6.2, 106.8), tt.token)
			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestDispatchHandler_FaultInjection(t *testing.T) {
	h, e := setupStub(models.StubConfig{FailureRate: 1}, testAPI, models.JWTConfig{})

	rec := post(e, testAPI.StatusPath, statusBody("d1", models.DriverStatusOnline), "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, models.DriverStatusOffline, h.statusOf("d1"), "failed call has no effect")
	assert.Equal(t, uint64(1), h.Stats()["injected_faults"])
}

func TestDispatchHandler_Latency(t *testing.T) {
	_, e := setupStub(models.StubConfig{Latency: 30 * time.Millisecond}, testAPI, models.JWTConfig{})

	start := time.Now()
	rec := post(e, testAPI.StatusPath, statusBody("d1", models.DriverStatusOnline), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestDispatchHandler_LatencyAbandonedRequest(t *testing.T) {
	h, e := setupStub(models.StubConfig{Latency: time.Minute}, testAPI, models.JWTConfig{})

	payload, _ := json.Marshal(statusBody("d1", models.DriverStatusOnline))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, testAPI.StatusPath, bytes.NewReader(payload)).WithContext(ctx)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Empty(t, rec.Body.String())
	assert.Equal(t, models.DriverStatusOffline, h.statusOf("d1"))
}

func TestDispatchHandler_Ready(t *testing.T) {
	h := NewDispatchHandler(models.StubConfig{})

	assert.ErrorIs(t, h.Ready(context.Background()), ErrNotReady)

	h.SetReady(true)
	assert.NoError(t, h.Ready(context.Background()))
}

func TestEchoPath(t *testing.T) {
	assert.Equal(t, "/api/drivers/:id/location", echoPath("/api/drivers/{id}/location"))
	assert.Equal(t, "/v1/drivers/update", echoPath("/v1/drivers/update"))
}
