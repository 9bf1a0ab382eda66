package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/piresc/nebengjek-driver/internal/pkg/logger"
	"github.com/piresc/nebengjek-driver/internal/pkg/middleware"
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
	nrpkg "github.com/piresc/nebengjek-driver/internal/pkg/newrelic"
	"github.com/piresc/nebengjek-driver/internal/utils"
)

// PassengerAssignment is the passenger-request response. It is sent
// without the envelope so clients get a bare coordinate pair.
type PassengerAssignment struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
	PassengerID string  `json:"passengerId"`
	Geohash     string  `json:"geohash"`
}

// LocationAck is the data of a location acknowledgement
type LocationAck struct {
	DriverID models.DriverID `json:"driverId"`
	Geohash  string          `json:"geohash"`
}

// StatusAck is the data of a status acknowledgement
type StatusAck struct {
	DriverID models.DriverID     `json:"driverId"`
	Previous models.DriverStatus `json:"previousStatus"`
	Current  models.DriverStatus `json:"currentStatus"`
}

// UpdateLocation stores the latest sample of an active driver
func (h *DispatchHandler) UpdateLocation(c echo.Context) error {
	ctx := c.Request().Context()
	nrpkg.SetTransactionName(ctx, "Dispatch.UpdateLocation")

	var req models.LocationUpdate
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	driverID, code, msg := resolveDriverID(c, req.DriverID)
	if code != 0 {
		return utils.ErrorResponseHandler(c, code, msg)
	}

	pos := models.GeoPosition{Latitude: req.Latitude, Longitude: req.Longitude, Timestamp: req.Timestamp}
	if err := pos.Validate(); err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}
	if pos.Timestamp.IsZero() {
		pos.Timestamp = models.Now()
	}
	hash := utils.EncodePosition(pos, h.cfg.GeohashPrecision)

	h.mu.Lock()
	entry, ok := h.drivers[driverID]
	if !ok || !entry.Status.IsActive() {
		h.mu.Unlock()
		return utils.ConflictResponse(c, fmt.Sprintf("driver %s is not on shift", driverID))
	}
	entry.Position = &pos
	entry.Geohash = hash
	entry.UpdatedAt = models.Now()
	h.mu.Unlock()

	logger.DebugCtx(ctx, "Location stored",
		logger.String("driver_id", string(driverID)),
		logger.String("geohash", hash))

	return utils.SuccessResponse(c, http.StatusOK, "Location updated", LocationAck{
		DriverID: driverID,
		Geohash:  hash,
	})
}

// UpdateStatus applies a status edge, rejecting edges the driver cannot take
func (h *DispatchHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	nrpkg.SetTransactionName(ctx, "Dispatch.UpdateStatus")

	var req models.DriverRecord
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	driverID, code, msg := resolveDriverID(c, req.DriverID)
	if code != 0 {
		return utils.ErrorResponseHandler(c, code, msg)
	}

	target := req.CurrentStatus
	if !target.IsValid() {
		return utils.BadRequestResponse(c, fmt.Sprintf("unknown status %q", target))
	}

	h.mu.Lock()
	entry, ok := h.drivers[driverID]
	if !ok {
		entry = &driverEntry{Status: models.DriverStatusOffline}
	}
	previous := entry.Status
	if !previous.CanTransitionTo(target) {
		h.mu.Unlock()
		return utils.ConflictResponse(c, fmt.Sprintf("cannot transition from %s to %s", previous, target))
	}
	entry.Status = target
	entry.UpdatedAt = models.Now()
	h.drivers[driverID] = entry
	h.mu.Unlock()

	logger.InfoCtx(ctx, "Driver status changed",
		logger.String("driver_id", string(driverID)),
		logger.String("from", string(previous)),
		logger.String("to", string(target)))

	return utils.SuccessResponse(c, http.StatusOK, "Status updated", StatusAck{
		DriverID: driverID,
		Previous: previous,
		Current:  target,
	})
}

// RequestPassenger places a passenger in a cell neighbouring the driver
func (h *DispatchHandler) RequestPassenger(c echo.Context) error {
	ctx := c.Request().Context()
	nrpkg.SetTransactionName(ctx, "Dispatch.RequestPassenger")

	var req models.PassengerRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	driverID, code, msg := resolveDriverID(c, req.DriverID)
	if code != 0 {
		return utils.ErrorResponseHandler(c, code, msg)
	}

	pos := models.GeoPosition{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := pos.Validate(); err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}

	if status := h.statusOf(driverID); status != models.DriverStatusOnline {
		return utils.ConflictResponse(c, fmt.Sprintf("driver %s is %s, not ONLINE", driverID, status))
	}

	h.rngMu.Lock()
	passenger, cell := utils.NearbyPosition(pos, h.cfg.GeohashPrecision, h.rng)
	h.rngMu.Unlock()

	assignment := PassengerAssignment{
		Latitude:    passenger.Latitude,
		Longitude:   passenger.Longitude,
		PassengerID: uuid.New().String(),
		Geohash:     cell,
	}

	logger.InfoCtx(ctx, "Passenger assigned",
		logger.String("driver_id", string(driverID)),
		logger.String("passenger_id", assignment.PassengerID),
		logger.String("geohash", cell))

	return c.JSON(http.StatusOK, assignment)
}

// resolveDriverID takes the driver from the path when the route carries
// one, else from the body, and checks it against the token's driver.
// A non-zero code is the status to reject the request with.
func resolveDriverID(c echo.Context, fromBody models.DriverID) (models.DriverID, int, string) {
	driverID := fromBody
	if param := c.Param("id"); param != "" {
		driverID = models.DriverID(param)
	}
	if driverID == "" {
		return "", http.StatusBadRequest, "driverId is required"
	}

	if authed, _ := c.Get(middleware.DriverIDKey).(string); authed != "" && authed != string(driverID) {
		return "", http.StatusUnauthorized, "token does not belong to driver " + string(driverID)
	}
	return driverID, 0, ""
}
