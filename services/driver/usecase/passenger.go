package usecase

import (
	"context"

	"github.com/piresc/nebengjek-driver/internal/pkg/logger"
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
	"github.com/piresc/nebengjek-driver/internal/pkg/syncerr"
)

// RequestPassenger asks for a nearby passenger. Only an ONLINE driver may
// ask, and the call never changes the driver's status.
func (uc *DriverUC) RequestPassenger(ctx context.Context, driverID models.DriverID, pos models.GeoPosition) (*models.PassengerRequestResult, error) {
	s, err := uc.lookup(driverID)
	if err != nil {
		return nil, err
	}
	if status := s.status(); status != models.DriverStatusOnline {
		return nil, syncerr.InvalidState("cannot request passenger while %s", status)
	}
	if err := pos.Validate(); err != nil {
		return nil, syncerr.InvalidState("%v: lat=%f lng=%f", err, pos.Latitude, pos.Longitude)
	}

	callCtx, cancel := s.bind(ctx)
	defer cancel()

	result, err := uc.driverGW.RequestPassenger(callCtx, models.PassengerRequest{
		DriverID:    driverID,
		Latitude:    pos.Latitude,
		Longitude:   pos.Longitude,
		RequestedAt: models.Now(),
	})
	if err != nil {
		return nil, err
	}

	logger.DebugCtx(ctx, "Passenger found",
		logger.String("driver_id", string(driverID)),
		logger.Float64("lat", result.Latitude),
		logger.Float64("lng", result.Longitude))
	return result, nil
}
