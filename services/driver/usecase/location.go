package usecase

import (
	"context"

	"github.com/piresc/nebengjek-driver/internal/pkg/models"
	"github.com/piresc/nebengjek-driver/internal/pkg/syncerr"
)

// UpdateLocation publishes one sample while the driver is on shift.
// Samples are coalesced: a call that is still waiting for the driver's
// slot when a newer sample arrives returns Superseded without sending.
func (uc *DriverUC) UpdateLocation(ctx context.Context, driverID models.DriverID, pos models.GeoPosition) (*models.SyncAck, error) {
	s, err := uc.lookup(driverID)
	if err != nil {
		return nil, err
	}
	if err := pos.Validate(); err != nil {
		return nil, syncerr.InvalidState("%v: lat=%f lng=%f", err, pos.Latitude, pos.Longitude)
	}
	if status := s.status(); !status.IsActive() {
		return nil, syncerr.InvalidState("cannot update location while %s", status)
	}

	seq := s.locationSeq.Add(1)

	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	if latest := s.locationSeq.Load(); latest != seq {
		return nil, syncerr.Superseded(seq, latest)
	}
	// the driver may have gone OFFLINE while this call was waiting
	if status := s.status(); !status.IsActive() {
		return nil, syncerr.InvalidState("cannot update location while %s", status)
	}

	callCtx, cancel := s.bind(ctx)
	defer cancel()

	return uc.driverGW.UpdateLocation(callCtx, driverID, pos)
}
