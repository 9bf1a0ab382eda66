package usecase

import (
	"context"

	"github.com/piresc/nebengjek-driver/internal/pkg/logger"
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
)

// UpdateStatus moves the driver to target. The edge is checked first and
// the new status is committed only after the coordination service accepts
// it; on any failure the driver keeps its previous status.
func (uc *DriverUC) UpdateStatus(ctx context.Context, driverID models.DriverID, target models.DriverStatus) (*models.SyncAck, error) {
	s, err := uc.lookup(driverID)
	if err != nil {
		return nil, err
	}

	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	if err := s.checkTransition(target); err != nil {
		return nil, err
	}

	from := s.status()
	record := s.snapshot().WithStatus(target, models.Now())

	callCtx, cancel := s.bind(ctx)
	defer cancel()

	ack, err := uc.driverGW.UpdateStatus(callCtx, record)
	if err != nil {
		return nil, err
	}

	s.commit(record)
	logger.InfoCtx(ctx, "Driver status updated",
		logger.String("driver_id", string(driverID)),
		logger.String("from", string(from)),
		logger.String("to", string(target)))

	return ack, nil
}
