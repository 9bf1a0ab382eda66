package driver

import (
	"context"

	"github.com/piresc/nebengjek-driver/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/nebengjek-driver/services/driver DriverUC

// DriverUC defines the precondition-checked driver operations
type DriverUC interface {
	// Session lifecycle
	StartSession(ctx context.Context, record models.DriverRecord) error
	EndSession(driverID models.DriverID)

	// Sync operations
	UpdateLocation(ctx context.Context, driverID models.DriverID, pos models.GeoPosition) (*models.SyncAck, error)
	UpdateStatus(ctx context.Context, driverID models.DriverID, target models.DriverStatus) (*models.SyncAck, error)
	RequestPassenger(ctx context.Context, driverID models.DriverID, pos models.GeoPosition) (*models.PassengerRequestResult, error)

	Status(driverID models.DriverID) (models.DriverStatus, error)
}
