package driver

import (
	"context"

	"github.com/piresc/nebengjek-driver/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks github.com/piresc/nebengjek-driver/services/driver DriverGW

// DriverGW defines the wire operations against the coordination service.
// Implementations send exactly one request per call and never retry.
type DriverGW interface {
	UpdateLocation(ctx context.Context, driverID models.DriverID, pos models.GeoPosition) (*models.SyncAck, error)
	UpdateStatus(ctx context.Context, record models.DriverRecord) (*models.SyncAck, error)
	RequestPassenger(ctx context.Context, req models.PassengerRequest) (*models.PassengerRequestResult, error)
}
