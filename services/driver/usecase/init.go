package usecase

import (
	"sync"

	"github.com/piresc/nebengjek-driver/internal/pkg/models"
	"github.com/piresc/nebengjek-driver/internal/pkg/syncerr"
	"github.com/piresc/nebengjek-driver/services/driver"
)

// DriverUC implements driver.DriverUC on top of a shared gateway.
// Each driver gets its own session; sessions never block each other.
type DriverUC struct {
	driverGW driver.DriverGW

	mu       sync.RWMutex
	sessions map[models.DriverID]*session
}

// NewDriverUC creates a new driver usecase instance
func NewDriverUC(driverGW driver.DriverGW) *DriverUC {
	return &DriverUC{
		driverGW: driverGW,
		sessions: make(map[models.DriverID]*session),
	}
}

func (uc *DriverUC) lookup(driverID models.DriverID) (*session, error) {
	uc.mu.RLock()
	s, ok := uc.sessions[driverID]
	uc.mu.RUnlock()
	if !ok {
		return nil, syncerr.InvalidState("no active session for driver %s", driverID)
	}
	return s, nil
}
