package usecase

import (
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
	"github.com/piresc/nebengjek-driver/internal/pkg/syncerr"
)

// statusMachine holds exactly one committed status. It is not safe for
// concurrent use; the owning session serializes access.
type statusMachine struct {
	status models.DriverStatus
}

func newStatusMachine() statusMachine {
	return statusMachine{status: models.DriverStatusOffline}
}

func (m *statusMachine) current() models.DriverStatus {
	return m.status
}

// check validates the edge from the current status to target
func (m *statusMachine) check(target models.DriverStatus) error {
	if !target.IsValid() {
		return syncerr.InvalidState("unknown driver status %q", target)
	}
	if !m.status.CanTransitionTo(target) {
		return syncerr.InvalidTransition(string(m.status), string(target))
	}
	return nil
}

// commit records a status confirmed by the coordination service
func (m *statusMachine) commit(target models.DriverStatus) {
	m.status = target
}
