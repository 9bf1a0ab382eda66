package models

import "time"

// DriverID is the opaque, caller-owned identity of a simulated driver
type DriverID string

// DriverStatus represents the lifecycle status of a driver
type DriverStatus string

const (
	DriverStatusOffline DriverStatus = "OFFLINE"
	DriverStatusOnline  DriverStatus = "ONLINE"
	DriverStatusEnRoute DriverStatus = "EN_ROUTE"
	DriverStatusBusy    DriverStatus = "BUSY"
)

// driverTransitions lists every legal status edge. An EN_ROUTE or BUSY
// driver must resolve the assignment through ONLINE before going OFFLINE.
var driverTransitions = map[DriverStatus][]DriverStatus{
	DriverStatusOffline: {DriverStatusOnline},
	DriverStatusOnline:  {DriverStatusEnRoute, DriverStatusBusy, DriverStatusOffline},
	DriverStatusEnRoute: {DriverStatusOnline},
	DriverStatusBusy:    {DriverStatusOnline},
}

// IsValid reports whether s is one of the known statuses
func (s DriverStatus) IsValid() bool {
	_, ok := driverTransitions[s]
	return ok
}

// CanTransitionTo reports whether the edge s -> target is legal
func (s DriverStatus) CanTransitionTo(target DriverStatus) bool {
	for _, next := range driverTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsActive reports whether the driver is on shift and may publish location
func (s DriverStatus) IsActive() bool {
	return s == DriverStatusOnline || s == DriverStatusEnRoute || s == DriverStatusBusy
}

// VehicleInfo is an opaque set of vehicle attributes, passed through as-is
type VehicleInfo map[string]interface{}

// DriverRecord is the body of a status update
type DriverRecord struct {
	DriverID      DriverID     `json:"driverId"`
	CurrentStatus DriverStatus `json:"currentStatus"`
	OnboardedAt   time.Time    `json:"onboardedAt"`
	VehicleInfo   VehicleInfo  `json:"vehicleInfo"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// WithStatus returns a copy of the record carrying the target status
func (r DriverRecord) WithStatus(status DriverStatus, at time.Time) DriverRecord {
	r.CurrentStatus = status
	r.UpdatedAt = at
	return r
}

// SyncAck is the payload of a successful location or status call
type SyncAck struct {
	StatusCode int    `json:"status_code"`
	Body       []byte `json:"-"`
}
