package handler

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/piresc/nebengjek-driver/internal/pkg/models"
)

// ErrNotReady is reported by the readiness probe before SetReady(true)
var ErrNotReady = errors.New("dispatch stub is not ready")

// driverEntry is the stub's view of one driver
type driverEntry struct {
	Status    models.DriverStatus
	Position  *models.GeoPosition
	Geohash   string
	UpdatedAt time.Time
}

// DispatchHandler is an in-memory coordination service for local runs
type DispatchHandler struct {
	cfg models.StubConfig

	mu      sync.RWMutex
	drivers map[models.DriverID]*driverEntry

	rngMu sync.Mutex
	rng   *rand.Rand

	ready    atomic.Bool
	injected atomic.Uint64
}

// NewDispatchHandler creates a new dispatch stub handler
func NewDispatchHandler(cfg models.StubConfig) *DispatchHandler {
	return newDispatchHandler(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newDispatchHandler(cfg models.StubConfig, rng *rand.Rand) *DispatchHandler {
	if cfg.GeohashPrecision == 0 {
		cfg.GeohashPrecision = 6
	}
	return &DispatchHandler{
		cfg:     cfg,
		drivers: make(map[models.DriverID]*driverEntry),
		rng:     rng,
	}
}

// SetReady flips the readiness probe
func (h *DispatchHandler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Ready implements health.ReadinessChecker
func (h *DispatchHandler) Ready(ctx context.Context) error {
	if !h.ready.Load() {
		return ErrNotReady
	}
	return ctx.Err()
}

// Stats counts known drivers per status
func (h *DispatchHandler) Stats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	byStatus := map[string]int{}
	for _, d := range h.drivers {
		byStatus[string(d.Status)]++
	}
	return map[string]interface{}{
		"drivers":          len(h.drivers),
		"drivers_by_state": byStatus,
		"injected_faults":  h.injected.Load(),
	}
}

// statusOf returns the stored status, OFFLINE for unknown drivers
func (h *DispatchHandler) statusOf(id models.DriverID) models.DriverStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if d, ok := h.drivers[id]; ok {
		return d.Status
	}
	return models.DriverStatusOffline
}

func (h *DispatchHandler) float64() float64 {
	h.rngMu.Lock()
	defer h.rngMu.Unlock()
	return h.rng.Float64()
}
