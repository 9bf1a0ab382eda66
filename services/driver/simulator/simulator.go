package simulator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/nebengjek-driver/internal/pkg/circuitbreaker"
	jwtpkg "github.com/piresc/nebengjek-driver/internal/pkg/jwt"
	"github.com/piresc/nebengjek-driver/internal/pkg/logger"
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
	nrpkg "github.com/piresc/nebengjek-driver/internal/pkg/newrelic"
	"github.com/piresc/nebengjek-driver/internal/pkg/requestcontext"
	"github.com/piresc/nebengjek-driver/internal/pkg/retry"
	"github.com/piresc/nebengjek-driver/internal/pkg/syncerr"
	"github.com/piresc/nebengjek-driver/internal/utils"
	"github.com/piresc/nebengjek-driver/services/driver"
)

const (
	shutdownTimeout = 5 * time.Second
	// trip destinations are drawn this many steps away from the pick-up point
	tripSteps = 20
)

type phase int

const (
	phaseCruising phase = iota // ONLINE, random walk
	phasePickup                // EN_ROUTE to the passenger
	phaseTrip                  // BUSY, carrying the passenger
)

func (p phase) String() string {
	switch p {
	case phasePickup:
		return "pickup"
	case phaseTrip:
		return "trip"
	default:
		return "cruising"
	}
}

// driverState is owned by a single driver goroutine
type driverState struct {
	id     models.DriverID
	pos    models.GeoPosition
	phase  phase
	target models.GeoPosition
	ticks  int
	rng    *rand.Rand
}

// Simulator drives a fleet of simulated drivers through the sync client.
// Cadence, retries and backoff live here; the client only sends.
type Simulator struct {
	driverUC driver.DriverUC
	cfg      models.SimulatorConfig
	jwtCfg   models.JWTConfig
	nrApp    *newrelic.Application
	logger   *logger.ZapLogger
	retrier  *retry.Retrier
	breakers *circuitbreaker.Manager

	seedMu sync.Mutex
	seed   *rand.Rand
}

// NewSimulator creates a new simulator
func NewSimulator(driverUC driver.DriverUC, cfg *models.Config, nrApp *newrelic.Application, l *logger.ZapLogger) *Simulator {
	if l == nil {
		l = logger.GetGlobalLogger()
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.Simulator.StatusRetries

	breakerCfg := circuitbreaker.DefaultConfig("location")
	if cfg.Simulator.BreakerFailures > 0 {
		breakerCfg.FailureThreshold = cfg.Simulator.BreakerFailures
	}
	if cfg.Simulator.BreakerCooldown > 0 {
		breakerCfg.Timeout = cfg.Simulator.BreakerCooldown
	}

	return &Simulator{
		driverUC: driverUC,
		cfg:      cfg.Simulator,
		jwtCfg:   cfg.JWT,
		nrApp:    nrApp,
		logger:   l,
		retrier:  retry.New(retryCfg, l),
		breakers: circuitbreaker.NewManager(breakerCfg, l),
		seed:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run starts the configured number of drivers and blocks until ctx ends
// and every driver has gone offline.
func (s *Simulator) Run(ctx context.Context) error {
	if s.cfg.Drivers <= 0 {
		return fmt.Errorf("invalid driver count: %d", s.cfg.Drivers)
	}
	if s.cfg.LocationInterval <= 0 {
		return fmt.Errorf("invalid location interval: %s", s.cfg.LocationInterval)
	}

	var wg sync.WaitGroup
	errs := make(chan error, s.cfg.Drivers)

	for i := 0; i < s.cfg.Drivers; i++ {
		driverID := models.DriverID(uuid.New().String())
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.RunDriver(ctx, driverID); err != nil {
				errs <- fmt.Errorf("driver %s: %w", driverID, err)
			}
		}()
	}

	wg.Wait()
	close(errs)

	var joined []error
	for err := range errs {
		joined = append(joined, err)
	}
	return errors.Join(joined...)
}

// RunDriver simulates one driver: online, then a location tick loop that
// picks up and drops off passengers, then offline when ctx ends.
func (s *Simulator) RunDriver(ctx context.Context, driverID models.DriverID) error {
	log := s.logger.WithDriver(string(driverID))
	ctx = requestcontext.WithDriverID(ctx, string(driverID))

	if s.jwtCfg.Secret != "" {
		token, _, err := jwtpkg.GenerateToken(string(driverID), s.jwtCfg)
		if err != nil {
			return fmt.Errorf("failed to sign session token: %w", err)
		}
		ctx = requestcontext.WithAuthToken(ctx, token)
	}

	now := models.Now()
	record := models.DriverRecord{
		DriverID:    driverID,
		OnboardedAt: now,
		CreatedAt:   now,
		VehicleInfo: models.VehicleInfo{
			"type":  "motorcycle",
			"plate": fmt.Sprintf("B %04d SIM", s.intn(10000)),
		},
	}
	if err := s.driverUC.StartSession(ctx, record); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer s.breakers.Remove(string(driverID))
	defer s.driverUC.EndSession(driverID)

	if err := s.transition(ctx, driverID, models.DriverStatusOnline); err != nil {
		return fmt.Errorf("failed to go online: %w", err)
	}
	defer s.goOffline(ctx, driverID)

	d := s.newDriverState(driverID)
	log.Info("Driver online",
		logger.Float64("lat", d.pos.Latitude),
		logger.Float64("lng", d.pos.Longitude))

	ticker := time.NewTicker(s.cfg.LocationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.tick(ctx, d)
		}
	}
}

func (s *Simulator) newDriverState(driverID models.DriverID) *driverState {
	s.seedMu.Lock()
	rng := rand.New(rand.NewSource(s.seed.Int63()))
	s.seedMu.Unlock()

	return &driverState{
		id:    driverID,
		pos:   models.NewGeoPosition(s.cfg.StartLatitude, s.cfg.StartLongitude),
		phase: phaseCruising,
		rng:   rng,
	}
}

func (s *Simulator) intn(n int) int {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	return s.seed.Intn(n)
}

// tick runs one simulation step inside its own background transaction
func (s *Simulator) tick(ctx context.Context, d *driverState) {
	ctx, end := nrpkg.StartBackgroundTransaction(ctx, s.nrApp, "driver-tick")
	defer end()
	nrpkg.AddTransactionAttribute(ctx, "driver_id", string(d.id))
	nrpkg.AddTransactionAttribute(ctx, "phase", d.phase.String())

	d.ticks++

	switch d.phase {
	case phaseCruising:
		d.pos = utils.RandomStep(d.pos, s.cfg.StepMeters, d.rng)
	case phasePickup, phaseTrip:
		var arrived bool
		d.pos, arrived = utils.MoveTowards(d.pos, d.target, s.cfg.StepMeters)
		if arrived {
			s.arrive(ctx, d)
		}
	}

	s.publishLocation(ctx, d)

	if d.phase == phaseCruising && s.cfg.PassengerEvery > 0 && d.ticks%s.cfg.PassengerEvery == 0 {
		s.findPassenger(ctx, d)
	}
}

// publishLocation sends the current position through the driver's breaker
func (s *Simulator) publishLocation(ctx context.Context, d *driverState) {
	err := s.breakers.Execute(ctx, string(d.id), func(ctx context.Context) error {
		_, err := s.driverUC.UpdateLocation(ctx, d.id, d.pos)
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		logger.DebugCtx(ctx, "Location skipped, backend circuit open", logger.String("driver_id", string(d.id)))
	case syncerr.IsKind(err, syncerr.KindSuperseded), syncerr.IsKind(err, syncerr.KindCanceled):
		logger.DebugCtx(ctx, "Location dropped", logger.String("driver_id", string(d.id)), logger.Err(err))
	default:
		logger.WarnCtx(ctx, "Location update failed",
			logger.String("driver_id", string(d.id)),
			logger.String("kind", string(syncerr.KindOf(err))),
			logger.Err(err))
	}
}

func (s *Simulator) findPassenger(ctx context.Context, d *driverState) {
	result, err := s.driverUC.RequestPassenger(ctx, d.id, d.pos)
	if err != nil {
		logger.InfoCtx(ctx, "No passenger assigned",
			logger.String("driver_id", string(d.id)),
			logger.String("kind", string(syncerr.KindOf(err))),
			logger.Err(err))
		return
	}

	if err := s.transition(ctx, d.id, models.DriverStatusEnRoute); err != nil {
		logger.WarnCtx(ctx, "Failed to start pick-up", logger.String("driver_id", string(d.id)), logger.Err(err))
		return
	}

	d.target = result.Position()
	d.phase = phasePickup
	logger.InfoCtx(ctx, "Heading to passenger",
		logger.String("driver_id", string(d.id)),
		logger.Float64("distance_km", utils.CalculateDistance(d.pos, d.target)))
}

// arrive resolves the current assignment. Every edge goes through ONLINE.
func (s *Simulator) arrive(ctx context.Context, d *driverState) {
	if err := s.transition(ctx, d.id, models.DriverStatusOnline); err != nil {
		// still at the target; try again next tick
		logger.WarnCtx(ctx, "Failed to complete "+d.phase.String(), logger.String("driver_id", string(d.id)), logger.Err(err))
		return
	}

	if d.phase == phaseTrip {
		d.phase = phaseCruising
		logger.InfoCtx(ctx, "Passenger dropped off", logger.String("driver_id", string(d.id)))
		return
	}

	if err := s.transition(ctx, d.id, models.DriverStatusBusy); err != nil {
		d.phase = phaseCruising
		logger.WarnCtx(ctx, "Failed to start trip", logger.String("driver_id", string(d.id)), logger.Err(err))
		return
	}

	d.target = utils.RandomStep(d.pos, s.cfg.StepMeters*tripSteps, d.rng)
	d.phase = phaseTrip
	logger.InfoCtx(ctx, "Passenger picked up", logger.String("driver_id", string(d.id)))
}

// transition retries retryable failures of a status update
func (s *Simulator) transition(ctx context.Context, driverID models.DriverID, target models.DriverStatus) error {
	return s.retrier.Execute(ctx, func(ctx context.Context) error {
		_, err := s.driverUC.UpdateStatus(ctx, driverID, target)
		return err
	})
}

// goOffline walks the driver back to OFFLINE after ctx has ended
func (s *Simulator) goOffline(parent context.Context, driverID models.DriverID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), shutdownTimeout)
	defer cancel()

	status, err := s.driverUC.Status(driverID)
	if err != nil {
		return
	}

	if status == models.DriverStatusEnRoute || status == models.DriverStatusBusy {
		if err := s.transition(ctx, driverID, models.DriverStatusOnline); err != nil {
			s.logger.Warn("Failed to release assignment on shutdown",
				logger.String("driver_id", string(driverID)), logger.Err(err))
			return
		}
	}

	if err := s.transition(ctx, driverID, models.DriverStatusOffline); err != nil {
		s.logger.Warn("Failed to go offline", logger.String("driver_id", string(driverID)), logger.Err(err))
		return
	}
	s.logger.Info("Driver offline", logger.String("driver_id", string(driverID)))
}

// BreakerStats exposes the per-driver location breakers
func (s *Simulator) BreakerStats() map[string]circuitbreaker.CircuitBreakerStats {
	return s.breakers.GetStats()
}
