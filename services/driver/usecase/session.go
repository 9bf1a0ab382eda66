package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/piresc/nebengjek-driver/internal/pkg/logger"
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
	"github.com/piresc/nebengjek-driver/internal/pkg/requestcontext"
	"github.com/piresc/nebengjek-driver/internal/pkg/syncerr"
)

// session is the per-driver state. slot admits one status or location
// call at a time; mu guards the committed status for readers.
type session struct {
	driverID models.DriverID
	slot     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc

	mu      sync.RWMutex
	machine statusMachine
	record  models.DriverRecord

	locationSeq atomic.Uint64
}

func newSession(record models.DriverRecord) *session {
	ctx, cancel := context.WithCancel(context.Background())
	record.CurrentStatus = models.DriverStatusOffline
	return &session{
		driverID: record.DriverID,
		slot:     make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		machine:  newStatusMachine(),
		record:   record,
	}
}

// acquire takes the driver's slot, giving up when ctx or the session ends
func (s *session) acquire(ctx context.Context) error {
	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return ctxError(ctx.Err())
	case <-s.ctx.Done():
		return syncerr.Canceled(errSessionEnded)
	}

	// both may be ready at once; a finished session always wins
	if s.ctx.Err() != nil {
		s.release()
		return syncerr.Canceled(errSessionEnded)
	}
	return nil
}

func (s *session) release() {
	<-s.slot
}

// bind derives the context of one remote call: cancelled with ctx or
// when the session ends, and tagged with the driver ID.
func (s *session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	callCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	callCtx = requestcontext.WithDriverID(callCtx, string(s.driverID))
	return callCtx, func() {
		stop()
		cancel()
	}
}

func (s *session) status() models.DriverStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.machine.current()
}

func (s *session) checkTransition(target models.DriverStatus) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.machine.check(target)
}

func (s *session) snapshot() models.DriverRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}

func (s *session) commit(record models.DriverRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine.commit(record.CurrentStatus)
	s.record = record
}

func (s *session) end() {
	s.cancel()
}

var errSessionEnded = errors.New("driver session ended")

func ctxError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return syncerr.Timeout(err)
	}
	return syncerr.Canceled(err)
}

// StartSession registers a driver. The driver starts OFFLINE regardless
// of the status carried by record.
func (uc *DriverUC) StartSession(ctx context.Context, record models.DriverRecord) error {
	if record.DriverID == "" {
		return syncerr.InvalidState("driver id is required")
	}

	now := models.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.OnboardedAt.IsZero() {
		record.OnboardedAt = now
	}
	record.UpdatedAt = now

	uc.mu.Lock()
	if _, exists := uc.sessions[record.DriverID]; exists {
		uc.mu.Unlock()
		return syncerr.InvalidState("session already active for driver %s", record.DriverID)
	}
	uc.sessions[record.DriverID] = newSession(record)
	uc.mu.Unlock()

	logger.InfoCtx(ctx, "Driver session started", logger.String("driver_id", string(record.DriverID)))
	return nil
}

// EndSession cancels every in-flight call of the driver and discards its
// state. Ending an unknown driver is a no-op.
func (uc *DriverUC) EndSession(driverID models.DriverID) {
	uc.mu.Lock()
	s, ok := uc.sessions[driverID]
	delete(uc.sessions, driverID)
	uc.mu.Unlock()

	if !ok {
		return
	}
	s.end()
	logger.Info("Driver session ended",
		logger.String("driver_id", string(driverID)),
		logger.String("last_status", string(s.status())))
}

// Status returns the last committed status of the driver
func (uc *DriverUC) Status(driverID models.DriverID) (models.DriverStatus, error) {
	s, err := uc.lookup(driverID)
	if err != nil {
		return "", err
	}
	return s.status(), nil
}
