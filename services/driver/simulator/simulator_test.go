package simulator

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/piresc/nebengjek-driver/internal/pkg/circuitbreaker"
	jwtpkg "github.com/piresc/nebengjek-driver/internal/pkg/jwt"
	"github.com/piresc/nebengjek-driver/internal/pkg/logger"
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
	"github.com/piresc/nebengjek-driver/internal/pkg/requestcontext"
	"github.com/piresc/nebengjek-driver/internal/pkg/retry"
	"github.com/piresc/nebengjek-driver/internal/pkg/syncerr"
	"github.com/piresc/nebengjek-driver/services/driver/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDriverID models.DriverID = "driver-1"

var okAck = &models.SyncAck{StatusCode: http.StatusOK}

func testConfig() *models.Config {
	return &models.Config{
		Simulator: models.SimulatorConfig{
			Drivers:          1,
			LocationInterval: 5 * time.Millisecond,
			PassengerEvery:   1,
			StartLatitude:    -6.175392,
			StartLongitude:   106.827153,
			StepMeters:       50,
			StatusRetries:    2,
			BreakerFailures:  2,
			BreakerCooldown:  time.Hour,
		},
	}
}

func setupSimulator(t *testing.T, cfg *models.Config) (*Simulator, *mocks.MockDriverUC) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockUC := mocks.NewMockDriverUC(ctrl)
	sim := NewSimulator(mockUC, cfg, nil, logger.NewNopLogger())
	// keep retries fast
	sim.retrier = newFastRetrier(cfg.Simulator.StatusRetries)
	return sim, mockUC
}

func TestTick_CruisingRequestsPassengerAndHeadsOut(t *testing.T) {
	sim, mockUC := setupSimulator(t, testConfig())
	d := sim.newDriverState(testDriverID)
	start := d.pos

	passenger := &models.PassengerRequestResult{Latitude: -6.18, Longitude: 106.83}

	gomock.InOrder(
		mockUC.EXPECT().UpdateLocation(gomock.Any(), testDriverID, gomock.Any()).Return(okAck, nil),
		mockUC.EXPECT().RequestPassenger(gomock.Any(), testDriverID, gomock.Any()).Return(passenger, nil),
		mockUC.EXPECT().UpdateStatus(gomock.Any(), testDriverID, models.DriverStatusEnRoute).Return(okAck, nil),
	)

	sim.tick(context.Background(), d)

	assert.Equal(t, phasePickup, d.phase)
	assert.Equal(t, passenger.Latitude, d.target.Latitude)
	assert.Equal(t, passenger.Longitude, d.target.Longitude)
	assert.NotEqual(t, start, d.pos)
}

func TestTick_NoPassengerKeepsCruising(t *testing.T) {
	sim, mockUC := setupSimulator(t, testConfig())
	d := sim.newDriverState(testDriverID)

	mockUC.EXPECT().UpdateLocation(gomock.Any(), testDriverID, gomock.Any()).Return(okAck, nil)
	mockUC.EXPECT().RequestPassenger(gomock.Any(), testDriverID, gomock.Any()).
		Return(nil, syncerr.HTTPStatus(http.StatusNotFound, "no passenger nearby"))

	sim.tick(context.Background(), d)

	assert.Equal(t, phaseCruising, d.phase)
}

func TestTick_PassengerCadence(t *testing.T) {
	cfg := testConfig()
	cfg.Simulator.PassengerEvery = 3
	sim, mockUC := setupSimulator(t, cfg)
	d := sim.newDriverState(testDriverID)

	mockUC.EXPECT().UpdateLocation(gomock.Any(), testDriverID, gomock.Any()).Return(okAck, nil).Times(3)
	mockUC.EXPECT().RequestPassenger(gomock.Any(), testDriverID, gomock.Any()).
		Return(nil, syncerr.HTTPStatus(http.StatusNotFound, "")).Times(1)

	for i := 0; i < 3; i++ {
		sim.tick(context.Background(), d)
	}
}

func TestTick_ArrivingAtPassengerStartsTrip(t *testing.T) {
	sim, mockUC := setupSimulator(t, testConfig())
	d := sim.newDriverState(testDriverID)
	d.phase = phasePickup
	d.target = d.pos

	gomock.InOrder(
		mockUC.EXPECT().UpdateStatus(gomock.Any(), testDriverID, models.DriverStatusOnline).Return(okAck, nil),
		mockUC.EXPECT().UpdateStatus(gomock.Any(), testDriverID, models.DriverStatusBusy).Return(okAck, nil),
		mockUC.EXPECT().UpdateLocation(gomock.Any(), testDriverID, gomock.Any()).Return(okAck, nil),
	)

	sim.tick(context.Background(), d)

	assert.Equal(t, phaseTrip, d.phase)
	assert.NotEqual(t, d.pos, d.target)
}

func TestTick_ArrivingAtDestinationGoesOnline(t *testing.T) {
	sim, mockUC := setupSimulator(t, testConfig())
	d := sim.newDriverState(testDriverID)
	d.phase = phaseTrip
	d.target = d.pos

	gomock.InOrder(
		mockUC.EXPECT().UpdateStatus(gomock.Any(), testDriverID, models.DriverStatusOnline).Return(okAck, nil),
		mockUC.EXPECT().UpdateLocation(gomock.Any(), testDriverID, gomock.Any()).Return(okAck, nil),
		mockUC.EXPECT().RequestPassenger(gomock.Any(), testDriverID, gomock.Any()).
			Return(nil, syncerr.HTTPStatus(http.StatusNotFound, "")),
	)

	sim.tick(context.Background(), d)

	assert.Equal(t, phaseCruising, d.phase)
}

func TestTick_FailedArrivalIsRetriedNextTick(t *testing.T) {
	cfg := testConfig()
	cfg.Simulator.StatusRetries = 0
	sim, mockUC := setupSimulator(t, cfg)
	d := sim.newDriverState(testDriverID)
	d.phase = phaseTrip
	d.target = d.pos

	mockUC.EXPECT().UpdateStatus(gomock.Any(), testDriverID, models.DriverStatusOnline).
		Return(nil, syncerr.HTTPStatus(http.StatusInternalServerError, ""))
	mockUC.EXPECT().UpdateLocation(gomock.Any(), testDriverID, gomock.Any()).Return(okAck, nil)

	sim.tick(context.Background(), d)

	assert.Equal(t, phaseTrip, d.phase)
}

func TestTransition_RetriesOnlyRetryableKinds(t *testing.T) {
	tests := []struct {
		name          string
		errs          []error
		expectedCalls int
		expectError   bool
	}{
		{
			name:          "server error then success",
			errs:          []error{syncerr.HTTPStatus(http.StatusServiceUnavailable, ""), nil},
			expectedCalls: 2,
		},
		{
			name:          "invalid transition is final",
			errs:          []error{syncerr.InvalidTransition("OFFLINE", "BUSY")},
			expectedCalls: 1,
			expectError:   true,
		},
		{
			name: "unreachable exhausts retries",
			errs: []error{
				syncerr.Unreachable(errors.New("refused")),
				syncerr.Unreachable(errors.New("refused")),
				syncerr.Unreachable(errors.New("refused")),
			},
			expectedCalls: 3,
			expectError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, mockUC := setupSimulator(t, testConfig())

			calls := 0
			mockUC.EXPECT().UpdateStatus(gomock.Any(), testDriverID, models.DriverStatusOnline).
				Times(tt.expectedCalls).
				DoAndReturn(func(context.Context, models.DriverID, models.DriverStatus) (*models.SyncAck, error) {
					err := tt.errs[calls]
					calls++
					if err != nil {
						return nil, err
					}
					return okAck, nil
				})

			err := sim.transition(context.Background(), testDriverID, models.DriverStatusOnline)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPublishLocation_BreakerStopsHammeringDeadBackend(t *testing.T) {
	sim, mockUC := setupSimulator(t, testConfig())
	d := sim.newDriverState(testDriverID)

	// BreakerFailures is 2; later ticks must not reach the client
	mockUC.EXPECT().UpdateLocation(gomock.Any(), testDriverID, gomock.Any()).
		Return(nil, syncerr.Unreachable(errors.New("refused"))).Times(2)

	for i := 0; i < 5; i++ {
		sim.publishLocation(context.Background(), d)
	}

	stats := sim.BreakerStats()
	require.Contains(t, stats, string(testDriverID))
	assert.Equal(t, circuitbreaker.StateOpen.String(), stats[string(testDriverID)].State)
}

func TestPublishLocation_RejectionsDoNotTripBreaker(t *testing.T) {
	sim, mockUC := setupSimulator(t, testConfig())
	d := sim.newDriverState(testDriverID)

	mockUC.EXPECT().UpdateLocation(gomock.Any(), testDriverID, gomock.Any()).
		Return(nil, syncerr.Superseded(1, 2)).Times(5)

	for i := 0; i < 5; i++ {
		sim.publishLocation(context.Background(), d)
	}

	assert.Equal(t, circuitbreaker.StateClosed.String(), sim.BreakerStats()[string(testDriverID)].State)
}

func TestRunDriver_Lifecycle(t *testing.T) {
	cfg := testConfig()
	cfg.Simulator.PassengerEvery = 0
	cfg.JWT = models.JWTConfig{Secret: "test-secret", Expiration: 5, Issuer: "test"}
	sim, mockUC := setupSimulator(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())

	gomock.InOrder(
		mockUC.EXPECT().StartSession(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, record models.DriverRecord) error {
				assert.Equal(t, testDriverID, record.DriverID)
				assert.Equal(t, "motorcycle", record.VehicleInfo["type"])

				claims, err := jwtpkg.ValidateToken(requestcontext.GetAuthToken(ctx), "test-secret")
				require.NoError(t, err)
				assert.Equal(t, string(testDriverID), claims.DriverID)
				return nil
			}),
		mockUC.EXPECT().UpdateStatus(gomock.Any(), testDriverID, models.DriverStatusOnline).Return(okAck, nil),
		mockUC.EXPECT().Status(testDriverID).Return(models.DriverStatusOnline, nil),
		mockUC.EXPECT().UpdateStatus(gomock.Any(), testDriverID, models.DriverStatusOffline).DoAndReturn(
			func(ctx context.Context, _ models.DriverID, _ models.DriverStatus) (*models.SyncAck, error) {
				// shutdown runs after the loop context ended
				assert.NoError(t, ctx.Err())
				return okAck, nil
			}),
		mockUC.EXPECT().EndSession(testDriverID),
	)

	ticks := 0
	mockUC.EXPECT().UpdateLocation(gomock.Any(), testDriverID, gomock.Any()).AnyTimes().DoAndReturn(
		func(context.Context, models.DriverID, models.GeoPosition) (*models.SyncAck, error) {
			ticks++
			if ticks == 3 {
				cancel()
			}
			return okAck, nil
		})

	err := sim.RunDriver(ctx, testDriverID)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, ticks, 3)
	assert.Empty(t, sim.BreakerStats())
}

func TestRunDriver_ReleasesAssignmentOnShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.Simulator.PassengerEvery = 0
	sim, mockUC := setupSimulator(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gomock.InOrder(
		mockUC.EXPECT().StartSession(gomock.Any(), gomock.Any()).Return(nil),
		mockUC.EXPECT().UpdateStatus(gomock.Any(), testDriverID, models.DriverStatusOnline).Return(okAck, nil),
		mockUC.EXPECT().Status(testDriverID).Return(models.DriverStatusBusy, nil),
		mockUC.EXPECT().UpdateStatus(gomock.Any(), testDriverID, models.DriverStatusOnline).Return(okAck, nil),
		mockUC.EXPECT().UpdateStatus(gomock.Any(), testDriverID, models.DriverStatusOffline).Return(okAck, nil),
		mockUC.EXPECT().EndSession(testDriverID),
	)
	mockUC.EXPECT().UpdateLocation(gomock.Any(), testDriverID, gomock.Any()).AnyTimes().DoAndReturn(
		func(context.Context, models.DriverID, models.GeoPosition) (*models.SyncAck, error) {
			cancel()
			return okAck, nil
		})

	require.NoError(t, sim.RunDriver(ctx, testDriverID))
}

func TestRunDriver_FailsWhenOnlineIsRejected(t *testing.T) {
	sim, mockUC := setupSimulator(t, testConfig())

	gomock.InOrder(
		mockUC.EXPECT().StartSession(gomock.Any(), gomock.Any()).Return(nil),
		mockUC.EXPECT().UpdateStatus(gomock.Any(), testDriverID, models.DriverStatusOnline).
			Return(nil, syncerr.HTTPStatus(http.StatusForbidden, "")),
		mockUC.EXPECT().EndSession(testDriverID),
	)

	err := sim.RunDriver(context.Background(), testDriverID)

	require.Error(t, err)
	assert.Equal(t, syncerr.KindClientError, syncerr.KindOf(err))
}

func TestRun_ValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Simulator.Drivers = 0
	sim, _ := setupSimulator(t, cfg)

	assert.Error(t, sim.Run(context.Background()))
}

func newFastRetrier(maxRetries int) *retry.Retrier {
	return retry.New(retry.Config{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
		Multiplier: 2,
	}, logger.NewNopLogger())
}
