package gateway_http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	httpclient "github.com/piresc/nebengjek-driver/internal/pkg/http"
	"github.com/piresc/nebengjek-driver/internal/pkg/logger"
	"github.com/piresc/nebengjek-driver/internal/pkg/models"
	"github.com/piresc/nebengjek-driver/internal/pkg/syncerr"
)

// Paths are the endpoint templates of the coordination service.
// A template may contain {id}, replaced with the escaped driver ID.
type Paths struct {
	Location  string
	Status    string
	Passenger string
}

// PathsFromConfig reads the endpoint templates from the driver API config
func PathsFromConfig(cfg models.DriverAPIConfig) Paths {
	return Paths{
		Location:  cfg.LocationPath,
		Status:    cfg.StatusPath,
		Passenger: cfg.PassengerPath,
	}
}

// HTTPGateway implements driver.DriverGW over the shared transport
type HTTPGateway struct {
	client *httpclient.Client
	paths  Paths
}

// NewHTTPGateway creates a new HTTP gateway for the driver service
func NewHTTPGateway(client *httpclient.Client, paths Paths) *HTTPGateway {
	return &HTTPGateway{
		client: client,
		paths:  paths,
	}
}

// UpdateLocation publishes one location sample
func (g *HTTPGateway) UpdateLocation(ctx context.Context, driverID models.DriverID, pos models.GeoPosition) (*models.SyncAck, error) {
	resp, err := g.client.Post(ctx, expandPath(g.paths.Location, driverID), models.NewLocationUpdate(driverID, pos))
	if err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return &models.SyncAck{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// UpdateStatus sends the driver record carrying the target status
func (g *HTTPGateway) UpdateStatus(ctx context.Context, record models.DriverRecord) (*models.SyncAck, error) {
	resp, err := g.client.Post(ctx, expandPath(g.paths.Status, record.DriverID), record)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	return &models.SyncAck{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// RequestPassenger asks for a nearby passenger and decodes the coordinates
func (g *HTTPGateway) RequestPassenger(ctx context.Context, req models.PassengerRequest) (*models.PassengerRequestResult, error) {
	resp, err := g.client.Post(ctx, expandPath(g.paths.Passenger, req.DriverID), req)
	if err != nil {
		return nil, fmt.Errorf("failed to request passenger: %w", err)
	}

	result, err := decodePassenger(resp.Body)
	if err != nil {
		logger.WarnCtx(ctx, "Undecodable passenger response",
			logger.String("driver_id", string(req.DriverID)),
			logger.Int("status_code", resp.StatusCode),
			logger.Err(err))
		// the service answered 2xx but broke the contract
		return nil, &syncerr.SyncError{
			Kind:       syncerr.KindServerError,
			StatusCode: resp.StatusCode,
			Detail:     err.Error(),
			Err:        err,
		}
	}
	return result, nil
}

// decodePassenger requires numeric lat and lng; every other field lands in Metadata
func decodePassenger(body []byte) (*models.PassengerRequestResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("invalid passenger response: %w", err)
	}

	lat, err := coordinate(fields, "lat")
	if err != nil {
		return nil, err
	}
	lng, err := coordinate(fields, "lng")
	if err != nil {
		return nil, err
	}

	metadata := make(map[string]interface{}, len(fields))
	for key, raw := range fields {
		if key == "lat" || key == "lng" {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err == nil {
			metadata[key] = v
		}
	}

	return &models.PassengerRequestResult{
		Latitude:  lat,
		Longitude: lng,
		Metadata:  metadata,
		Raw:       json.RawMessage(bytes.Clone(body)),
	}, nil
}

func coordinate(fields map[string]json.RawMessage, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("invalid passenger response: missing %s", key)
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("invalid passenger response: %s is not a number", key)
	}
	return v, nil
}

func expandPath(template string, driverID models.DriverID) string {
	return strings.ReplaceAll(template, "{id}", url.PathEscape(string(driverID)))
}
