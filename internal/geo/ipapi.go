package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ecosnap/ecosnap/internal/model"
)

// defaultEndpoint is the public IP geolocation service.
const defaultEndpoint = "http://ip-api.com/json"

// IPLocator approximates the device position from its public IP address.
type IPLocator struct {
	httpClient *http.Client
	endpoint   string
}

// NewIPLocator creates an IP-based locator. An empty endpoint selects the
// default service.
func NewIPLocator(endpoint string) *IPLocator {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	return &IPLocator{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ipAPIResponse is the ip-api.com JSON shape.
type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentPosition resolves the approximate coordinates of the caller.
func (l *IPLocator) CurrentPosition(ctx context.Context) (model.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint, nil)
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: %v", ErrUnknown, err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return model.Location{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return model.Location{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusForbidden {
		return model.Location{}, fmt.Errorf("%w: status %d", ErrPermissionDenied, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return model.Location{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Location{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var parsed ipAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.Location{}, fmt.Errorf("%w: %v", ErrUnknown, err)
	}
	if parsed.Status != "success" {
		return model.Location{}, fmt.Errorf("%w: %s", ErrUnavailable, parsed.Message)
	}

	return model.Location{Lat: parsed.Lat, Lon: parsed.Lon}, nil
}
