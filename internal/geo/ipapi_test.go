package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPLocatorSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","lat":52.52,"lon":13.405}`))
	}))
	defer server.Close()

	loc, err := NewIPLocator(server.URL).CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 52.52, loc.Lat, 0.001)
	assert.InDelta(t, 13.405, loc.Lon, 0.001)
}

func TestIPLocatorServiceFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer server.Close()

	_, err := NewIPLocator(server.URL).CurrentPosition(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestIPLocatorHTTPStatuses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "forbidden maps to permission denied", status: http.StatusForbidden, wantErr: ErrPermissionDenied},
		{name: "server error maps to unavailable", status: http.StatusInternalServerError, wantErr: ErrUnavailable},
		{name: "rate limited maps to unavailable", status: http.StatusTooManyRequests, wantErr: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewIPLocator(server.URL).CurrentPosition(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIPLocatorMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := NewIPLocator(server.URL).CurrentPosition(context.Background())
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestStaticLocator(t *testing.T) {
	loc, err := StaticLocator{Lat: 34.05, Lon: -118.24}.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 34.05, loc.Lat)
	assert.Equal(t, -118.24, loc.Lon)
}
