package camera

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice simulates a webcam that may need warm-up reads before frames
// arrive.
type fakeDevice struct {
	framesBeforeReady int
	reads             int
	closes            int
	failClose         bool
}

func (f *fakeDevice) ReadFrame() (image.Image, bool) {
	f.reads++
	if f.reads <= f.framesBeforeReady {
		return nil, false
	}
	return image.NewRGBA(image.Rect(0, 0, 640, 480)), true
}

func (f *fakeDevice) Close() error {
	f.closes++
	if f.failClose {
		return errors.New("release failed")
	}
	return nil
}

func openerFor(devices ...*fakeDevice) (DeviceOpener, *int) {
	next := 0
	return func(int) (Device, error) {
		if next >= len(devices) {
			return nil, ErrDeviceUnavailable
		}
		d := devices[next]
		next++
		return d, nil
	}, &next
}

func TestOpenCaptureClose(t *testing.T) {
	device := &fakeDevice{}
	opener, _ := openerFor(device)
	m := NewManager(opener)

	session, err := m.Open(0)
	require.NoError(t, err)

	frame, err := m.Capture(session)
	require.NoError(t, err)
	assert.Equal(t, 640, frame.Bounds().Dx())

	m.Close(session)
	assert.Equal(t, 1, device.closes)
}

func TestOpenFailure(t *testing.T) {
	m := NewManager(func(int) (Device, error) {
		return nil, ErrPermissionDenied
	})

	_, err := m.Open(0)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestCaptureNotReady(t *testing.T) {
	// Device never produces a frame within warm-up or capture
	device := &fakeDevice{framesBeforeReady: 100}
	opener, _ := openerFor(device)
	m := NewManager(opener)

	session, err := m.Open(0)
	require.NoError(t, err)
	defer m.Close(session)

	_, err = m.Capture(session)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestCaptureAfterWarmup(t *testing.T) {
	// First three reads deliver nothing, then frames flow
	device := &fakeDevice{framesBeforeReady: 3}
	opener, _ := openerFor(device)
	m := NewManager(opener)

	session, err := m.Open(0)
	require.NoError(t, err)
	defer m.Close(session)

	_, err = m.Capture(session)
	assert.NoError(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	device := &fakeDevice{}
	opener, _ := openerFor(device)
	m := NewManager(opener)

	session, err := m.Open(0)
	require.NoError(t, err)

	m.Close(session)
	m.Close(session)
	m.Close(session)
	assert.Equal(t, 1, device.closes, "device released exactly once")

	_, err = m.Capture(session)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestReopenClosesPriorSession(t *testing.T) {
	first := &fakeDevice{}
	second := &fakeDevice{}
	opener, _ := openerFor(first, second)
	m := NewManager(opener)

	s1, err := m.Open(0)
	require.NoError(t, err)

	s2, err := m.Open(0)
	require.NoError(t, err)

	assert.Equal(t, 1, first.closes, "prior session must be released before reopening")
	assert.Equal(t, 0, second.closes)

	_, err = m.Capture(s1)
	assert.ErrorIs(t, err, ErrSessionClosed)

	_, err = m.Capture(s2)
	assert.NoError(t, err)

	m.Close(s2)
}

func TestShutdownReleasesActiveSession(t *testing.T) {
	device := &fakeDevice{}
	opener, _ := openerFor(device)
	m := NewManager(opener)

	_, err := m.Open(0)
	require.NoError(t, err)

	m.Shutdown()
	assert.Equal(t, 1, device.closes)

	// Shutdown with nothing live is a no-op
	m.Shutdown()
	assert.Equal(t, 1, device.closes)
}

func TestCaptureNilSession(t *testing.T) {
	m := NewManager(func(int) (Device, error) { return &fakeDevice{}, nil })
	_, err := m.Capture(nil)
	assert.ErrorIs(t, err, ErrSessionClosed)
}
