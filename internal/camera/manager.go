// Package camera owns the camera device resource: acquisition, frame
// snapshot, and guaranteed release.
package camera

import (
	"image"
	"log/slog"
	"sync"
)

// Device abstracts the underlying camera driver.
type Device interface {
	// ReadFrame grabs the next frame. ok is false while the stream has not
	// buffered a full frame yet.
	ReadFrame() (frame image.Image, ok bool)
	Close() error
}

// DeviceOpener acquires exclusive access to a device by id.
type DeviceOpener func(deviceID int) (Device, error)

// warmupAttempts bounds the reads used to establish readiness on open;
// webcams commonly deliver nothing while exposure settles.
const warmupAttempts = 5

// Session is the ephemeral handle to one live device stream. It exists
// between Open and either a capture-and-close or Close, and is always
// released on both paths.
type Session struct {
	device    Device
	ready     bool
	closeOnce sync.Once
	closed    bool
}

// Manager enforces the single-owner invariant over the camera resource: at
// most one live session exists at a time.
type Manager struct {
	mu      sync.Mutex
	open    DeviceOpener
	current *Session
}

// NewManager creates a Manager using the given opener.
func NewManager(open DeviceOpener) *Manager {
	return &Manager{open: open}
}

// Open acquires the camera. A still-open prior session is closed first, so
// two live device handles can never coexist.
func (m *Manager) Open(deviceID int) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && !m.current.closed {
		slog.Debug("Closing previous camera session before reopening")
		m.closeLocked(m.current)
	}

	device, err := m.open(deviceID)
	if err != nil {
		return nil, err
	}

	session := &Session{device: device}
	for i := 0; i < warmupAttempts; i++ {
		if _, ok := device.ReadFrame(); ok {
			session.ready = true
			break
		}
	}

	m.current = session
	return session, nil
}

// Capture takes a still frame from a ready stream.
func (m *Manager) Capture(session *Session) (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session == nil || session.closed {
		return nil, ErrSessionClosed
	}

	frame, ok := session.device.ReadFrame()
	if !ok {
		if !session.ready {
			return nil, ErrNotReady
		}
		return nil, ErrDeviceUnavailable
	}

	session.ready = true
	return frame, nil
}

// Close releases the session's device. Idempotent; safe on error paths and
// teardown.
func (m *Manager) Close(session *Session) {
	if session == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked(session)
}

// Shutdown releases whatever session is still live. Called on component
// teardown.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.closeLocked(m.current)
	}
}

func (m *Manager) closeLocked(session *Session) {
	session.closeOnce.Do(func() {
		session.closed = true
		if err := session.device.Close(); err != nil {
			slog.Warn("Failed to release camera device", "error", err)
		}
	})
	if m.current == session {
		m.current = nil
	}
}
