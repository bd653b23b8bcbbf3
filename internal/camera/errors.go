package camera

import "errors"

// Camera resource errors.
var (
	// ErrPermissionDenied indicates the OS refused access to the device.
	ErrPermissionDenied = errors.New("camera access denied")
	// ErrDeviceUnavailable covers every other acquisition failure.
	ErrDeviceUnavailable = errors.New("camera device unavailable")
	// ErrNotReady indicates capture was requested before the stream produced
	// a full frame.
	ErrNotReady = errors.New("camera stream not ready")
	// ErrSessionClosed indicates the session has already been released.
	ErrSessionClosed = errors.New("camera session closed")
)
