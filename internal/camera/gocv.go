package camera

import (
	"fmt"
	"image"
	"strings"

	"gocv.io/x/gocv"
)

// OpenDevice acquires an environment-facing camera through OpenCV. It is the
// production DeviceOpener.
func OpenDevice(deviceID int) (Device, error) {
	vc, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "permission") {
			return nil, fmt.Errorf("%w: device %d: %v", ErrPermissionDenied, deviceID, err)
		}
		return nil, fmt.Errorf("%w: device %d: %v", ErrDeviceUnavailable, deviceID, err)
	}
	if !vc.IsOpened() {
		_ = vc.Close()
		return nil, fmt.Errorf("%w: device %d", ErrDeviceUnavailable, deviceID)
	}

	return &gocvDevice{
		capture: vc,
		mat:     gocv.NewMat(),
	}, nil
}

// gocvDevice wraps a gocv VideoCapture as a Device.
type gocvDevice struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

func (d *gocvDevice) ReadFrame() (image.Image, bool) {
	if !d.capture.Read(&d.mat) || d.mat.Empty() {
		return nil, false
	}

	frame, err := d.mat.ToImage()
	if err != nil {
		return nil, false
	}
	return frame, true
}

func (d *gocvDevice) Close() error {
	matErr := d.mat.Close()
	capErr := d.capture.Close()
	if capErr != nil {
		return capErr
	}
	return matErr
}
