// Package imaging converts raw images into transport encodings and produces
// the downsized derivatives committed to history.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoding
	"image/jpeg"
	_ "image/png" // register PNG decoding

	"github.com/ecosnap/ecosnap/internal/common"
)

// fullQuality is the fixed JPEG quality factor for camera captures.
const fullQuality = 92

// TransportImage is an encoded image suitable for classifier submission,
// display, or storage.
type TransportImage struct {
	Data []byte `json:"data"`
	MIME string `json:"mime"`
}

// Empty reports whether the image carries no data.
func (t TransportImage) Empty() bool {
	return len(t.Data) == 0
}

// EncodeFile normalizes an uploaded file into a transport encoding. The
// original container is preserved. Input that is not recognizable image data
// fails with common.ErrNotImage.
func EncodeFile(raw []byte) (TransportImage, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return TransportImage{}, fmt.Errorf("%w: %v", common.ErrNotImage, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return TransportImage{}, fmt.Errorf("%w: zero-dimension image", common.ErrNotImage)
	}

	data := make([]byte, len(raw))
	copy(data, raw)

	return TransportImage{
		Data: data,
		MIME: "image/" + format,
	}, nil
}

// EncodeFrame encodes a camera frame as JPEG at the fixed quality factor.
func EncodeFrame(frame image.Image) (TransportImage, error) {
	if frame == nil {
		return TransportImage{}, fmt.Errorf("%w: nil frame", common.ErrNotImage)
	}
	bounds := frame.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return TransportImage{}, fmt.Errorf("%w: zero-dimension frame", common.ErrNotImage)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: fullQuality}); err != nil {
		return TransportImage{}, fmt.Errorf("failed to encode frame: %w", err)
	}

	return TransportImage{
		Data: buf.Bytes(),
		MIME: "image/jpeg",
	}, nil
}
