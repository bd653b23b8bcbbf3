package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"
)

// Thumbnail bounds and quality; the history store only ever holds images at
// this size.
const (
	MaxThumbWidth  = 120
	MaxThumbHeight = 120
	thumbQuality   = 60
)

// placeholderB64 is a 1x1 transparent GIF.
const placeholderB64 = "R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"

var placeholderData, _ = base64.StdEncoding.DecodeString(placeholderB64)

// Placeholder returns the fixed 1x1 transparent image substituted for any
// thumbnail that cannot be produced.
func Placeholder() TransportImage {
	data := make([]byte, len(placeholderData))
	copy(data, placeholderData)
	return TransportImage{Data: data, MIME: "image/gif"}
}

// IsPlaceholder reports whether t is the fixed placeholder image.
func IsPlaceholder(t TransportImage) bool {
	return t.MIME == "image/gif" && bytes.Equal(t.Data, placeholderData)
}

// Thumbnail downsizes src preserving aspect ratio: the larger dimension is
// clamped to its bound and the other scaled proportionally, rounded, floored
// at 1px. It never fails: any decode or encode problem yields the
// placeholder instead, so callers need no error handling.
func Thumbnail(src TransportImage) TransportImage {
	if src.Empty() {
		return Placeholder()
	}

	img, _, err := image.Decode(bytes.NewReader(src.Data))
	if err != nil {
		return Placeholder()
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return Placeholder()
	}

	width, height = fitDimensions(width, height)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err == nil {
		return TransportImage{Data: buf.Bytes(), MIME: "image/jpeg"}
	}

	buf.Reset()
	if err := png.Encode(&buf, dst); err == nil {
		return TransportImage{Data: buf.Bytes(), MIME: "image/png"}
	}

	return Placeholder()
}

// fitDimensions clamps the larger dimension to its bound and scales the
// other proportionally.
func fitDimensions(width, height int) (int, int) {
	if width > height {
		if width > MaxThumbWidth {
			height = int(math.Round(float64(height) * MaxThumbWidth / float64(width)))
			width = MaxThumbWidth
		}
	} else {
		if height > MaxThumbHeight {
			width = int(math.Round(float64(width) * MaxThumbHeight / float64(height)))
			height = MaxThumbHeight
		}
	}

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}
