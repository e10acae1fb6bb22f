package faces

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// maxUploadSize is the maximum dimension (width or height) sent to the
// face-embedding service. Larger images are downscaled first.
const maxUploadSize = 1600

// downscaleIfNeeded resizes oversized images before upload. Images that
// cannot be decoded are passed through unchanged; the service may still
// handle formats the standard decoders do not.
func downscaleIfNeeded(data []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxUploadSize && height <= maxUploadSize {
		return data
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxUploadSize
		newHeight = height * maxUploadSize / width
	} else {
		newHeight = maxUploadSize
		newWidth = width * maxUploadSize / height
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return data
	}
	return buf.Bytes()
}
