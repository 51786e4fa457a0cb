package ai

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// downscaleImage shrinks an image so its longest edge is at most maxSize
// before it gets base64-encoded into the API request. Bytes that don't decode
// as a known image format are returned untouched and sent as-is.
func downscaleImage(data []byte, maxSize int) []byte {
	if maxSize <= 0 {
		return data
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxSize && bounds.Dy() <= maxSize {
		return data
	}

	thumb := resize.Thumbnail(uint(maxSize), uint(maxSize), img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return data
	}
	return buf.Bytes()
}
