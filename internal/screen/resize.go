// ABOUTME: Aspect-preserving image resize to the grounding-space canvas, never upsampling
// ABOUTME: Adapted from the teacher's image resize pipeline; CatmullRom scaling only, no JPEG-size fallback loop

package screen

import (
	"bytes"
	"fmt"
	stdimage "image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Resize scales data to fit within maxW x maxH, preserving aspect ratio and
// never upsampling past the source's own dimensions. Returns the resized
// PNG bytes and final dimensions.
func Resize(data []byte, maxW, maxH int) ([]byte, int, int, error) {
	img, _, err := stdimage.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decoding screenshot: %w", err)
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	targetW, targetH := fitDimensions(srcW, srcH, maxW, maxH)
	if targetW >= srcW && targetH >= srcH {
		// Never upsample: return the source unchanged.
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, 0, 0, fmt.Errorf("encoding screenshot: %w", err)
		}
		return buf.Bytes(), srcW, srcH, nil
	}

	dst := stdimage.NewRGBA(stdimage.Rect(0, 0, targetW, targetH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, 0, 0, fmt.Errorf("encoding resized screenshot: %w", err)
	}
	return buf.Bytes(), targetW, targetH, nil
}

// fitDimensions computes the largest w,h that fit within maxW x maxH while
// preserving src's aspect ratio.
func fitDimensions(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= maxW && srcH <= maxH {
		return srcW, srcH
	}
	ratio := float64(srcW) / float64(srcH)
	w, h := maxW, int(float64(maxW)/ratio)
	if h > maxH {
		h = maxH
		w = int(float64(maxH) * ratio)
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
