package upload

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// Thumbnail generates a JPEG thumbnail for a stored image, constrained to
// thumbMaxWidth while preserving aspect ratio, written alongside the
// original as "<base>_thumb.jpg". Returns the thumbnail filename, or ""
// when the image is already small enough to serve directly.
func (s *Store) Thumbnail(stored string) (string, error) {
	path, err := s.Path(stored)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("thumbnail read: %w", err)
	}

	// Decode config first to check dimensions without a full decode.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("thumbnail decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return "", fmt.Errorf("thumbnail: image too large: %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Width <= thumbMaxWidth {
		return "", nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("thumbnail decode: %w", err)
	}

	// Scale preserving aspect ratio using CatmullRom (high quality).
	bounds := img.Bounds()
	ratio := float64(thumbMaxWidth) / float64(bounds.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, thumbMaxWidth, int(float64(bounds.Dy())*ratio)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return "", fmt.Errorf("thumbnail encode: %w", err)
	}

	ext := filepath.Ext(stored)
	thumbName := strings.TrimSuffix(stored, ext) + "_thumb.jpg"
	if err := os.WriteFile(filepath.Join(s.dir, thumbName), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("thumbnail write: %w", err)
	}

	return thumbName, nil
}
