package geometry

import (
	"fmt"
	"image"
	"os"

	_ "image/jpeg"
	_ "image/png"
)

// ValidateSquareImage checks the pre-flight precondition that the background
// image is square, without decoding pixel data. Non-square images are a fatal
// input error: coordinate math is undefined for them, so they are rejected
// before any transform is constructed.
//
// Postcondition: returns the image side length in pixels, or a non-nil error
// with an actionable message.
func ValidateSquareImage(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening background image %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return 0, fmt.Errorf("decoding background image %s: %w", path, err)
	}
	if cfg.Width != cfg.Height {
		return 0, fmt.Errorf(
			"background image %s is %dx%d (%s): a square image is required for world/pixel mapping",
			path, cfg.Width, cfg.Height, format,
		)
	}
	return cfg.Width, nil
}
