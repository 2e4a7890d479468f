package preview

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
)

// ImageMeta is what the pane shows for an image: dimensions and the decoded
// format name.
type ImageMeta struct {
	Width  int
	Height int
	Format string
}

// AspectRatio renders the dimensions as a display ratio like "16:9",
// snapping to the common photo and screen ratios before falling back to the
// reduced fraction.
func (m *ImageMeta) AspectRatio() string {
	if m == nil || m.Width <= 0 || m.Height <= 0 {
		return ""
	}
	ratio := float64(m.Width) / float64(m.Height)
	common := [][2]int{
		{16, 9}, {4, 3}, {3, 2}, {21, 9}, {1, 1}, {9, 16}, {3, 4}, {2, 3},
	}
	for _, c := range common {
		if math.Abs(ratio-float64(c[0])/float64(c[1])) < 0.02 {
			return fmt.Sprintf("%d:%d", c[0], c[1])
		}
	}
	d := gcd(m.Width, m.Height)
	return fmt.Sprintf("%d:%d", m.Width/d, m.Height/d)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// loadImage decodes only the image header. It runs on a worker goroutine;
// the result replaces the loading placeholder once CheckBackground collects
// it.
func loadImage(path string) *Content {
	f, err := os.Open(path)
	if err != nil {
		return &Content{Kind: KindError, Err: err.Error()}
	}
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return &Content{
			Kind: KindError,
			Err:  fmt.Sprintf("cannot decode %s: %v", filepath.Base(path), err),
		}
	}

	c := &Content{
		Kind:      KindImage,
		Extension: pathExtension(path),
		Image:     &ImageMeta{Width: cfg.Width, Height: cfg.Height, Format: format},
		Meta:      readMeta(path),
	}
	if c.Meta != nil {
		c.Size = c.Meta.Size
	}
	return c
}
