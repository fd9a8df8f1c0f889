package paint

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	_ "image/png"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"gymforge/internal/curve"
	"gymforge/internal/events"
)

const jpegQuality = 90

// compositor renders stroke overlays onto captured reference frames.
// Strokes accumulate on a half-resolution overlay that is scaled back
// up with nearest-neighbor filtering when composing, giving synthetic
// frames the slightly blocky linework of a downscaled capture.
type compositor struct {
	dataDir string
	frames  map[string]image.Image

	base    image.Image
	overlay *gg.Context
	smooth  *curve.BSpline
	samples int
}

// newCompositor creates a compositor loading frames relative to
// dataDir. A non-nil spline smooths strokes before rasterizing them,
// evaluating each at samples points.
func newCompositor(dataDir string, smooth *curve.BSpline, samples int) *compositor {
	return &compositor{
		dataDir: dataDir,
		frames:  make(map[string]image.Image),
		smooth:  smooth,
		samples: samples,
	}
}

func (c *compositor) loadFrame(relPath string) (image.Image, error) {
	if cached, ok := c.frames[relPath]; ok {
		return cached, nil
	}
	file, err := os.Open(filepath.Join(c.dataDir, relPath))
	if err != nil {
		return nil, fmt.Errorf("open frame %s: %w", relPath, err)
	}
	defer file.Close()

	decoded, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", relPath, err)
	}
	c.frames[relPath] = decoded
	return decoded, nil
}

// setBase switches the reference frame. The overlay is created on
// first use at half the frame size and persists across base switches
// so a drawing stays visible while menus open over it.
func (c *compositor) setBase(relPath string) error {
	frame, err := c.loadFrame(relPath)
	if err != nil {
		return err
	}
	c.base = frame

	if c.overlay == nil {
		bounds := frame.Bounds()
		c.overlay = gg.NewContext(bounds.Dx()/2, bounds.Dy()/2)
		c.configureStroke()
	}
	return nil
}

func (c *compositor) configureStroke() {
	c.overlay.SetRGB(0, 0, 0)
	c.overlay.SetLineWidth(1)
	c.overlay.SetLineCapRound()
	c.overlay.SetLineJoinRound()
}

// clear wipes the overlay, leaving the base frame untouched.
func (c *compositor) clear() {
	if c.overlay == nil {
		return
	}
	c.overlay.SetRGBA(0, 0, 0, 0)
	c.overlay.Clear()
	c.configureStroke()
}

// drawStroke rasterizes a stroke path onto the overlay at half scale.
func (c *compositor) drawStroke(points []events.TrajectoryPoint) {
	if c.overlay == nil || len(points) < 2 {
		return
	}

	scaled := make([]curve.Vec2, 0, len(points))
	for _, p := range points {
		scaled = append(scaled, curve.Vec2{X: float64(p.X) / 2, Y: float64(p.Y) / 2})
	}
	if c.smooth != nil {
		scaled = c.smooth.Curve(scaled, c.samples)
	}

	c.overlay.MoveTo(scaled[0].X, scaled[0].Y)
	for _, p := range scaled[1:] {
		c.overlay.LineTo(p.X, p.Y)
	}
	c.overlay.Stroke()
}

// compose renders the current base frame with the overlay scaled back
// to full resolution and returns the result as JPEG bytes.
func (c *compositor) compose() ([]byte, error) {
	if c.base == nil {
		return nil, fmt.Errorf("compose: no base frame set")
	}

	bounds := c.base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(out, out.Bounds(), c.base, bounds.Min, xdraw.Src)

	if c.overlay != nil {
		overlayImage := c.overlay.Image()
		xdraw.NearestNeighbor.Scale(out, out.Bounds(), overlayImage, overlayImage.Bounds(), xdraw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}
