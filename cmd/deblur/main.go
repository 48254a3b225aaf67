// Command deblur restores an image degraded by a known motion or defocus blur
// using Wiener deconvolution.
//
// Usage:
//
//	deblur [flags] -in blurred.png -out restored.png
//
// The blur is described by a diameter (smear length or disk diameter in
// pixels), an angle in degrees for motion blur, and a signal-to-noise ratio
// in dB controlling how aggressively the inverse filter is applied.
//
// Examples:
//
//	deblur -angle 135 -d 22 -in licenseplate_motion.jpg -out restored.png
//	deblur -angle 86 -d 31 -in text_motion.jpg -out restored.png
//	deblur -circle -d 19 -in text_defocus.png -out restored.png -psf kernel.png
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"time"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/cwbudde/algo-deblur/restore/core"
	"github.com/cwbudde/algo-deblur/restore/deconv"
	"github.com/cwbudde/algo-deblur/restore/plane"
	"github.com/cwbudde/algo-deblur/restore/wiener"
)

func main() {
	var (
		inPath   = flag.String("in", "", "input image (png, jpeg, gif, bmp, tiff)")
		outPath  = flag.String("out", "restored.png", "output image (png)")
		psfPath  = flag.String("psf", "", "optional kernel preview output (png)")
		circle   = flag.Bool("circle", false, "use the circular defocus model instead of motion")
		angleDeg = flag.Float64("angle", 135, "motion blur angle in degrees [0,180)")
		diameter = flag.Int("d", 22, "blur diameter in pixels")
		snrDB    = flag.Float64("snr", 25, "signal-to-noise ratio in dB")
		colorize = flag.Bool("color", false, "restore each RGB channel instead of grayscale")
		resize   = flag.Bool("resize", false, "resize the input to 640x480 before restoring")
		roiSpec  = flag.String("roi", "", "region of interest to restore as x,y,w,h (default full frame)")
		debug    = flag.Bool("debug", false, "enable verbose logging")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: deblur [flags] -in <image> -out <image>\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := initLogger(*debug)

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	params := deconv.Params{
		Model:      deconv.Motion,
		Angle:      degToRad(*angleDeg),
		Diameter:   *diameter,
		NoiseLevel: wiener.NoiseLevelFromSNR(*snrDB),
	}
	if *circle {
		params.Model = deconv.Defocus
	}

	roi, err := parseROI(*roiSpec)
	if err != nil {
		logger.WithError(err).Fatal("invalid -roi")
	}

	if err := run(logger, *inPath, *outPath, *psfPath, params, roi, *colorize, *resize); err != nil {
		logger.WithError(err).Fatal("restoration failed")
	}
}

// roiRect is a region of interest in pixel coordinates.
type roiRect struct {
	x, y, w, h int
}

// parseROI parses "x,y,w,h"; an empty spec selects the full frame.
func parseROI(spec string) (*roiRect, error) {
	if spec == "" {
		return nil, nil
	}

	var r roiRect
	if _, err := fmt.Sscanf(spec, "%d,%d,%d,%d", &r.x, &r.y, &r.w, &r.h); err != nil {
		return nil, fmt.Errorf("parse %q: %w", spec, err)
	}
	if r.w <= 0 || r.h <= 0 {
		return nil, fmt.Errorf("parse %q: width and height must be positive", spec)
	}
	return &r, nil
}

// applyROI crops p to the region, or returns p unchanged for a nil region.
func applyROI(p *plane.Plane, roi *roiRect) (*plane.Plane, error) {
	if roi == nil {
		return p, nil
	}
	return p.Crop(roi.x, roi.y, roi.w, roi.h)
}

func initLogger(debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

func run(logger *logrus.Logger, inPath, outPath, psfPath string, params deconv.Params, roi *roiRect, colorize, resize bool) error {
	src, err := loadImage(inPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", inPath, err)
	}

	if resize {
		src = scaleTo(src, 640, 480)
	}

	bounds := src.Bounds()
	logger.WithFields(logrus.Fields{
		"input":    inPath,
		"width":    bounds.Dx(),
		"height":   bounds.Dy(),
		"model":    params.Model,
		"diameter": params.Diameter,
		"angle":    params.Angle,
		"snr_db":   -core.LinearPowerToDB(params.NoiseLevel),
		"color":    colorize,
	}).Info("restoring")

	start := time.Now()

	var (
		out    image.Image
		kernel *plane.Plane
	)
	if colorize {
		out, kernel, err = restoreColor(src, params, roi)
	} else {
		out, kernel, err = restoreGray(src, params, roi)
	}
	if err != nil {
		return err
	}

	logger.WithField("elapsed", time.Since(start)).Debug("restoration complete")

	if psfPath != "" {
		if err := writePNG(psfPath, kernelPreview(kernel)); err != nil {
			return fmt.Errorf("write %s: %w", psfPath, err)
		}
		logger.WithField("psf", psfPath).Debug("wrote kernel preview")
	}

	if err := writePNG(outPath, out); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	logger.WithField("output", outPath).Info("done")
	return nil
}

func restoreGray(src image.Image, params deconv.Params, roi *roiRect) (image.Image, *plane.Plane, error) {
	p, err := applyROI(grayPlane(src), roi)
	if err != nil {
		return nil, nil, err
	}

	res, err := deconv.Restore(p, params)
	if err != nil {
		return nil, nil, err
	}
	return planeToGray(res.Image), res.Kernel, nil
}

// restoreColor runs the single-channel pipeline once per RGB channel; the
// channels share no state.
func restoreColor(src image.Image, params deconv.Params, roi *roiRect) (image.Image, *plane.Plane, error) {
	channels := channelPlanes(src)

	var (
		restored [3]*plane.Plane
		kernel   *plane.Plane
	)
	for i, ch := range channels {
		p, err := applyROI(ch, roi)
		if err != nil {
			return nil, nil, err
		}

		res, err := deconv.Restore(p, params)
		if err != nil {
			return nil, nil, err
		}
		restored[i] = res.Image
		kernel = res.Kernel
	}
	return planesToRGBA(restored), kernel, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

func scaleTo(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// grayPlane converts src to a single luma plane in [0,1].
func grayPlane(src image.Image) *plane.Plane {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	data := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			luma := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			data[y*w+x] = luma / 65535
		}
	}

	p, _ := plane.FromData(w, h, data)
	return p
}

func channelPlanes(src image.Image) [3]*plane.Plane {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var data [3][]float64
	for i := range data {
		data[i] = make([]float64, w*h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			data[0][y*w+x] = float64(r) / 65535
			data[1][y*w+x] = float64(g) / 65535
			data[2][y*w+x] = float64(b) / 65535
		}
	}

	var out [3]*plane.Plane
	for i := range out {
		out[i], _ = plane.FromData(w, h, data[i])
	}
	return out
}

// planeToGray clamps samples to [0,1] for display.
func planeToGray(p *plane.Plane) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.W, p.H))
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			img.SetGray(x, y, color.Gray{Y: toByte(p.At(x, y))})
		}
	}
	return img
}

func planesToRGBA(p [3]*plane.Plane) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p[0].W, p[0].H))
	for y := 0; y < p[0].H; y++ {
		for x := 0; x < p[0].W; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(p[0].At(x, y)),
				G: toByte(p[1].At(x, y)),
				B: toByte(p[2].At(x, y)),
				A: 255,
			})
		}
	}
	return img
}

// kernelPreview renders the normalized kernel as a grayscale image, scaled so
// its brightest sample is white.
func kernelPreview(k *plane.Plane) *image.Gray {
	peak := 0.0
	for _, v := range k.Data {
		if v > peak {
			peak = v
		}
	}

	img := image.NewGray(image.Rect(0, 0, k.W, k.H))
	if peak == 0 {
		return img
	}
	for y := 0; y < k.H; y++ {
		for x := 0; x < k.W; x++ {
			img.SetGray(x, y, color.Gray{Y: toByte(k.At(x, y) / peak)})
		}
	}
	return img
}

func toByte(v float64) uint8 {
	return uint8(math.Round(core.Clamp(v, 0, 1) * 255))
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

// degToRad maps degrees onto the kernel synthesizer's [0, pi) domain.
func degToRad(deg float64) float64 {
	deg = math.Mod(deg, 180)
	if deg < 0 {
		deg += 180
	}
	return deg * math.Pi / 180
}
