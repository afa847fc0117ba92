package imageclassify

import (
	"image"
	"image/color"
)

// solidImage builds a uniform-color raster: the degenerate case with
// zero entropy, one distinct color, and no edges.
func solidImage(w, h int, grey uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: grey})
		}
	}
	return img
}

// greyUniformColorfulImage cycles through three colors chosen so each
// truncates to the same BT.601 grey value (29) despite spanning
// distinct channels: a single-bin greyscale histogram (zero entropy
// under that histogram) paired with a spread-out per-channel RGB
// histogram. Exercises the distinction between the two histograms
// computeStats builds.
func greyUniformColorfulImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	palette := []color.RGBA{
		{R: 100, G: 0, B: 0, A: 0xFF},
		{R: 0, G: 50, B: 0, A: 0xFF},
		{R: 0, G: 0, B: 255, A: 0xFF},
	}
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, palette[i%len(palette)])
			i++
		}
	}
	return img
}

// noisyImage builds a pseudo-random high-entropy raster using a
// simple linear congruential sequence, deliberately avoiding
// math/rand so the fixture is reproducible without a seed call.
func noisyImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	state := uint32(0x2545F491)
	next := func() uint32 {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		return state
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := next()
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(v),
				G: uint8(v >> 8),
				B: uint8(v >> 16),
				A: 0xFF,
			})
		}
	}
	return img
}
