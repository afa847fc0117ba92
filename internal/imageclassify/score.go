package imageclassify

import (
	"image"
	"image/color"
	"math"

	"github.com/trantaidat7388-dot/word2latex/internal/config"
)

// stats are the raw pixel-level measurements stage 2 scores.
type stats struct {
	entropy        float64
	distinctColors int
	edgeMean       float64
	greyVariance   float64
	histogramPeaks int
	dominantRatio  float64
}

// Score computes the pixel-statistics score for an already-decoded
// image, per spec.md §4.D's table. Higher is more likely real content.
func Score(img image.Image) int {
	s := computeStats(img)

	score := 0
	switch {
	case s.entropy >= 5.0:
		score += 3
	case s.entropy >= 4.0:
		score += 2
	case s.entropy >= 3.0:
		score += 1
	}

	switch {
	case s.distinctColors >= 1000:
		score += 3
	case s.distinctColors >= 200:
		score += 2
	case s.distinctColors >= 50:
		score += 1
	}

	switch {
	case s.edgeMean >= 20:
		score += 2
	case s.edgeMean >= 10:
		score += 1
	}

	switch {
	case s.greyVariance >= 2000:
		score += 2
	case s.greyVariance >= 500:
		score += 1
	}

	if s.histogramPeaks >= 5 {
		score++
	}
	if s.dominantRatio < 0.5 {
		score++
	}

	return score
}

// IsContent runs stage 2 of the classifier: true means the image
// scores as real content, not decoration.
func IsContent(img image.Image, cfg config.Config) bool {
	return Score(img) >= cfg.ImageContentScoreThreshold
}

// computeStats builds the greyscale histogram once for the shape-based
// features (variance, peaks, dominant ratio, edges), following
// xu_ly_anh.py's grey-converted helpers (tinh_do_phuc_tap_anh,
// phan_tich_histogram), but keeps a separate per-channel RGB histogram
// for entropy: tinh_entropy_anh runs PIL's .histogram() on the
// un-converted image, which for RGB input returns the three per-channel
// 256-bin histograms concatenated into 768 bins. Collapsing that into
// the single-channel grey histogram understates entropy for colorful
// images whose luma happens to cluster.
func computeStats(img image.Image) stats {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return stats{}
	}

	var grey [256]int
	var rgbHist [768]int // bins [0,256) = R, [256,512) = G, [512,768) = B
	distinct := map[color.RGBA]struct{}{}
	grey8 := make([][]uint8, h)

	var sum, sumSq float64
	n := float64(w * h)

	for y := 0; y < h; y++ {
		grey8[y] = make([]uint8, w)
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(bl>>8)
			if len(distinct) <= 100000 {
				distinct[color.RGBA{R: r8, G: g8, B: b8, A: 0xFF}] = struct{}{}
			}
			rgbHist[r8]++
			rgbHist[256+int(g8)]++
			rgbHist[512+int(b8)]++
			gv := greyValue(r8, g8, b8)
			grey8[y][x] = gv
			grey[gv]++
			sum += float64(gv)
			sumSq += float64(gv) * float64(gv)
		}
	}

	mean := sum / n
	variance := sumSq/n - mean*mean

	// Each pixel contributes one count per channel, so the 768-bin
	// histogram's total is 3n, matching sum(im.histogram()) for RGB.
	entropy := shannonEntropy(rgbHist[:], int(n)*3)
	peaks, dominant := histogramShape(grey[:], int(n))
	edgeMean := sobelEdgeMean(grey8, w, h)

	distinctColors := len(distinct)
	if distinctColors > 100000 {
		distinctColors = 100000
	}

	return stats{
		entropy:        entropy,
		distinctColors: distinctColors,
		edgeMean:       edgeMean,
		greyVariance:   variance,
		histogramPeaks: peaks,
		dominantRatio:  dominant,
	}
}

func greyValue(r, g, b uint8) uint8 {
	// ITU-R BT.601 luma, the same weights Pillow's "L" conversion uses.
	return uint8(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
}

func shannonEntropy(hist []int, total int) float64 {
	if total == 0 {
		return 0
	}
	var e float64
	for _, h := range hist {
		if h == 0 {
			continue
		}
		p := float64(h) / float64(total)
		e -= p * math.Log2(p)
	}
	return e
}

func histogramShape(hist []int, total int) (peaks int, dominantRatio float64) {
	if total == 0 {
		return 0, 1.0
	}
	threshold := float64(total) * 0.02
	for i := 1; i < 255; i++ {
		if float64(hist[i]) > threshold && hist[i] > hist[i-1] && hist[i] > hist[i+1] {
			peaks++
		}
	}

	sorted := append([]int(nil), hist...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] > sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	top5 := 0
	for i := 0; i < 5 && i < len(sorted); i++ {
		top5 += sorted[i]
	}
	return peaks, float64(top5) / float64(total)
}

// sobelEdgeMean runs a Sobel gradient-magnitude pass over the
// greyscale raster and returns the mean magnitude, standing in for
// PIL's FIND_EDGES filter statistics.
func sobelEdgeMean(grey [][]uint8, w, h int) float64 {
	if w < 3 || h < 3 {
		return 0
	}
	gx := [3][3]int{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	gy := [3][3]int{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	var sum float64
	count := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var sx, sy int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					v := int(grey[y+dy][x+dx])
					sx += gx[dy+1][dx+1] * v
					sy += gy[dy+1][dx+1] * v
				}
			}
			mag := math.Sqrt(float64(sx*sx + sy*sy))
			sum += mag
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
