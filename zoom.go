package retrocon

import "math"

// Zoom places a scaled console image inside a larger area.
type Zoom struct {
	// Scale is the factor applied to both axes
	Scale float64
	// OffsetX and OffsetY centre the scaled image, in destination pixels
	OffsetX int
	OffsetY int
}

// FitZoom computes the largest uniform scale at which a srcW x srcH image
// fits in dstW x dstH, centred.
//
// Integer mode floors the scale to a whole number of at least 1, which keeps
// glyph pixels square and sharp; the image may then overflow a destination
// smaller than the source. Fractional mode fills one axis exactly.
func FitZoom(srcW, srcH, dstW, dstH int, integer bool) Zoom {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return Zoom{Scale: 1}
	}

	fx := float64(dstW) / float64(srcW)
	fy := float64(dstH) / float64(srcH)
	scale := math.Min(fx, fy)
	if integer {
		scale = math.Max(1, math.Floor(scale))
	}

	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))
	return Zoom{
		Scale:   scale,
		OffsetX: (dstW - w) / 2,
		OffsetY: (dstH - h) / 2,
	}
}

// Size returns the scaled size of a srcW x srcH image.
func (z Zoom) Size(srcW, srcH int) (int, int) {
	return int(math.Round(float64(srcW) * z.Scale)), int(math.Round(float64(srcH) * z.Scale))
}
