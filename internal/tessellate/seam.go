package tessellate

import "github.com/MeKo-Tech/pbrforge/internal/imagebuf"

// ValidateTiling computes the maximum absolute channel delta between an
// image's opposite edges (left vs right columns, top vs bottom rows) plus
// the 4-corner cross-delta, and reports whether that maximum is within the
// 1/255 seamlessness threshold for 8-bit output.
func ValidateTiling(img *imagebuf.Image) (isSeamless bool, maxEdgeDelta float32) {
	maxEdgeDelta = maxEdgeDeltaOf(img)
	isSeamless = maxEdgeDelta <= 1.0/255.0
	return isSeamless, maxEdgeDelta
}

// maxEdgeDeltaOf returns the largest absolute per-channel difference across
// the left/right column pair, the top/bottom row pair, and the 4-corner
// cross-delta (every corner compared against every other corner).
func maxEdgeDeltaOf(img *imagebuf.Image) float32 {
	w, h := img.W, img.H
	var max float32

	for y := 0; y < h; y++ {
		r0, g0, b0 := img.At(0, y)
		r1, g1, b1 := img.At(w-1, y)
		max = maxF(max, absF(r0-r1), absF(g0-g1), absF(b0-b1))
	}
	for x := 0; x < w; x++ {
		r0, g0, b0 := img.At(x, 0)
		r1, g1, b1 := img.At(x, h-1)
		max = maxF(max, absF(r0-r1), absF(g0-g1), absF(b0-b1))
	}

	var corners [4][3]float32
	cr, cg, cb := img.At(0, 0)
	corners[0] = [3]float32{cr, cg, cb}
	cr, cg, cb = img.At(w-1, 0)
	corners[1] = [3]float32{cr, cg, cb}
	cr, cg, cb = img.At(0, h-1)
	corners[2] = [3]float32{cr, cg, cb}
	cr, cg, cb = img.At(w-1, h-1)
	corners[3] = [3]float32{cr, cg, cb}
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			for c := 0; c < 3; c++ {
				max = maxF(max, absF(corners[i][c]-corners[j][c]))
			}
		}
	}

	return max
}

// SeamEnergy computes the mean absolute difference between an image's
// opposite edges, normalized to [0, 1]. A perfectly seamless tile scores 0;
// used to compare seam severity before/after tessellation rather than to
// gate a pass/fail decision (see ValidateTiling for the threshold check).
func SeamEnergy(img *imagebuf.Image) float32 {
	w, h := img.W, img.H
	var sum float32
	var n int

	for y := 0; y < h; y++ {
		r0, g0, b0 := img.At(0, y)
		r1, g1, b1 := img.At(w-1, y)
		sum += absF(r0-r1) + absF(g0-g1) + absF(b0-b1)
		n += 3
	}
	for x := 0; x < w; x++ {
		r0, g0, b0 := img.At(x, 0)
		r1, g1, b1 := img.At(x, h-1)
		sum += absF(r0-r1) + absF(g0-g1) + absF(b0-b1)
		n += 3
	}
	if n == 0 {
		return 0
	}
	return sum / float32(n)
}

func maxF(vs ...float32) float32 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
