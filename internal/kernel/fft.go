package kernel

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/MeKo-Tech/pbrforge/internal/imagebuf"
)

// Spectrum holds the complex 2-D Fourier transform of a plane, stored as
// separate real/imaginary planes so the frequency-domain masking step can
// operate on them with the same indexing helpers as every other plane.
type Spectrum struct {
	Re, Im []float64
	W, H   int
}

// FFT2 computes the 2-D discrete Fourier transform of a plane via row-then-
// column 1-D complex FFTs (gonum's dsp/fourier.CmplxFFT), the standard
// separable decomposition of a 2-D DFT.
func FFT2(p *imagebuf.Plane) *Spectrum {
	w, h := p.W, p.H
	rowFFT := fourier.NewCmplxFFT(w)
	colFFT := fourier.NewCmplxFFT(h)

	rows := make([][]complex128, h)
	for y := 0; y < h; y++ {
		seq := make([]complex128, w)
		for x := 0; x < w; x++ {
			seq[x] = complex(float64(p.At(x, y)), 0)
		}
		rows[y] = rowFFT.Coefficients(nil, seq)
	}

	re := make([]float64, w*h)
	im := make([]float64, w*h)

	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = rows[y][x]
		}
		out := colFFT.Coefficients(nil, col)
		for y := 0; y < h; y++ {
			re[y*w+x] = real(out[y])
			im[y*w+x] = imag(out[y])
		}
	}

	return &Spectrum{Re: re, Im: im, W: w, H: h}
}

// IFFT2 inverts FFT2, returning the real part of the reconstructed plane.
// gonum's CmplxFFT.Sequence is unnormalized, so each output sample is
// scaled by 1/(w*h) here to make IFFT2(FFT2(p)) reproduce p.
func IFFT2(s *Spectrum) *imagebuf.Plane {
	w, h := s.W, s.H
	rowFFT := fourier.NewCmplxFFT(w)
	colFFT := fourier.NewCmplxFFT(h)

	colOut := make([][]complex128, w)
	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = complex(s.Re[y*w+x], s.Im[y*w+x])
		}
		colOut[x] = colFFT.Sequence(nil, col)
	}

	out := imagebuf.NewPlane(w, h)
	rowBuf := make([]complex128, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rowBuf[x] = colOut[x][y]
		}
		seq := rowFFT.Sequence(nil, rowBuf)
		for x := 0; x < w; x++ {
			out.Set(x, y, float32(real(seq[x])/float64(w*h)))
		}
	}
	return out
}

// At returns the complex spectrum value at (x, y).
func (s *Spectrum) At(x, y int) complex128 {
	i := y*s.W + x
	return complex(s.Re[i], s.Im[i])
}

// Set writes the complex spectrum value at (x, y).
func (s *Spectrum) Set(x, y int, v complex128) {
	i := y*s.W + x
	s.Re[i] = real(v)
	s.Im[i] = imag(v)
}

// Magnitude returns the spectrum's squared magnitude as a plane, laid out
// with the DC term at (0, 0) (standard FFT output order, not fftshifted).
func (s *Spectrum) Magnitude() *imagebuf.Plane {
	out := imagebuf.NewPlane(s.W, s.H)
	for i := range out.Data {
		re, im := s.Re[i], s.Im[i]
		out.Data[i] = float32(re*re + im*im)
	}
	return out
}
