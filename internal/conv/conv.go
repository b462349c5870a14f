// Package conv provides linear convolution for smoothing passes.
//
// Two strategies are available: direct O(N*M) time-domain convolution for
// short kernels, and FFT-based overlap-add for longer ones. Convolve picks
// automatically; Same trims the full result to the signal length with the
// kernel centered, which is what symmetric smoothing kernels want.
package conv

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput  = errors.New("conv: empty input")
	ErrEmptyKernel = errors.New("conv: empty kernel")
)

// directThreshold is the kernel length above which FFT-based convolution
// wins over the direct loop.
const directThreshold = 64

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}

	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	dst := make([]float64, len(a)+len(b)-1)
	for i := range a {
		for j := range b {
			dst[i+j] += a[i] * b[j]
		}
	}

	return dst, nil
}

// Convolve performs full linear convolution with automatic algorithm
// selection: direct for short kernels, overlap-add above directThreshold.
func Convolve(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}

	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	// Keep the longer operand as the signal.
	if len(b) > len(a) {
		a, b = b, a
	}

	if len(b) <= directThreshold {
		return Direct(a, b)
	}

	return overlapAdd(a, b)
}

// Same convolves signal with kernel and returns the centered portion with
// the same length as signal.
func Same(signal, kernel []float64) ([]float64, error) {
	full, err := Convolve(signal, kernel)
	if err != nil {
		return nil, err
	}

	start := (len(kernel) - 1) / 2

	return full[start : start+len(signal)], nil
}

// overlapAdd performs FFT-based convolution using the overlap-add method:
// the signal is cut into blocks, each block is convolved with the kernel
// by frequency-domain multiplication, and the overlapping tails are summed.
func overlapAdd(signal, kernel []float64) ([]float64, error) {
	kernelLen := len(kernel)

	blockSize := nextPowerOf2(kernelLen)
	if blockSize < 256 {
		blockSize = 256
	}

	fftSize := nextPowerOf2(blockSize + kernelLen - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	kernelFFT := make([]complex128, fftSize)
	for i, v := range kernel {
		kernelFFT[i] = complex(v, 0)
	}

	err = plan.Forward(kernelFFT, kernelFFT)
	if err != nil {
		return nil, fmt.Errorf("conv: kernel FFT failed: %w", err)
	}

	outputLen := len(signal) + kernelLen - 1
	output := make([]float64, outputLen)

	block := make([]complex128, fftSize)

	for start := 0; start < len(signal); start += blockSize {
		end := min(start+blockSize, len(signal))

		for i := range block {
			block[i] = 0
		}

		for i := start; i < end; i++ {
			block[i-start] = complex(signal[i], 0)
		}

		err = plan.Forward(block, block)
		if err != nil {
			return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
		}

		for i := range block {
			block[i] *= kernelFFT[i]
		}

		err = plan.Inverse(block, block)
		if err != nil {
			return nil, fmt.Errorf("conv: inverse FFT failed: %w", err)
		}

		resultLen := end - start + kernelLen - 1
		for i := 0; i < resultLen && start+i < outputLen; i++ {
			output[start+i] += real(block[i])
		}
	}

	return output, nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
