package segment

import "math"

const (
	// MeterFloorDBFS is the bottom of the clamped range used for volume
	// meter display. Chunk-boundary decisions use the raw value.
	MeterFloorDBFS = -60

	magnitudeEpsilon = 2.220446049250313e-16
)

// DownmixInterleaved collapses an interleaved multi-channel frame to mono by
// channel-averaging. A mono frame is copied through unchanged.
func DownmixInterleaved(data []float64, channels int) []float64 {
	if channels <= 1 {
		mono := make([]float64, len(data))
		copy(mono, data)
		return mono
	}
	frames := len(data) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += data[i*channels+ch]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}

// FrameVolumeDBFS reports the loudness of a mono frame as dBFS computed from
// the average of the absolute minimum and maximum sample magnitudes.
func FrameVolumeDBFS(mono []float64) float64 {
	if len(mono) == 0 {
		return magnitudeToDBFS(0)
	}
	minSample, maxSample := mono[0], mono[0]
	for _, v := range mono[1:] {
		if v < minSample {
			minSample = v
		}
		if v > maxSample {
			maxSample = v
		}
	}
	return magnitudeToDBFS((math.Abs(minSample) + math.Abs(maxSample)) / 2)
}

// ClampMeterDBFS coerces a raw dBFS value into the [-60, 0] range used by
// volume meter observers.
func ClampMeterDBFS(value float64) int {
	clamped := int(value)
	if clamped < MeterFloorDBFS {
		clamped = MeterFloorDBFS
	}
	if clamped > 0 {
		clamped = 0
	}
	return clamped
}

func magnitudeToDBFS(magnitude float64) float64 {
	if magnitude < magnitudeEpsilon {
		magnitude = magnitudeEpsilon
	}
	return 20 * math.Log10(magnitude)
}
