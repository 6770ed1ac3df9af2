package dsp

// ClipPixel saturates v to a pixel value.
func ClipPixel(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

// roundFilter rounds a filter sum by FilterBits and saturates it.
func roundFilter(sum int) uint8 {
	return ClipPixel((sum + 1<<(FilterBits-1)) >> FilterBits)
}
