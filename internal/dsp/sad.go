package dsp

// Block distortion metrics, plain Go reference versions. Every function
// receives slices positioned at the block origin and explicit strides.

func absDiff(a, b byte) uint32 {
	if a > b {
		return uint32(a - b)
	}
	return uint32(b - a)
}

// sadGeneric returns the sum of absolute differences of a w x h block.
func sadGeneric(src []byte, srcStride int, ref []byte, refStride int, w, h int) uint32 {
	var sad uint32
	for y := 0; y < h; y++ {
		s := src[y*srcStride : y*srcStride+w]
		r := ref[y*refStride : y*refStride+w]
		for x := range s {
			sad += absDiff(s[x], r[x])
		}
	}
	return sad
}

// sadAvgGeneric measures src against the rounded average of ref and a
// contiguous w x h second predictor.
func sadAvgGeneric(src []byte, srcStride int, ref []byte, refStride int, second []byte, w, h int) uint32 {
	var sad uint32
	for y := 0; y < h; y++ {
		s := src[y*srcStride : y*srcStride+w]
		r := ref[y*refStride : y*refStride+w]
		p := second[y*w : y*w+w]
		for x := range s {
			avg := byte((uint32(r[x]) + uint32(p[x]) + 1) >> 1)
			sad += absDiff(s[x], avg)
		}
	}
	return sad
}

// varianceGeneric returns the sum of squared differences and the signed
// sum of differences of a w x h block.
func varianceGeneric(a []byte, aStride int, b []byte, bStride int, w, h int) (sse uint32, sum int32) {
	for y := 0; y < h; y++ {
		ra := a[y*aStride : y*aStride+w]
		rb := b[y*bStride : y*bStride+w]
		for x := range ra {
			d := int32(ra[x]) - int32(rb[x])
			sum += d
			sse += uint32(d * d)
		}
	}
	return sse, sum
}

// CompAvgPred writes the rounded average of pred and ref into dst. pred and
// dst are contiguous w x h blocks.
func CompAvgPred(dst, pred []byte, w, h int, ref []byte, refStride int) {
	for y := 0; y < h; y++ {
		p := pred[y*w : y*w+w]
		r := ref[y*refStride : y*refStride+w]
		d := dst[y*w : y*w+w]
		for x := range d {
			d[x] = byte((uint32(p[x]) + uint32(r[x]) + 1) >> 1)
		}
	}
}

// SSE returns the sum of squared differences over a w x h area of any size.
func SSE(a []byte, aStride int, b []byte, bStride int, w, h int) uint64 {
	var sse uint64
	for y := 0; y < h; y++ {
		ra := a[y*aStride : y*aStride+w]
		rb := b[y*bStride : y*bStride+w]
		for x := range ra {
			d := int(ra[x]) - int(rb[x])
			sse += uint64(d * d)
		}
	}
	return sse
}
