package dsp

// Four-wide unrolled metric kernels. Every VP9 block width is a multiple
// of 4, so the inner loop never needs a tail.

func sadUnrolled(src []byte, srcStride int, ref []byte, refStride int, w, h int) uint32 {
	var s0, s1, s2, s3 uint32
	for y := 0; y < h; y++ {
		s := src[y*srcStride : y*srcStride+w : y*srcStride+w]
		r := ref[y*refStride : y*refStride+w : y*refStride+w]
		for x := 0; x+3 < len(s); x += 4 {
			s0 += absDiff(s[x], r[x])
			s1 += absDiff(s[x+1], r[x+1])
			s2 += absDiff(s[x+2], r[x+2])
			s3 += absDiff(s[x+3], r[x+3])
		}
	}
	return s0 + s1 + s2 + s3
}

func sadAvgUnrolled(src []byte, srcStride int, ref []byte, refStride int, second []byte, w, h int) uint32 {
	var sad uint32
	for y := 0; y < h; y++ {
		s := src[y*srcStride : y*srcStride+w]
		r := ref[y*refStride : y*refStride+w]
		p := second[y*w : y*w+w]
		for x := 0; x+3 < len(s); x += 4 {
			sad += absDiff(s[x], byte((uint32(r[x])+uint32(p[x])+1)>>1))
			sad += absDiff(s[x+1], byte((uint32(r[x+1])+uint32(p[x+1])+1)>>1))
			sad += absDiff(s[x+2], byte((uint32(r[x+2])+uint32(p[x+2])+1)>>1))
			sad += absDiff(s[x+3], byte((uint32(r[x+3])+uint32(p[x+3])+1)>>1))
		}
	}
	return sad
}

func varianceUnrolled(a []byte, aStride int, b []byte, bStride int, w, h int) (sse uint32, sum int32) {
	for y := 0; y < h; y++ {
		ra := a[y*aStride : y*aStride+w]
		rb := b[y*bStride : y*bStride+w]
		for x := 0; x+3 < len(ra); x += 4 {
			d0 := int32(ra[x]) - int32(rb[x])
			d1 := int32(ra[x+1]) - int32(rb[x+1])
			d2 := int32(ra[x+2]) - int32(rb[x+2])
			d3 := int32(ra[x+3]) - int32(rb[x+3])
			sum += d0 + d1 + d2 + d3
			sse += uint32(d0*d0 + d1*d1 + d2*d2 + d3*d3)
		}
	}
	return sse, sum
}
