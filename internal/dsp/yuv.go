package dsp

import "image"

// BT.601 RGB -> YUV conversion in 16-bit fixed point.
const (
	yuvFix  = 16
	yuvHalf = 1 << (yuvFix - 1)

	kRGBToY0 = 16839 // 0.2568 * (1 << 16)
	kRGBToY1 = 33059 // 0.5041 * (1 << 16)
	kRGBToY2 = 6420  // 0.0979 * (1 << 16)
	kRGBToU0 = -9719
	kRGBToU1 = -19081
	kRGBToU2 = 28800
	kRGBToV0 = 28800
	kRGBToV1 = -24116
	kRGBToV2 = -4684
)

// RGBToY converts an RGB triple to the Y component.
func RGBToY(r, g, b int) uint8 {
	return uint8((kRGBToY0*r + kRGBToY1*g + kRGBToY2*b + yuvHalf + (16 << yuvFix)) >> yuvFix)
}

// clipUV takes the sum of four pixels' weighted components.
func clipUV(uv int) uint8 {
	uv = (uv + (yuvHalf << 2) + (128 << (yuvFix + 2))) >> (yuvFix + 2)
	return ClipPixel(uv)
}

// RGBToU converts the sum of a 2x2 block's RGB values to U.
func RGBToU(r4, g4, b4 int) uint8 {
	return clipUV(kRGBToU0*r4 + kRGBToU1*g4 + kRGBToU2*b4)
}

// RGBToV converts the sum of a 2x2 block's RGB values to V.
func RGBToV(r4, g4, b4 int) uint8 {
	return clipUV(kRGBToV0*r4 + kRGBToV1*g4 + kRGBToV2*b4)
}

// ImageToPlanes converts img to 4:2:0 planes with extended borders. Odd
// dimensions replicate the last row or column into the chroma average.
func ImageToPlanes(img image.Image, border int) (y, u, v *Plane) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	y = NewPlane(w, h, border)
	cw, ch := (w+1)>>1, (h+1)>>1
	u = NewPlane(cw, ch, border>>1)
	v = NewPlane(cw, ch, border>>1)

	rgb := make([][3]int, w*h)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			r, g, bb, _ := img.At(b.Min.X+i, b.Min.Y+j).RGBA()
			p := [3]int{int(r >> 8), int(g >> 8), int(bb >> 8)}
			rgb[j*w+i] = p
			y.Set(j, i, RGBToY(p[0], p[1], p[2]))
		}
	}
	for j := 0; j < ch; j++ {
		for i := 0; i < cw; i++ {
			var s [3]int
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					px := min(2*i+dx, w-1)
					py := min(2*j+dy, h-1)
					p := rgb[py*w+px]
					s[0] += p[0]
					s[1] += p[1]
					s[2] += p[2]
				}
			}
			u.Set(j, i, RGBToU(s[0], s[1], s[2]))
			v.Set(j, i, RGBToV(s[0], s[1], s[2]))
		}
	}
	y.ExtendBorders()
	u.ExtendBorders()
	v.ExtendBorders()
	return y, u, v
}
