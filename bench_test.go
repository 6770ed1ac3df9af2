package vp9me

import (
	"fmt"
	"testing"
)

func benchmarkFrame(b *testing.B, speed int, bs BlockSize) {
	ref := testPicture(wave(0, 0))
	src := testPicture(wave(3, 1))
	fp := testParams(src, ref)
	fp.AllowEncodeBreakout = true
	fp.EncodeBreakout = 800

	p, err := NewPicker(DefaultOptions(speed))
	if err != nil {
		b.Fatal(err)
	}
	defer p.Close()

	bw, bh := bs.Width(), bs.Height()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fp.Index = i
		if err := p.BeginFrame(fp); err != nil {
			b.Fatal(err)
		}
		for row := 0; row+bh <= testH; row += bh {
			for col := 0; col+bw <= testW; col += bw {
				if _, err := p.PickBlock(&Block{Row: row, Col: col, Size: bs}); err != nil {
					b.Fatal(err)
				}
			}
		}
	}
	b.SetBytes(int64(testW * testH))
}

func BenchmarkPickFrame(b *testing.B) {
	for _, speed := range []int{0, 5, 8} {
		speed := speed
		for _, bs := range []BlockSize{Block8x8, Block16x16, Block32x32} {
			bs := bs
			b.Run(fmt.Sprintf("speed%d/%s", speed, bs), func(b *testing.B) {
				benchmarkFrame(b, speed, bs)
			})
		}
	}
}

func BenchmarkMotionSearch(b *testing.B) {
	for _, m := range []SearchMethod{SearchNStep, SearchHex, SearchBigDiamond, SearchSquare, SearchFastHex, SearchFastDiamond} {
		m := m
		b.Run(m.String(), func(b *testing.B) {
			ref := testPicture(wave(0, 0))
			src := testPicture(wave(5, -3))
			fp := testParams(src, ref)
			p, err := NewPicker(nil, WithSearchMethod(m))
			if err != nil {
				b.Fatal(err)
			}
			defer p.Close()
			if err := p.BeginFrame(fp); err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := p.MotionSearch(LastFrame, 16, 32, Block32x32, MV{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
