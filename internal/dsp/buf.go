package dsp

// Buf is a borrowed 2D view over 8-bit samples. Off is the index of the
// view origin inside Pix; rows are Stride bytes apart. Reference pixels
// above and left of the origin are addressed with negative row/col, which
// keeps every slice index non-negative as long as the backing buffer has
// enough border.
type Buf struct {
	Pix    []byte
	Off    int
	Stride int
}

// Index returns the Pix index of (row, col) relative to the origin.
func (b Buf) Index(row, col int) int {
	return b.Off + row*b.Stride + col
}

// At returns the samples starting at (row, col). Out-of-buffer positions
// panic through the runtime bounds check.
func (b Buf) At(row, col int) []byte {
	return b.Pix[b.Index(row, col):]
}

// Sub returns the view moved to (row, col).
func (b Buf) Sub(row, col int) Buf {
	return Buf{Pix: b.Pix, Off: b.Index(row, col), Stride: b.Stride}
}

// Contains reports whether the h x w window at (row, col) lies inside Pix.
func (b Buf) Contains(row, col, h, w int) bool {
	if h <= 0 || w <= 0 {
		return true
	}
	first := b.Index(row, col)
	last := b.Index(row+h-1, col+w-1)
	return first >= 0 && last < len(b.Pix)
}

// Plane is an owned sample plane with a replicated border on every side.
type Plane struct {
	Pix    []byte
	Stride int
	Width  int
	Height int
	Border int
}

// NewPlane allocates a zeroed width x height plane with the given border.
func NewPlane(width, height, border int) *Plane {
	stride := width + 2*border
	return &Plane{
		Pix:    make([]byte, stride*(height+2*border)),
		Stride: stride,
		Width:  width,
		Height: height,
		Border: border,
	}
}

// Origin returns the Pix index of pixel (0, 0).
func (p *Plane) Origin() int {
	return p.Border*p.Stride + p.Border
}

// Buf returns a view whose origin is pixel (row, col).
func (p *Plane) Buf(row, col int) Buf {
	return Buf{Pix: p.Pix, Off: p.Origin() + row*p.Stride + col, Stride: p.Stride}
}

// Set writes one visible pixel.
func (p *Plane) Set(row, col int, v uint8) {
	p.Pix[p.Origin()+row*p.Stride+col] = v
}

// Get reads one pixel; the border may be addressed.
func (p *Plane) Get(row, col int) uint8 {
	return p.Pix[p.Origin()+row*p.Stride+col]
}

// ExtendBorders replicates the outermost visible samples into the border.
func (p *Plane) ExtendBorders() {
	if p.Width == 0 || p.Height == 0 {
		return
	}
	o := p.Origin()
	for y := 0; y < p.Height; y++ {
		row := o + y*p.Stride
		l, r := p.Pix[row], p.Pix[row+p.Width-1]
		for x := 1; x <= p.Border; x++ {
			p.Pix[row-x] = l
			p.Pix[row+p.Width-1+x] = r
		}
	}
	top := p.Pix[o-p.Border : o-p.Border+p.Stride]
	bottom := p.Pix[o-p.Border+(p.Height-1)*p.Stride : o-p.Border+p.Height*p.Stride]
	for y := 1; y <= p.Border; y++ {
		copy(p.Pix[o-p.Border-y*p.Stride:], top)
		copy(p.Pix[o-p.Border+(p.Height-1+y)*p.Stride:], bottom)
	}
}
