package dsp

// BlockSize enumerates the VP9 prediction block sizes, smallest first.
// Names read width x height.
type BlockSize uint8

const (
	Block4x4 BlockSize = iota
	Block4x8
	Block8x4
	Block8x8
	Block8x16
	Block16x8
	Block16x16
	Block16x32
	Block32x16
	Block32x32
	Block32x64
	Block64x32
	Block64x64

	// BlockSizes is the number of block sizes.
	BlockSizes
)

// BlockInvalid marks a size with no chroma counterpart.
const BlockInvalid = BlockSizes

// Width and height in 4-pixel units, log2.
var (
	bWidthLog2  = [BlockSizes]uint8{0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4}
	bHeightLog2 = [BlockSizes]uint8{0, 1, 0, 1, 2, 1, 2, 3, 2, 3, 4, 3, 4}
	// Width and height in 8-pixel (mode info) units, log2.
	miWidthLog2  = [BlockSizes]uint8{0, 0, 0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3}
	miHeightLog2 = [BlockSizes]uint8{0, 0, 0, 0, 1, 0, 1, 2, 1, 2, 3, 2, 3}
	numPelsLog2  = [BlockSizes]uint8{4, 5, 5, 6, 7, 7, 8, 9, 9, 10, 11, 11, 12}

	// 4:2:0 chroma size of each luma size.
	uvSize = [BlockSizes]BlockSize{
		BlockInvalid, BlockInvalid, BlockInvalid,
		Block4x4, Block4x8, Block8x4,
		Block8x8, Block8x16, Block16x8,
		Block16x16, Block16x32, Block32x16,
		Block32x32,
	}

	maxTxSize = [BlockSizes]TxSize{
		Tx4x4, Tx4x4, Tx4x4,
		Tx8x8, Tx8x8, Tx8x8,
		Tx16x16, Tx16x16, Tx16x16,
		Tx32x32, Tx32x32, Tx32x32,
		Tx32x32,
	}

	blockNames = [BlockSizes]string{
		"4x4", "4x8", "8x4", "8x8", "8x16", "16x8", "16x16",
		"16x32", "32x16", "32x32", "32x64", "64x32", "64x64",
	}
)

// Width returns the block width in pixels.
func (b BlockSize) Width() int { return 4 << bWidthLog2[b] }

// Height returns the block height in pixels.
func (b BlockSize) Height() int { return 4 << bHeightLog2[b] }

// WidthLog2 returns log2 of the width in 4-pixel units.
func (b BlockSize) WidthLog2() int { return int(bWidthLog2[b]) }

// HeightLog2 returns log2 of the height in 4-pixel units.
func (b BlockSize) HeightLog2() int { return int(bHeightLog2[b]) }

// MIWidthLog2 returns log2 of the width in 8-pixel units.
func (b BlockSize) MIWidthLog2() int { return int(miWidthLog2[b]) }

// MIHeightLog2 returns log2 of the height in 8-pixel units.
func (b BlockSize) MIHeightLog2() int { return int(miHeightLog2[b]) }

// NumPelsLog2 returns log2 of the pixel count.
func (b BlockSize) NumPelsLog2() int { return int(numPelsLog2[b]) }

// MaxTxSize returns the largest transform that fits the block.
func (b BlockSize) MaxTxSize() TxSize { return maxTxSize[b] }

// UV returns the 4:2:0 chroma block size. ok is false for sub-8x8 sizes.
func (b BlockSize) UV() (BlockSize, bool) {
	uv := uvSize[b]
	return uv, uv != BlockInvalid
}

func (b BlockSize) String() string {
	if b >= BlockSizes {
		return "invalid"
	}
	return blockNames[b]
}

// ParseBlockSize maps "WxH" to a block size.
func ParseBlockSize(s string) (BlockSize, bool) {
	for i, n := range blockNames {
		if n == s {
			return BlockSize(i), true
		}
	}
	return BlockInvalid, false
}

// BlockSizeFor returns the block size with the given dimensions.
func BlockSizeFor(w, h int) (BlockSize, bool) {
	for b := Block4x4; b < BlockSizes; b++ {
		if b.Width() == w && b.Height() == h {
			return b, true
		}
	}
	return BlockInvalid, false
}

// TxSize is a square transform size.
type TxSize uint8

const (
	Tx4x4 TxSize = iota
	Tx8x8
	Tx16x16
	Tx32x32
)

// Pixels returns the transform edge length.
func (t TxSize) Pixels() int { return 4 << t }

// Block returns the square block size covered by the transform.
func (t TxSize) Block() BlockSize {
	return [...]BlockSize{Block4x4, Block8x8, Block16x16, Block32x32}[t]
}

func (t TxSize) String() string {
	return [...]string{"4x4", "8x8", "16x16", "32x32"}[t]
}

// TxMode is the frame-level transform size policy.
type TxMode uint8

const (
	Only4x4 TxMode = iota
	Allow8x8
	Allow16x16
	Allow32x32
	TxModeSelect
)

var txModeToBiggest = [...]TxSize{Tx4x4, Tx8x8, Tx16x16, Tx32x32, Tx32x32}

// BiggestTx returns the largest transform the mode permits.
func (m TxMode) BiggestTx() TxSize { return txModeToBiggest[m] }
