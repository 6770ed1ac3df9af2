package main

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deepteams/vp9me"
)

// stats accumulates the decisions of a frame.
type stats struct {
	blocks  int
	refs    [3]int
	modes   [vp9me.ModeNew + 1]int
	skip    int
	mvSum   float64
	mvCount int
	rd      int64
	elapsed time.Duration
}

func (s *stats) add(d *vp9me.Decision) {
	s.blocks++
	s.refs[d.Ref]++
	s.modes[d.Mode]++
	if d.Skip {
		s.skip++
	}
	if d.Mode.IsInter() {
		s.mvSum += (abs(d.MV.Row) + abs(d.MV.Col)) / 8
		s.mvCount++
	}
	s.rd += d.RDCost
}

func (s *stats) merge(o *stats) {
	s.blocks += o.blocks
	for i := range s.refs {
		s.refs[i] += o.refs[i]
	}
	for i := range s.modes {
		s.modes[i] += o.modes[i]
	}
	s.skip += o.skip
	s.mvSum += o.mvSum
	s.mvCount += o.mvCount
	s.rd += o.rd
}

func abs(v int) float64 {
	if v < 0 {
		return float64(-v)
	}
	return float64(v)
}

// analyze decides every block of the frame. Each row of blocks gets its
// own picker so the result does not depend on scheduling; the left
// neighbour's MV seeds the candidates of the next block.
func analyze(fp vp9me.FrameParams, opts *vp9me.Options, bs vp9me.BlockSize, workers int) (*stats, error) {
	w, h := fp.Source.Y.Width, fp.Source.Y.Height
	bw, bh := bs.Width(), bs.Height()
	rows := h / bh
	if rows == 0 || w < bw {
		return nil, fmt.Errorf("frame %dx%d smaller than block %s", w, h, bs)
	}

	perRow := make([]stats, rows)
	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for r := 0; r < rows; r++ {
		r := r
		g.Go(func() error {
			p, err := vp9me.NewPicker(opts)
			if err != nil {
				return err
			}
			defer p.Close()
			if err := p.BeginFrame(fp); err != nil {
				return err
			}
			var left vp9me.Decision
			for col := 0; col+bw <= w; col += bw {
				blk := &vp9me.Block{Row: r * bh, Col: col, Size: bs}
				if col > 0 {
					blk.Left = vp9me.Neighbor{Available: true, Inter: left.Mode.IsInter(), Filter: left.Filter}
					if left.Ref != vp9me.IntraFrame {
						blk.Refs[left.Ref].Candidates[0] = left.MV
					}
				}
				for ref := vp9me.LastFrame; ref <= vp9me.GoldenFrame; ref++ {
					blk.Refs[ref].ModeContext = modeContext(&blk.Refs[ref])
				}
				d, err := p.PickBlock(blk)
				if err != nil {
					return fmt.Errorf("block (%d,%d): %w", blk.Row, blk.Col, err)
				}
				perRow[r].add(&d)
				left = d
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var total stats
	for i := range perRow {
		total.merge(&perRow[i])
	}
	return &total, nil
}

// modeContext approximates the inter mode context from the candidate list:
// 5 when no neighbour has motion, 3 otherwise.
func modeContext(r *vp9me.Reference) int {
	if r.Candidates[0] == (vp9me.MV{}) {
		return 5
	}
	return 3
}

func (s *stats) print(out io.Writer, w, h int, bs vp9me.BlockSize, opts *vp9me.Options) {
	pct := func(n int) float64 {
		if s.blocks == 0 {
			return 0
		}
		return 100 * float64(n) / float64(s.blocks)
	}
	fmt.Fprintf(out, "Frame:    %dx%d, %d blocks of %s\n", w, h, s.blocks, bs)
	fmt.Fprintf(out, "Speed:    %d (%s, %s, %s kernels)\n", opts.Speed, opts.SearchMethod, opts.SubpelMethod, opts.Backend)
	fmt.Fprintf(out, "Refs:     intra %d (%.1f%%)  last %d (%.1f%%)  golden %d (%.1f%%)\n",
		s.refs[vp9me.IntraFrame], pct(s.refs[vp9me.IntraFrame]),
		s.refs[vp9me.LastFrame], pct(s.refs[vp9me.LastFrame]),
		s.refs[vp9me.GoldenFrame], pct(s.refs[vp9me.GoldenFrame]))
	fmt.Fprintf(out, "Modes:   ")
	for m, n := range s.modes {
		if n > 0 {
			fmt.Fprintf(out, " %s %d", vp9me.Mode(m), n)
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Skip:     %d (%.1f%%)\n", s.skip, pct(s.skip))
	mean := 0.0
	if s.mvCount > 0 {
		mean = s.mvSum / float64(s.mvCount)
	}
	fmt.Fprintf(out, "Mean |MV|: %.2f pel\n", mean)
	fmt.Fprintf(out, "RD cost:  %d\n", s.rd)
	fmt.Fprintf(out, "Time:     %v\n", s.elapsed.Round(time.Microsecond))
}
