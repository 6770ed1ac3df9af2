// Command vp9me runs the motion estimation and mode decision over frames
// from the command line and prints what it decided.
//
// Usage:
//
//	vp9me pick [options] <last> <current> [golden]   Mode decision statistics
//	vp9me search [options] <ref> <current>           Motion field of one reference
//	vp9me kernels                                    Distortion kernel selection
//
// Frames are WebP images, or raw I420 planes (.yuv, or zstd-compressed
// .yuv.zst) whose size is given with -size.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/deepteams/vp9me"
	"github.com/deepteams/vp9me/internal/dsp"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "pick":
		err = runPick(os.Args[2:], os.Stdout)
	case "search":
		err = runSearch(os.Args[2:], os.Stdout)
	case "kernels":
		err = runKernels(os.Stdout)
	case "-h", "-help", "--help", "help":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "vp9me: unknown command %q\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "vp9me: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage:
  vp9me pick [options] <last> <current> [golden]   Mode decision statistics
  vp9me search [options] <ref> <current>           Motion field of one reference
  vp9me kernels                                    Distortion kernel selection

Frames are .webp images or raw I420 (.yuv, .yuv.zst) sized with -size WxH.

Run "vp9me <command> -h" for command-specific options.
`)
}

// commonFlags are shared by pick and search.
type commonFlags struct {
	speed   *int
	size    *string
	block   *string
	qindex  *int
	method  *string
	subpel  *string
	kernels *string
	verbose *bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		speed:   fs.Int("speed", 6, "speed preset 0-8"),
		size:    fs.String("size", "", "WxH of raw .yuv/.yuv.zst input"),
		block:   fs.String("bs", "16x16", "block size WxH"),
		qindex:  fs.Int("q", 100, "quantizer index 0-255"),
		method:  fs.String("search", "", "integer search: nstep/hex/bigdia/square/fast_hex/fast_diamond (default: preset)"),
		subpel:  fs.String("subpel", "", "sub-pixel method: tree/pruned/pruned_more/pruned_evenmore (default: preset)"),
		kernels: fs.String("kernels", "", "distortion kernels: generic/unrolled (default: detected)"),
		verbose: fs.Bool("v", false, "log every decision"),
	}
}

// options builds the picker options from the flags.
func (c *commonFlags) options() (*vp9me.Options, vp9me.BlockSize, error) {
	o := vp9me.DefaultOptions(*c.speed)
	o.Speed = *c.speed
	if *c.method != "" {
		m, err := vp9me.ParseSearchMethod(*c.method)
		if err != nil {
			return nil, 0, err
		}
		o.SearchMethod = m
	}
	if *c.subpel != "" {
		m, err := vp9me.ParseSubpelMethod(*c.subpel)
		if err != nil {
			return nil, 0, err
		}
		o.SubpelMethod = m
	}
	if *c.kernels != "" {
		b, ok := vp9me.ParseBackend(*c.kernels)
		if !ok {
			return nil, 0, fmt.Errorf("unknown kernels %q (use generic/unrolled)", *c.kernels)
		}
		o.Backend = b
	}
	level := slog.LevelWarn
	if *c.verbose {
		level = slog.LevelDebug
	}
	o.Logger = vp9me.NewTextLogger(level)

	bs, ok := vp9me.ParseBlockSize(*c.block)
	if !ok || bs < vp9me.Block8x8 {
		return nil, 0, fmt.Errorf("invalid block size %q (8x8 to 64x64)", *c.block)
	}
	return o, bs, nil
}

// --- pick ---

func runPick(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("pick", flag.ContinueOnError)
	cf := addCommonFlags(fs)
	filter := fs.String("filter", "switchable", "frame filter: regular/smooth/sharp/bilinear/switchable")
	breakout := fs.Int("breakout", 800, "encode breakout threshold (0 disables)")
	workers := fs.Int("j", runtime.GOMAXPROCS(0), "parallel block rows")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("pick: need <last> <current> [golden]\nUsage: vp9me pick [options] <last> <current> [golden]")
	}
	opts, bs, err := cf.options()
	if err != nil {
		return err
	}
	f, ok := vp9me.ParseFilter(*filter)
	if !ok {
		return fmt.Errorf("pick: unknown filter %q", *filter)
	}

	paths := fs.Args()
	frames, err := loadFrames(paths, *cf.size)
	if err != nil {
		return err
	}
	fp := vp9me.FrameParams{
		Source:            frames[1],
		RefFlags:          vp9me.LastFlag,
		Index:             1,
		FramesSinceGolden: 1,
		QIndex:            *cf.qindex,
		InterpFilter:      f,
		TxMode:            vp9me.TxModeSelect,
		AllowHP:           true,
	}
	fp.Refs[vp9me.LastFrame] = vp9me.RefPlanes{Planes: frames[0]}
	if len(frames) > 2 {
		fp.Refs[vp9me.GoldenFrame] = vp9me.RefPlanes{Planes: frames[2]}
		fp.RefFlags |= vp9me.GoldenFlag
	}
	if *breakout > 0 {
		fp.AllowEncodeBreakout = true
		fp.EncodeBreakout = *breakout
	}

	start := time.Now()
	st, err := analyze(fp, opts, bs, *workers)
	if err != nil {
		return err
	}
	st.elapsed = time.Since(start)
	st.print(out, fp.Source.Y.Width, fp.Source.Y.Height, bs, opts)
	return nil
}

// --- search ---

func runSearch(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	cf := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("search: need <ref> <current>\nUsage: vp9me search [options] <ref> <current>")
	}
	opts, bs, err := cf.options()
	if err != nil {
		return err
	}
	frames, err := loadFrames(fs.Args()[:2], *cf.size)
	if err != nil {
		return err
	}
	p, err := vp9me.NewPicker(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	fp := vp9me.FrameParams{
		Source:   frames[1],
		RefFlags: vp9me.LastFlag,
		QIndex:   *cf.qindex,
		TxMode:   vp9me.TxModeSelect,
		AllowHP:  true,
	}
	fp.Refs[vp9me.LastFrame] = vp9me.RefPlanes{Planes: frames[0]}
	if err := p.BeginFrame(fp); err != nil {
		return err
	}

	w, h := fp.Source.Y.Width, fp.Source.Y.Height
	bw, bh := bs.Width(), bs.Height()
	for row := 0; row+bh <= h; row += bh {
		var left vp9me.MV
		for col := 0; col+bw <= w; col += bw {
			r, err := p.MotionSearch(vp9me.LastFrame, row, col, bs, left)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, " %4d,%-4d", r.MV.Row, r.MV.Col)
			left = r.MV
		}
		fmt.Fprintln(out)
	}
	return nil
}

// --- kernels ---

func runKernels(out io.Writer) error {
	fmt.Fprintf(out, "backend:  %s\n", dsp.ActiveBackend())
	fmt.Fprintf(out, "override: %v\n", dsp.IsOverridden())
	fmt.Fprintf(out, "arch:     %s\n", runtime.GOARCH)
	fmt.Fprintf(out, "avx2:     %v\n", dsp.HasAVX2())
	fmt.Fprintf(out, "sse4.1:   %v\n", dsp.HasSSE41())
	fmt.Fprintf(out, "asimd:    %v\n", dsp.HasASIMD())
	return nil
}
