package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/webp"

	"github.com/deepteams/vp9me"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// parseSize parses "WxH".
func parseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if ok {
		w, err = strconv.Atoi(ws)
		if err == nil {
			h, err = strconv.Atoi(hs)
		}
	}
	if !ok || err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q (want WxH)", s)
	}
	return w, h, nil
}

// loadFrames reads every path and checks they share one size. size is
// required only when a raw frame is among them.
func loadFrames(paths []string, size string) ([]vp9me.Planes, error) {
	frames := make([]vp9me.Planes, 0, len(paths))
	for _, path := range paths {
		p, err := loadFrame(path, size)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(frames) > 0 {
			first := frames[0].Y
			if p.Y.Width != first.Width || p.Y.Height != first.Height {
				return nil, fmt.Errorf("%s: size %dx%d differs from %dx%d", path, p.Y.Width, p.Y.Height, first.Width, first.Height)
			}
		}
		frames = append(frames, p)
	}
	return frames, nil
}

// loadFrame sniffs the content: a RIFF/WEBP header is decoded as WebP, a
// zstd frame is decompressed to raw I420, anything else is raw I420.
func loadFrame(path, size string) (vp9me.Planes, error) {
	rc, err := openInput(path)
	if err != nil {
		return vp9me.Planes{}, err
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	head, _ := br.Peek(12)
	switch {
	case len(head) == 12 && string(head[0:4]) == "RIFF" && string(head[8:12]) == "WEBP":
		img, err := webp.Decode(br)
		if err != nil {
			return vp9me.Planes{}, fmt.Errorf("decoding webp: %w", err)
		}
		return vp9me.PlanesFromImage(img), nil
	case bytes.HasPrefix(head, zstdMagic):
		w, h, err := parseSize(size)
		if err != nil {
			return vp9me.Planes{}, err
		}
		zr, err := zstd.NewReader(br)
		if err != nil {
			return vp9me.Planes{}, err
		}
		defer zr.Close()
		return readI420(zr, w, h)
	default:
		w, h, err := parseSize(size)
		if err != nil {
			return vp9me.Planes{}, err
		}
		return readI420(br, w, h)
	}
}

// readI420 reads one planar 4:2:0 frame and extends its borders.
func readI420(r io.Reader, w, h int) (vp9me.Planes, error) {
	cw, ch := (w+1)>>1, (h+1)>>1
	p := vp9me.Planes{
		Y: vp9me.NewPlane(w, h, vp9me.DefaultBorder),
		U: vp9me.NewPlane(cw, ch, vp9me.DefaultBorder/2),
		V: vp9me.NewPlane(cw, ch, vp9me.DefaultBorder/2),
	}
	for _, pl := range [3]*vp9me.Plane{p.Y, p.U, p.V} {
		for row := 0; row < pl.Height; row++ {
			off := pl.Origin() + row*pl.Stride
			if _, err := io.ReadFull(r, pl.Pix[off:off+pl.Width]); err != nil {
				return vp9me.Planes{}, fmt.Errorf("reading %dx%d I420 frame: %w", w, h, err)
			}
		}
		pl.ExtendBorders()
	}
	return p, nil
}
