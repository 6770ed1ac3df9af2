package dsp

import (
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// Backend selects the implementation behind a kernel Table.
type Backend uint8

const (
	// Generic is the straightforward per-pixel Go implementation.
	Generic Backend = iota
	// Unrolled processes four pixels per iteration. It is chosen on CPUs
	// with wide integer pipelines.
	Unrolled
)

// String returns the string representation of a Backend.
func (b Backend) String() string {
	switch b {
	case Generic:
		return "generic"
	case Unrolled:
		return "unrolled"
	default:
		return "unknown"
	}
}

// ParseBackend parses a backend name.
func ParseBackend(s string) (Backend, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "unrolled":
		return Unrolled, true
	default:
		return Generic, false
	}
}

// Set once by the platform init, read-only afterwards.
var (
	activeBackend Backend
	hasOverride   bool

	hasAVX2  bool // x86-64
	hasSSE41 bool // x86-64
	hasASIMD bool // arm64
)

// initCapabilities is called from the platform init after the CPU feature detection.
func initCapabilities() {
	if override := os.Getenv("VP9ME_KERNELS"); override != "" {
		if b, ok := ParseBackend(override); ok {
			hasOverride = true
			activeBackend = b
			slog.Debug("variance kernels selected", "backend", b, "source", "VP9ME_KERNELS")
			return
		}
	}
	activeBackend = selectBackend()
	slog.Debug("variance kernels selected", "backend", activeBackend, "arch", runtime.GOARCH)
}

func selectBackend() Backend {
	switch runtime.GOARCH {
	case "amd64":
		if hasAVX2 || hasSSE41 {
			return Unrolled
		}
	case "arm64":
		if hasASIMD {
			return Unrolled
		}
	}
	return Generic
}

// ActiveBackend returns the backend chosen at start-up.
func ActiveBackend() Backend { return activeBackend }

// IsOverridden reports whether VP9ME_KERNELS forced the backend.
func IsOverridden() bool { return hasOverride }

// HasAVX2 reports x86-64 AVX2 support.
func HasAVX2() bool { return hasAVX2 }

// HasSSE41 reports x86-64 SSE4.1 support.
func HasSSE41() bool { return hasSSE41 }

// HasASIMD reports arm64 Advanced SIMD support.
func HasASIMD() bool { return hasASIMD }
