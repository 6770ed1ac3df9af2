//go:build amd64

package dsp

import "golang.org/x/sys/cpu"

func init() {
	hasAVX2 = cpu.X86.HasAVX2
	hasSSE41 = cpu.X86.HasSSE41
	initCapabilities()
}
