//go:build arm64

package dsp

import "golang.org/x/sys/cpu"

func init() {
	hasASIMD = cpu.ARM64.HasASIMD
	initCapabilities()
}
