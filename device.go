package attn

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Device describes the compute device executing the kernels. Here that is
// always the CPU; the record exists so a host dispatcher can inspect core
// count and SIMD capabilities when choosing an execution strategy.
type Device struct {
	ID         int    // Unique device identifier
	Name       string // Human-readable device name
	NumCores   int    // Number of CPU cores
	MaxThreads int    // Maximum threads per block
}

// CPUFeatures tracks available CPU instruction set extensions
type CPUFeatures struct {
	HasAVX     bool
	HasAVX2    bool
	HasAVX512F bool
	HasFMA     bool
	HasSSE4    bool
}

var (
	defaultDevice *Device
	cpuFeatures   CPUFeatures
)

func init() {
	defaultDevice = &Device{
		ID:         0,
		Name:       "CPU",
		NumCores:   runtime.NumCPU(),
		MaxThreads: MaxThreadsPerBlock,
	}
	cpuFeatures = CPUFeatures{
		HasSSE4:    cpu.X86.HasSSE41 || cpu.X86.HasSSE42,
		HasAVX:     cpu.X86.HasAVX,
		HasAVX2:    cpu.X86.HasAVX2,
		HasAVX512F: cpu.X86.HasAVX512F,
		HasFMA:     cpu.X86.HasFMA,
	}
}

// GetDevice returns the current device information.
func GetDevice() *Device {
	return defaultDevice
}

// GetDeviceCount returns the number of available devices. Always 1: the
// parallel strategy models an accelerator on the local CPU.
func GetDeviceCount() int {
	return 1
}

// GetCPUInfo returns a string describing available CPU features
func GetCPUInfo() string {
	features := []string{}

	if cpuFeatures.HasSSE4 {
		features = append(features, "SSE4")
	}
	if cpuFeatures.HasAVX {
		features = append(features, "AVX")
	}
	if cpuFeatures.HasAVX2 {
		features = append(features, "AVX2")
	}
	if cpuFeatures.HasFMA {
		features = append(features, "FMA")
	}
	if cpuFeatures.HasAVX512F {
		features = append(features, "AVX512F")
	}

	if len(features) == 0 {
		return "No SIMD extensions detected"
	}

	result := "CPU features: "
	for i, f := range features {
		if i > 0 {
			result += ", "
		}
		result += f
	}
	return result
}
