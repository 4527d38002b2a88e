package util

import "runtime"

// GetOptimalPoolSize returns the worker and parser pool size.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32). Parsing runs in cgo, so
// twice the core count keeps CPUs busy while goroutines sit in cgo calls.
// The analyzer worker count and the per-grammar parser pool use the same
// number so that a worker never blocks waiting for a parser.
func GetOptimalPoolSize() int {
	poolSize := runtime.NumCPU() * 2
	if poolSize < 4 {
		poolSize = 4
	}
	if poolSize > 32 {
		poolSize = 32
	}
	return poolSize
}

// GetOptimalPoolSizeWithOverride returns override when positive, else
// GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
