//go:build linux
// +build linux

package allocbench

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// pinWorker binds the calling thread to the processing unit at the
// worker's stride offset. The caller holds runtime.LockOSThread, so the
// affinity sticks to this worker for the whole run. Workers past the last
// available unit stay unpinned; pinning is a repeatability control, not a
// requirement.
func pinWorker(id, stride int) error {
	cpu := id * stride
	if cpu >= runtime.NumCPU() {
		return fmt.Errorf("cpu %d not available", cpu)
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
