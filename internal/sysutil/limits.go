package sysutil

import "fmt"

// FileNoBuffer is the number of descriptors the process needs besides the benchmark sockets.
const FileNoBuffer = 9

// CheckOpenFiles verifies that limit of open files is sufficient for the number of concurrent workers,
// each worker holds at most one socket at a time.
func CheckOpenFiles(limit uint64, workers uint32) error {
	needed := uint64(workers) + FileNoBuffer
	if limit < needed {
		return fmt.Errorf("current process limit for number of files is %d and insufficient for %d threads, at least %d is needed",
			limit, workers, needed)
	}
	return nil
}
