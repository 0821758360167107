//go:build !unix

package sysutil

import "errors"

// RlimitNoFile is not supported on this platform.
func RlimitNoFile() (uint64, error) {
	return 0, errors.New("open file limit is not supported on this platform")
}
