//go:build !linux
// +build !linux

package allocbench

import "fmt"

func pinWorker(id, stride int) error {
	return fmt.Errorf("thread pinning not supported on this platform")
}
