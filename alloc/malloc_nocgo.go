//go:build !cgo
// +build !cgo

package alloc

import "fmt"

func newMalloc() (Allocator, error) {
	return nil, fmt.Errorf("malloc backend requires a cgo build")
}
