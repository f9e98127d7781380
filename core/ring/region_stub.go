//go:build !linux

// File: core/ring/region_stub.go
// Author: momentics <momentics@gmail.com>
//
// Non-Linux platforms have no memfd double-map; the software-mirrored
// heap region serves instead. Size constraints stay identical so code is
// portable across both schemes.

package ring

func mapMirror(byteSize int) (region, error) {
	if err := checkMapSize(byteSize); err != nil {
		return nil, err
	}
	return newHeapRegion(byteSize), nil
}
