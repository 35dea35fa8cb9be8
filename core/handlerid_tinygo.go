//go:build tinygo

package core

import "unsafe"

// funcValue mirrors TinyGo's two-word func representation
type funcValue struct {
	context unsafe.Pointer
	fn      uintptr
}

// handlerID returns the code pointer identifying h.
// TinyGo's reflect does not implement Pointer for funcs.
func handlerID(h Handler) uintptr {
	if h == nil {
		return 0
	}
	return (*funcValue)(unsafe.Pointer(&h)).fn
}
