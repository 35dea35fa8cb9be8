//go:build !tinygo

package core

import "reflect"

// handlerID returns the code pointer identifying h
func handlerID(h Handler) uintptr {
	if h == nil {
		return 0
	}
	return reflect.ValueOf(h).Pointer()
}
