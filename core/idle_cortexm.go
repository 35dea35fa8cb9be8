//go:build tinygo && cortexm

package core

import "device/arm"

// WaitForInterrupt is the default idle primitive. The core sleeps until an
// interrupt is pending; with interrupts masked the handler runs only after
// the dispatch loop restores the mask, so no post can slip in between the
// emptiness check and the sleep.
func WaitForInterrupt() {
	arm.Asm("wfi")
}
