//go:build tinygo && !cortexm

package core

// WaitForInterrupt returns immediately on targets without a wait-for-interrupt
// instruction, turning the idle point into a busy poll
func WaitForInterrupt() {}
