//go:build !tinygo

package core

import (
	"sync"
	"time"
)

// InterruptState is the value returned by DisableInterrupts.
// On regular Go it carries no information.
type InterruptState uintptr

// hostGuard stands in for the interrupt mask so that goroutines can play
// the part of interrupt handlers in tests. It is not reentrant.
var hostGuard sync.Mutex

// idlePause is how long WaitForInterrupt sleeps on regular Go
const idlePause = 50 * time.Microsecond

// DisableInterrupts enters the critical section
func DisableInterrupts() InterruptState {
	hostGuard.Lock()
	return 0
}

// RestoreInterrupts leaves the critical section entered by DisableInterrupts
func RestoreInterrupts(state InterruptState) {
	hostGuard.Unlock()
}

// WaitForInterrupt is the default idle primitive. It must be called with
// interrupts disabled; on regular Go it releases the guard while sleeping
// so producers can get in.
func WaitForInterrupt() {
	hostGuard.Unlock()
	time.Sleep(idlePause)
	hostGuard.Lock()
}
