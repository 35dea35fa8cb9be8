// Package core is the event scheduler of the firmware: a fixed pool of
// event slots shared by a free queue and four priority ready queues, and
// the run-to-completion dispatch loop that drains them.
//
// Nothing on the scheduling path allocates. Queues are doubly-linked lists
// of 8-bit slot indices, so posting, dispatching and cancelling touch at
// most three slots.
package core
