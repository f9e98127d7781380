// File: device/pending.go
// Author: momentics <momentics@gmail.com>
//
// FIFO queue of deferred register programming. Tuner hardware cannot take
// register writes from the transfer context, so setters called while
// streaming enqueue commands and the RX loop drains them between bursts.

package device

import (
	"sync"

	"github.com/eapache/queue"
)

// Command is one deferred hardware programming step.
type Command func() error

// CommandQueue is a mutex-guarded FIFO of Commands.
type CommandQueue struct {
	mu sync.Mutex
	q  *queue.Queue
}

// NewCommandQueue creates an empty queue.
func NewCommandQueue() *CommandQueue {
	return &CommandQueue{q: queue.New()}
}

// Push appends a command.
func (c *CommandQueue) Push(cmd Command) {
	c.mu.Lock()
	c.q.Add(cmd)
	c.mu.Unlock()
}

// Len returns the number of queued commands.
func (c *CommandQueue) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.q.Length()
}

// Drain pops and runs queued commands in FIFO order. It stops at the
// first failing command and returns its error; the rest stay queued.
func (c *CommandQueue) Drain() error {
	for {
		c.mu.Lock()
		if c.q.Length() == 0 {
			c.mu.Unlock()
			return nil
		}
		cmd := c.q.Peek().(Command)
		c.mu.Unlock()

		if err := cmd(); err != nil {
			return err
		}

		c.mu.Lock()
		c.q.Remove()
		c.mu.Unlock()
	}
}
