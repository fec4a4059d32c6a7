package script

import (
	"context"
	"sync"
)

// Executor receives the threads created by CallAsync and decides when each
// one is resumed.
type Executor interface {
	Add(t *Thread)
}

// Cooperative is a FIFO round-robin executor: threads are resumed in the
// order added, and a thread that yields goes to the back of the queue. Run
// drives the queue on the calling goroutine; nothing runs until it is
// called.
type Cooperative struct {
	mu    sync.Mutex
	queue []*Thread
}

// NewCooperative creates an empty cooperative executor.
func NewCooperative() *Cooperative {
	return &Cooperative{}
}

// Add appends a thread to the run queue. Safe to call from inside a running
// callback, so script functions may schedule further work.
func (c *Cooperative) Add(t *Thread) {
	c.mu.Lock()
	c.queue = append(c.queue, t)
	c.mu.Unlock()
}

// Run resumes queued threads until every one has finished. Script errors
// resolve the corresponding futures and do not stop the loop.
func (c *Cooperative) Run() {
	c.RunContext(context.Background())
}

// RunContext runs like Run but stops between resumes once ctx is done,
// resolving the futures of every unfinished thread with the context error.
// A resume in progress is never interrupted; this is a scheduling stop, not
// a preemption.
func (c *Cooperative) RunContext(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			c.drain(err)
			return err
		}

		t, ok := c.pop()
		if !ok {
			return nil
		}
		if t.Run() == RunYielded {
			c.Add(t)
		}
	}
}

func (c *Cooperative) pop() (*Thread, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return nil, false
	}
	t := c.queue[0]
	c.queue = c.queue[1:]
	return t, true
}

func (c *Cooperative) drain(err error) {
	c.mu.Lock()
	abandoned := c.queue
	c.queue = nil
	c.mu.Unlock()
	for _, t := range abandoned {
		t.abandon(err)
	}
}
