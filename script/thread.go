package script

import (
	"context"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/moonbind/moonbind"
	"github.com/moonbind/moonbind/internal/luaconv"
)

// RunOutcome tells an executor what became of one resume step.
type RunOutcome int

const (
	// RunFinished means the thread is terminal and its future resolved.
	RunFinished RunOutcome = iota
	// RunYielded means the thread suspended and wants another resume.
	RunYielded
)

// Thread is one in-flight script function call backed by a coroutine.
// Threads are driven by an Executor, one Run per resume; they are not safe
// for concurrent use and run on the goroutine that drives the executor.
type Thread struct {
	script *Script
	co     *lua.LState
	cancel context.CancelFunc
	fn     *lua.LFunction

	// pending holds the values delivered by the next resume: the call
	// arguments before the first run, afterwards whatever the thread last
	// yielded, handed back so a bare yield is a pure suspension point.
	pending []lua.LValue
	done    bool
	fut     *Future
}

// Future returns the future resolved when the thread finishes.
func (t *Thread) Future() *Future {
	return t.fut
}

// Run resumes the thread once. Script-level failures resolve the future,
// never escape to the executor; running a finished thread is a no-op.
func (t *Thread) Run() RunOutcome {
	if t.done {
		return RunFinished
	}

	st, err, vals := t.script.l.Resume(t.co, t.fn, t.pending...)
	t.pending = nil

	switch st {
	case lua.ResumeYield:
		t.pending = vals
		return RunYielded
	case lua.ResumeOK:
		var first lua.LValue = lua.LNil
		if len(vals) > 0 {
			first = vals[0]
		}
		v, convErr := luaconv.FromLua(first)
		if convErr != nil {
			t.finish(moonbind.Nil(), &RuntimeError{Script: t.script.name, Msg: convErr.Error()})
		} else {
			t.finish(v, nil)
		}
		return RunFinished
	default:
		t.finish(moonbind.Nil(), t.script.wrapError(err))
		return RunFinished
	}
}

func (t *Thread) finish(v moonbind.Value, err error) {
	t.done = true
	if t.cancel != nil {
		t.cancel()
	}
	t.fut.resolve(v, err)
}

// abandon resolves the future with err without resuming again. Used when an
// executor stops before the thread finishes.
func (t *Thread) abandon(err error) {
	if t.done {
		return
	}
	t.finish(moonbind.Nil(), err)
}

// Future is the single-shot result of an asynchronous call.
type Future struct {
	once sync.Once
	done chan struct{}
	val  moonbind.Value
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(v moonbind.Value, err error) {
	f.once.Do(func() {
		f.val, f.err = v, err
		close(f.done)
	})
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Get blocks until the call finishes and returns its first result. With a
// cooperative executor the blocking is nominal: drive the executor to
// exhaustion first.
func (f *Future) Get() (moonbind.Value, error) {
	<-f.done
	return f.val, f.err
}
