// Package script runs sandboxed Lua programs against a host-defined
// function and type registry.
//
// # Overview
//
// A Script owns one interpreter state: its top-level chunk runs at
// creation time, defining the functions the host calls later. The
// environment is a whitelist sandbox; scripts reach the host only through
// registry callbacks and the configured module loader.
//
// # Basic Usage
//
//	s, err := script.New("job", src, script.WithRegistry(reg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	v, err := s.Call("process", 42, "input")
//
// # Coroutines
//
// Script functions may suspend with yield. Call drives a private
// cooperative executor, so a yielding function still runs to completion;
// for interleaved execution create the executor yourself:
//
//	ex := script.NewCooperative()
//	fa, _ := s.CallAsync(ex, "producer")
//	fb, _ := s.CallAsync(ex, "consumer")
//	ex.Run()
//
// Threads resume in FIFO order and a yielded thread goes to the back of
// the queue. Nothing runs concurrently: one goroutine drives the executor
// and every thread of the script.
//
// # Modules
//
// The require builtin resolves module names through the loader given with
// [WithLoader]; each module runs once per script. [FileLoader] covers the
// common search-directories case.
package script
