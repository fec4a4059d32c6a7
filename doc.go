// Package moonbind embeds a sandboxed Lua environment into Go programs with
// a compile-time-checked binding layer for native functions and objects.
//
// # Overview
//
// moonbind wraps the gopher-lua VM. Scripts run with a restricted standard
// library; native functionality is exposed through a type registry that is
// built once by the host and shared across script instances.
//
// # Basic Usage
//
//	reg := registry.New()
//	reg.AddFunc("greet", registry.Func1(func(name string) {
//	    fmt.Println("hello", name)
//	}))
//
//	s, _ := script.New("demo", []byte(`function twice(x) return x * 2 end`),
//	    script.WithRegistry(reg))
//	defer s.Close()
//
//	v, _ := s.Call("twice", 21)  // Int(42)
//
// # Objects
//
// Native objects cross the boundary as opaque references carrying a per-type
// method table:
//
//	desc := registry.Describe[Counter]().
//	    WithMethod("add", registry.Method1(func(c *Counter, n int64) { c.n += n })).
//	    WithMethod("total", registry.Method0R(func(c *Counter) int64 { return c.n }))
//	reg.AddObjectType(desc)
//
//	s.Call("work", &Counter{})  // script sees c:add(3), c:total()
//
// # Coroutines
//
// Script functions may suspend with yield; Call drives a private cooperative
// executor until completion. CallAsync returns a Future and lets the host
// multiplex several coroutines round-robin through one executor.
//
//	ex := script.NewCooperative()
//	fut, _ := s.CallAsync(ex, "job", 1, 2)
//	ex.Run()
//	v, err := fut.Get()
//
// See the [registry] and [script] packages for detailed API documentation.
package moonbind
