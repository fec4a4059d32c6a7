// Package bench holds benchmarks for the embedding layer: script startup,
// call dispatch, and chunk precompilation.
//
// Run with: go test -bench=. ./bench/
package bench

import (
	"testing"

	"github.com/moonbind/moonbind/registry"
	"github.com/moonbind/moonbind/script"
)

const fibSource = `
	function fib(n)
		if n < 2 then return n end
		return fib(n - 1) + fib(n - 2)
	end
`

// --- Startup: parse + sandbox + top-level chunk each time ---

func BenchmarkColdStart(b *testing.B) {
	src := []byte(fibSource)
	for i := 0; i < b.N; i++ {
		s, err := script.New("bench", src)
		if err != nil {
			b.Fatal(err)
		}
		s.Close()
	}
}

// --- Startup from a precompiled chunk ---

func BenchmarkColdStartPrecompiled(b *testing.B) {
	chunk, err := script.Compile("bench", []byte(fibSource))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, err := script.NewFromChunk(chunk)
		if err != nil {
			b.Fatal(err)
		}
		s.Close()
	}
}

// --- Warm calls on one script ---

func BenchmarkCall(b *testing.B) {
	s, err := script.New("bench", []byte(fibSource))
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Call("fib", 10); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCallYielding(b *testing.B) {
	s, err := script.New("bench", []byte(`
		function hop(n)
			for i = 1, n do yield() end
			return n
		end
	`))
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Call("hop", 8); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Callback dispatch: script into Go and back ---

func BenchmarkCallbackDispatch(b *testing.B) {
	reg := registry.New()
	reg.AddFunc("add", registry.Func2R(func(x, y int64) int64 { return x + y }))

	s, err := script.New("bench", []byte(`
		function sum(n)
			local acc = 0
			for i = 1, n do acc = add(acc, i) end
			return acc
		end
	`), script.WithRegistry(reg))
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Call("sum", 100); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMethodDispatch(b *testing.B) {
	type counter struct{ n int64 }

	reg := registry.New()
	err := reg.AddObjectType(registry.Describe[counter]().
		WithMethod("bump", registry.Method0(func(c *counter) { c.n++ })))
	if err != nil {
		b.Fatal(err)
	}

	s, err := script.New("bench", []byte(`
		function churn(c, n)
			for i = 1, n do c:bump() end
		end
	`), script.WithRegistry(reg))
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	c := &counter{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Call("churn", c, 100); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEval(b *testing.B) {
	s, err := script.New("bench", nil)
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	src := []byte("return 1 + 2")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Eval(src); err != nil {
			b.Fatal(err)
		}
	}
}
