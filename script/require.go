package script

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Loader fetches the source of a named module for require. Returning an
// error fails the requiring chunk.
type Loader func(name string) ([]byte, error)

// FileLoader returns a loader that resolves "name" to "name.lua" under the
// given directories, first match wins. A script directory followed by
// shared library directories is the usual arrangement.
func FileLoader(dirs ...string) Loader {
	return func(name string) ([]byte, error) {
		for _, dir := range dirs {
			src, err := os.ReadFile(filepath.Join(dir, name+".lua"))
			if err == nil {
				return src, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
		return nil, fmt.Errorf("module %q not found", name)
	}
}

// requireBuiltin loads a module once per script. The name is trimmed before
// lookup, so " foo" and "foo" are the same module. A module is marked
// loaded before its body runs: a module that requires itself terminates
// instead of recursing.
func (s *Script) requireBuiltin(l *lua.LState) int {
	nameArg, ok := l.Get(1).(lua.LString)
	if !ok {
		l.RaiseError("require: module name must be a string (got %s)", l.Get(1).Type())
	}
	name := strings.TrimSpace(string(nameArg))
	if name == "" {
		l.RaiseError("require: empty module name")
	}

	if _, done := s.loaded[name]; done {
		return 0
	}
	if s.cfg.loader == nil {
		l.RaiseError("require %q: no module loader configured", name)
	}

	src, err := s.cfg.loader(name)
	if err != nil {
		l.RaiseError("require %q: %s", name, err)
	}

	s.loaded[name] = struct{}{}

	fn, err := l.Load(bytes.NewReader(src), name)
	if err != nil {
		l.RaiseError("require %q: %s", name, s.wrapError(err))
	}
	l.Push(fn)
	l.Call(0, 0)
	return 0
}
