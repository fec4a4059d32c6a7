package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// Chunk is a compiled top-level chunk, independent of any interpreter
// state. Compile once, instantiate many scripts from it.
type Chunk struct {
	name  string
	proto *lua.FunctionProto
}

// Name returns the chunk name used in error messages.
func (c *Chunk) Name() string {
	return c.name
}

// Compile parses and compiles source without running it. Parse failures are
// SyntaxError.
func Compile(name string, source []byte) (*Chunk, error) {
	stmts, err := parse.Parse(strings.NewReader(string(source)), name)
	if err != nil {
		return nil, &SyntaxError{Script: name, Msg: err.Error()}
	}
	proto, err := lua.Compile(stmts, name)
	if err != nil {
		return nil, &SyntaxError{Script: name, Msg: err.Error()}
	}
	return &Chunk{name: name, proto: proto}, nil
}

// NewFromChunk creates a script from a precompiled chunk, running it as the
// top-level chunk exactly as New would.
func NewFromChunk(c *Chunk, opts ...Option) (*Script, error) {
	s := build(c.name, opts)
	if err := s.run(s.l.NewFunctionFromProto(c.proto)); err != nil {
		s.l.Close()
		return nil, err
	}
	return s, nil
}
