package script

import (
	"strings"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"
)

// The sandbox keeps only side-effect-free builtins and the pure library
// tables. Everything the interpreter would normally expose for process,
// file, code-loading or coroutine access (print, dofile, load*, pcall, io,
// os, debug, package) never reaches the script: the base library is opened
// to get the safe builtins, then every global outside the whitelist is
// deleted.
var sandboxGlobals = map[string]struct{}{
	"assert":   {},
	"ipairs":   {},
	"next":     {},
	"pairs":    {},
	"select":   {},
	"tonumber": {},
	"tostring": {},
	"type":     {},
	"_G":       {},
	"_VERSION": {},

	// Safe library tables, opened below. utf8 is built by hand: the VM
	// predates the stock utf8 library.
	lua.TabLibName:    {},
	lua.StringLibName: {},
	lua.MathLibName:   {},
	"utf8":            {},
}

func (s *Script) installSandbox() {
	l := s.l

	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		l.Push(l.NewFunction(lib.open))
		l.Push(lua.LString(lib.name))
		l.Call(1, 0)
	}

	globals := l.Get(lua.GlobalsIndex).(*lua.LTable)
	var drop []string
	globals.ForEach(func(k, _ lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok {
			return
		}
		if _, keep := sandboxGlobals[string(name)]; !keep {
			drop = append(drop, string(name))
		}
	})
	for _, name := range drop {
		globals.RawSetString(name, lua.LNil)
	}

	l.SetGlobal("utf8", utf8Table(l))
	l.SetGlobal("yield", l.NewFunction(yieldBuiltin))
	l.SetGlobal("require", l.NewFunction(s.requireBuiltin))
}

// yieldBuiltin suspends the calling coroutine, forwarding its arguments to
// the resumer. Calling it from the main chunk is an interpreter error.
func yieldBuiltin(l *lua.LState) int {
	vals := make([]lua.LValue, l.GetTop())
	for i := range vals {
		vals[i] = l.Get(i + 1)
	}
	return l.Yield(vals...)
}

// utf8Table builds the utf8 library: char, len, codepoint and codes over
// Go's UTF-8 decoder, plus the charpattern constant.
func utf8Table(l *lua.LState) *lua.LTable {
	t := l.NewTable()
	l.SetField(t, "charpattern", lua.LString("[\x00-\x7F\xc2-\xfd][\x80-\xbf]*"))
	l.SetField(t, "char", l.NewFunction(utf8Char))
	l.SetField(t, "len", l.NewFunction(utf8Len))
	l.SetField(t, "codepoint", l.NewFunction(utf8Codepoint))
	l.SetField(t, "codes", l.NewFunction(utf8Codes))
	return t
}

func utf8Char(l *lua.LState) int {
	var b strings.Builder
	for i := 1; i <= l.GetTop(); i++ {
		b.WriteRune(rune(l.CheckInt(i)))
	}
	l.Push(lua.LString(b.String()))
	return 1
}

// byteIndex resolves a 1-based, possibly negative string index to a byte
// offset clamped to [0, len].
func byteIndex(i, length int) int {
	if i < 0 {
		i = length + i + 1
	}
	if i < 1 {
		i = 1
	}
	if i > length+1 {
		i = length + 1
	}
	return i - 1
}

func utf8Len(l *lua.LState) int {
	str := l.CheckString(1)
	from := byteIndex(l.OptInt(2, 1), len(str))
	to := byteIndex(l.OptInt(3, -1), len(str)) + 1

	n := 0
	for pos := from; pos < to; {
		r, size := utf8.DecodeRuneInString(str[pos:])
		if r == utf8.RuneError && size <= 1 {
			l.Push(lua.LNil)
			l.Push(lua.LNumber(pos + 1))
			return 2
		}
		pos += size
		n++
	}
	l.Push(lua.LNumber(n))
	return 1
}

func utf8Codepoint(l *lua.LState) int {
	str := l.CheckString(1)
	i := l.OptInt(2, 1)
	from := byteIndex(i, len(str))
	to := byteIndex(l.OptInt(3, i), len(str)) + 1

	n := 0
	for pos := from; pos < to; {
		r, size := utf8.DecodeRuneInString(str[pos:])
		if r == utf8.RuneError && size <= 1 {
			l.RaiseError("invalid UTF-8 code at byte %d", pos+1)
		}
		l.Push(lua.LNumber(r))
		pos += size
		n++
	}
	return n
}

func utf8Codes(l *lua.LState) int {
	l.CheckString(1)
	l.Push(l.NewFunction(utf8CodesIter))
	l.Push(l.Get(1))
	l.Push(lua.LNumber(0))
	return 3
}

func utf8CodesIter(l *lua.LState) int {
	str := l.CheckString(1)
	prev := l.CheckInt(2)

	pos := 0
	if prev > 0 {
		_, size := utf8.DecodeRuneInString(str[prev-1:])
		pos = prev - 1 + size
	}
	if pos >= len(str) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(str[pos:])
	if r == utf8.RuneError && size <= 1 {
		l.RaiseError("invalid UTF-8 code at byte %d", pos+1)
	}
	l.Push(lua.LNumber(pos + 1))
	l.Push(lua.LNumber(r))
	return 2
}
