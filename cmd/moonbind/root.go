package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/moonbind/moonbind"
	"github.com/moonbind/moonbind/registry"
)

var rootCmd = &cobra.Command{
	Use:   "moonbind [file]",
	Short: "Sandboxed Lua runner",
	Long: `moonbind - Run Lua scripts in a whitelisted sandbox.

Scripts see only the safe builtins plus the table, string, math and utf8
libraries. The host side provides a small demo surface (echo, clock) and a
require loader rooted at the script's directory and any --lib-dir.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun, // Default to run command behavior
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	addRunFlags(rootCmd)
}

// hostRegistry builds the functions every CLI script gets: echo replaces
// the sandboxed-away print, clock exposes wall time.
func hostRegistry() *registry.Registry {
	reg := registry.New()
	reg.AddFunc("echo", registry.FuncV(func(vs []moonbind.Value) {
		parts := make([]string, len(vs))
		for i, v := range vs {
			parts[i] = displayValue(v)
		}
		fmt.Println(strings.Join(parts, "\t"))
	}))
	reg.AddFunc("clock", registry.Func0R(func() float64 {
		return float64(time.Now().UnixNano()) / 1e9
	}))
	return reg
}

// displayValue renders a value for output: strings raw, everything else via
// its String form.
func displayValue(v moonbind.Value) string {
	if s, ok := v.Str(); ok {
		return s
	}
	return v.String()
}

// parseCallArg turns a --arg string into the closest script value: numbers
// and booleans when they parse, string otherwise.
func parseCallArg(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
