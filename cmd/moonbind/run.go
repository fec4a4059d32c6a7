package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/moonbind/moonbind/script"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Lua script",
	Long: `Execute a Lua script in the sandbox.

Code can be provided via:
  - File argument: moonbind run job.lua
  - Inline flag: moonbind run -c 'echo(1+1)'
  - Stdin: echo 'echo(1+1)' | moonbind run

The top-level chunk runs first; --call then invokes a function it defined,
with --arg values as its arguments.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "Code to execute")
	cmd.Flags().StringSlice("lib-dir", nil, "Directory searched by require (repeatable)")
	cmd.Flags().String("call", "", "Function to call after the chunk runs")
	cmd.Flags().StringSlice("arg", nil, "Argument for --call (repeatable)")
}

func runRun(cmd *cobra.Command, args []string) {
	code, _ := cmd.Flags().GetString("code")
	libDirs, _ := cmd.Flags().GetStringSlice("lib-dir")
	callName, _ := cmd.Flags().GetString("call")
	callArgs, _ := cmd.Flags().GetStringSlice("arg")

	var source []byte
	var name string

	switch {
	case code != "":
		name = "inline"
		source = []byte(code)
	case len(args) > 0:
		name = args[0]
		data, err := os.ReadFile(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		source = data
		// The script's own directory is the first require root.
		libDirs = append([]string{filepath.Dir(name)}, libDirs...)
	default:
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			cmd.Help()
			return
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(data) == 0 {
			cmd.Help()
			return
		}
		name = "stdin"
		source = data
	}

	opts := []script.Option{script.WithRegistry(hostRegistry())}
	if len(libDirs) > 0 {
		opts = append(opts, script.WithLoader(script.FileLoader(libDirs...)))
	}

	s, err := script.New(name, source, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if callName == "" {
		return
	}

	fnArgs := make([]any, len(callArgs))
	for i, a := range callArgs {
		fnArgs[i] = parseCallArg(a)
	}
	v, err := s.Call(callName, fnArgs...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !v.IsNil() {
		fmt.Println(displayValue(v))
	}
}
