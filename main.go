package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"goacc/pkg/compiler"
	"goacc/pkg/config"
	"goacc/pkg/utils"
	"goacc/pkg/vm"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the whole command; it returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := config.FromEnv()

	fs := flag.NewFlagSet("goacc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	runProgram := fs.Bool("run", false, "run the compiled program on the virtual machine")
	showAsm := fs.Bool("show-asm", false, "print the generated instructions")
	showSymbols := fs.Bool("symbols", false, "print the symbol tables")
	color := fs.Bool("color", cfg.Color, "color diagnostics")
	trace := fs.Bool("trace", cfg.Trace, "log every executed instruction (with -run)")
	stepLimit := fs.Int("steps", cfg.StepLimit, "step limit for -run")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: goacc [flags] <input-path> <output-path>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	inPath, outPath := fs.Arg(0), fs.Arg(1)

	src, fullPath, err := utils.ReadSource(inPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	res, err := compiler.Compile(src, nil)
	if res != nil {
		fmt.Fprint(stderr, res.Diagnostics.Render(*color))
		if *showSymbols {
			fmt.Fprint(stdout, res.Symbols())
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", fullPath, err)
		return 1
	}

	if *showAsm {
		fmt.Fprint(stdout, res.Program.Listing())
	}
	if err := utils.WriteProgram(outPath, res.Program); err != nil {
		fmt.Fprintf(stderr, "failed to write %q: %v\n", outPath, err)
		return 1
	}
	fmt.Fprintf(stdout, "compiled %d instructions -> %s\n", len(res.Program), outPath)

	if !*runProgram {
		return 0
	}

	opts := []vm.Option{
		vm.WithInput(stdin),
		vm.WithOutput(stdout),
		vm.WithPrompt(cfg.Prompt),
		vm.WithStepLimit(int64(*stepLimit)),
	}
	if *trace {
		opts = append(opts, vm.WithLogf(log.New(stderr, "", 0).Printf))
	}
	m := vm.New(res.Program, opts...)
	if err := m.Run(context.Background()); err != nil {
		fmt.Fprintf(stderr, "run failed: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "cost: %d (io: %d)\n", m.Cost, m.IOCost)
	return 0
}
