package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"goacc/pkg/config"
	"goacc/pkg/utils"
	"goacc/pkg/vm"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := config.FromEnv()

	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dump := fs.String("dump", "", "write a machine snapshot to this file when the run stops")
	restore := fs.String("restore", "", "resume from a snapshot instead of loading a program")
	prompt := fs.Bool("prompt", cfg.Prompt, "print \"? \" before reads and \"> \" before writes")
	trace := fs.Bool("trace", cfg.Trace, "log every executed instruction")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: console [flags] <program.mr>")
		fmt.Fprintln(stderr, "       console [flags] -restore <snapshot.zip>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if (*restore == "") == (fs.NArg() != 1) {
		fs.Usage()
		return 2
	}

	opts := []vm.Option{
		vm.WithInput(stdin),
		vm.WithOutput(stdout),
		vm.WithPrompt(*prompt),
		vm.WithStepLimit(int64(cfg.StepLimit)),
	}
	if *trace {
		opts = append(opts, vm.WithLogf(log.New(stderr, "", 0).Printf))
	}

	var m *vm.Machine
	if *restore != "" {
		var err error
		m, err = vm.RestoreFromFile(*restore, opts...)
		if err != nil {
			fmt.Fprintf(stderr, "restore failed: %v\n", err)
			return 1
		}
	} else {
		prog, err := utils.ReadProgram(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		m = vm.New(prog, opts...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := m.Run(ctx)
	if *dump != "" {
		if err := m.SnapshotToFile(*dump); err != nil {
			fmt.Fprintf(stderr, "snapshot failed: %v\n", err)
			return 1
		}
	}

	switch {
	case runErr == nil:
		fmt.Fprintf(stderr, "halted: cost %d (io %d), %d steps\n", m.Cost, m.IOCost, m.Steps)
		return 0
	case errors.Is(runErr, vm.ErrNoInput):
		fmt.Fprintf(stderr, "stopped at pc %d: input exhausted\n", m.PC)
	default:
		fmt.Fprintf(stderr, "run failed: %v\n", runErr)
	}
	return 1
}
