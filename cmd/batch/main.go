package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"goacc/pkg/batch"
	"goacc/pkg/config"
)

func main() {
	cfg := config.FromEnv()
	workers := flag.Int("j", cfg.Workers, "number of files compiled in parallel")
	verbose := flag.Bool("v", false, "log every file as it finishes")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: batch [-j n] [-v] <dir>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	var logf func(string, ...any)
	if *verbose {
		logf = log.Printf
	}
	reports, err := batch.CompileDir(context.Background(), flag.Arg(0), *workers, logf)
	if err != nil {
		log.Fatalf("batch failed: %v", err)
	}

	for _, r := range reports {
		if r.OK() {
			fmt.Printf("ok    %s (%d instructions)\n", r.Path, r.Instructions)
			continue
		}
		fmt.Printf("FAIL  %s: %v\n", r.Path, r.Err)
		for _, d := range r.Diagnostics {
			fmt.Printf("      %s\n", d)
		}
	}
	if n := batch.Failed(reports); n > 0 {
		fmt.Printf("%d of %d files failed\n", n, len(reports))
		os.Exit(1)
	}
}
