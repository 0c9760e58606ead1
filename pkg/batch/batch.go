// Package batch compiles every source file in a directory concurrently.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"goacc/pkg/compiler"
	"goacc/pkg/utils"
)

const (
	SourceExt = ".imp"
	OutputExt = ".mr"
)

// Report is the outcome for one source file.
type Report struct {
	Path         string
	Output       string // written only when the file compiled cleanly
	Instructions int
	Diagnostics  []compiler.Diagnostic
	Err          error
}

// OK reports whether the file compiled without errors.
func (r Report) OK() bool { return r.Err == nil }

// OutputPath maps a source path to its compiled sibling.
func OutputPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + OutputExt
}

// CompileDir compiles each *.imp file in dir with at most workers files in
// flight and writes a .mr file next to every one that compiles. Compile
// errors are reported per file; the returned error is reserved for I/O
// failures and cancellation. Reports are sorted by path.
func CompileDir(ctx context.Context, dir string, workers int, logf func(format string, args ...any)) ([]Report, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+SourceExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	if workers < 1 {
		workers = 1
	}

	reports := make([]Report, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, err := compileFile(path)
			reports[i] = rep
			if err != nil {
				return err
			}
			if logf != nil {
				if rep.OK() {
					logf("%s: %d instructions -> %s", path, rep.Instructions, rep.Output)
				} else {
					logf("%s: %v", path, rep.Err)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}

// compileFile returns a non-nil error only when the file could not be read
// or the output could not be written.
func compileFile(path string) (Report, error) {
	rep := Report{Path: path}
	src, err := os.ReadFile(path)
	if err != nil {
		return rep, fmt.Errorf("failed to read %s: %w", path, err)
	}

	res, err := compiler.Compile(string(src), nil)
	if res != nil {
		rep.Diagnostics = res.Diagnostics.All()
	}
	if err != nil {
		rep.Err = err
		return rep, nil
	}

	rep.Instructions = len(res.Program)
	rep.Output = OutputPath(path)
	if err := utils.WriteProgram(rep.Output, res.Program); err != nil {
		return rep, fmt.Errorf("failed to write %s: %w", rep.Output, err)
	}
	return rep, nil
}

// Failed counts the reports with compile errors.
func Failed(reports []Report) int {
	n := 0
	for _, r := range reports {
		if !r.OK() {
			n++
		}
	}
	return n
}
