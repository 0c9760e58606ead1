package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goacc/pkg/asm"
	"goacc/pkg/batch"
	"goacc/pkg/compiler"
	"goacc/pkg/vm"
)

const programsDir = "../_programs"

// runSource compiles src, renders the program as text, parses it back and
// runs it on the virtual machine.
func runSource(t *testing.T, src string, inputs ...int64) *vm.Machine {
	t.Helper()
	res, err := compiler.Compile(src, t.Logf)
	require.NoError(t, err)

	prog, err := asm.Parse(res.Program.String())
	require.NoError(t, err)
	require.NoError(t, asm.CheckJumps(prog))

	m := vm.New(prog)
	m.PushInput(inputs...)
	require.NoError(t, m.Run(context.Background()))
	require.True(t, m.Halted)
	return m
}

func runFile(t *testing.T, name string, inputs ...int64) *vm.Machine {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(programsDir, name))
	require.NoError(t, err)
	return runSource(t, string(data), inputs...)
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		file   string
		inputs []int64
		want   []int64
	}{
		{"factorial.imp", []int64{5}, []int64{120}},
		{"factorial.imp", []int64{0}, []int64{1}},
		{"factorial.imp", []int64{20}, []int64{2432902008176640000}},
		{"gcd.imp", []int64{12, 18}, []int64{6}},
		{"gcd.imp", []int64{1071, 462}, []int64{21}},
		{"gcd.imp", []int64{7, 0}, []int64{7}},
		{"sieve.imp", nil, []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71, 73, 79, 83, 89, 97}},
		{"binary.imp", []int64{13}, []int64{1, 1, 0, 1}},
		{"binary.imp", []int64{0}, []int64{0}},
		{"binary.imp", []int64{64}, []int64{1, 0, 0, 0, 0, 0, 0}},
		{"sort.imp", []int64{5, 3, -1, 4, 0}, []int64{-1, 0, 3, 4, 5}},
		{"sort.imp", []int64{1, 1, 1, 1, 1}, []int64{1, 1, 1, 1, 1}},
		{"divmod.imp", []int64{7, 2}, []int64{3, 1, -4, 1}},
		{"divmod.imp", []int64{-7, 2}, []int64{-4, 1, -4, 1}},
		{"divmod.imp", []int64{7, -2}, []int64{-4, -1, -4, 1}},
		{"divmod.imp", []int64{7, 0}, []int64{0, 0, -4, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			m := runFile(t, tc.file, tc.inputs...)
			assert.Equal(t, tc.want, m.Outputs(), "inputs %v", tc.inputs)
			assert.Positive(t, m.Cost)
		})
	}
}

func TestWriteAssignedVariable(t *testing.T) {
	m := runSource(t, `PROGRAM IS x BEGIN x:=3; WRITE x; END`)
	assert.Equal(t, []int64{3}, m.Outputs())
	// SET STORE SET STOREI LOAD PUT HALT
	assert.Equal(t, int64(50+10+50+20+10+100), m.Cost)
	assert.Equal(t, int64(100), m.IOCost)
}

func TestForBoundIsFrozen(t *testing.T) {
	m := runSource(t, `PROGRAM IS n, c BEGIN
  n := 4;
  c := 0;
  FOR i FROM 1 TO n DO
    n := n + 10;
    c := c + 1;
  ENDFOR
  WRITE c;
END`)
	assert.Equal(t, []int64{4}, m.Outputs())
}

func TestFoldedAndRuntimeDivisionAgree(t *testing.T) {
	m := runSource(t, `PROGRAM IS a, b BEGIN
  b := 7 / 2;
  WRITE b;
  a := 7;
  b := a / 2;
  WRITE b;
END`)
	assert.Equal(t, []int64{3, 3}, m.Outputs())
}

func TestBadCallsProduceNoProgram(t *testing.T) {
	for _, src := range []string{
		`PROGRAM IS x BEGIN x := 1; missing(x); END`,
		`PROCEDURE p(a, b) IS BEGIN a := b; END PROGRAM IS x BEGIN x := 1; p(x); END`,
	} {
		res, err := compiler.Compile(src, nil)
		require.ErrorIs(t, err, compiler.ErrCompilationFailed)
		assert.Nil(t, res.Program)
		assert.Len(t, res.Diagnostics.Errors(), 1)
	}
}

func TestBatchCompilesSamplePrograms(t *testing.T) {
	entries, err := os.ReadDir(programsDir)
	require.NoError(t, err)

	dir := t.TempDir()
	for _, e := range entries {
		if filepath.Ext(e.Name()) != batch.SourceExt {
			continue
		}
		data, err := os.ReadFile(filepath.Join(programsDir, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), data, 0o644))
	}

	reports, err := batch.CompileDir(context.Background(), dir, 4, t.Logf)
	require.NoError(t, err)
	require.NotEmpty(t, reports)
	assert.Zero(t, batch.Failed(reports))

	for _, r := range reports {
		data, err := os.ReadFile(r.Output)
		require.NoError(t, err)
		prog, err := asm.Parse(string(data))
		require.NoError(t, err, r.Path)
		assert.Len(t, prog, r.Instructions)
	}
}
