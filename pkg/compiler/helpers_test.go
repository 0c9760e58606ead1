package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"goacc/pkg/asm"
	"goacc/pkg/vm"
)

// compileOK compiles src and fails the test on any error.
func compileOK(t *testing.T, src string) *Result {
	t.Helper()
	res, err := Compile(src, t.Logf)
	require.NoError(t, err)
	require.NotNil(t, res.Program)
	return res
}

// compileFail compiles src and expects semantic errors.
func compileFail(t *testing.T, src string) *Result {
	t.Helper()
	res, err := Compile(src, t.Logf)
	require.ErrorIs(t, err, ErrCompilationFailed)
	require.NotNil(t, res)
	require.Nil(t, res.Program)
	return res
}

// runProgram compiles src, renders it as text, parses it back and runs it
// on the virtual machine with the given inputs.
func runProgram(t *testing.T, src string, inputs ...int64) []int64 {
	t.Helper()
	res := compileOK(t, src)
	prog, err := asm.Parse(res.Program.String())
	require.NoError(t, err)
	m := vm.New(prog, vm.WithStepLimit(10_000_000))
	m.PushInput(inputs...)
	require.NoError(t, m.Run(context.Background()))
	return m.Outputs()
}
