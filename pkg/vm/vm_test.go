package vm

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goacc/pkg/asm"
)

func mustParse(t *testing.T, src string) asm.Program {
	t.Helper()
	prog, err := asm.Parse(src)
	require.NoError(t, err)
	return prog
}

func TestEchoDouble(t *testing.T) {
	prog := mustParse(t, `
GET 0
ADD 0
PUT 0
HALT
`)
	var out bytes.Buffer
	m := New(prog, WithInput(strings.NewReader("21")), WithOutput(&out))
	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, "42\n", out.String())
	assert.Equal(t, []int64{42}, m.Outputs())
	assert.Equal(t, int64(100+10+100), m.Cost)
	assert.Equal(t, int64(200), m.IOCost)
	assert.True(t, m.Halted)
}

func TestPromptFormat(t *testing.T) {
	prog := mustParse(t, "GET 0\nPUT 0\nHALT\n")
	var out bytes.Buffer
	m := New(prog, WithInput(strings.NewReader("-5")), WithOutput(&out), WithPrompt(true))
	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, "? > -5\n", out.String())
}

func TestHalfFloors(t *testing.T) {
	tests := []struct{ in, want int64 }{
		{7, 3}, {6, 3}, {0, 0}, {-1, -1}, {-7, -4}, {-8, -4},
	}
	for _, tc := range tests {
		m := New(asm.Program{{Op: asm.SET, Arg: tc.in}, {Op: asm.HALF}, {Op: asm.HALT}})
		require.NoError(t, m.Run(context.Background()))
		assert.Equal(t, tc.want, m.Acc(), "HALF %d", tc.in)
	}
}

func TestIndirection(t *testing.T) {
	prog := asm.Program{
		{Op: asm.SET, Arg: 30},
		{Op: asm.STORE, Arg: 20}, // p[20] = 30
		{Op: asm.SET, Arg: 9},
		{Op: asm.STOREI, Arg: 20}, // p[30] = 9
		{Op: asm.SET, Arg: 0},
		{Op: asm.LOADI, Arg: 20},
		{Op: asm.ADDI, Arg: 20},
		{Op: asm.SUBI, Arg: 20},
		{Op: asm.ADDI, Arg: 20},
		{Op: asm.HALT},
	}
	m := New(prog)
	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, int64(9), m.Cell(30))
	assert.Equal(t, int64(18), m.Acc())
}

func TestRelativeJumpsAndReturn(t *testing.T) {
	prog := mustParse(t, `
SET 5
STORE 1
JUMP 3   # -> 5
SET 99
PUT 0
LOAD 1
JPOS 2   # -> 8
HALT
SET 13
STORE 2
RTRN 2   # -> 13
SET 99
PUT 0
HALT
`)
	m := New(prog)
	require.NoError(t, m.Run(context.Background()))
	assert.Empty(t, m.Outputs())
	assert.Equal(t, int64(13), m.PC)
}

func TestNegativeAddress(t *testing.T) {
	m := New(asm.Program{{Op: asm.LOAD, Arg: -1}, {Op: asm.HALT}})
	err := m.Run(context.Background())
	assert.ErrorIs(t, err, ErrNegativeAddress)

	// SET and the jumps take signed operands.
	m = New(asm.Program{{Op: asm.SET, Arg: -1}, {Op: asm.JNEG, Arg: 2}, {Op: asm.HALT}, {Op: asm.HALT}})
	assert.NoError(t, m.Run(context.Background()))
	assert.Equal(t, int64(3), m.PC)
}

func TestPCOutOfRange(t *testing.T) {
	m := New(asm.Program{{Op: asm.JUMP, Arg: 5}, {Op: asm.HALT}})
	err := m.Run(context.Background())
	assert.ErrorIs(t, err, ErrPCOutOfRange)

	m = New(asm.Program{{Op: asm.SET, Arg: 0}})
	assert.ErrorIs(t, m.Run(context.Background()), ErrPCOutOfRange)
}

func TestStepLimit(t *testing.T) {
	m := New(asm.Program{{Op: asm.JUMP, Arg: 0}}, WithStepLimit(50))
	err := m.Run(context.Background())
	assert.ErrorIs(t, err, ErrStepLimit)
	assert.Equal(t, int64(50), m.Steps)
}

func TestContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New(asm.Program{{Op: asm.JUMP, Arg: 0}}, WithStepLimit(0))
	assert.ErrorIs(t, m.Run(ctx), context.Canceled)
}

func TestWaitingForInput(t *testing.T) {
	prog := mustParse(t, "GET 0\nPUT 0\nHALT\n")
	m := New(prog)
	require.NoError(t, m.RunUntilBlocked(context.Background()))
	assert.True(t, m.Waiting)
	assert.False(t, m.Halted)
	assert.Equal(t, int64(0), m.PC)

	m.PushInput(17)
	assert.False(t, m.Waiting)
	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, []int64{17}, m.Outputs())
}

func TestStepAfterHalt(t *testing.T) {
	m := New(asm.Program{{Op: asm.HALT}})
	require.NoError(t, m.Step())
	assert.ErrorIs(t, m.Step(), ErrHalted)
}

func TestLogf(t *testing.T) {
	var lines []string
	logf := func(mess string, args ...any) { lines = append(lines, mess) }
	m := New(asm.Program{{Op: asm.SET, Arg: 1}, {Op: asm.HALT}}, WithLogf(logf))
	require.NoError(t, m.Run(context.Background()))
	assert.Len(t, lines, 2)
}
