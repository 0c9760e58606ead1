package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goacc/pkg/asm"
)

func TestProgramRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.mr")
	prog := asm.Program{
		{Op: asm.GET, Arg: 0},
		{Op: asm.HALF},
		{Op: asm.PUT, Arg: 0},
		{Op: asm.HALT},
	}
	require.NoError(t, WriteProgram(path, prog))

	got, err := ReadProgram(path)
	require.NoError(t, err)
	assert.Equal(t, prog, got)
}

func TestReadProgramErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadProgram(filepath.Join(dir, "missing.mr"))
	assert.ErrorContains(t, err, "failed to read program")

	bad := filepath.Join(dir, "bad.mr")
	require.NoError(t, os.WriteFile(bad, []byte("LOAD\n"), 0o644))
	_, err = ReadProgram(bad)
	assert.ErrorContains(t, err, "bad.mr")
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.imp")
	require.NoError(t, os.WriteFile(path, []byte("PROGRAM"), 0o644))

	src, full, err := ReadSource(path)
	require.NoError(t, err)
	assert.Equal(t, "PROGRAM", src)
	assert.True(t, filepath.IsAbs(full))

	_, _, err = ReadSource(filepath.Join(dir, "nope.imp"))
	assert.ErrorContains(t, err, "failed to read source file")
}
