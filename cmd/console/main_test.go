package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reads two numbers and writes their sum
const sumProgram = `SET 15
STORE 1
GET 0
STOREI 1
SET 16
STORE 1
GET 0
STOREI 1
LOAD 15
ADD 16
PUT 0
HALT
`

func writeProgram(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sum.mr")
	require.NoError(t, os.WriteFile(path, []byte(sumProgram), 0o644))
	return path
}

func TestConsoleRun(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{writeProgram(t)}, strings.NewReader("4 -9\n"), &out, &errOut)
	assert.Equal(t, 0, code, errOut.String())
	assert.Equal(t, "-5\n", out.String())
	assert.Contains(t, errOut.String(), "halted: cost")
}

func TestConsolePrompt(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-prompt", writeProgram(t)}, strings.NewReader("1\n2\n"), &out, &errOut)
	assert.Equal(t, 0, code)
	assert.Equal(t, "? ? > 3\n", out.String())
}

func TestConsoleSnapshotAndRestore(t *testing.T) {
	prog := writeProgram(t)
	snap := filepath.Join(t.TempDir(), "snap.zip")

	var out, errOut bytes.Buffer
	code := run([]string{"-dump", snap, prog}, strings.NewReader("10\n"), &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "input exhausted")
	require.FileExists(t, snap)

	out.Reset()
	errOut.Reset()
	code = run([]string{"-restore", snap}, strings.NewReader("5\n"), &out, &errOut)
	assert.Equal(t, 0, code, errOut.String())
	assert.Equal(t, "15\n", out.String())
}

func TestConsoleUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run(nil, strings.NewReader(""), &out, &errOut))
	assert.Contains(t, errOut.String(), "usage: console")

	errOut.Reset()
	assert.Equal(t, 2, run([]string{"-restore", "x.zip", "p.mr"}, strings.NewReader(""), &out, &errOut))

	errOut.Reset()
	assert.Equal(t, 1, run([]string{filepath.Join(t.TempDir(), "missing.mr")}, strings.NewReader(""), &out, &errOut))
	assert.Contains(t, errOut.String(), "failed to read program")
}
