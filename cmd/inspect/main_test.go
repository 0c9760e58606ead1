package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goacc/pkg/compiler"
)

func TestInspectSample(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, inspect(&buf, sampleSource))
	out := buf.String()
	for _, section := range []string{"Source:", "Tokens (", "AST", "Symbols", "main (cells 15..", "Instructions ("} {
		assert.Contains(t, out, section)
	}
	assert.NotContains(t, out, "Diagnostics")
	assert.Contains(t, out, "  FOR i FROM 1 TO 3 DO\n")
}

func TestInspectStopsOnErrors(t *testing.T) {
	var buf bytes.Buffer
	err := inspect(&buf, "PROGRAM IS x BEGIN WRITE x; END")
	assert.ErrorIs(t, err, compiler.ErrCompilationFailed)
	assert.Contains(t, buf.String(), "Error: Line 1: variable 'x' not initialized")
	assert.NotContains(t, buf.String(), "Instructions (")

	buf.Reset()
	err = inspect(&buf, "PROGRAM IS BEGIN")
	assert.ErrorContains(t, err, "parse error")
}
