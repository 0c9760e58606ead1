package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"goacc/pkg/asm"
)

// ReadSource returns the contents of a source file and its absolute path.
func ReadSource(relPath string) (src, fullPath string, err error) {
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fullPath, fmt.Errorf("failed to read source file: %w", err)
	}
	return string(data), fullPath, nil
}

// ReadProgram loads a compiled program file.
func ReadProgram(path string) (asm.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	prog, err := asm.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// WriteProgram writes prog one instruction per line.
func WriteProgram(path string, prog asm.Program) error {
	return os.WriteFile(path, []byte(prog.String()), 0o644)
}
