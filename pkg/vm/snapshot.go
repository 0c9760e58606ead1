package vm

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"goacc/pkg/asm"
)

// machineState is the JSON form of everything except memory and code.
type machineState struct {
	PC      int64   `json:"pc"`
	Cost    int64   `json:"cost"`
	IOCost  int64   `json:"io_cost"`
	Steps   int64   `json:"steps"`
	Halted  bool    `json:"halted"`
	Waiting bool    `json:"waiting"`
	Outputs []int64 `json:"outputs"`
	Pending []int64 `json:"pending"`
}

const (
	stateEntry   = "state.json"
	memoryEntry  = "memory.json"
	programEntry = "program.mr"
)

// Snapshot writes the machine as a zip archive holding state.json,
// memory.json and the program text.
func (m *Machine) Snapshot(w io.Writer) error {
	zw := zip.NewWriter(w)

	state := machineState{
		PC:      m.PC,
		Cost:    m.Cost,
		IOCost:  m.IOCost,
		Steps:   m.Steps,
		Halted:  m.Halted,
		Waiting: m.Waiting,
		Outputs: m.outputs,
		Pending: m.pending,
	}
	stateJSON, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := writeZipEntry(zw, stateEntry, stateJSON); err != nil {
		return err
	}

	memJSON, err := json.MarshalIndent(m.Mem, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal memory: %w", err)
	}
	if err := writeZipEntry(zw, memoryEntry, memJSON); err != nil {
		return err
	}

	if err := writeZipEntry(zw, programEntry, []byte(m.Program.String())); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

// SnapshotToFile writes Snapshot output to path.
func (m *Machine) SnapshotToFile(path string) error {
	var buf bytes.Buffer
	if err := m.Snapshot(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Restore rebuilds a machine from a Snapshot archive. Options apply as in New.
func Restore(data []byte, opts ...Option) (*Machine, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	files := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		files[f.Name] = f
	}

	progText, err := readZipEntry(files, programEntry)
	if err != nil {
		return nil, err
	}
	prog, err := asm.Parse(string(progText))
	if err != nil {
		return nil, fmt.Errorf("parse program: %w", err)
	}
	m := New(prog, opts...)

	stateJSON, err := readZipEntry(files, stateEntry)
	if err != nil {
		return nil, err
	}
	var state machineState
	if err := json.Unmarshal(stateJSON, &state); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	m.PC = state.PC
	m.Cost = state.Cost
	m.IOCost = state.IOCost
	m.Steps = state.Steps
	m.Halted = state.Halted
	m.Waiting = state.Waiting
	m.outputs = state.Outputs
	m.pending = state.Pending

	if memJSON, err := readZipEntry(files, memoryEntry); err == nil {
		if err := json.Unmarshal(memJSON, &m.Mem); err != nil {
			return nil, fmt.Errorf("unmarshal memory: %w", err)
		}
	}
	return m, nil
}

// RestoreFromFile reads a snapshot archive from path.
func RestoreFromFile(path string, opts ...Option) (*Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Restore(data, opts...)
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func readZipEntry(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("zip entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %q: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
