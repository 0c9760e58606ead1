package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableAllocation(t *testing.T) {
	st := NewSymbolTable("main", FirstUserCell)

	x, err := st.DeclareVariable("x")
	require.NoError(t, err)
	assert.Equal(t, int64(15), x.Location)

	arr, err := st.DeclareArray("t", -2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(16), arr.Location)
	assert.Equal(t, int64(6), arr.Footprint())

	p, err := st.DeclarePointer("p", KindArray)
	require.NoError(t, err)
	assert.Equal(t, int64(22), p.Location)

	it, err := st.DeclareIterator("i")
	require.NoError(t, err)
	assert.Equal(t, int64(23), it.Location)
	assert.False(t, it.Active)

	assert.Equal(t, int64(25), st.Offset())
	assert.Equal(t, int64(15), st.Start())

	names := []string{}
	for _, s := range st.Symbols() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"x", "t", "p", "i"}, names)
}

func TestSymbolTableErrors(t *testing.T) {
	st := NewSymbolTable("main", FirstUserCell)
	_, err := st.DeclareVariable("x")
	require.NoError(t, err)

	_, err = st.DeclareVariable("x")
	assert.Equal(t, DuplicateDeclaration, KindOf(err))
	_, err = st.DeclareArray("x", 0, 1)
	assert.Equal(t, DuplicateDeclaration, KindOf(err))

	_, err = st.DeclareArray("bad", 3, 2)
	assert.Equal(t, InvalidBounds, KindOf(err))
	assert.Equal(t, int64(16), st.Offset(), "failed declarations allocate nothing")

	_, err = st.Lookup("nope")
	assert.True(t, errors.Is(err, &SemanticError{Kind: UndeclaredIdentifier}))

	_, err = st.DeclareIterator("x")
	assert.Equal(t, DuplicateDeclaration, KindOf(err))
}

func TestSymbolTableSingleElementArray(t *testing.T) {
	st := NewSymbolTable("main", 100)
	arr, err := st.DeclareArray("t", 7, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), arr.Footprint())
	addr, err := st.ElementAddress("t", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(101), addr)
}

func TestSymbolTableElementAddress(t *testing.T) {
	st := NewSymbolTable("main", FirstUserCell)
	_, err := st.DeclareArray("t", -3, 4)
	require.NoError(t, err)
	_, err = st.DeclareVariable("v")
	require.NoError(t, err)

	tests := []struct {
		index int64
		want  int64
		kind  ErrorKind
	}{
		{-3, 16, 0},
		{0, 19, 0},
		{4, 23, 0},
		{-4, 0, IndexOutOfBounds},
		{5, 0, IndexOutOfBounds},
	}
	for _, tc := range tests {
		addr, err := st.ElementAddress("t", tc.index)
		if tc.kind != 0 {
			assert.Equal(t, tc.kind, KindOf(err), "index %d", tc.index)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, addr, "index %d", tc.index)
	}

	_, err = st.ElementAddress("v", 0)
	assert.Equal(t, WrongKind, KindOf(err))
	_, err = st.ElementAddress("nope", 0)
	assert.Equal(t, UndeclaredIdentifier, KindOf(err))
}

func TestSymbolTableIteratorReuse(t *testing.T) {
	st := NewSymbolTable("main", FirstUserCell)
	it, err := st.DeclareIterator("i")
	require.NoError(t, err)
	it.Active = true

	_, err = st.DeclareIterator("i")
	assert.Equal(t, DuplicateDeclaration, KindOf(err), "active iterator can not be redeclared")

	require.NoError(t, st.RetireIterator("i"))
	again, err := st.DeclareIterator("i")
	require.NoError(t, err)
	assert.Same(t, it, again)
	assert.Equal(t, int64(17), st.Offset(), "retired slot is reused")

	assert.Equal(t, UndeclaredIdentifier, KindOf(st.RetireIterator("j")))
}

func TestSymbolTableResolveKind(t *testing.T) {
	st := NewSymbolTable("proc", FirstUserCell)
	_, _ = st.DeclarePointer("a", KindArray)
	_, _ = st.DeclarePointer("n", KindVariable)
	_, _ = st.DeclareVariable("x")

	for name, want := range map[string]SymbolKind{"a": KindArray, "n": KindVariable, "x": KindVariable} {
		got, err := st.ResolveKind(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	_, err := st.ResolveKind("zz")
	assert.Error(t, err)
}

func TestSymbolTableString(t *testing.T) {
	st := NewSymbolTable("main", FirstUserCell)
	assert.Equal(t, "main (cells 15..14):\n  (empty)\n", st.String())

	_, _ = st.DeclareVariable("b")
	_, _ = st.DeclareArray("a", 0, 1)
	out := st.String()
	assert.Contains(t, out, "main (cells 15..18):")
	assert.Less(t, strings.Index(out, "  a "), strings.Index(out, "  b "), "sorted by name")
	assert.Contains(t, out, "array    @16 [0:1]")
	assert.Contains(t, out, "variable @15 (initialized: false)")
}
