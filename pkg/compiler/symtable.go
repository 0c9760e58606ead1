package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// Reserved scratch cells. User symbols start at FirstUserCell.
const (
	cellAcc     = 0  // accumulator
	cellTarget  = 1  // assignment / READ destination address
	cellCondL   = 2  // condition operands
	cellCondR   = 3  //
	cellLeft    = 4  // binary expression operands
	cellRight   = 5  //
	cellMulSign = 6  // multiply
	cellMulRes  = 7  //
	cellQuot    = 6  // divide / modulo
	cellRem     = 7  //
	cellDiv     = 8  //
	cellDivSign = 9  //
	cellMult    = 10 //
	cellSign    = 11 //
	cellAddr    = 12 // address resolver
	cellVal     = 13 // value resolver
	cellVal2    = 14 //

	FirstUserCell = 15
)

// SymbolKind is the category of a declared name.
type SymbolKind int

const (
	KindVariable SymbolKind = iota
	KindArray
	KindPointer
	KindIterator
)

func (k SymbolKind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindArray:
		return "array"
	case KindPointer:
		return "pointer"
	case KindIterator:
		return "iterator"
	default:
		return "unknown"
	}
}

// Symbol is one declared name and the cells it owns.
//
// Array cell Location holds the lower bound at runtime; element i lives at
// Location + (i - Lower) + 1. An iterator owns Location (current value) and
// Location+1 (end bound captured at loop entry).
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Location int64

	Lower, Upper int64      // arrays
	Ref          SymbolKind // pointers: KindVariable or KindArray

	Initialized bool // variables
	Active      bool // iterators
}

// Footprint is the number of cells the symbol occupies.
func (s *Symbol) Footprint() int64 {
	switch s.Kind {
	case KindArray:
		return s.Upper - s.Lower + 2
	case KindIterator:
		return 2
	default:
		return 1
	}
}

func (s *Symbol) String() string {
	switch s.Kind {
	case KindArray:
		return fmt.Sprintf("array    @%d [%d:%d]", s.Location, s.Lower, s.Upper)
	case KindPointer:
		return fmt.Sprintf("pointer  @%d -> %s", s.Location, s.Ref)
	case KindIterator:
		return fmt.Sprintf("iterator @%d (end @%d, active: %v)", s.Location, s.Location+1, s.Active)
	default:
		return fmt.Sprintf("variable @%d (initialized: %v)", s.Location, s.Initialized)
	}
}

// SymbolTable is the allocator for one program unit. Addresses grow
// monotonically from the starting offset and are never reused.
type SymbolTable struct {
	Unit    string
	symbols map[string]*Symbol
	order   []*Symbol
	start   int64
	offset  int64
}

func NewSymbolTable(unit string, offset int64) *SymbolTable {
	return &SymbolTable{
		Unit:    unit,
		symbols: make(map[string]*Symbol),
		start:   offset,
		offset:  offset,
	}
}

// Offset returns the next free cell.
func (s *SymbolTable) Offset() int64 { return s.offset }

// Start returns the first cell this table allocated from.
func (s *SymbolTable) Start() int64 { return s.start }

func (s *SymbolTable) allocate(sym *Symbol) *Symbol {
	sym.Location = s.offset
	s.offset += sym.Footprint()
	s.symbols[sym.Name] = sym
	s.order = append(s.order, sym)
	return sym
}

func (s *SymbolTable) checkFree(name string) error {
	if _, ok := s.symbols[name]; ok {
		return semErr(DuplicateDeclaration, name, "'%s' is already declared", name)
	}
	return nil
}

func (s *SymbolTable) DeclareVariable(name string) (*Symbol, error) {
	if err := s.checkFree(name); err != nil {
		return nil, err
	}
	return s.allocate(&Symbol{Name: name, Kind: KindVariable}), nil
}

func (s *SymbolTable) DeclareArray(name string, lower, upper int64) (*Symbol, error) {
	if err := s.checkFree(name); err != nil {
		return nil, err
	}
	if upper < lower {
		return nil, semErr(InvalidBounds, name,
			"array '%s' can not be declared with lower bound %d greater than upper bound %d", name, lower, upper)
	}
	return s.allocate(&Symbol{Name: name, Kind: KindArray, Lower: lower, Upper: upper}), nil
}

func (s *SymbolTable) DeclarePointer(name string, ref SymbolKind) (*Symbol, error) {
	if err := s.checkFree(name); err != nil {
		return nil, err
	}
	return s.allocate(&Symbol{Name: name, Kind: KindPointer, Ref: ref}), nil
}

// DeclareIterator allocates a loop iterator, or reuses the slot of a retired
// iterator with the same name. The returned iterator is inactive; the caller
// activates it once the loop bounds have been evaluated.
func (s *SymbolTable) DeclareIterator(name string) (*Symbol, error) {
	if sym, ok := s.symbols[name]; ok {
		if sym.Kind != KindIterator {
			return nil, semErr(DuplicateDeclaration, name, "'%s' can not be declared as iterator - name collision", name)
		}
		if sym.Active {
			return nil, semErr(DuplicateDeclaration, name, "iterator '%s' is already declared", name)
		}
		return sym, nil
	}
	return s.allocate(&Symbol{Name: name, Kind: KindIterator}), nil
}

// RetireIterator marks the iterator out of scope.
func (s *SymbolTable) RetireIterator(name string) error {
	sym, ok := s.symbols[name]
	if !ok || sym.Kind != KindIterator {
		return semErr(UndeclaredIdentifier, name, "iterator '%s' is undeclared", name)
	}
	sym.Active = false
	return nil
}

// Lookup returns the symbol named name.
func (s *SymbolTable) Lookup(name string) (*Symbol, error) {
	sym, ok := s.symbols[name]
	if !ok {
		return nil, semErr(UndeclaredIdentifier, name, "undeclared identifier '%s'", name)
	}
	return sym, nil
}

// ResolveKind returns the kind of name, looking through one level of
// pointer to the kind it references.
func (s *SymbolTable) ResolveKind(name string) (SymbolKind, error) {
	sym, err := s.Lookup(name)
	if err != nil {
		return 0, err
	}
	if sym.Kind == KindPointer {
		return sym.Ref, nil
	}
	return sym.Kind, nil
}

// ElementAddress returns the cell of array element index.
func (s *SymbolTable) ElementAddress(name string, index int64) (int64, error) {
	sym, err := s.Lookup(name)
	if err != nil {
		return 0, err
	}
	if sym.Kind != KindArray {
		return 0, semErr(WrongKind, name, "'%s' is not an array", name)
	}
	if index < sym.Lower || index > sym.Upper {
		return 0, semErr(IndexOutOfBounds, name,
			"index %d out of bounds for array '%s' [%d:%d]", index, name, sym.Lower, sym.Upper)
	}
	return sym.Location + (index - sym.Lower) + 1, nil
}

// Symbols returns the table's symbols in declaration order.
func (s *SymbolTable) Symbols() []*Symbol {
	return append([]*Symbol(nil), s.order...)
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (cells %d..%d):\n", s.Unit, s.start, s.offset-1)
	if len(s.symbols) == 0 {
		sb.WriteString("  (empty)\n")
		return sb.String()
	}
	names := make([]string, 0, len(s.symbols))
	for name := range s.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "  %-20s  %s\n", name, s.symbols[name])
	}
	return sb.String()
}
