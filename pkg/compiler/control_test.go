package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func TestConditions(t *testing.T) {
	src := `PROGRAM IS a, b BEGIN
  READ a; READ b;
  IF a = b THEN WRITE 1; ELSE WRITE 0; ENDIF
  IF a != b THEN WRITE 1; ELSE WRITE 0; ENDIF
  IF a < b THEN WRITE 1; ELSE WRITE 0; ENDIF
  IF a > b THEN WRITE 1; ELSE WRITE 0; ENDIF
  IF a <= b THEN WRITE 1; ELSE WRITE 0; ENDIF
  IF a >= b THEN WRITE 1; ELSE WRITE 0; ENDIF
END`
	pairs := [][2]int64{{1, 2}, {2, 2}, {3, 2}, {-1, -2}, {-5, 5}, {0, 0}}
	for _, p := range pairs {
		a, b := p[0], p[1]
		want := []int64{b2i(a == b), b2i(a != b), b2i(a < b), b2i(a > b), b2i(a <= b), b2i(a >= b)}
		assert.Equal(t, want, runProgram(t, src, a, b), "a=%d b=%d", a, b)
	}
}

func TestIfWithoutElse(t *testing.T) {
	src := `PROGRAM IS a BEGIN
  READ a;
  IF a != 0 THEN WRITE 5; ENDIF
  IF a > 0 THEN WRITE 6; ENDIF
  IF a <= 0 THEN WRITE 7; ENDIF
  WRITE 9;
END`
	assert.Equal(t, []int64{5, 6, 9}, runProgram(t, src, 3))
	assert.Equal(t, []int64{7, 9}, runProgram(t, src, 0))
	assert.Equal(t, []int64{5, 7, 9}, runProgram(t, src, -4))
}

func TestWhileLoops(t *testing.T) {
	tests := []struct {
		name string
		src  string
		in   []int64
		want []int64
	}{
		{
			name: "count down",
			src:  `PROGRAM IS n BEGIN READ n; WHILE n > 0 DO WRITE n; n := n - 1; ENDWHILE END`,
			in:   []int64{3},
			want: []int64{3, 2, 1},
		},
		{
			name: "not equal",
			src:  `PROGRAM IS n BEGIN READ n; WHILE n != 0 DO WRITE n; n := n - 1; ENDWHILE END`,
			in:   []int64{3},
			want: []int64{3, 2, 1},
		},
		{
			name: "less or equal",
			src:  `PROGRAM IS n BEGIN READ n; WHILE n <= 3 DO WRITE n; n := n + 1; ENDWHILE END`,
			in:   []int64{1},
			want: []int64{1, 2, 3},
		},
		{
			name: "never entered",
			src:  `PROGRAM IS n BEGIN READ n; WHILE n < 0 DO WRITE n; ENDWHILE WRITE 0; END`,
			in:   []int64{4},
			want: []int64{0},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, runProgram(t, tc.src, tc.in...))
		})
	}
}

func TestRepeatLoops(t *testing.T) {
	eq := `PROGRAM IS n BEGIN READ n; REPEAT WRITE n; n := n + 1; UNTIL n = 3; END`
	assert.Equal(t, []int64{1, 2}, runProgram(t, eq, 1))

	ge := `PROGRAM IS n BEGIN READ n; REPEAT WRITE n; n := n + 1; UNTIL n >= 3; END`
	assert.Equal(t, []int64{1, 2}, runProgram(t, ge, 1))
	assert.Equal(t, []int64{10}, runProgram(t, ge, 10), "body runs at least once")
}

func TestForLoops(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []int64
	}{
		{
			name: "ascending",
			src:  `PROGRAM IS x BEGIN x := 0; FOR i FROM 1 TO 3 DO WRITE i; ENDFOR END`,
			want: []int64{1, 2, 3},
		},
		{
			name: "descending",
			src:  `PROGRAM IS x BEGIN x := 0; FOR i FROM 3 DOWNTO 1 DO WRITE i; ENDFOR END`,
			want: []int64{3, 2, 1},
		},
		{
			name: "negative range",
			src:  `PROGRAM IS x BEGIN x := 0; FOR i FROM -2 TO 0 DO WRITE i; ENDFOR END`,
			want: []int64{-2, -1, 0},
		},
		{
			name: "empty range",
			src:  `PROGRAM IS x BEGIN FOR i FROM 5 TO 1 DO WRITE i; ENDFOR x := 1; WRITE x; END`,
			want: []int64{1},
		},
		{
			name: "single iteration",
			src:  `PROGRAM IS x BEGIN FOR i FROM 4 DOWNTO 4 DO WRITE i; ENDFOR x := 1; END`,
			want: []int64{4},
		},
		{
			name: "nested and reused iterator names",
			src: `PROGRAM IS c BEGIN
  c := 0;
  FOR i FROM 1 TO 3 DO
    FOR j FROM i TO 3 DO c := c + 1; ENDFOR
  ENDFOR
  FOR i FROM 1 TO 2 DO c := c + 10; ENDFOR
  WRITE c;
END`,
			want: []int64{26},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, runProgram(t, tc.src))
		})
	}
}

func TestForFrozenBound(t *testing.T) {
	src := `PROGRAM IS n, c BEGIN
  READ n;
  c := 0;
  FOR i FROM 1 TO n DO
    n := n - 1;
    c := c + 1;
  ENDFOR
  WRITE c;
  WRITE n;
END`
	assert.Equal(t, []int64{5, 0}, runProgram(t, src, 5))
	assert.Equal(t, []int64{0, 0}, runProgram(t, src, 0))
}

func TestArrays(t *testing.T) {
	src := `PROGRAM IS t[-2:2], k BEGIN
  FOR j FROM -2 TO 2 DO t[j] := j * 10; ENDFOR
  k := -1;
  WRITE t[k];
  t[k] := 99;
  WRITE t[-1];
  READ t[k];
  WRITE t[-1];
  WRITE t[2];
END`
	assert.Equal(t, []int64{-10, 99, 42, 20}, runProgram(t, src, 42))
}

func TestArraysDoNotOverlap(t *testing.T) {
	src := `PROGRAM IS a[0:2], x, b[5:6] BEGIN
  x := 7;
  FOR i FROM 0 TO 2 DO a[i] := 1; ENDFOR
  FOR i FROM 5 TO 6 DO b[i] := 2; ENDFOR
  WRITE x;
  WRITE a[0]; WRITE a[2];
  WRITE b[5]; WRITE b[6];
END`
	assert.Equal(t, []int64{7, 1, 1, 2, 2}, runProgram(t, src))
}
