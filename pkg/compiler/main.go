// Package compiler translates the imperative source language into
// instructions for the accumulator machine in package asm.
//
// Pipeline: source → Lex → Parse → Generate → asm.Program
//
// The machine has no multiply, divide or call stack. Multiplication,
// division and modulo are emitted as inline loops over add, subtract and
// halve; procedures receive every argument by reference through pointer
// cells and return through a per-procedure callback cell, which rules out
// recursion.
package compiler
