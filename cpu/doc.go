// Package cpu implements the LS-8 stored-program computer: a 256-byte
// memory, an 8-slot register bank with a dedicated stack pointer, an
// 8-bit ALU with comparison flags, and the fetch-decode-dispatch
// instruction cycle.
//
// The package also carries the program image loader (one binary byte
// per line) and a small assembler with labels, equates, and
// compile-time expression evaluation.
package cpu
