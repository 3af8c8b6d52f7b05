// Package cpu implements a single-cycle teaching processor and its assembler.
//
// The machine is a register file, a program memory, a data memory, a 2-bit
// ALU, and a control sequencer that names the FETCH, DECODE and EXECUTE
// phases. Every storage is a fixed-capacity, zero-initialized Bank with
// range-checked access.
//
// Instructions are 32-bit words:
//
//	31..28  opcode (only bits 29..28 select the ALU operation)
//	 7..5   source register
//	 4..2   target register
//	 1..0   destination register (r0-r3 only)
//
// The assembler accepts one instruction per line, supports equates, raw
// words, and compile-time $(...) expressions.
package cpu
