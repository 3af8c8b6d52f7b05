package cpu

import (
	"iter"
)

// Opcode is a line of assembled code with its source location.
type Opcode struct {
	LineNo int      // Source line number.
	Ip     int      // Program memory address.
	Words  []string // Source words, after expansion.
	Code   Code     // Assembled instruction word.
}

// Program is an assembled program listing.
type Program struct {
	Opcodes []Opcode
}

// Debug finds the opcode assembled at program address 'ip'.
func (prog *Program) Debug(ip int) (op *Opcode, ok bool) {
	for n := range prog.Opcodes {
		if prog.Opcodes[n].Ip == ip {
			op = &prog.Opcodes[n]
			ok = true
			break
		}
	}

	return
}

// Binary returns the program memory image.
func (prog *Program) Binary() (bins []uint32) {
	for _, code := range prog.Codes() {
		bins = append(bins, uint32(code))
	}

	return
}

// Codes iterates over the program addresses and instruction words.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(ip int, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Ip, op.Code) {
				return
			}
		}
	}
}
