package cpu

import (
	"errors"
	"fmt"
)

// CodeAluOp is an ALU operation type.
type CodeAluOp int

//go:generate go tool stringer -linecomment -type=CodeAluOp
const (
	ALU_OP_ADD = CodeAluOp(0) // add
	ALU_OP_SUB = CodeAluOp(1) // sub
	ALU_OP_AND = CodeAluOp(2) // and
	ALU_OP_OR  = CodeAluOp(3) // or
)

// CodeReg is a register index decoded from an instruction word.
type CodeReg int

func (reg CodeReg) String() string {
	return fmt.Sprintf("r%d", int(reg))
}

// Instruction field layout.
const (
	CODE_OPCODE_SHIFT = 28  // Opcode field, 4 bits.
	CODE_OPCODE_MASK  = 0xf // Opcode field width.
	CODE_ALU_MASK     = 0x3 // Opcode bits interpreted by the ALU.
	CODE_SOURCE_SHIFT = 5   // Source register field, 3 bits.
	CODE_TARGET_SHIFT = 2   // Target register field, 3 bits.
	CODE_REG_MASK     = 0x7 // Source and target field width.
	CODE_DEST_MASK    = 0x3 // Destination field, bits 1..0 only.
)

// Code is a raw 32-bit instruction word.
type Code uint32

// MakeCode encodes an ALU instruction.
// The destination field only decodes bits 1..0, so r4-r7 are refused.
func MakeCode(op CodeAluOp, source, target, destination CodeReg) (code Code, err error) {
	if op < ALU_OP_ADD || op > ALU_OP_OR {
		err = ErrUnsupportedOpcode
		return
	}

	for _, reg := range []CodeReg{source, target} {
		if reg < 0 || reg > CODE_REG_MASK {
			err = errors.Join(ErrRegisterInvalid, fmt.Errorf("%v", reg))
			return
		}
	}

	if destination < 0 || destination > CODE_DEST_MASK {
		err = errors.Join(ErrRegisterInvalid, fmt.Errorf("%v", destination))
		return
	}

	code = Code(uint32(op)<<CODE_OPCODE_SHIFT |
		uint32(source)<<CODE_SOURCE_SHIFT |
		uint32(target)<<CODE_TARGET_SHIFT |
		uint32(destination))
	return
}

// Opcode returns the full 4-bit opcode field.
func (code Code) Opcode() CodeAluOp {
	return CodeAluOp((uint32(code) >> CODE_OPCODE_SHIFT) & CODE_OPCODE_MASK)
}

// AluOp returns the opcode bits the ALU interprets. Bits 31..30 are a no-op.
func (code Code) AluOp() CodeAluOp {
	return code.Opcode() & CODE_ALU_MASK
}

// Ignored returns the opcode bits dropped by AluOp, in place.
func (code Code) Ignored() CodeAluOp {
	return code.Opcode() &^ CODE_ALU_MASK
}

// Decode returns the ALU operation and the three register fields.
func (code Code) Decode() (op CodeAluOp, source, target, destination CodeReg) {
	word := uint32(code)
	op = code.AluOp()
	source = CodeReg((word >> CODE_SOURCE_SHIFT) & CODE_REG_MASK)
	target = CodeReg((word >> CODE_TARGET_SHIFT) & CODE_REG_MASK)
	destination = CodeReg(word & CODE_DEST_MASK)
	return
}

// String disassembles the instruction. Ignored opcode bits are shown
// after a slash, as the full opcode field in hex.
func (code Code) String() string {
	op, source, target, destination := code.Decode()

	name := op.String()
	if code.Ignored() != 0 {
		name = fmt.Sprintf("%v/%x", name, int(code.Opcode()))
	}

	return fmt.Sprintf("%v %v %v %v", name, source, target, destination)
}
