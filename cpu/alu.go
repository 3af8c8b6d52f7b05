package cpu

// Alu is the stateless arithmetic and logic unit.
type Alu struct{}

// Execute applies 'op' to the two operands. Arithmetic wraps at 32 bits.
func (Alu) Execute(operand1, operand2 uint32, op CodeAluOp) (result uint32, err error) {
	switch op {
	case ALU_OP_ADD:
		result = operand1 + operand2
	case ALU_OP_SUB:
		result = operand1 - operand2
	case ALU_OP_AND:
		result = operand1 & operand2
	case ALU_OP_OR:
		result = operand1 | operand2
	default:
		err = ErrUnsupportedOpcode
	}

	return
}
