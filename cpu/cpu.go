package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
	"strings"
)

// Config holds the construction parameters of a Machine.
type Config struct {
	Registers     int     // Number of registers.
	RegisterWidth int     // Register width in bits, informational.
	MemorySize    int     // Program and data memory words.
	WordSize      int     // Memory word width in bits, informational.
	States        []Phase // Control phases the sequencer accepts.
}

// DefaultConfig returns an eight register, sixteen word machine.
func DefaultConfig() Config {
	return Config{
		Registers:     8,
		RegisterWidth: 32,
		MemorySize:    16,
		WordSize:      32,
		States:        slices.Clone(DefaultPhases),
	}
}

// Validate checks that the configuration describes a machine.
func (cfg Config) Validate() (err error) {
	switch {
	case cfg.Registers <= 0:
		err = fmt.Errorf("%w: registers %d", ErrConfig, cfg.Registers)
	case cfg.MemorySize <= 0:
		err = fmt.Errorf("%w: memory size %d", ErrConfig, cfg.MemorySize)
	case cfg.RegisterWidth <= 0 || cfg.WordSize <= 0:
		err = fmt.Errorf("%w: width %d/%d", ErrConfig, cfg.RegisterWidth, cfg.WordSize)
	case len(cfg.States) == 0:
		err = fmt.Errorf("%w: empty state set", ErrConfig)
	}
	return
}

// Machine is the simulation context of the single-cycle processor.
// A Machine is not safe for concurrent use.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Register  *Bank[uint32] // Register file.
	Program   *Bank[uint32] // Program memory.
	Data      *Bank[uint32] // Data memory, reserved for load/store instructions.
	Alu       Alu           // Arithmetic and logic unit.
	Sequencer *Sequencer    // Control sequencer.

	Pc    int // Address of the next instruction.
	Ticks int // Instructions executed.
}

// NewMachine creates a zeroed machine.
func NewMachine(cfg Config) (mach *Machine, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	mach = &Machine{
		Register:  NewBank[uint32]("register", cfg.Registers, cfg.RegisterWidth),
		Program:   NewBank[uint32]("program", cfg.MemorySize, cfg.WordSize),
		Data:      NewBank[uint32]("data", cfg.MemorySize, cfg.WordSize),
		Sequencer: NewSequencer(cfg.States...),
	}

	return
}

// Defines for the machine, as assembler equates.
func (mach *Machine) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"NUM_REGISTERS": fmt.Sprintf("%v", mach.Register.Len()),
		"MEMORY_SIZE":   fmt.Sprintf("%v", mach.Program.Len()),
	}
	for op := ALU_OP_ADD; op <= ALU_OP_OR; op++ {
		defines["OP_"+strings.ToUpper(op.String())] = fmt.Sprintf("%v", int(op))
	}

	return maps.All(defines)
}

// String returns the current machine state as a string.
func (mach *Machine) String() (text string) {
	text += fmt.Sprintf("% 5s: %v\n", "pc", mach.Pc)
	text += fmt.Sprintf("% 5s: %v\n", "phase", mach.Sequencer.State())
	for n, val := range mach.Register.Cells() {
		text += fmt.Sprintf("% 5s: %04X_%04X\n", CodeReg(n), val>>16, val&0xffff)
	}

	return
}

// UploadProgram writes 'words' to program memory, starting at address 0.
// Nothing is written when 'words' does not fit.
func (mach *Machine) UploadProgram(words []uint32) (err error) {
	if len(words) > mach.Program.Len() {
		err = ErrIndex{Bank: mach.Program.Name, Index: mach.Program.Len(), Capacity: mach.Program.Len()}
		return
	}

	for addr, word := range words {
		err = mach.Program.Write(addr, word)
		if err != nil {
			return
		}
	}

	if mach.Verbose {
		log.Printf("cpu: uploaded %d words", len(words))
	}

	return
}

// Reset the program counter. Registers and memories are preserved.
func (mach *Machine) Reset() {
	if mach.Verbose {
		log.Printf("cpu: reset")
	}

	mach.Pc = 0
}

// Clock executes a single instruction. It returns false, without error,
// once the program counter has passed the end of program memory.
func (mach *Machine) Clock() (executed bool, err error) {
	if mach.Pc >= mach.Program.Len() {
		return
	}

	word, err := mach.Program.Read(mach.Pc)
	if err != nil {
		return
	}

	if mach.Verbose {
		log.Printf("cpu: %03x: %v", mach.Pc, Code(word))
	}

	err = mach.Sequencer.SetState(PHASE_FETCH)
	if err != nil {
		return
	}

	err = mach.Sequencer.ExecuteState()
	if err != nil {
		return
	}

	mach.Pc++

	err = mach.Execute(Code(word))
	if err != nil {
		return
	}

	mach.Ticks++
	executed = true

	return
}

// Execute decodes and executes a single instruction word.
func (mach *Machine) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	// Opcode bits 31..30 are dropped here; the ALU only defines 2 bits.
	op, source, target, destination := code.Decode()

	operand1, err := mach.Register.Read(int(source))
	if err != nil {
		return
	}

	operand2, err := mach.Register.Read(int(target))
	if err != nil {
		return
	}

	result, err := mach.Alu.Execute(operand1, operand2, op)
	if err != nil {
		return
	}

	err = mach.Register.Write(int(destination), result)
	return
}
