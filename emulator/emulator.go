// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/minicpu/cpu"
	"github.com/ezrec/minicpu/internal"
)

const (
	TICK_LIMIT = 1 << 20 // Default limit for Run.
)

var _emulator_defines = map[string]string{
	"TICK_LIMIT": fmt.Sprintf("%v", TICK_LIMIT),
}

// Emulator state. Machine + program listing.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	*cpu.Machine              // Reference to the machine simulation.
	Program      *cpu.Program // Reference to the currently running program listing.
}

// NewEmulator creates a new emulator.
func NewEmulator(cfg cpu.Config) (emu *Emulator, err error) {
	mach, err := cpu.NewMachine(cfg)
	if err != nil {
		return
	}

	emu = &Emulator{
		Machine: mach,
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Machine.Defines(),
	)
}

// Assemble replaces the program with the assembled 'input'.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	asm.PredefineAll(emu.Defines())

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Load replaces the program with a raw memory image.
func (emu *Emulator) Load(words []uint32) {
	prog := &cpu.Program{}
	for ip, word := range words {
		prog.Opcodes = append(prog.Opcodes, cpu.Opcode{
			Ip:   ip,
			Code: cpu.Code(word),
		})
	}

	emu.Program = prog
}

// Reset the emulator state.
// - Clears the registers and memories.
// - Uploads the program to program memory.
// - Zeros the program counter and statistics.
func (emu *Emulator) Reset() (err error) {
	mach := emu.Machine

	mach.Verbose = emu.Verbose

	mach.Register.Clear()
	mach.Program.Clear()
	mach.Data.Clear()
	mach.Sequencer.Clear()

	err = mach.UploadProgram(emu.Program.Binary())
	if err != nil {
		return
	}

	mach.Reset()
	mach.Ticks = 0

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Machine.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() int {
	return emu.Machine.Pc
}

// Code returns the instruction at the program counter.
func (emu *Emulator) Code() (code cpu.Code, err error) {
	word, err := emu.Machine.Program.Read(emu.Machine.Pc)
	if err != nil {
		return
	}

	code = cpu.Code(word)
	return
}

// LineNo returns the source line number for the instruction at the program
// counter, or 0 if it was not assembled from source.
func (emu *Emulator) LineNo() int {
	op, ok := emu.Program.Debug(emu.Machine.Pc)
	if !ok {
		return 0
	}

	return op.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Machine.Verbose = emu.Verbose

	lineno := emu.LineNo()
	pc := emu.Machine.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	executed, err := emu.Machine.Clock()
	if err != nil {
		return
	}

	done = !executed
	return
}

// Run ticks until the program counter leaves program memory.
// A 'limit' of zero or less uses TICK_LIMIT.
func (emu *Emulator) Run(limit int) (ticks int, err error) {
	if limit <= 0 {
		limit = TICK_LIMIT
	}

	defer func() {
		if emu.Verbose {
			log.Printf("emulator: stopped after %d ticks: %v", ticks, err)
		}
	}()

	for ticks < limit {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
		ticks++
	}

	if emu.Machine.Pc < emu.Machine.Program.Len() {
		err = ErrTickLimit
	}

	return
}
