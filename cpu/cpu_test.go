package cpu

import (
	"bytes"
	"errors"
	"io"
	"log"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// newTestMachine creates the reference 8 register, 4 word machine.
func newTestMachine(t *testing.T) (mach *Machine, markers *bytes.Buffer) {
	cfg := Config{
		Registers:     8,
		RegisterWidth: 32,
		MemorySize:    4,
		WordSize:      32,
		States:        DefaultPhases,
	}

	mach, err := NewMachine(cfg)
	if err != nil {
		t.Fatal(err)
	}

	markers = &bytes.Buffer{}
	mach.Sequencer.Logger = log.New(markers, "", 0)

	return
}

func mustCode(t *testing.T, op CodeAluOp, src, tgt, dst CodeReg) uint32 {
	code, err := MakeCode(op, src, tgt, dst)
	if err != nil {
		t.Fatal(err)
	}
	return uint32(code)
}

func TestMachine_New(t *testing.T) {
	assert := assert.New(t)

	mach, _ := newTestMachine(t)

	assert.Equal(0, mach.Pc)
	assert.Equal(0, mach.Ticks)
	assert.Equal(8, mach.Register.Len())
	assert.Equal(4, mach.Program.Len())
	assert.Equal(4, mach.Data.Len())
	assert.Equal(PHASE_UNSET, mach.Sequencer.State())

	for _, bank := range []*Bank[uint32]{mach.Register, mach.Program, mach.Data} {
		for n, value := range bank.Cells() {
			assert.Equal(uint32(0), value, "%v[%d]", bank.Name, n)
		}
	}
}

func TestMachine_Config(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		edit func(cfg *Config)
	}){
		{"registers", func(cfg *Config) { cfg.Registers = 0 }},
		{"memory", func(cfg *Config) { cfg.MemorySize = -1 }},
		{"width", func(cfg *Config) { cfg.RegisterWidth = 0 }},
		{"word", func(cfg *Config) { cfg.WordSize = 0 }},
		{"states", func(cfg *Config) { cfg.States = nil }},
	}

	for _, entry := range table {
		cfg := DefaultConfig()
		entry.edit(&cfg)
		mach, err := NewMachine(cfg)
		assert.ErrorIs(err, ErrConfig, entry.name)
		assert.Nil(mach, entry.name)
	}

	mach, err := NewMachine(DefaultConfig())
	assert.NoError(err)
	assert.NotNil(mach)
}

func TestMachine_Nop(t *testing.T) {
	assert := assert.New(t)

	mach, markers := newTestMachine(t)

	assert.NoError(mach.UploadProgram([]uint32{0x0000_0000}))

	executed, err := mach.Clock()
	assert.NoError(err)
	assert.True(executed)
	assert.Equal(1, mach.Pc)
	assert.Equal(1, mach.Ticks)
	assert.Equal(PHASE_FETCH, mach.Sequencer.State())

	value, err := mach.Register.Read(0)
	assert.NoError(err)
	assert.Equal(uint32(0), value)

	assert.Equal(f("fetching instruction from program memory")+"\n", markers.String())
}

func TestMachine_Subtract(t *testing.T) {
	assert := assert.New(t)

	mach, _ := newTestMachine(t)
	assert.NoError(mach.Register.Write(3, 5))
	assert.NoError(mach.Register.Write(5, 2))

	program := []uint32{
		mustCode(t, ALU_OP_SUB, 5, 3, 1), // r1 = r5 - r3
		mustCode(t, ALU_OP_SUB, 3, 5, 2), // r2 = r3 - r5
	}
	assert.NoError(mach.UploadProgram(program))

	for range program {
		executed, err := mach.Clock()
		assert.NoError(err)
		assert.True(executed)
	}

	r1, _ := mach.Register.Read(1)
	r2, _ := mach.Register.Read(2)
	assert.Equal(uint32(2-5+(1<<32)), r1)
	assert.Equal(uint32(3), r2)
	assert.NotEqual(r1, r2)
}

func TestMachine_Operations(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op       CodeAluOp
		expected uint32
	}){
		{ALU_OP_ADD, 0b1100 + 0b1010},
		{ALU_OP_SUB, 0b1100 - 0b1010},
		{ALU_OP_AND, 0b1000},
		{ALU_OP_OR, 0b1110},
	}

	for _, entry := range table {
		mach, _ := newTestMachine(t)
		assert.NoError(mach.Register.Write(6, 0b1100))
		assert.NoError(mach.Register.Write(7, 0b1010))
		assert.NoError(mach.UploadProgram([]uint32{mustCode(t, entry.op, 6, 7, 3)}))

		executed, err := mach.Clock()
		assert.NoError(err, entry.op.String())
		assert.True(executed, entry.op.String())

		value, _ := mach.Register.Read(3)
		assert.Equal(entry.expected, value, entry.op.String())
	}
}

func TestMachine_IgnoredOpcodeBits(t *testing.T) {
	assert := assert.New(t)

	mach, _ := newTestMachine(t)
	assert.NoError(mach.Register.Write(5, 7))
	assert.NoError(mach.Register.Write(3, 2))

	// 0b1101 in the opcode field executes as 0b01, subtract.
	word := mustCode(t, ALU_OP_SUB, 5, 3, 1) | 0xc000_0000
	assert.NoError(mach.UploadProgram([]uint32{word}))

	executed, err := mach.Clock()
	assert.NoError(err)
	assert.True(executed)

	value, _ := mach.Register.Read(1)
	assert.Equal(uint32(5), value)
}

func TestMachine_DestinationTruncated(t *testing.T) {
	assert := assert.New(t)

	mach, _ := newTestMachine(t)
	assert.NoError(mach.Register.Write(0, 40))
	assert.NoError(mach.Register.Write(1, 2))

	// r0 + r1: bits 2..0 = 0b111 set target to r1 and destination to r3.
	assert.NoError(mach.UploadProgram([]uint32{0x0000_0007}))

	_, err := mach.Clock()
	assert.NoError(err)

	for n, expected := range []uint32{40, 2, 0, 42, 0, 0, 0, 0} {
		value, _ := mach.Register.Read(n)
		assert.Equal(expected, value, "r%d", n)
	}
}

func TestMachine_Boundary(t *testing.T) {
	assert := assert.New(t)

	mach, markers := newTestMachine(t)
	assert.NoError(mach.UploadProgram([]uint32{mustCode(t, ALU_OP_ADD, 1, 1, 1)}))
	assert.NoError(mach.Register.Write(1, 1))

	// Execution runs through all of program memory, uploaded or not.
	for n := range 4 {
		executed, err := mach.Clock()
		assert.NoError(err, n)
		assert.True(executed, n)
	}
	assert.Equal(4, mach.Pc)
	assert.Equal(4, strings.Count(markers.String(), "\n"))

	value, _ := mach.Register.Read(1)
	assert.Equal(uint32(2), value)

	for range 3 {
		executed, err := mach.Clock()
		assert.NoError(err)
		assert.False(executed)
		assert.Equal(4, mach.Pc)
	}
	assert.Equal(4, mach.Ticks)
	assert.Equal(4, strings.Count(markers.String(), "\n"))
}

func TestMachine_Reset(t *testing.T) {
	assert := assert.New(t)

	mach, _ := newTestMachine(t)
	assert.NoError(mach.Register.Write(2, 0x1234))
	assert.NoError(mach.Data.Write(3, 0x5678))
	program := []uint32{0x1000_00ad, 0x2000_00ff}
	assert.NoError(mach.UploadProgram(program))

	_, err := mach.Clock()
	assert.NoError(err)
	assert.Equal(1, mach.Pc)

	before := map[string]map[int]uint32{}
	for _, bank := range []*Bank[uint32]{mach.Register, mach.Program, mach.Data} {
		before[bank.Name] = maps.Collect(bank.Cells())
	}

	mach.Reset()
	assert.Equal(0, mach.Pc)

	for _, bank := range []*Bank[uint32]{mach.Register, mach.Program, mach.Data} {
		assert.Equal(before[bank.Name], maps.Collect(bank.Cells()), bank.Name)
	}
}

func TestMachine_UploadTooLarge(t *testing.T) {
	assert := assert.New(t)

	mach, _ := newTestMachine(t)
	assert.NoError(mach.UploadProgram([]uint32{9, 8}))

	err := mach.UploadProgram([]uint32{1, 2, 3, 4, 5})
	assert.ErrorIs(err, ErrOutOfRange)

	var eidx ErrIndex
	assert.True(errors.As(err, &eidx))
	assert.Equal(ErrIndex{Bank: "program", Index: 4, Capacity: 4}, eidx)

	// A program that does not fit leaves program memory untouched.
	assert.Equal(map[int]uint32{0: 9, 1: 8, 2: 0, 3: 0}, maps.Collect(mach.Program.Cells()))

	assert.NoError(mach.UploadProgram([]uint32{1, 2, 3, 4}))
	assert.Equal(map[int]uint32{0: 1, 1: 2, 2: 3, 3: 4}, maps.Collect(mach.Program.Cells()))
}

func TestMachine_RegisterOutOfRange(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.Registers = 4
	mach, err := NewMachine(cfg)
	assert.NoError(err)
	mach.Sequencer.Logger = log.New(io.Discard, "", 0)

	word := mustCode(t, ALU_OP_ADD, 7, 0, 0)
	assert.NoError(mach.UploadProgram([]uint32{word}))

	executed, err := mach.Clock()
	assert.False(executed)
	assert.ErrorIs(err, ErrOutOfRange)
	assert.ErrorIs(err, ErrOpcode(0))

	var eidx ErrIndex
	assert.True(errors.As(err, &eidx))
	assert.Equal(ErrIndex{Bank: "register", Index: 7, Capacity: 4}, eidx)

	// The program counter advanced past the faulting fetch.
	assert.Equal(1, mach.Pc)
	assert.Equal(0, mach.Ticks)
}

func TestMachine_NoFetchState(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.States = []Phase{PHASE_DECODE, PHASE_EXECUTE}
	mach, err := NewMachine(cfg)
	assert.NoError(err)

	executed, err := mach.Clock()
	assert.False(executed)
	assert.ErrorIs(err, ErrInvalidState)
	assert.Equal(0, mach.Pc)
}

func TestMachine_Independent(t *testing.T) {
	assert := assert.New(t)

	a, _ := newTestMachine(t)
	b, _ := newTestMachine(t)

	assert.NoError(a.Register.Write(1, 9))
	assert.NoError(a.UploadProgram([]uint32{mustCode(t, ALU_OP_ADD, 1, 1, 2)}))

	_, err := a.Clock()
	assert.NoError(err)

	value, _ := b.Register.Read(2)
	assert.Equal(uint32(0), value)
	assert.Equal(0, b.Pc)
}

func TestMachine_String(t *testing.T) {
	assert := assert.New(t)

	mach, _ := newTestMachine(t)
	assert.NoError(mach.Register.Write(3, 0xdead_beef))

	text := mach.String()
	assert.Contains(text, "   pc: 0\n")
	assert.Contains(text, "phase: UNSET\n")
	assert.Contains(text, "   r3: DEAD_BEEF\n")
	assert.Equal(2+8, strings.Count(text, "\n"))
}

func TestMachine_Defines(t *testing.T) {
	assert := assert.New(t)

	mach, _ := newTestMachine(t)
	defines := maps.Collect(mach.Defines())

	assert.Equal("8", defines["NUM_REGISTERS"])
	assert.Equal("4", defines["MEMORY_SIZE"])
	assert.Equal("0", defines["OP_ADD"])
	assert.Equal("1", defines["OP_SUB"])
	assert.Equal("2", defines["OP_AND"])
	assert.Equal("3", defines["OP_OR"])
}
