package cpu

import (
	"errors"

	"github.com/ezrec/minicpu/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrOutOfRange        = errors.New(f("index out of range"))
	ErrUnsupportedOpcode = errors.New(f("unsupported opcode"))
	ErrInvalidState      = errors.New(f("invalid state"))
	ErrNoCurrentState    = errors.New(f("no current state"))
	ErrConfig            = errors.New(f("invalid configuration"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrOpcodeExtraArgs = errors.New(f("excessive arguments"))
	ErrOpcodeMissing   = errors.New(f("argument missing"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrProgramTooLarge = errors.New(f("program exceeds program memory"))
)

// ErrIndex is an out of range access to a named Bank.
type ErrIndex struct {
	Bank     string
	Index    int
	Capacity int
}

func (err ErrIndex) Error() string {
	return f("%v index %d out of range [0, %d)", err.Bank, err.Index, err.Capacity)
}

func (err ErrIndex) Is(target error) bool {
	return target == ErrOutOfRange
}

// ErrOpcode identifies the instruction word that failed to execute.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%08x %v", uint32(eo), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrPhase is a control phase the sequencer was not configured with.
type ErrPhase Phase

func (ep ErrPhase) Error() string {
	return f("%v: %v", ErrInvalidState, Phase(ep).String())
}

func (ep ErrPhase) Unwrap() error {
	return ErrInvalidState
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrParsePhase string

func (err ErrParsePhase) Error() string {
	return f("'%v' is not a control phase", string(err))
}

func (err ErrParsePhase) Unwrap() error {
	return ErrInvalidState
}
