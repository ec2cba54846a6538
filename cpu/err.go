package cpu

import (
	"errors"

	"github.com/arvagas/Sprint-Challenge--Computer-Architecture/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted         = errors.New(f("cpu halted"))
	ErrDivisionByZero = errors.New(f("division by zero"))

	// Loader errors
	ErrProgramTooLarge = errors.New(f("program exceeds memory"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
)

// ErrAddress indicates a memory access outside [0, MEMORY_SIZE).
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address %#02x out of range", int(ea))
}

func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}

// ErrRegister indicates a register index outside [0, REGISTER_COUNT).
type ErrRegister int

func (er ErrRegister) Error() string {
	return f("register %d out of range", int(er))
}

func (er ErrRegister) Is(err error) (ok bool) {
	_, ok = err.(ErrRegister)
	return
}

// ErrUnknownOpcode indicates an instruction byte with no entry in the
// opcode table.
type ErrUnknownOpcode struct {
	Pc int
	Ir uint8
}

func (eu ErrUnknownOpcode) Error() string {
	return f("unknown instruction %#02x at pc %#02x", eu.Ir, eu.Pc)
}

func (eu ErrUnknownOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrUnknownOpcode)
	return
}

// ErrUnsupportedOp indicates a non-ALU mnemonic handed to the ALU.
// Unreachable through normal decoding.
type ErrUnsupportedOp Mnemonic

func (eu ErrUnsupportedOp) Error() string {
	return f("unsupported alu operation %v", Mnemonic(eu).String())
}

func (eu ErrUnsupportedOp) Is(err error) (ok bool) {
	_, ok = err.(ErrUnsupportedOp)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
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
