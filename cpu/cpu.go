package cpu

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"
)

const (
	SP      = 7    // Stack pointer lives in register slot 7.
	SP_INIT = 0xF4 // Initial stack pointer, top of the free memory region.
)

// Flags register bits, set by CMP and consumed by JEQ/JNE.
// Exactly one bit is set after a CMP.
const (
	FL_EQ = uint8(1 << 0) // Equal
	FL_GT = uint8(1 << 1) // Greater-than
	FL_LT = uint8(1 << 2) // Less-than
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"SP":             fmt.Sprintf("%d", SP),
	"SP_INIT":        fmt.Sprintf("%#02x", SP_INIT),
	"FL_EQ":          fmt.Sprintf("%#02x", FL_EQ),
	"FL_GT":          fmt.Sprintf("%#02x", FL_GT),
	"FL_LT":          fmt.Sprintf("%#02x", FL_LT),
}

// Cpu is the simulation context for one machine instance: memory,
// register bank, program counter, flags, and the run state. Registers
// are 8 bits wide, matching the memory cell; all arithmetic wraps
// mod 256.
type Cpu struct {
	Verbose bool      // Set to enable the per-cycle trace.
	Profile Profile   // Instruction subset in effect.
	Output  io.Writer // PRN destination.

	Memory   Memory    // Backing store for code and stack.
	Register Registers // Register bank. Slot SP is the stack pointer.
	Pc       int       // Address of the next instruction to fetch.
	Fl       uint8     // Flags register.
	Running  bool      // Cleared by HLT.
}

// NewCpu creates a new machine with the given instruction profile.
func NewCpu(profile Profile) (cpu *Cpu) {
	cpu = &Cpu{
		Profile: profile,
		Output:  os.Stdout,
	}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
//   - Zeros memory, registers, flags, and the PC.
//   - Sets the stack pointer to SP_INIT.
//   - Marks the machine running.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory[:])
	clear(cpu.Register[:])
	cpu.Register[SP] = SP_INIT
	cpu.Pc = 0
	cpu.Fl = 0
	cpu.Running = true
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc",
		"fl",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02X", cpu.Pc)
		case "fl":
			strval = fmt.Sprintf("%03b", cpu.Fl)
		case "r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7":
			strval = fmt.Sprintf("%02X", cpu.Register[byte(reg[1]-'0')])
		}
		text += fmt.Sprintf("% 3s: %v\n", reg, strval)
	}

	return
}

// Equal reports the Equal condition from the flags register.
func (cpu *Cpu) Equal() bool {
	return (cpu.Fl & FL_EQ) != 0
}

// Less reports the Less-than condition from the flags register.
func (cpu *Cpu) Less() bool {
	return (cpu.Fl & FL_LT) != 0
}

// Greater reports the Greater-than condition from the flags register.
func (cpu *Cpu) Greater() bool {
	return (cpu.Fl & FL_GT) != 0
}

// push decrements the stack pointer, then writes the value at it.
// The stack grows downward through memory.
func (cpu *Cpu) push(value uint8) (err error) {
	cpu.Register[SP] -= 1
	err = cpu.Memory.Write(int(cpu.Register[SP]), value)
	return
}

// pop reads the value at the stack pointer, then increments it.
func (cpu *Cpu) pop() (value uint8, err error) {
	value, err = cpu.Memory.Read(int(cpu.Register[SP]))
	if err != nil {
		return
	}
	cpu.Register[SP] += 1
	return
}

// trace logs one observational line per cycle: the PC, the three
// fetched bytes, and the register bank, all in hex.
func (cpu *Cpu) trace(ir, a, b uint8) {
	text := fmt.Sprintf("TRACE: %02X | %02X %02X %02X |", cpu.Pc, ir, a, b)
	for _, val := range cpu.Register {
		text += fmt.Sprintf(" %02X", val)
	}
	log.Printf("%v", text)
}

// Tick executes a single instruction cycle: fetch the instruction
// byte at the PC, unconditionally fetch the two following bytes as
// candidate operands, and dispatch. Operand fetch wraps within the
// memory array; one- and zero-operand instructions ignore the extra
// bytes.
func (cpu *Cpu) Tick() (err error) {
	if !cpu.Running {
		err = ErrHalted
		return
	}

	ir, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}
	a := cpu.Memory[(cpu.Pc+1)%MEMORY_SIZE]
	b := cpu.Memory[(cpu.Pc+2)%MEMORY_SIZE]

	if cpu.Verbose {
		cpu.trace(ir, a, b)
	}

	err = cpu.Execute(ir, a, b)

	return
}

// Run ticks the machine until it halts or an instruction fails.
func (cpu *Cpu) Run() (err error) {
	for cpu.Running {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single fetched instruction. The handler alone
// determines the next PC: control-transfer instructions set it
// directly, everything else advances by the encoded instruction
// length. The PC is not advanced on error.
func (cpu *Cpu) Execute(ir, a, b uint8) (err error) {
	mn, ok := cpu.Profile.Lookup(ir)
	if !ok {
		err = ErrUnknownOpcode{Pc: cpu.Pc, Ir: ir}
		return
	}

	next := cpu.Pc + 1 + OperandCount(ir)

	switch mn {
	case LDI:
		err = cpu.Register.Set(int(a), b)
	case PRN:
		var val uint8
		val, err = cpu.Register.Get(int(a))
		if err == nil {
			_, err = fmt.Fprintf(cpu.Output, "%d\n", val)
		}
	case HLT:
		cpu.Running = false
	case PUSH:
		var val uint8
		val, err = cpu.Register.Get(int(a))
		if err == nil {
			err = cpu.push(val)
		}
	case POP:
		var val uint8
		val, err = cpu.pop()
		if err == nil {
			err = cpu.Register.Set(int(a), val)
		}
	case CALL:
		var target uint8
		target, err = cpu.Register.Get(int(a))
		if err == nil {
			err = cpu.push(uint8(cpu.Pc + 2))
		}
		next = int(target)
	case RET:
		var addr uint8
		addr, err = cpu.pop()
		next = int(addr)
	case JMP:
		var target uint8
		target, err = cpu.Register.Get(int(a))
		next = int(target)
	case JEQ:
		var target uint8
		target, err = cpu.Register.Get(int(a))
		if cpu.Equal() {
			next = int(target)
		}
	case JNE:
		var target uint8
		target, err = cpu.Register.Get(int(a))
		if !cpu.Equal() {
			next = int(target)
		}
	default:
		err = cpu.Alu(mn, int(a), int(b))
	}
	if err != nil {
		return
	}

	cpu.Pc = next

	return
}

// Alu applies an ALU operation to the registers regA and regB,
// writing the result and/or flags. regB is never mutated. CMP
// compares as signed; the remaining operations act on the unsigned
// 8-bit representation and wrap.
func (cpu *Cpu) Alu(mn Mnemonic, regA, regB int) (err error) {
	a, err := cpu.Register.Get(regA)
	if err != nil {
		return
	}
	b, err := cpu.Register.Get(regB)
	if err != nil {
		return
	}

	var out uint8
	switch mn {
	case ADD:
		out = a + b
	case SUB:
		out = a - b
	case MUL:
		out = a * b
	case DIV:
		if b == 0 {
			err = ErrDivisionByZero
			return
		}
		out = a / b
	case MOD:
		if b == 0 {
			err = ErrDivisionByZero
			return
		}
		out = a % b
	case CMP:
		switch {
		case int8(a) == int8(b):
			cpu.Fl = FL_EQ
		case int8(a) < int8(b):
			cpu.Fl = FL_LT
		default:
			cpu.Fl = FL_GT
		}
		return
	case AND:
		out = a & b
	case OR:
		out = a | b
	case XOR:
		out = a ^ b
	case NOT:
		out = ^a
	case SHL:
		out = a << b
	case SHR:
		out = a >> b
	default:
		err = ErrUnsupportedOp(mn)
		return
	}

	err = cpu.Register.Set(regA, out)

	return
}
