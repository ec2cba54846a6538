package cpu

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// runImage loads an image at address 0 and runs the machine to
// completion.
func runImage(profile Profile, image []uint8) (cpu *Cpu, output *bytes.Buffer, err error) {
	cpu = NewCpu(profile)
	output = &bytes.Buffer{}
	cpu.Output = output
	copy(cpu.Memory[:], image)
	err = cpu.Run()
	return
}

func TestLdiPrn(t *testing.T) {
	assert := assert.New(t)

	for reg := range uint8(REGISTER_COUNT) {
		for _, value := range []uint8{0, 1, 8, 127, 128, 255} {
			image := []uint8{
				OP_LDI, reg, value,
				OP_PRN, reg,
				OP_HLT,
			}

			cpu, output, err := runImage(ProfileBase, image)
			name := fmt.Sprintf("LDI R%d,%d", reg, value)
			assert.NoError(err, name)
			assert.False(cpu.Running, name)
			assert.Equal(fmt.Sprintf("%d\n", value), output.String(), name)
		}
	}
}

func TestPushPop_Inverse(t *testing.T) {
	assert := assert.New(t)

	image := []uint8{
		OP_LDI, 0, 42,
		OP_PUSH, 0,
		OP_LDI, 0, 0,
		OP_POP, 0,
		OP_PRN, 0,
		OP_HLT,
	}

	cpu, output, err := runImage(ProfileBase, image)
	assert.NoError(err)
	assert.Equal("42\n", output.String())
	assert.Equal(uint8(SP_INIT), cpu.Register[SP])
}

func TestPush_StackGrowsDown(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(ProfileBase)
	cpu.Register[0] = 0x5A

	err := cpu.Execute(OP_PUSH, 0, 0)
	assert.NoError(err)
	assert.Equal(uint8(SP_INIT-1), cpu.Register[SP])
	assert.Equal(uint8(0x5A), cpu.Memory[SP_INIT-1])
	assert.Equal(2, cpu.Pc)
}

func TestCallRet(t *testing.T) {
	assert := assert.New(t)

	image := []uint8{
		OP_LDI, 1, 6, // 0
		OP_CALL, 1, // 3: pushes 5
		OP_HLT,       // 5
		OP_LDI, 0, 99, // 6
		OP_PRN, 0, // 9
		OP_RET, // 11
	}

	cpu, output, err := runImage(ProfileBase, image)
	assert.NoError(err)
	assert.Equal("99\n", output.String())
	assert.False(cpu.Running)
	assert.Equal(uint8(SP_INIT), cpu.Register[SP])
}

func TestCall_PushesReturnAddress(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(ProfileBase)
	cpu.Pc = 0x10
	cpu.Register[2] = 0x40

	err := cpu.Execute(OP_CALL, 2, 0)
	assert.NoError(err)
	assert.Equal(0x40, cpu.Pc)
	assert.Equal(uint8(0x12), cpu.Memory[cpu.Register[SP]])
}

func TestCmp_Exhaustive(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		a, b uint8
		fl   uint8
	}){
		{"eq_zero", 0, 0, FL_EQ},
		{"eq", 5, 5, FL_EQ},
		{"lt", 1, 2, FL_LT},
		{"gt", 2, 1, FL_GT},
		{"lt_signed", 0xFF, 1, FL_LT},  // -1 < 1
		{"gt_signed", 1, 0xFF, FL_GT},  // 1 > -1
		{"lt_min", 0x80, 0x7F, FL_LT},  // -128 < 127
		{"eq_signed", 0x80, 0x80, FL_EQ},
	}

	for _, entry := range table {
		cpu := NewCpu(ProfileFull)
		cpu.Register[0] = entry.a
		cpu.Register[1] = entry.b

		err := cpu.Alu(CMP, 0, 1)
		assert.NoError(err, entry.name)
		assert.Equal(entry.fl, cpu.Fl, entry.name)

		// Exactly one condition holds.
		conditions := 0
		for _, cond := range []bool{cpu.Equal(), cpu.Less(), cpu.Greater()} {
			if cond {
				conditions++
			}
		}
		assert.Equal(1, conditions, entry.name)

		// CMP mutates neither register.
		assert.Equal(entry.a, cpu.Register[0], entry.name)
		assert.Equal(entry.b, cpu.Register[1], entry.name)
	}
}

func TestJeqJne(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		ir    uint8
		fl    uint8
		next  int
	}){
		{"jeq_taken", OP_JEQ, FL_EQ, 0x30},
		{"jeq_fall", OP_JEQ, FL_LT, 2},
		{"jne_taken", OP_JNE, FL_GT, 0x30},
		{"jne_fall", OP_JNE, FL_EQ, 2},
	}

	for _, entry := range table {
		cpu := NewCpu(ProfileFull)
		cpu.Register[3] = 0x30
		cpu.Fl = entry.fl

		err := cpu.Execute(entry.ir, 3, 0)
		assert.NoError(err, entry.name)
		assert.Equal(entry.next, cpu.Pc, entry.name)
	}
}

func TestJmp(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(ProfileFull)
	cpu.Register[0] = 0x80

	err := cpu.Execute(OP_JMP, 0, 0)
	assert.NoError(err)
	assert.Equal(0x80, cpu.Pc)
}

func TestDivModByZero(t *testing.T) {
	assert := assert.New(t)

	for _, ir := range []uint8{OP_DIV, OP_MOD} {
		image := []uint8{
			OP_LDI, 0, 10,
			OP_LDI, 1, 0,
			ir, 0, 1,
			OP_HLT,
		}

		cpu, _, err := runImage(ProfileBase, image)
		assert.ErrorIs(err, ErrDivisionByZero)
		assert.Equal(uint8(10), cpu.Register[0])
		assert.Equal(6, cpu.Pc) // not advanced past the faulting instruction
	}
}

func TestUnknownOpcode(t *testing.T) {
	assert := assert.New(t)

	cpu, _, err := runImage(ProfileFull, []uint8{0xFF})
	assert.ErrorIs(err, ErrUnknownOpcode{})
	assert.Equal(0, cpu.Pc)
	assert.True(cpu.Running)
}

func TestProfileBase_RejectsExtended(t *testing.T) {
	assert := assert.New(t)

	for _, ir := range []uint8{OP_JMP, OP_JEQ, OP_JNE, OP_CMP, OP_AND, OP_NOT, OP_SHL} {
		name := fmt.Sprintf("%#02x", ir)

		_, ok := ProfileBase.Lookup(ir)
		assert.False(ok, name)

		mn, ok := ProfileFull.Lookup(ir)
		assert.True(ok, name)
		assert.True(IsAlu(ir) || SetsPc(ir), mn.String())
	}

	_, _, err := runImage(ProfileBase, []uint8{OP_JMP, 0})
	assert.ErrorIs(err, ErrUnknownOpcode{})
}

func TestEndToEnd(t *testing.T) {
	assert := assert.New(t)

	// LDI R0,8; PRN R0; HLT
	image := []uint8{
		0b10000010, 0b00000000, 0b00001000,
		0b01000111, 0b00000000,
		0b00000001,
	}

	cpu, output, err := runImage(ProfileFull, image)
	assert.NoError(err)
	assert.Equal("8\n", output.String())
	assert.False(cpu.Running)
}

func TestTick_Halted(t *testing.T) {
	assert := assert.New(t)

	cpu, _, err := runImage(ProfileBase, []uint8{OP_HLT})
	assert.NoError(err)
	assert.False(cpu.Running)

	err = cpu.Tick()
	assert.ErrorIs(err, ErrHalted)
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(ProfileFull)
	cpu.Memory[0] = 0xAA
	cpu.Register[0] = 0xBB
	cpu.Pc = 0x20
	cpu.Fl = FL_EQ
	cpu.Running = false

	cpu.Reset()
	assert.Equal(uint8(0), cpu.Memory[0])
	assert.Equal(uint8(0), cpu.Register[0])
	assert.Equal(uint8(SP_INIT), cpu.Register[SP])
	assert.Equal(0, cpu.Pc)
	assert.Equal(uint8(0), cpu.Fl)
	assert.True(cpu.Running)
}

func TestOperandFetch_Wraps(t *testing.T) {
	assert := assert.New(t)

	// A zero-operand instruction at the last address: the two
	// candidate operand bytes wrap around and are ignored.
	cpu := NewCpu(ProfileBase)
	cpu.Pc = MEMORY_SIZE - 1
	cpu.Memory[MEMORY_SIZE-1] = OP_HLT

	err := cpu.Tick()
	assert.NoError(err)
	assert.False(cpu.Running)
}

func TestTrace(t *testing.T) {
	assert := assert.New(t)

	buffer := &bytes.Buffer{}
	log.SetOutput(buffer)
	defer log.SetOutput(os.Stderr)

	cpu := NewCpu(ProfileFull)
	cpu.Verbose = true
	cpu.Output = &bytes.Buffer{}
	copy(cpu.Memory[:], []uint8{OP_LDI, 0, 8, OP_HLT})

	err := cpu.Tick()
	assert.NoError(err)

	// One line per cycle: the PC, the three fetched bytes, and all
	// eight registers, in hex.
	assert.Contains(buffer.String(),
		"TRACE: 00 | 82 00 08 | 00 00 00 00 00 00 00 F4")

	err = cpu.Tick()
	assert.NoError(err)
	assert.Contains(buffer.String(),
		"TRACE: 03 | 01 00 00 | 08 00 00 00 00 00 00 F4")
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(ProfileFull)
	cpu.Register[0] = 0xAB

	text := cpu.String()
	assert.Contains(text, "pc: 00")
	assert.Contains(text, "r0: AB")
	assert.Contains(text, "r7: F4")
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(ProfileFull)

	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}
	assert.Equal("7", defines["SP"])
	assert.Equal("0xf4", defines["SP_INIT"])
	assert.Equal("256", defines["MEMORY_SIZE"])
}
