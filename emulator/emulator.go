package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/arvagas/Sprint-Challenge--Computer-Architecture/cpu"
	"github.com/arvagas/Sprint-Challenge--Computer-Architecture/internal"
)

const (
	PROGRAM_ORIGIN = 0 // Image load address.
)

var _emulator_defines = map[string]string{
	"PROGRAM_ORIGIN": fmt.Sprintf("%v", PROGRAM_ORIGIN),
}

// Emulator binds a machine to a loaded program image and maps runtime
// errors back to program source lines.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the machine simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.
}

// NewEmulator creates a new emulator with the given instruction profile.
func NewEmulator(profile cpu.Profile) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(profile),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset resets the machine and writes the program image into memory
// at the load address.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	for addr, value := range emu.Program.Bytes() {
		err = emu.Cpu.Memory.Write(PROGRAM_ORIGIN+addr, value)
		if err != nil {
			return
		}
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %d bytes", emu.Program.Size())
	}

	return
}

// LineNo returns the source line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Opcode.LineNo
}

// Tick performs a single instruction cycle. done is set once the
// machine halts.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = !emu.Cpu.Running

	return
}

// Run ticks the emulator until the machine halts or an instruction
// fails.
func (emu *Emulator) Run() (err error) {
	var done bool
	for !done {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
