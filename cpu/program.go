package cpu

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"
)

// Opcode represents one loaded or assembled instruction with its
// source location and generated bytes.
type Opcode struct {
	LineNo    int
	Addr      int
	Words     []string
	Bytes     []uint8
	LinkLabel string
}

// Program is a machine image annotated with per-instruction source
// lines, written into memory starting at address 0.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug maps a memory address back to the instruction covering it.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if addr >= op.Addr && addr < op.Addr+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  addr - op.Addr,
			}
			break
		}
	}

	return
}

// Size returns the total byte length of the image.
func (prog *Program) Size() (size int) {
	for _, op := range prog.Opcodes {
		size += len(op.Bytes)
	}

	return
}

// Bytes iterates the image as (address, byte) pairs.
func (prog *Program) Bytes() iter.Seq2[int, uint8] {
	return func(yield func(addr int, value uint8) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Bytes {
				if !yield(op.Addr+n, value) {
					return
				}
			}
		}
	}
}

// Parse reads a program image in text form: one instruction byte per
// line in binary digit notation, '#' introduces a trailing comment,
// blank lines are ignored.
func Parse(rd io.Reader) (prog *Program, err error) {
	prog = &Program{}

	addr := 0
	lineno := 0
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		num, _, _ := strings.Cut(line, "#")
		num = strings.TrimSpace(num)
		if num == "" {
			continue
		}

		value, perr := strconv.ParseUint(num, 2, 8)
		if perr != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: ErrParseNumber(num)}
			return
		}

		if addr >= MEMORY_SIZE {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: ErrProgramTooLarge}
			return
		}

		prog.Opcodes = append(prog.Opcodes, Opcode{
			LineNo: lineno,
			Addr:   addr,
			Words:  []string{num},
			Bytes:  []uint8{uint8(value)},
		})
		addr++
	}
	err = scanner.Err()

	return
}

// LoadFile reads a program image from a file. A missing file surfaces
// the os.Open error, which satisfies errors.Is(err, fs.ErrNotExist).
func LoadFile(path string) (prog *Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	prog, err = Parse(inf)

	return
}
