package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// opcodeByName maps mnemonic names to instruction bytes.
var opcodeByName = func() map[string]uint8 {
	byName := make(map[string]uint8, len(opcodeTable))
	for ir, entry := range opcodeTable {
		byName[entry.Mnemonic.String()] = ir
	}
	return byName
}()

// registerByName maps register operand names to slot indexes.
var registerByName = map[string]uint8{
	"R0": 0,
	"R1": 1,
	"R2": 2,
	"R3": 3,
	"R4": 4,
	"R5": 5,
	"R6": 6,
	"R7": 7,
	"SP": SP,
}

// Assembler is a single pass assembler for the machine's instruction
// set, with labels, equates, and compile-time expressions.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to image addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the 8-bit value of a simple word. Negative values
// are encoded two's complement.
func (asm *Assembler) valueOf(word string) (value uint8, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}

	v64, err := strconv.ParseInt(word, 0, 16)
	if err != nil || v64 > 0xff || v64 < -0x80 {
		err = ErrParseNumber(word)
		return
	}

	value = uint8(v64)
	if invert {
		value = ^value
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint8, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value8 uint8
		value8, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value8))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	if st_int64 > 0xff || st_int64 < -0x80 {
		err = ErrParseExpression(expr)
		return
	}
	value = uint8(st_int64)
	return
}

// currentAddr returns the image address of the next emitted byte.
func (asm *Assembler) currentAddr() (addr int) {
	for _, op := range asm.Opcode {
		addr += len(op.Bytes)
	}

	return
}

// parseLine parses a single line into operand words, handling
// equates, labels, and $() expressions.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	// Check for equates
	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// assemble emits the opcode for a parsed line.
func (asm *Assembler) assemble(words []string, lineno int) (err error) {
	name := strings.ToUpper(words[0])
	ir, ok := opcodeByName[name]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	args := words[1:]
	count := OperandCount(ir)
	if len(args) > count {
		err = ErrOpcodeExtraArgs
		return
	}
	if len(args) < count {
		err = ErrOpcodeValueMissing
		return
	}

	op := Opcode{
		LineNo: lineno,
		Addr:   asm.currentAddr(),
		Words:  words,
		Bytes:  []uint8{ir},
	}

	for n, arg := range args {
		// The immediate operand of LDI takes a value or a label;
		// every other operand is a register.
		immediate := name == "LDI" && n == 1

		if !immediate {
			reg, ok := registerByName[strings.ToUpper(arg)]
			if !ok {
				err = ErrRegisterInvalid
				return
			}
			op.Bytes = append(op.Bytes, reg)
			continue
		}

		if addr, ok := asm.Label[arg]; ok {
			op.Bytes = append(op.Bytes, uint8(addr))
			continue
		}

		value, verr := asm.valueOf(arg)
		if verr == nil {
			op.Bytes = append(op.Bytes, value)
			continue
		}

		// Not a number: assume a forward label reference, resolved
		// after the full pass.
		op.LinkLabel = arg
		op.Bytes = append(op.Bytes, 0)
	}

	if op.Addr+len(op.Bytes) > MEMORY_SIZE {
		err = ErrProgramTooLarge
		return
	}

	if asm.Verbose {
		log.Printf("asm: %02x: % 02x %v", op.Addr, op.Bytes, words)
	}

	asm.Opcode = append(asm.Opcode, op)

	return
}

// Parse assembles a source stream into a Program. Comments begin
// with '#' or ';' and run to end of line.
func (asm *Assembler) Parse(rd io.Reader) (prog *Program, err error) {
	asm.Opcode = nil
	asm.Label = nil
	asm.Equate = map[string]string{"LINENO": "0"}
	maps.Copy(asm.Equate, asm.predefine)

	lineno := 0
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		code, _, _ := strings.Cut(line, "#")
		code, _, _ = strings.Cut(code, ";")

		var words []string
		words, err = asm.parseLine(code, lineno)
		if err == nil && len(words) > 0 {
			err = asm.assemble(words, lineno)
		}
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Resolve forward label references.
	for n, op := range asm.Opcode {
		if op.LinkLabel == "" {
			continue
		}
		addr, ok := asm.Label[op.LinkLabel]
		if !ok {
			err = ErrSyntax{LineNo: op.LineNo, Line: strings.Join(op.Words, " "),
				Err: ErrLabelMissing(op.LinkLabel)}
			return
		}
		asm.Opcode[n].Bytes[len(op.Bytes)-1] = uint8(addr)
	}

	prog = &Program{Opcodes: asm.Opcode}

	return
}
