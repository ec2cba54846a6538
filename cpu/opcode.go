package cpu

// Instruction byte layout is AABCDDDD:
//   - AA: operand count (0, 1, or 2 bytes following the instruction)
//   - B:  instruction is handled by the ALU
//   - C:  instruction sets the PC directly
//   - DDDD: instruction identifier
const (
	OP_HLT = uint8(0b00000001)
	OP_RET = uint8(0b00010001)

	OP_PRN  = uint8(0b01000111)
	OP_PUSH = uint8(0b01000101)
	OP_POP  = uint8(0b01000110)
	OP_CALL = uint8(0b01010000)
	OP_JMP  = uint8(0b01010100)
	OP_JEQ  = uint8(0b01010101)
	OP_JNE  = uint8(0b01010110)

	OP_LDI = uint8(0b10000010)
	OP_ADD = uint8(0b10100000)
	OP_SUB = uint8(0b10100001)
	OP_MUL = uint8(0b10100010)
	OP_DIV = uint8(0b10100011)
	OP_MOD = uint8(0b10100100)
	OP_CMP = uint8(0b10100111)
	OP_AND = uint8(0b10101000)
	OP_NOT = uint8(0b10101001)
	OP_OR  = uint8(0b10101010)
	OP_XOR = uint8(0b10101011)
	OP_SHL = uint8(0b10101100)
	OP_SHR = uint8(0b10101101)
)

// OperandCount returns the number of operand bytes encoded in the
// instruction byte.
func OperandCount(ir uint8) int {
	return int(ir >> 6)
}

// IsAlu returns true if the instruction byte is ALU-class.
func IsAlu(ir uint8) bool {
	return (ir & 0b00100000) != 0
}

// SetsPc returns true if the instruction sets the PC directly.
// Instructions with this bit set never advance the PC by their length.
func SetsPc(ir uint8) bool {
	return (ir & 0b00010000) != 0
}

// Mnemonic is the decoded identity of an instruction byte.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	LDI  = Mnemonic(0)  // LDI
	PRN  = Mnemonic(1)  // PRN
	HLT  = Mnemonic(2)  // HLT
	PUSH = Mnemonic(3)  // PUSH
	POP  = Mnemonic(4)  // POP
	CALL = Mnemonic(5)  // CALL
	RET  = Mnemonic(6)  // RET
	JMP  = Mnemonic(7)  // JMP
	JEQ  = Mnemonic(8)  // JEQ
	JNE  = Mnemonic(9)  // JNE
	ADD  = Mnemonic(10) // ADD
	SUB  = Mnemonic(11) // SUB
	MUL  = Mnemonic(12) // MUL
	DIV  = Mnemonic(13) // DIV
	MOD  = Mnemonic(14) // MOD
	CMP  = Mnemonic(15) // CMP
	AND  = Mnemonic(16) // AND
	OR   = Mnemonic(17) // OR
	XOR  = Mnemonic(18) // XOR
	NOT  = Mnemonic(19) // NOT
	SHL  = Mnemonic(20) // SHL
	SHR  = Mnemonic(21) // SHR
)

// Profile selects an instruction subset of the canonical opcode table.
// Machine variants differ only in which instructions they carry; they
// share the one engine.
type Profile int

//go:generate go tool stringer -linecomment -type=Profile
const (
	ProfileBase = Profile(0) // base
	ProfileFull = Profile(1) // full
)

type opcodeEntry struct {
	Mnemonic Mnemonic
	Profile  Profile // Lowest profile carrying the instruction.
}

// The canonical opcode table, the union across machine variants.
var opcodeTable = map[uint8]opcodeEntry{
	OP_LDI:  {LDI, ProfileBase},
	OP_PRN:  {PRN, ProfileBase},
	OP_HLT:  {HLT, ProfileBase},
	OP_PUSH: {PUSH, ProfileBase},
	OP_POP:  {POP, ProfileBase},
	OP_CALL: {CALL, ProfileBase},
	OP_RET:  {RET, ProfileBase},
	OP_ADD:  {ADD, ProfileBase},
	OP_SUB:  {SUB, ProfileBase},
	OP_MUL:  {MUL, ProfileBase},
	OP_DIV:  {DIV, ProfileBase},
	OP_MOD:  {MOD, ProfileBase},

	OP_JMP: {JMP, ProfileFull},
	OP_JEQ: {JEQ, ProfileFull},
	OP_JNE: {JNE, ProfileFull},
	OP_CMP: {CMP, ProfileFull},
	OP_AND: {AND, ProfileFull},
	OP_OR:  {OR, ProfileFull},
	OP_XOR: {XOR, ProfileFull},
	OP_NOT: {NOT, ProfileFull},
	OP_SHL: {SHL, ProfileFull},
	OP_SHR: {SHR, ProfileFull},
}

// Lookup decodes an instruction byte against the profile's subset of
// the opcode table.
func (p Profile) Lookup(ir uint8) (mn Mnemonic, ok bool) {
	entry, ok := opcodeTable[ir]
	if !ok {
		return
	}

	if entry.Profile > p {
		ok = false
		return
	}

	mn = entry.Mnemonic
	return
}
