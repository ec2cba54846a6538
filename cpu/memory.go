package cpu

const (
	MEMORY_SIZE    = 256 // Bytes of addressable memory.
	REGISTER_COUNT = 8   // General-purpose register slots.
)

// Memory is the byte-addressable backing store for program code and
// the stack. Allocated zeroed at machine construction, never resized.
type Memory [MEMORY_SIZE]uint8

// Read returns the byte at the address.
func (m *Memory) Read(addr int) (value uint8, err error) {
	if addr < 0 || addr >= MEMORY_SIZE {
		err = ErrAddress(addr)
		return
	}

	value = m[addr]
	return
}

// Write stores a byte at the address.
func (m *Memory) Write(addr int, value uint8) (err error) {
	if addr < 0 || addr >= MEMORY_SIZE {
		err = ErrAddress(addr)
		return
	}

	m[addr] = value
	return
}

// Registers is the general-purpose register bank. Slot SP is the
// stack pointer.
type Registers [REGISTER_COUNT]uint8

// Get returns the value of a register slot.
func (r *Registers) Get(index int) (value uint8, err error) {
	if index < 0 || index >= REGISTER_COUNT {
		err = ErrRegister(index)
		return
	}

	value = r[index]
	return
}

// Set stores a value into a register slot.
func (r *Registers) Set(index int, value uint8) (err error) {
	if index < 0 || index >= REGISTER_COUNT {
		err = ErrRegister(index)
		return
	}

	r[index] = value
	return
}
