package bytecode

import "fmt"

// Opcode represents a bytecode instruction.
// Opcodes are organized into ranges by category so related instructions stay
// adjacent as the set grows.
type Opcode byte

const (
	// ========================================================================
	// Constants (0x00-0x0F)
	// ========================================================================

	OpConstant Opcode = 0x00 // Push constant from pool: OpConstant <index:u8>
	OpNil      Opcode = 0x01 // Push nil
	OpTrue     Opcode = 0x02 // Push true
	OpFalse    Opcode = 0x03 // Push false

	// ========================================================================
	// Stack manipulation (0x10-0x1F)
	// ========================================================================

	OpPop Opcode = 0x10 // Pop top of stack

	// ========================================================================
	// Comparison (0x20-0x2F)
	// ========================================================================

	OpEqual   Opcode = 0x20 // Pop two, push true if equal
	OpGreater Opcode = 0x21 // Pop two, push a > b (b is TOS)
	OpLess    Opcode = 0x22 // Pop two, push a < b

	// ========================================================================
	// Arithmetic (0x30-0x3F)
	// ========================================================================

	OpAdd      Opcode = 0x30 // Pop two, push sum
	OpSubtract Opcode = 0x31 // Pop two, push a - b (b is TOS)
	OpMultiply Opcode = 0x32 // Pop two, push product
	OpDivide   Opcode = 0x33 // Pop two, push quotient
	OpNot      Opcode = 0x34 // Replace TOS with its logical negation
	OpNegate   Opcode = 0x35 // Arithmetically negate TOS

	// ========================================================================
	// Effects and control (0x40-0x4F)
	// ========================================================================

	OpPrint  Opcode = 0x40 // Pop and print TOS
	OpReturn Opcode = 0x41 // Terminate execution with success
)

// OpcodeInfo describes an opcode's execution shape.
type OpcodeInfo struct {
	Name       string // Mnemonic for disassembly and tracing
	StackPop   int    // Values consumed from the stack
	StackPush  int    // Values produced onto the stack
	OperandLen int    // Operand bytes following the opcode
}

// opcodeInfoTable maps opcodes to their metadata.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpConstant: {"CONSTANT", 0, 1, 1},
	OpNil:      {"NIL", 0, 1, 0},
	OpTrue:     {"TRUE", 0, 1, 0},
	OpFalse:    {"FALSE", 0, 1, 0},

	OpPop: {"POP", 1, 0, 0},

	OpEqual:   {"EQUAL", 2, 1, 0},
	OpGreater: {"GREATER", 2, 1, 0},
	OpLess:    {"LESS", 2, 1, 0},

	OpAdd:      {"ADD", 2, 1, 0},
	OpSubtract: {"SUBTRACT", 2, 1, 0},
	OpMultiply: {"MULTIPLY", 2, 1, 0},
	OpDivide:   {"DIVIDE", 2, 1, 0},
	OpNot:      {"NOT", 1, 1, 0},
	OpNegate:   {"NEGATE", 1, 1, 0},

	OpPrint:  {"PRINT", 1, 0, 0},
	OpReturn: {"RETURN", 0, 0, 0},
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns a zero OpcodeInfo with an UNKNOWN name if the opcode is not defined.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))}
}

// IsDefined returns true if op is part of the instruction set.
func (op Opcode) IsDefined() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// String returns the human-readable mnemonic of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// OperandLen returns the number of operand bytes for this opcode.
func (op Opcode) OperandLen() int {
	return GetOpcodeInfo(op).OperandLen
}

// InstructionLen returns the total length of an instruction (1 + operand bytes).
func (op Opcode) InstructionLen() int {
	return 1 + op.OperandLen()
}

// AllOpcodes returns a slice of all defined opcodes.
// Useful for testing that every opcode has metadata and dispatch coverage.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
