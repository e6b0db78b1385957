// Package bytecode defines the compiled unit the Ember virtual machine
// executes: an instruction-byte sequence, its constant pool, and the line
// table used for diagnostics. It also provides a disassembler and a CBOR
// wire encoding for passing chunks between processes.
package bytecode

import (
	"fmt"

	"github.com/chazu/ember/value"
)

// MaxConstants is the constant pool capacity. OpConstant carries a one-byte
// index, so a chunk can reference at most 256 constants.
const MaxConstants = 256

// Chunk represents a compiled bytecode unit.
//
// The VM treats a chunk as read-only for the duration of execution; the
// builder methods exist for the external compiler and for tests.
type Chunk struct {
	// Code is the instruction-byte sequence.
	Code []byte `cbor:"code"`

	// Constants is the pool referenced by index from OpConstant operands.
	Constants []value.Value `cbor:"constants"`

	// Lines holds the 1-based source line for each byte of Code, parallel to
	// it, for runtime error reporting and disassembly.
	Lines []int `cbor:"lines"`
}

// NewChunk creates a new empty chunk.
func NewChunk() *Chunk {
	return &Chunk{
		Code:  make([]byte, 0, 64),
		Lines: make([]int, 0, 64),
	}
}

// Emit appends a single-byte instruction and returns its offset.
func (c *Chunk) Emit(op Opcode, line int) int {
	return c.EmitByte(byte(op), line)
}

// EmitByte appends a raw byte (opcode or operand) and returns its offset.
func (c *Chunk) EmitByte(b byte, line int) int {
	offset := len(c.Code)
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
	return offset
}

// AddConstant adds a value to the pool and returns its index.
// An existing equal constant is reused. Exceeding the pool capacity is a
// build-time error; the operand byte cannot address more.
func (c *Chunk) AddConstant(v value.Value) (uint8, error) {
	for i, existing := range c.Constants {
		if existing.Equal(v) {
			return uint8(i), nil
		}
	}
	if len(c.Constants) >= MaxConstants {
		return 0, fmt.Errorf("bytecode: constant pool full (max %d)", MaxConstants)
	}
	idx := uint8(len(c.Constants))
	c.Constants = append(c.Constants, v)
	return idx, nil
}

// EmitConstant adds v to the pool and emits an OpConstant instruction for it.
func (c *Chunk) EmitConstant(v value.Value, line int) (int, error) {
	idx, err := c.AddConstant(v)
	if err != nil {
		return 0, err
	}
	offset := c.Emit(OpConstant, line)
	c.EmitByte(idx, line)
	return offset, nil
}

// Line returns the source line recorded for the byte at offset, or 0 if the
// offset is out of range.
func (c *Chunk) Line(offset int) int {
	if offset < 0 || offset >= len(c.Lines) {
		return 0
	}
	return c.Lines[offset]
}

// CodeLen returns the length of the instruction sequence.
func (c *Chunk) CodeLen() int {
	return len(c.Code)
}

// ConstantCount returns the number of constants in the pool.
func (c *Chunk) ConstantCount() int {
	return len(c.Constants)
}
