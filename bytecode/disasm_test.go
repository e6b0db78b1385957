package bytecode

import (
	"strings"
	"testing"

	"github.com/chazu/ember/value"
)

func testChunk(t *testing.T) *Chunk {
	t.Helper()
	c := NewChunk()
	if _, err := c.EmitConstant(value.Number(1.2), 1); err != nil {
		t.Fatal(err)
	}
	c.Emit(OpNegate, 1)
	c.Emit(OpPrint, 2)
	c.Emit(OpReturn, 2)
	return c
}

func TestDisassemble(t *testing.T) {
	listing := testChunk(t).Disassemble("test chunk")

	for _, want := range []string{
		"=== test chunk ===",
		"Constants:",
		"[  0] 1.2",
		"CONSTANT",
		"(1.2)",
		"NEGATE",
		"PRINT",
		"RETURN",
	} {
		if !strings.Contains(listing, want) {
			t.Errorf("listing missing %q:\n%s", want, listing)
		}
	}

	// Repeated lines collapse to a pipe, first occurrences show the number.
	if !strings.Contains(listing, "   | ") {
		t.Errorf("listing should mark same-line instructions with '|':\n%s", listing)
	}
}

func TestDisassembleUnknownByte(t *testing.T) {
	c := NewChunk()
	c.EmitByte(0xEE, 1)
	c.Emit(OpReturn, 1)

	listing := c.Disassemble("")
	if !strings.Contains(listing, "UNKNOWN(0xEE)") {
		t.Errorf("listing missing unknown marker:\n%s", listing)
	}
	if !strings.Contains(listing, "RETURN") {
		t.Errorf("disassembly should continue past unknown bytes:\n%s", listing)
	}
}

func TestDisassembleTruncatedOperand(t *testing.T) {
	c := NewChunk()
	c.Emit(OpConstant, 1) // operand byte missing

	listing := c.Disassemble("")
	if !strings.Contains(listing, "truncated") {
		t.Errorf("listing missing truncation marker:\n%s", listing)
	}
}

func TestDisassembleInstruction(t *testing.T) {
	c := testChunk(t)

	line, next := c.DisassembleInstruction(0)
	if !strings.Contains(line, "CONSTANT") {
		t.Errorf("instruction at 0 = %q", line)
	}
	if next != 2 {
		t.Errorf("next offset = %d, want 2", next)
	}

	line, next = c.DisassembleInstruction(2)
	if !strings.Contains(line, "NEGATE") || next != 3 {
		t.Errorf("instruction at 2 = %q, next = %d", line, next)
	}
}
