package bytecode

import (
	"testing"

	"github.com/chazu/ember/value"
)

func TestChunkEmit(t *testing.T) {
	c := NewChunk()

	if off := c.Emit(OpNil, 1); off != 0 {
		t.Errorf("first Emit offset = %d, want 0", off)
	}
	if off := c.Emit(OpReturn, 2); off != 1 {
		t.Errorf("second Emit offset = %d, want 1", off)
	}

	if c.CodeLen() != 2 {
		t.Fatalf("CodeLen = %d, want 2", c.CodeLen())
	}
	if Opcode(c.Code[0]) != OpNil || Opcode(c.Code[1]) != OpReturn {
		t.Error("emitted bytes do not match opcodes")
	}
	if c.Line(0) != 1 || c.Line(1) != 2 {
		t.Errorf("line table = [%d %d], want [1 2]", c.Line(0), c.Line(1))
	}
}

func TestChunkAddConstant(t *testing.T) {
	c := NewChunk()

	idx, err := c.AddConstant(value.Number(1.5))
	if err != nil || idx != 0 {
		t.Fatalf("AddConstant = %d, %v", idx, err)
	}
	idx, err = c.AddConstant(value.Number(2.5))
	if err != nil || idx != 1 {
		t.Fatalf("AddConstant = %d, %v", idx, err)
	}

	// Equal constants are pooled.
	idx, err = c.AddConstant(value.Number(1.5))
	if err != nil || idx != 0 {
		t.Errorf("duplicate AddConstant = %d, %v, want 0", idx, err)
	}
	if c.ConstantCount() != 2 {
		t.Errorf("ConstantCount = %d, want 2", c.ConstantCount())
	}
}

func TestChunkConstantPoolCap(t *testing.T) {
	c := NewChunk()
	for i := 0; i < MaxConstants; i++ {
		if _, err := c.AddConstant(value.Number(float64(i))); err != nil {
			t.Fatalf("AddConstant(%d): %v", i, err)
		}
	}
	if _, err := c.AddConstant(value.Number(99999)); err == nil {
		t.Error("expected error when the pool is full")
	}
}

func TestChunkEmitConstant(t *testing.T) {
	c := NewChunk()
	off, err := c.EmitConstant(value.Number(7), 3)
	if err != nil {
		t.Fatal(err)
	}
	if off != 0 {
		t.Errorf("offset = %d, want 0", off)
	}
	if c.CodeLen() != 2 || Opcode(c.Code[0]) != OpConstant || c.Code[1] != 0 {
		t.Errorf("code = % x, want CONSTANT 00", c.Code)
	}
	if c.Line(1) != 3 {
		t.Errorf("operand line = %d, want 3", c.Line(1))
	}
}

func TestChunkLineOutOfRange(t *testing.T) {
	c := NewChunk()
	if c.Line(-1) != 0 || c.Line(5) != 0 {
		t.Error("out-of-range offsets should report line 0")
	}
}
