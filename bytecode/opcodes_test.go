package bytecode

import (
	"strings"
	"testing"
)

func TestAllOpcodesHaveMetadata(t *testing.T) {
	for _, op := range AllOpcodes() {
		info := GetOpcodeInfo(op)
		if info.Name == "" || strings.HasPrefix(info.Name, "UNKNOWN") {
			t.Errorf("opcode 0x%02x has no proper name", byte(op))
		}
		if info.OperandLen < 0 {
			t.Errorf("opcode %s has negative operand length", info.Name)
		}
	}
}

func TestOpcodeNamesAreUnique(t *testing.T) {
	seen := make(map[string]Opcode)
	for _, op := range AllOpcodes() {
		name := op.String()
		if prev, ok := seen[name]; ok {
			t.Errorf("opcodes 0x%02x and 0x%02x share name %q", byte(prev), byte(op), name)
		}
		seen[name] = op
	}
}

func TestUnknownOpcode(t *testing.T) {
	op := Opcode(0xEE)
	if op.IsDefined() {
		t.Fatal("0xEE should not be a defined opcode")
	}
	if got := op.String(); got != "UNKNOWN(0xEE)" {
		t.Errorf("String() = %q", got)
	}
	if op.InstructionLen() != 1 {
		t.Errorf("unknown opcode InstructionLen = %d, want 1", op.InstructionLen())
	}
}

func TestOperandLengths(t *testing.T) {
	if OpConstant.OperandLen() != 1 {
		t.Errorf("CONSTANT operand length = %d, want 1", OpConstant.OperandLen())
	}
	if OpConstant.InstructionLen() != 2 {
		t.Errorf("CONSTANT instruction length = %d, want 2", OpConstant.InstructionLen())
	}
	if OpReturn.OperandLen() != 0 {
		t.Errorf("RETURN operand length = %d, want 0", OpReturn.OperandLen())
	}
}
