package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing for the chunk.
func (c *Chunk) Disassemble(name string) string {
	var sb strings.Builder

	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}

	if len(c.Constants) > 0 {
		sb.WriteString("; Constants:\n")
		for i, v := range c.Constants {
			sb.WriteString(fmt.Sprintf(";   [%3d] %s\n", i, v))
		}
		sb.WriteString("\n")
	}

	for offset := 0; offset < len(c.Code); {
		offset = c.disassembleInstruction(&sb, offset)
	}

	return sb.String()
}

// DisassembleInstruction returns the listing line for the instruction at
// offset and the offset of the next instruction. Used by the VM trace path.
func (c *Chunk) DisassembleInstruction(offset int) (string, int) {
	var sb strings.Builder
	next := c.disassembleInstruction(&sb, offset)
	return strings.TrimRight(sb.String(), "\n"), next
}

func (c *Chunk) disassembleInstruction(sb *strings.Builder, offset int) int {
	line := c.Line(offset)
	sb.WriteString(fmt.Sprintf("%04x ", offset))
	if offset > 0 && line == c.Line(offset-1) {
		sb.WriteString("   | ")
	} else {
		sb.WriteString(fmt.Sprintf("%4d ", line))
	}

	op := Opcode(c.Code[offset])
	info := GetOpcodeInfo(op)

	if !op.IsDefined() {
		sb.WriteString(info.Name + "\n")
		return offset + 1
	}

	switch op {
	case OpConstant:
		if offset+1 >= len(c.Code) {
			sb.WriteString(fmt.Sprintf("%-16s <truncated operand>\n", info.Name))
			return len(c.Code)
		}
		idx := c.Code[offset+1]
		sb.WriteString(fmt.Sprintf("%-16s %3d", info.Name, idx))
		if int(idx) < len(c.Constants) {
			sb.WriteString(fmt.Sprintf(" (%s)", c.Constants[idx]))
		} else {
			sb.WriteString(" (out of range)")
		}
		sb.WriteString("\n")
	default:
		sb.WriteString(info.Name + "\n")
	}

	return offset + op.InstructionLen()
}
