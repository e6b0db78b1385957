package vm

import (
	"errors"
	"fmt"
)

// InterpretResult is the three-valued outcome of an Interpret call.
type InterpretResult int

const (
	ResultOK InterpretResult = iota

	// ResultCompileError is reserved for when a compiler front end is
	// attached; nothing in this core returns it.
	ResultCompileError

	ResultRuntimeError
)

func (r InterpretResult) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultCompileError:
		return "compile error"
	case ResultRuntimeError:
		return "runtime error"
	default:
		return fmt.Sprintf("InterpretResult(%d)", int(r))
	}
}

// ErrorKind classifies runtime failures.
type ErrorKind int

const (
	StackOverflow ErrorKind = iota
	StackUnderflow
	UnknownOpcode
	InvalidConstant
	TruncatedCode
	TypeMismatch
	StepLimit
)

func (k ErrorKind) String() string {
	switch k {
	case StackOverflow:
		return "stack overflow"
	case StackUnderflow:
		return "stack underflow"
	case UnknownOpcode:
		return "unknown opcode"
	case InvalidConstant:
		return "invalid constant index"
	case TruncatedCode:
		return "truncated bytecode"
	case TypeMismatch:
		return "type mismatch"
	case StepLimit:
		return "step limit exceeded"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// RuntimeError is a fatal execution failure. It halts the current Interpret
// call; the VM must be Reset before reuse.
type RuntimeError struct {
	Kind   ErrorKind
	Op     string // mnemonic of the instruction being executed, "" if none
	Offset int    // instruction offset where the failure occurred
	Line   int    // source line from the chunk's line table, 0 if unknown
	Detail string // optional extra context
}

func (e *RuntimeError) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Op != "" {
		msg = fmt.Sprintf("%s at %04x (%s)", msg, e.Offset, e.Op)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("%s [line %d]", msg, e.Line)
	}
	return msg
}

// AsRuntimeError unwraps err as a *RuntimeError.
func AsRuntimeError(err error) (*RuntimeError, bool) {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// ResultOf classifies an Interpret error into the three-valued outcome.
func ResultOf(err error) InterpretResult {
	if err == nil {
		return ResultOK
	}
	return ResultRuntimeError
}
