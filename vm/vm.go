// Package vm implements the Ember virtual machine: a fetch-decode-execute
// loop over a chunk's instruction bytes with a bounded evaluation stack.
package vm

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/ember/bytecode"
	"github.com/chazu/ember/value"
)

// DefaultStackSize is the evaluation stack capacity unless overridden.
const DefaultStackSize = 256

// ctxCheckInterval is how often the dispatch loop polls for cancellation.
const ctxCheckInterval = 1024

// VM executes bytecode chunks.
//
// A VM owns its own stack and instruction pointer, so callers construct one
// per execution session (or reuse one serially). A single VM must not be
// driven from more than one goroutine; independent VMs are safe concurrently.
type VM struct {
	chunk *bytecode.Chunk
	ip    int

	stack []value.Value // fixed-capacity evaluation stack
	sp    int           // stack pointer (next free slot)

	stepLimit int
	trace     bool
	out       io.Writer
	log       commonlog.Logger
}

// Option configures a VM.
type Option func(*VM)

// WithStackSize sets the evaluation stack capacity.
func WithStackSize(n int) Option {
	return func(vm *VM) {
		if n > 0 {
			vm.stack = make([]value.Value, n)
		}
	}
}

// WithStepLimit bounds the number of instructions a single Interpret call may
// execute. Zero means unbounded.
func WithStepLimit(n int) Option {
	return func(vm *VM) {
		vm.stepLimit = n
	}
}

// WithTrace enables per-instruction trace logging at debug level.
func WithTrace(enabled bool) Option {
	return func(vm *VM) {
		vm.trace = enabled
	}
}

// WithOutput redirects OpPrint output. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(vm *VM) {
		vm.out = w
	}
}

// New creates a VM.
func New(opts ...Option) *VM {
	vm := &VM{
		stack: make([]value.Value, DefaultStackSize),
		out:   os.Stdout,
		log:   commonlog.GetLogger("ember.vm"),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Reset clears the VM's execution state. Required after a runtime error
// before the VM is reused; Interpret calls it implicitly on entry.
func (vm *VM) Reset() {
	vm.chunk = nil
	vm.ip = 0
	vm.sp = 0
}

// StackSize returns the evaluation stack capacity.
func (vm *VM) StackSize() int {
	return len(vm.stack)
}

// Stack returns a snapshot of the live evaluation stack, bottom first.
// After a runtime error it shows the state at the point of failure.
func (vm *VM) Stack() []value.Value {
	snapshot := make([]value.Value, vm.sp)
	copy(snapshot, vm.stack[:vm.sp])
	return snapshot
}

// Push appends v at the current top of stack. Pushing onto a full stack is a
// stack overflow runtime error, never a silent overwrite.
func (vm *VM) Push(v value.Value) error {
	if vm.sp >= len(vm.stack) {
		return &RuntimeError{Kind: StackOverflow, Offset: vm.ip}
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

// Pop retreats the top marker and returns the value that was there.
func (vm *VM) Pop() (value.Value, error) {
	if vm.sp <= 0 {
		return value.NilValue, &RuntimeError{Kind: StackUnderflow, Offset: vm.ip}
	}
	vm.sp--
	return vm.stack[vm.sp], nil
}

// peek returns the value distance slots below the top without popping.
func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.sp-1-distance]
}

// Interpret executes the chunk to completion or the first fatal condition.
// A nil error is the success outcome; runtime failures are *RuntimeError.
func (vm *VM) Interpret(c *bytecode.Chunk) error {
	return vm.InterpretContext(context.Background(), c)
}

// InterpretContext is Interpret with cooperative cancellation: the dispatch
// loop polls ctx every few instructions and halts with ctx.Err() when it is
// done. This is the only suspension point the VM has; callers that need a
// wall-clock bound wrap the context, callers that need an instruction bound
// use WithStepLimit.
func (vm *VM) InterpretContext(ctx context.Context, c *bytecode.Chunk) error {
	vm.Reset()
	vm.chunk = c
	return vm.run(ctx)
}

func (vm *VM) run(ctx context.Context) error {
	code := vm.chunk.Code
	steps := 0

	for {
		if vm.ip >= len(code) {
			return vm.errAt(len(code), "", TruncatedCode, "code ended without RETURN")
		}

		base := vm.ip
		op := bytecode.Opcode(code[base])
		vm.ip++

		steps++
		if vm.stepLimit > 0 && steps > vm.stepLimit {
			return vm.errAt(base, op.String(), StepLimit, fmt.Sprintf("budget %d", vm.stepLimit))
		}
		if steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if vm.trace {
			listing, _ := vm.chunk.DisassembleInstruction(base)
			vm.log.Debugf("%s sp=%d %v", listing, vm.sp, vm.Stack())
		}

		var err error

		switch op {
		case bytecode.OpConstant:
			var idx byte
			if idx, err = vm.readByte(); err != nil {
				break
			}
			if int(idx) >= len(vm.chunk.Constants) {
				err = vm.errAt(base, op.String(), InvalidConstant,
					fmt.Sprintf("index %d, pool size %d", idx, len(vm.chunk.Constants)))
				break
			}
			err = vm.Push(vm.chunk.Constants[idx])

		case bytecode.OpNil:
			err = vm.Push(value.NilValue)

		case bytecode.OpTrue:
			err = vm.Push(value.TrueValue)

		case bytecode.OpFalse:
			err = vm.Push(value.FalseValue)

		case bytecode.OpPop:
			_, err = vm.Pop()

		case bytecode.OpEqual:
			var a, b value.Value
			if b, err = vm.Pop(); err != nil {
				break
			}
			if a, err = vm.Pop(); err != nil {
				break
			}
			err = vm.Push(value.Bool(a.Equal(b)))

		case bytecode.OpGreater:
			err = vm.binaryOp(func(a, b float64) value.Value { return value.Bool(a > b) })

		case bytecode.OpLess:
			err = vm.binaryOp(func(a, b float64) value.Value { return value.Bool(a < b) })

		case bytecode.OpAdd:
			err = vm.binaryOp(func(a, b float64) value.Value { return value.Number(a + b) })

		case bytecode.OpSubtract:
			err = vm.binaryOp(func(a, b float64) value.Value { return value.Number(a - b) })

		case bytecode.OpMultiply:
			err = vm.binaryOp(func(a, b float64) value.Value { return value.Number(a * b) })

		case bytecode.OpDivide:
			err = vm.binaryOp(func(a, b float64) value.Value { return value.Number(a / b) })

		case bytecode.OpNot:
			var v value.Value
			if v, err = vm.Pop(); err != nil {
				break
			}
			err = vm.Push(value.Bool(v.IsFalsey()))

		case bytecode.OpNegate:
			if vm.sp < 1 {
				err = &RuntimeError{Kind: StackUnderflow}
				break
			}
			if !vm.peek(0).IsNumber() {
				err = &RuntimeError{Kind: TypeMismatch, Detail: "operand must be a number"}
				break
			}
			v, _ := vm.Pop()
			err = vm.Push(value.Number(-v.AsNumber()))

		case bytecode.OpPrint:
			var v value.Value
			if v, err = vm.Pop(); err != nil {
				break
			}
			fmt.Fprintln(vm.out, v)

		case bytecode.OpReturn:
			return nil

		default:
			err = vm.errAt(base, "", UnknownOpcode, fmt.Sprintf("byte 0x%02x", byte(op)))
		}

		if err != nil {
			return vm.annotate(err, base, op)
		}
	}
}

// readByte fetches the next operand byte, failing on a truncated stream.
func (vm *VM) readByte() (byte, error) {
	if vm.ip >= len(vm.chunk.Code) {
		return 0, &RuntimeError{Kind: TruncatedCode, Detail: "missing operand"}
	}
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b, nil
}

// binaryOp pops two numeric operands and pushes fn(a, b), where b was on top.
func (vm *VM) binaryOp(fn func(a, b float64) value.Value) error {
	if vm.sp < 2 {
		return &RuntimeError{Kind: StackUnderflow}
	}
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return &RuntimeError{Kind: TypeMismatch, Detail: "operands must be numbers"}
	}
	b, _ := vm.Pop()
	a, _ := vm.Pop()
	return vm.Push(fn(a.AsNumber(), b.AsNumber()))
}

// annotate pins a runtime error to the instruction that raised it.
func (vm *VM) annotate(err error, offset int, op bytecode.Opcode) error {
	if re, ok := err.(*RuntimeError); ok {
		if re.Op == "" && re.Kind != UnknownOpcode {
			re.Op = op.String()
		}
		re.Offset = offset
		re.Line = vm.chunk.Line(offset)
	}
	return err
}

// errAt builds a RuntimeError pinned to a specific instruction offset.
func (vm *VM) errAt(offset int, op string, kind ErrorKind, detail string) *RuntimeError {
	line := 0
	if vm.chunk != nil {
		line = vm.chunk.Line(offset)
	}
	return &RuntimeError{Kind: kind, Op: op, Offset: offset, Line: line, Detail: detail}
}
