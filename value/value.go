// Package value provides the runtime value representation shared by the
// bytecode constant pool and the virtual machine.
package value

import (
	"fmt"
	"math"
	"strconv"

	"github.com/fxamacker/cbor/v2"
)

// Value represents an Ember runtime value using NaN-boxing.
//
// All values are 64-bit words. Numbers are native IEEE 754 doubles; nil and
// the booleans are encoded in the quiet-NaN space using tag bits, so any word
// that is not a quiet NaN with our tag prefix is a number.
type Value uint64

const (
	// Quiet NaN prefix: exponent all 1s, quiet bit set, sign bit 0.
	nanBits uint64 = 0x7FF8000000000000

	// Tag bits within the NaN mantissa space.
	tagMask    uint64 = 0x0007000000000000
	tagSpecial uint64 = 0x0003000000000000 // nil, true, false
)

// Special value payloads.
const (
	specialNil   uint64 = 0
	specialTrue  uint64 = 1
	specialFalse uint64 = 2
)

// Pre-defined singleton values.
const (
	NilValue   Value = Value(nanBits | tagSpecial | specialNil)
	TrueValue  Value = Value(nanBits | tagSpecial | specialTrue)
	FalseValue Value = Value(nanBits | tagSpecial | specialFalse)
)

// Number boxes a float64.
func Number(f float64) Value {
	return Value(math.Float64bits(f))
}

// Bool boxes a boolean.
func Bool(b bool) Value {
	if b {
		return TrueValue
	}
	return FalseValue
}

// Nil returns the nil value.
func Nil() Value {
	return NilValue
}

// IsNumber returns true if v is a number.
// This includes regular floats, infinities, and "real" NaN values; only the
// tagged quiet NaNs carrying nil and the booleans are non-numbers.
func (v Value) IsNumber() bool {
	bits := uint64(v)

	if bits&nanBits != nanBits {
		// Not a quiet NaN with sign bit clear: a regular float, an
		// infinity, or a signaling NaN. All are numbers.
		return true
	}

	// Quiet NaN. A zero tag means the hardware produced it (0.0/0.0,
	// math.NaN()); only nonzero tags are ours.
	return bits&tagMask == 0
}

// IsBool returns true if v is true or false.
func (v Value) IsBool() bool {
	return v == TrueValue || v == FalseValue
}

// IsNil returns true if v is nil.
func (v Value) IsNil() bool {
	return v == NilValue
}

// AsNumber unboxes a number. The result is meaningless if v is not a number;
// callers check IsNumber first.
func (v Value) AsNumber() float64 {
	return math.Float64frombits(uint64(v))
}

// AsBool unboxes a boolean. Anything other than the true singleton reads as
// false.
func (v Value) AsBool() bool {
	return v == TrueValue
}

// IsFalsey reports Ember truthiness: nil and false are falsey, every other
// value is truthy.
func (v Value) IsFalsey() bool {
	return v == NilValue || v == FalseValue
}

// Equal compares two values. Numbers compare numerically, so NaN != NaN even
// though the boxed words may match bit-for-bit.
func (v Value) Equal(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		return v.AsNumber() == other.AsNumber()
	}
	return v == other
}

func (v Value) String() string {
	switch {
	case v == NilValue:
		return "nil"
	case v == TrueValue:
		return "true"
	case v == FalseValue:
		return "false"
	case v.IsNumber():
		return strconv.FormatFloat(v.AsNumber(), 'g', -1, 64)
	default:
		return fmt.Sprintf("Value(0x%016x)", uint64(v))
	}
}

// MarshalCBOR encodes the value as a plain CBOR primitive (null, bool or
// float) so wire chunks stay readable by other tooling.
func (v Value) MarshalCBOR() ([]byte, error) {
	switch {
	case v == NilValue:
		return cbor.Marshal(nil)
	case v.IsBool():
		return cbor.Marshal(v.AsBool())
	default:
		return cbor.Marshal(v.AsNumber())
	}
}

// UnmarshalCBOR decodes a CBOR primitive into a boxed value.
func (v *Value) UnmarshalCBOR(data []byte) error {
	var raw interface{}
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = NilValue
	case bool:
		*v = Bool(x)
	case float64:
		*v = Number(x)
	case float32:
		*v = Number(float64(x))
	case int64:
		*v = Number(float64(x))
	case uint64:
		*v = Number(float64(x))
	default:
		return fmt.Errorf("value: cannot decode %T into a runtime value", raw)
	}
	return nil
}
