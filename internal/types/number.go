// Numeric type variants. The bitwidth and signedness of a numeric type are
// derived from its canonical name, mirroring the machine-independent naming
// used throughout the compiler ("int32", "uint8", "float64", "complex128").

package types

import (
	"strconv"
	"strings"

	"github.com/tessera-lang/tessera/internal/errors"
)

// BitwidthType is implemented by numeric variants with a fixed bit width.
type BitwidthType interface {
	Type
	Bitwidth() int
}

func parseBitwidth(variant, name, prefix string) int {
	width, err := strconv.Atoi(name[len(prefix):])
	if err != nil {
		panic(errors.InvalidParameter(variant, "cannot derive bitwidth from name "+strconv.Quote(name)))
	}

	switch width {
	case 8, 16, 32, 64, 128:
		return width
	default:
		panic(errors.InvalidParameter(variant, "unsupported bitwidth "+strconv.Itoa(width)))
	}
}

// ====== Boolean ======

// Boolean is the type of truth values.
type Boolean struct {
	typeBase
}

// NewBoolean interns the boolean type.
func NewBoolean(name string) *Boolean {
	return intern(&Boolean{newBase(name, false)})
}

// Cast converts a runtime value to its truth value.
func (t *Boolean) Cast(value any) (any, error) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	if n, ok := toFloat64(value); ok {
		return n != 0, nil
	}

	return nil, errors.CastFailed(t.name, value, "not a boolean or numeric value")
}

// ====== Integer ======

// Integer is a fixed-width signed or unsigned integer type.
type Integer struct {
	numberBase
	bitwidth int
	signed   bool
}

// NewInteger interns an integer type. The name determines signedness and
// bitwidth ("int32", "uint8", ...).
func NewInteger(name string) *Integer {
	var (
		width  int
		signed bool
	)

	switch {
	case strings.HasPrefix(name, "uint"):
		width = parseBitwidth("Integer", name, "uint")
	case strings.HasPrefix(name, "int"):
		width = parseBitwidth("Integer", name, "int")
		signed = true
	default:
		panic(errors.InvalidParameter("Integer", "name must start with int or uint: "+strconv.Quote(name)))
	}

	return intern(&Integer{
		numberBase: numberBase{newBase(name, false)},
		bitwidth:   width,
		signed:     signed,
	})
}

// Bitwidth returns the width of the type in bits.
func (t *Integer) Bitwidth() int { return t.bitwidth }

// Signed reports whether the type is signed.
func (t *Integer) Signed() bool { return t.signed }

// Less orders integers of the same signedness by bitwidth. Integers of
// different signedness are unordered and compare false.
func (t *Integer) Less(other *Integer) bool {
	return t.signed == other.signed && t.bitwidth < other.bitwidth
}

// Cast converts a numeric value to this width, truncating like a machine
// conversion would.
func (t *Integer) Cast(value any) (any, error) {
	if t.signed {
		n, ok := toInt64(value)
		if !ok {
			return nil, errors.CastFailed(t.name, value, "not a numeric value")
		}

		switch t.bitwidth {
		case 8:
			return int8(n), nil
		case 16:
			return int16(n), nil
		case 32:
			return int32(n), nil
		default:
			return n, nil
		}
	}

	n, ok := toUint64(value)
	if !ok {
		return nil, errors.CastFailed(t.name, value, "not a numeric value")
	}

	switch t.bitwidth {
	case 8:
		return uint8(n), nil
	case 16:
		return uint16(n), nil
	case 32:
		return uint32(n), nil
	default:
		return n, nil
	}
}

// ====== Float ======

// Float is a fixed-width floating point type.
type Float struct {
	numberBase
	bitwidth int
}

// NewFloat interns a floating point type ("float32", "float64").
func NewFloat(name string) *Float {
	if !strings.HasPrefix(name, "float") {
		panic(errors.InvalidParameter("Float", "name must start with float: "+strconv.Quote(name)))
	}

	return intern(&Float{
		numberBase: numberBase{newBase(name, false)},
		bitwidth:   parseBitwidth("Float", name, "float"),
	})
}

// Bitwidth returns the width of the type in bits.
func (t *Float) Bitwidth() int { return t.bitwidth }

// Less orders floats by bitwidth.
func (t *Float) Less(other *Float) bool { return t.bitwidth < other.bitwidth }

// Cast converts a numeric value to this float width.
func (t *Float) Cast(value any) (any, error) {
	n, ok := toFloat64(value)
	if !ok {
		return nil, errors.CastFailed(t.name, value, "not a numeric value")
	}

	if t.bitwidth == 32 {
		return float32(n), nil
	}

	return n, nil
}

// ====== Complex ======

// Complex is a fixed-width complex type carrying its underlying float type.
type Complex struct {
	numberBase
	underlying *Float
	bitwidth   int
}

// NewComplex interns a complex type ("complex64", "complex128") with its
// underlying float type.
func NewComplex(name string, underlying *Float) *Complex {
	if !strings.HasPrefix(name, "complex") {
		panic(errors.InvalidParameter("Complex", "name must start with complex: "+strconv.Quote(name)))
	}
	if underlying == nil {
		panic(errors.InvalidParameter("Complex", "nil underlying float type"))
	}

	return intern(&Complex{
		numberBase: numberBase{newBase(name, false)},
		underlying: underlying,
		bitwidth:   parseBitwidth("Complex", name, "complex"),
	})
}

// Bitwidth returns the width of the type in bits.
func (t *Complex) Bitwidth() int { return t.bitwidth }

// Underlying returns the float type of the real and imaginary parts.
func (t *Complex) Underlying() *Float { return t.underlying }

// Less orders complex types by bitwidth.
func (t *Complex) Less(other *Complex) bool { return t.bitwidth < other.bitwidth }

// Cast converts a numeric or complex value to this complex width.
func (t *Complex) Cast(value any) (any, error) {
	var c complex128

	switch v := value.(type) {
	case complex64:
		c = complex128(v)
	case complex128:
		c = v
	default:
		n, ok := toFloat64(value)
		if !ok {
			return nil, errors.CastFailed(t.name, value, "not a numeric or complex value")
		}
		c = complex(n, 0)
	}

	if t.bitwidth == 64 {
		return complex64(c), nil
	}

	return c, nil
}

// ====== Numeric Value Conversion ======

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1, true
		}

		return 0, true
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float32:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func toUint64(value any) (uint64, bool) {
	n, ok := toInt64(value)
	if !ok {
		return 0, false
	}
	if u, isU := value.(uint64); isU {
		return u, true
	}

	return uint64(n), true
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		n, ok := toInt64(value)
		if !ok {
			return 0, false
		}

		return float64(n), true
	}
}
